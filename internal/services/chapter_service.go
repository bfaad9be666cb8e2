// internal/services/chapter_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	apperrors "github.com/tuanphong15032005/WebTruyen-sub000/internal/errors"
	"github.com/tuanphong15032005/WebTruyen-sub000/internal/models"
	"github.com/tuanphong15032005/WebTruyen-sub000/internal/storage"
	"github.com/tuanphong15032005/WebTruyen-sub000/internal/utils"
)

// ChapterService handles manual chapter saves. A successful save is the one
// event that destroys the chapter's drafts, both server-side and (via the
// response) in the editing session.
type ChapterService struct {
	files    *storage.FileStorage
	drafts   *DraftService
	validate *validator.Validate
	now      func() time.Time
	newID    func() string
}

// NewChapterService creates a chapter service storing chapters as JSON files
// under {dataDir}/chapters.
func NewChapterService(dataDir string, drafts *DraftService) (*ChapterService, error) {
	files, err := storage.NewFileStorage(filepath.Join(dataDir, "chapters"))
	if err != nil {
		return nil, fmt.Errorf("failed to create chapter storage: %w", err)
	}

	return &ChapterService{
		files:    files,
		drafts:   drafts,
		validate: validator.New(),
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}, nil
}

func chapterDir(storyID, volumeID string) string {
	return filepath.Join(storyID, volumeID)
}

// ValidateInput applies the manual-save rules: title and content required,
// and a paid chapter needs a positive, finite price. Autosave deliberately
// bypasses these rules and persists incomplete drafts.
func (s *ChapterService) ValidateInput(input *models.ChapterInput) error {
	fields := map[string]string{}

	if err := s.validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				switch fe.Field() {
				case "Title":
					fields["title"] = "title is required"
				case "ContentHTML":
					fields["contentHtml"] = "chapter content is required"
				case "Status":
					fields["status"] = "status must be draft, published or archived"
				}
			}
		} else {
			return apperrors.NewProcessingError("failed to validate chapter", err)
		}
	}

	if !input.IsFree {
		switch {
		case input.PriceCoin == nil:
			fields["priceCoin"] = "a paid chapter needs a price"
		case math.IsNaN(*input.PriceCoin):
			fields["priceCoin"] = "price must be a number"
		case *input.PriceCoin <= 0:
			fields["priceCoin"] = "price must be greater than zero"
		}
	}

	if len(fields) > 0 {
		return apperrors.NewValidationError("chapter cannot be saved", fields)
	}
	return nil
}

// CreateChapter validates and persists a brand-new chapter, then clears the
// author's drafts for it, including the "new chapter" bucket the editor used
// before the chapter had an id.
func (s *ChapterService) CreateChapter(ctx context.Context, authorID, storyID, volumeID string, input *models.ChapterInput) (*models.Chapter, error) {
	if err := s.ValidateInput(input); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	chapter := &models.Chapter{
		ID:        s.newID(),
		StoryID:   storyID,
		VolumeID:  volumeID,
		AuthorID:  authorID,
		CreatedAt: now,
	}
	s.applyInput(chapter, input, now)

	if err := s.files.SaveJSONFile(chapterDir(storyID, volumeID), chapter.ID+".json", chapter); err != nil {
		return nil, apperrors.NewStorageError("failed to save chapter", err)
	}

	s.clearDrafts(ctx, authorID, models.DraftKey{StoryID: storyID, VolumeID: volumeID, ChapterID: chapter.ID})

	return chapter, nil
}

// UpdateChapter validates and persists an existing chapter, then clears its
// drafts.
func (s *ChapterService) UpdateChapter(ctx context.Context, authorID, storyID, volumeID, chapterID string, input *models.ChapterInput) (*models.Chapter, error) {
	if err := s.ValidateInput(input); err != nil {
		return nil, err
	}

	chapter, err := s.GetChapter(ctx, storyID, volumeID, chapterID)
	if err != nil {
		return nil, err
	}
	if chapter.AuthorID != "" && chapter.AuthorID != authorID {
		return nil, apperrors.NewUnauthorizedError("chapter belongs to another author")
	}

	s.applyInput(chapter, input, s.now().UTC())

	if err := s.files.SaveJSONFile(chapterDir(storyID, volumeID), chapterID+".json", chapter); err != nil {
		return nil, apperrors.NewStorageError("failed to save chapter", err)
	}

	s.clearDrafts(ctx, authorID, models.DraftKey{StoryID: storyID, VolumeID: volumeID, ChapterID: chapterID})

	return chapter, nil
}

// GetChapter loads a chapter by id.
func (s *ChapterService) GetChapter(ctx context.Context, storyID, volumeID, chapterID string) (*models.Chapter, error) {
	if !s.files.FileExists(chapterDir(storyID, volumeID), chapterID+".json") {
		return nil, apperrors.NewNotFoundError("chapter does not exist")
	}

	var chapter models.Chapter
	if err := s.files.LoadJSONFile(chapterDir(storyID, volumeID), chapterID+".json", &chapter); err != nil {
		return nil, apperrors.NewStorageError("failed to load chapter", err)
	}
	return &chapter, nil
}

func (s *ChapterService) applyInput(chapter *models.Chapter, input *models.ChapterInput, now time.Time) {
	chapter.Title = input.Title
	chapter.IsFree = input.IsFree
	chapter.PriceCoin = input.PriceCoin
	if input.IsFree {
		chapter.PriceCoin = nil
	}
	chapter.Status = models.ChapterStatus(input.Status)
	if chapter.Status == "" {
		chapter.Status = models.StatusDraft
	}
	chapter.ContentHTML = input.ContentHTML
	chapter.ContentDelta = input.ContentDelta
	chapter.UpdatedAt = now
}

// clearDrafts removes the chapter-scoped draft and the "new chapter" bucket
// it may have started in. Failures are logged and swallowed; losing the
// cleanup only means the author sees a stale restore offer once.
func (s *ChapterService) clearDrafts(ctx context.Context, authorID string, key models.DraftKey) {
	for _, k := range []models.DraftKey{key, key.NewBucket()} {
		if err := s.drafts.DeleteDraft(ctx, authorID, k); err != nil {
			utils.GetLogger().Warn("failed to clear draft after manual save", map[string]interface{}{
				"key": k.String(),
				"err": err.Error(),
			})
		}
	}
}

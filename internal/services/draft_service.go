// internal/services/draft_service.go
package services

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/tuanphong15032005/WebTruyen-sub000/internal/errors"
	"github.com/tuanphong15032005/WebTruyen-sub000/internal/models"
	"github.com/tuanphong15032005/WebTruyen-sub000/internal/storage"
	"github.com/tuanphong15032005/WebTruyen-sub000/internal/utils"
)

// DraftNotifier receives a signal after a draft write lands, so other open
// editor sessions for the same chapter can learn their copy is stale.
type DraftNotifier interface {
	DraftSaved(chapterID string, updatedAt time.Time)
}

// DraftService owns server-side draft persistence. Drafts are opaque to the
// service: the editor uploads a JSON-encoded snapshot and reads it back
// verbatim. Last write wins.
type DraftService struct {
	store    storage.DraftStore
	notifier DraftNotifier
	now      func() time.Time
}

// NewDraftService creates a draft service on top of a store.
func NewDraftService(store storage.DraftStore) *DraftService {
	return &DraftService{
		store: store,
		now:   time.Now,
	}
}

// SetNotifier attaches the live-update hub. Optional.
func (s *DraftService) SetNotifier(n DraftNotifier) {
	s.notifier = n
}

// GetDraft returns the stored draft for the key, or an empty resource with
// HasDraft=false when none exists.
func (s *DraftService) GetDraft(ctx context.Context, authorID string, key models.DraftKey) (*models.ServerDraft, error) {
	rec, err := s.store.Get(ctx, authorID, key)
	if err != nil {
		if errors.Is(err, storage.ErrDraftNotFound) {
			return &models.ServerDraft{HasDraft: false}, nil
		}
		return nil, apperrors.NewStorageError("failed to load draft", err)
	}

	return &models.ServerDraft{
		HasDraft:  true,
		Content:   rec.Content,
		UpdatedAt: rec.UpdatedAt,
	}, nil
}

// SaveDraft upserts the draft and returns the server-side persistence time.
// The client's own timestamp is logged for drift diagnosis but the server
// clock is authoritative for the stored record.
func (s *DraftService) SaveDraft(ctx context.Context, authorID string, key models.DraftKey, req *models.SaveDraftRequest) (time.Time, error) {
	if req.DraftContent == "" {
		return time.Time{}, apperrors.NewValidationError("draft content is required", map[string]string{
			"draftContent": "draft content must not be empty",
		})
	}

	updatedAt := s.now().UTC()

	rec := &storage.DraftRecord{
		AuthorID:  authorID,
		StoryID:   key.StoryID,
		VolumeID:  key.VolumeID,
		ChapterID: key.ChapterID,
		Content:   req.DraftContent,
		UpdatedAt: updatedAt,
	}
	if err := s.store.Put(ctx, rec); err != nil {
		return time.Time{}, apperrors.NewStorageError("failed to save draft", err)
	}

	if !req.UpdatedAtClient.IsZero() {
		drift := updatedAt.Sub(req.UpdatedAtClient)
		if drift > time.Minute || drift < -time.Minute {
			utils.GetLogger().Warn("client draft clock drifts from server", map[string]interface{}{
				"key":   key.String(),
				"drift": drift.String(),
			})
		}
	}

	if s.notifier != nil && !key.IsNew() {
		s.notifier.DraftSaved(key.ChapterID, updatedAt)
	}

	return updatedAt, nil
}

// DeleteDraft removes the draft for the key. Deleting a missing draft is not
// an error; this is the best-effort cleanup path after a manual save.
func (s *DraftService) DeleteDraft(ctx context.Context, authorID string, key models.DraftKey) error {
	if err := s.store.Delete(ctx, authorID, key); err != nil {
		return apperrors.NewStorageError("failed to delete draft", err)
	}
	return nil
}

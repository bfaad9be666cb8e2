// internal/storage/file_store.go
package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tuanphong15032005/WebTruyen-sub000/internal/models"
)

// FileDraftStore persists drafts as JSON files under
// {dataDir}/drafts/{encoded authorID}/, one file per chapter key.
type FileDraftStore struct {
	files *FileStorage
}

// NewFileDraftStore creates the drafts directory under dataDir.
func NewFileDraftStore(dataDir string) (*FileDraftStore, error) {
	files, err := NewFileStorage(filepath.Join(dataDir, "drafts"))
	if err != nil {
		return nil, fmt.Errorf("failed to create draft storage: %w", err)
	}
	return &FileDraftStore{files: files}, nil
}

// draftFilename flattens the draft key into a filesystem-safe name.
func draftFilename(key models.DraftKey) string {
	return strings.ReplaceAll(key.String(), ":", "_") + ".json"
}

func (s *FileDraftStore) Get(ctx context.Context, authorID string, key models.DraftKey) (*DraftRecord, error) {
	dir := encodeAuthorID(authorID)
	if !s.files.FileExists(dir, draftFilename(key)) {
		return nil, ErrDraftNotFound
	}

	var rec DraftRecord
	if err := s.files.LoadJSONFile(dir, draftFilename(key), &rec); err != nil {
		// A corrupt draft file is treated as absence, never surfaced.
		return nil, ErrDraftNotFound
	}
	return &rec, nil
}

func (s *FileDraftStore) Put(ctx context.Context, rec *DraftRecord) error {
	key := models.DraftKey{StoryID: rec.StoryID, VolumeID: rec.VolumeID, ChapterID: rec.ChapterID}
	return s.files.SaveJSONFile(encodeAuthorID(rec.AuthorID), draftFilename(key), rec)
}

func (s *FileDraftStore) Delete(ctx context.Context, authorID string, key models.DraftKey) error {
	dir := encodeAuthorID(authorID)
	if !s.files.FileExists(dir, draftFilename(key)) {
		return nil
	}
	return s.files.DeleteFile(dir, draftFilename(key))
}

func (s *FileDraftStore) Close() error {
	return nil
}

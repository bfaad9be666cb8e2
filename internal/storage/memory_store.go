// internal/storage/memory_store.go
package storage

import (
	"context"
	"sync"

	"github.com/tuanphong15032005/WebTruyen-sub000/internal/models"
)

// MemoryDraftStore keeps drafts in a map. Used by tests and as the fallback
// when no durable storage is configured.
type MemoryDraftStore struct {
	mu     sync.RWMutex
	drafts map[string]*DraftRecord
}

// NewMemoryDraftStore creates an empty in-memory store.
func NewMemoryDraftStore() *MemoryDraftStore {
	return &MemoryDraftStore{
		drafts: make(map[string]*DraftRecord),
	}
}

func memoryKey(authorID string, key models.DraftKey) string {
	// The author segment is encoded so an id containing "/" cannot forge
	// another author's map key.
	return encodeAuthorID(authorID) + "/" + key.String()
}

func (s *MemoryDraftStore) Get(ctx context.Context, authorID string, key models.DraftKey) (*DraftRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.drafts[memoryKey(authorID, key)]
	if !ok {
		return nil, ErrDraftNotFound
	}

	copied := *rec
	return &copied, nil
}

func (s *MemoryDraftStore) Put(ctx context.Context, rec *DraftRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := models.DraftKey{StoryID: rec.StoryID, VolumeID: rec.VolumeID, ChapterID: rec.ChapterID}
	copied := *rec
	s.drafts[memoryKey(rec.AuthorID, key)] = &copied
	return nil
}

func (s *MemoryDraftStore) Delete(ctx context.Context, authorID string, key models.DraftKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.drafts, memoryKey(authorID, key))
	return nil
}

func (s *MemoryDraftStore) Close() error {
	return nil
}

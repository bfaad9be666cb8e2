// internal/editor/localstore.go
package editor

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/tuanphong15032005/WebTruyen-sub000/internal/models"
	"github.com/tuanphong15032005/WebTruyen-sub000/internal/utils"
)

// LocalDraftStore is the same-device draft cache, one JSON file per draft
// key under a directory the session owns. It works with no network and no
// credentials, which is the whole point.
type LocalDraftStore struct {
	dir   string
	clock Clock
}

// NewLocalDraftStore creates the cache directory if needed.
func NewLocalDraftStore(dir string) (*LocalDraftStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &LocalDraftStore{dir: dir, clock: RealClock{}}, nil
}

func (s *LocalDraftStore) path(key models.DraftKey) string {
	return filepath.Join(s.dir, strings.ReplaceAll(key.String(), ":", "_")+".json")
}

// Save writes the envelope synchronously. Failures are logged and swallowed;
// the caller has no recovery better than trying again on the next tick.
func (s *LocalDraftStore) Save(key models.DraftKey, snap models.DraftSnapshot, source models.DraftSource) {
	rec := models.StoredDraftRecord{
		SavedAt: s.clock.Now(),
		Source:  source,
		Payload: snap,
	}

	data, err := json.Marshal(rec)
	if err == nil {
		err = os.WriteFile(s.path(key), data, 0644)
	}
	if err != nil {
		utils.GetLogger().Warn("local draft write failed", map[string]interface{}{
			"key": key.String(),
			"err": err.Error(),
		})
	}
}

// Read returns the stored record, or nil when the entry is missing or
// malformed. Corrupt cache entries are absence, never errors.
func (s *LocalDraftStore) Read(key models.DraftKey) *models.StoredDraftRecord {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return nil
	}

	var rec models.StoredDraftRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil
	}

	rec.Payload = rec.Payload.Normalize()
	return &rec
}

// Clear removes the entry and the story/volume-scoped "new chapter" bucket:
// a saved chapter may have started life as an unsaved draft there.
func (s *LocalDraftStore) Clear(key models.DraftKey) {
	os.Remove(s.path(key))
	if !key.IsNew() {
		os.Remove(s.path(key.NewBucket()))
	}
}

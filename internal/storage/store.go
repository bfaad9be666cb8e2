// internal/storage/store.go
package storage

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/tuanphong15032005/WebTruyen-sub000/internal/config"
	"github.com/tuanphong15032005/WebTruyen-sub000/internal/models"
	"github.com/tuanphong15032005/WebTruyen-sub000/internal/utils"
)

// ErrDraftNotFound is returned by Get when no draft exists for the key.
var ErrDraftNotFound = errors.New("draft not found")

// encodeAuthorID flattens the opaque author credential into a single
// path-safe segment. The auth middleware already rejects separators and dot
// segments, but stores never trust that: a hostile author id must not be able
// to address anything outside its own slot.
func encodeAuthorID(authorID string) string {
	escaped := url.PathEscape(authorID)
	switch escaped {
	case "":
		// PathEscape never emits a bare %00, so this cannot collide.
		return "%00"
	case ".":
		return "%2E"
	case "..":
		return "%2E%2E"
	}
	return escaped
}

// DraftRecord is the server-side draft row. Content is the JSON-encoded
// snapshot exactly as the editor uploaded it; the server never parses it.
type DraftRecord struct {
	AuthorID  string    `json:"author_id"`
	StoryID   string    `json:"story_id"`
	VolumeID  string    `json:"volume_id"`
	ChapterID string    `json:"chapter_id"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DraftStore persists one draft per (author, chapter). Last write wins; there
// is no concurrency token.
type DraftStore interface {
	Get(ctx context.Context, authorID string, key models.DraftKey) (*DraftRecord, error)
	Put(ctx context.Context, rec *DraftRecord) error
	Delete(ctx context.Context, authorID string, key models.DraftKey) error
	Close() error
}

// Open selects a draft store implementation from the configuration.
func Open(cfg *config.Config) (DraftStore, error) {
	logger := utils.GetLogger()

	switch cfg.StorageType {
	case "sqlite":
		logger.Info("using sqlite draft store", map[string]interface{}{"path": cfg.SQLitePath})
		return NewSQLiteDraftStore(cfg.SQLitePath)
	case "memory":
		logger.Info("using in-memory draft store", nil)
		return NewMemoryDraftStore(), nil
	default:
		logger.Info("using file draft store", map[string]interface{}{"dir": cfg.DataDir})
		return NewFileDraftStore(cfg.DataDir)
	}
}

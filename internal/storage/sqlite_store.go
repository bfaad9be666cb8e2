// internal/storage/sqlite_store.go
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tuanphong15032005/WebTruyen-sub000/internal/models"
)

// SQLiteDraftStore keeps drafts in a single sqlite table keyed by
// (author, story, volume, chapter). The empty chapter id encodes the
// "new chapter" bucket.
type SQLiteDraftStore struct {
	db *sql.DB
}

// NewSQLiteDraftStore opens (and if needed creates) the drafts database.
func NewSQLiteDraftStore(dataSourceName string) (*SQLiteDraftStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS chapter_drafts (
		author_id  TEXT NOT NULL,
		story_id   TEXT NOT NULL,
		volume_id  TEXT NOT NULL,
		chapter_id TEXT NOT NULL DEFAULT '',
		content    TEXT NOT NULL,
		updated_at INTEGER NOT NULL,
		PRIMARY KEY (author_id, story_id, volume_id, chapter_id)
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create drafts table: %w", err)
	}

	return &SQLiteDraftStore{db: db}, nil
}

func (s *SQLiteDraftStore) Get(ctx context.Context, authorID string, key models.DraftKey) (*DraftRecord, error) {
	var rec DraftRecord
	var updatedAt int64

	err := s.db.QueryRowContext(ctx,
		`SELECT author_id, story_id, volume_id, chapter_id, content, updated_at
		 FROM chapter_drafts
		 WHERE author_id = ? AND story_id = ? AND volume_id = ? AND chapter_id = ?`,
		authorID, key.StoryID, key.VolumeID, key.ChapterID,
	).Scan(&rec.AuthorID, &rec.StoryID, &rec.VolumeID, &rec.ChapterID, &rec.Content, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrDraftNotFound
		}
		return nil, fmt.Errorf("failed to query draft: %w", err)
	}

	rec.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return &rec, nil
}

func (s *SQLiteDraftStore) Put(ctx context.Context, rec *DraftRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chapter_drafts (author_id, story_id, volume_id, chapter_id, content, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(author_id, story_id, volume_id, chapter_id)
		 DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at`,
		rec.AuthorID, rec.StoryID, rec.VolumeID, rec.ChapterID, rec.Content, rec.UpdatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to upsert draft: %w", err)
	}
	return nil
}

func (s *SQLiteDraftStore) Delete(ctx context.Context, authorID string, key models.DraftKey) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM chapter_drafts
		 WHERE author_id = ? AND story_id = ? AND volume_id = ? AND chapter_id = ?`,
		authorID, key.StoryID, key.VolumeID, key.ChapterID)
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}

func (s *SQLiteDraftStore) Close() error {
	return s.db.Close()
}

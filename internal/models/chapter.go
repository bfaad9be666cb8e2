// internal/models/chapter.go
package models

import "time"

// Chapter is the persisted, manually-saved form of a chapter. Drafts are the
// unsaved shadow of this record and are deleted once a manual save lands.
type Chapter struct {
	ID           string        `json:"id"`
	StoryID      string        `json:"story_id"`
	VolumeID     string        `json:"volume_id"`
	AuthorID     string        `json:"author_id"`
	Title        string        `json:"title"`
	IsFree       bool          `json:"is_free"`
	PriceCoin    *float64      `json:"price_coin"`
	Status       ChapterStatus `json:"status"`
	ContentHTML  string        `json:"content_html"`
	ContentDelta string        `json:"content_delta"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// ChapterInput carries the fields an author submits on manual save.
// Price rules are enforced at save time only; autosave persists drafts as-is.
type ChapterInput struct {
	Title        string   `json:"title" validate:"required"`
	IsFree       bool     `json:"isFree"`
	PriceCoin    *float64 `json:"priceCoin"`
	Status       string   `json:"status" validate:"omitempty,oneof=draft published archived"`
	ContentHTML  string   `json:"contentHtml" validate:"required"`
	ContentDelta string   `json:"contentDelta"`
}

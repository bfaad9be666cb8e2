// internal/models/draft.go
package models

import (
	"fmt"
	"time"
)

// DraftSource tags where a stored draft came from. Informational only.
type DraftSource string

const (
	SourceAutosave  DraftSource = "autosave"
	SourceExit      DraftSource = "exit"
	SourceLocalOnly DraftSource = "local-only"
	SourceManual    DraftSource = "manual"
	SourceServer    DraftSource = "server"
)

// ChapterStatus is the publication state of a chapter.
type ChapterStatus string

const (
	StatusDraft     ChapterStatus = "draft"
	StatusPublished ChapterStatus = "published"
	StatusArchived  ChapterStatus = "archived"
)

// DraftSnapshot is a point-in-time capture of the chapter editor's fields.
type DraftSnapshot struct {
	Title        string        `json:"title"`
	IsFree       bool          `json:"isFree"`
	PriceCoin    *float64      `json:"priceCoin"`
	Status       ChapterStatus `json:"status"`
	ContentHTML  string        `json:"contentHtml"`
	ContentDelta string        `json:"contentDelta"`
	SavedAt      time.Time     `json:"savedAt"`
}

// Normalize enforces the pricing invariant: a free chapter carries no price.
// Callers apply it on every read path so stale editor values never leak out.
func (s DraftSnapshot) Normalize() DraftSnapshot {
	if s.IsFree {
		s.PriceCoin = nil
	}
	return s
}

// StoredDraftRecord is the envelope persisted around a snapshot. SavedAt is the
// persistence-time clock and may differ from the snapshot's own SavedAt.
type StoredDraftRecord struct {
	SavedAt time.Time     `json:"savedAt"`
	Source  DraftSource   `json:"source"`
	Payload DraftSnapshot `json:"payload"`
}

// EffectiveSavedAt is the timestamp used when comparing draft candidates.
// The envelope and the payload are stamped at slightly different moments;
// the later of the two wins.
func (r StoredDraftRecord) EffectiveSavedAt() time.Time {
	if r.Payload.SavedAt.After(r.SavedAt) {
		return r.Payload.SavedAt
	}
	return r.SavedAt
}

// DraftKey identifies the draft slot for one chapter editing session.
// A chapter that does not exist server-side yet has an empty ChapterID and
// lives in a story/volume-scoped "new" bucket.
type DraftKey struct {
	StoryID   string
	VolumeID  string
	ChapterID string
}

// IsNew reports whether the chapter has not been created server-side yet.
func (k DraftKey) IsNew() bool {
	return k.ChapterID == ""
}

// NewBucket returns the key of the "new chapter" slot for the same story and
// volume. Drafts started before the chapter existed were written there.
func (k DraftKey) NewBucket() DraftKey {
	return DraftKey{StoryID: k.StoryID, VolumeID: k.VolumeID}
}

// String renders the storage key, matching the reader-app key layout:
// chapter-draft:{storyId}:{volumeId}:{chapterId} for known chapters and
// chapter-draft:new:{storyId}:{volumeId} before the chapter exists.
func (k DraftKey) String() string {
	if k.IsNew() {
		return fmt.Sprintf("chapter-draft:new:%s:%s", k.StoryID, k.VolumeID)
	}
	return fmt.Sprintf("chapter-draft:%s:%s:%s", k.StoryID, k.VolumeID, k.ChapterID)
}

// ServerDraft is the wire shape of the backend draft resource.
type ServerDraft struct {
	HasDraft  bool      `json:"hasDraft"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SaveDraftRequest is the PUT body for the draft endpoint. Content is the
// JSON-encoded snapshot exactly as the editor produced it.
type SaveDraftRequest struct {
	DraftContent    string    `json:"draftContent" binding:"required"`
	UpdatedAtClient time.Time `json:"updatedAtClient"`
}

// SaveDraftResponse reports the server-side persistence time.
type SaveDraftResponse struct {
	UpdatedAt time.Time `json:"updatedAt"`
}

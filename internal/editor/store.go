// internal/editor/store.go
package editor

import "github.com/tuanphong15032005/WebTruyen-sub000/internal/models"

// DraftStore is the persistence capability the session depends on. The local
// cache implements it directly; the remote side is wrapped by the session so
// its failures can fall back here.
//
// Semantics follow the editing UX, not Go convention: Save and Clear swallow
// failures (a lost cache write degrades to a weaker guarantee, never to a
// user-facing error) and Read treats malformed data as absence.
type DraftStore interface {
	Save(key models.DraftKey, snap models.DraftSnapshot, source models.DraftSource)
	Read(key models.DraftKey) *models.StoredDraftRecord
	Clear(key models.DraftKey)
}

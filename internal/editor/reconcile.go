// internal/editor/reconcile.go
package editor

import (
	"context"
	"encoding/json"

	"github.com/tuanphong15032005/WebTruyen-sub000/internal/models"
)

// CompleteInitialLoad is called once the rich-text editor is ready and, in
// edit mode, the chapter content has finished loading. It runs the restore
// check exactly once, then opens the session for autosave.
//
// If a candidate draft is found and the host confirms, the snapshot is
// applied to the editor and the session is marked dirty so the next tick
// persists the restored state. Declining changes nothing and discards
// nothing.
func (s *Session) CompleteInitialLoad(ctx context.Context) {
	s.mu.Lock()
	if s.state.DraftChecked {
		s.mu.Unlock()
		return
	}
	s.state.DraftChecked = true
	s.mu.Unlock()

	applied := false
	if offer := s.findRestorable(ctx); offer != nil {
		if s.confirm != nil && s.confirm(*offer) {
			s.editor.Apply(offer.Snapshot.Normalize())
			applied = true
		}
	}

	s.mu.Lock()
	if s.state.Phase == PhaseLoading {
		s.state.Phase = PhaseClean
	}
	if applied {
		s.state.Phase = PhaseDirty
	}
	s.mu.Unlock()
}

// findRestorable gathers the local and remote draft candidates and picks the
// strictly newer one. Equal timestamps, or no candidates at all, offer
// nothing. A remote fetch failure just means there is no remote candidate.
func (s *Session) findRestorable(ctx context.Context) *RestoreOffer {
	s.mu.Lock()
	key := s.key
	s.mu.Unlock()

	var local *RestoreOffer
	if rec := s.local.Read(key); rec != nil {
		local = &RestoreOffer{
			Source:   "local",
			SavedAt:  rec.EffectiveSavedAt(),
			Snapshot: rec.Payload.Normalize(),
		}
	}

	var remote *RestoreOffer
	if !key.IsNew() && s.remote != nil && s.remote.HasToken() {
		if draft, err := s.remote.FetchDraft(ctx, key); err == nil && draft.HasDraft {
			var snap models.DraftSnapshot
			if json.Unmarshal([]byte(draft.Content), &snap) == nil {
				savedAt := draft.UpdatedAt
				if savedAt.IsZero() {
					savedAt = snap.SavedAt
				}
				remote = &RestoreOffer{
					Source:   "server",
					SavedAt:  savedAt,
					Snapshot: snap.Normalize(),
				}
			}
		}
	}

	switch {
	case local == nil && remote == nil:
		return nil
	case remote == nil:
		return local
	case local == nil:
		return remote
	case remote.SavedAt.After(local.SavedAt):
		return remote
	case local.SavedAt.After(remote.SavedAt):
		return local
	default:
		// Same instant on both sides: ambiguous, offer neither.
		return nil
	}
}

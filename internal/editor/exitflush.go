// internal/editor/exitflush.go
package editor

import (
	"context"
	"encoding/json"
	"time"

	"github.com/tuanphong15032005/WebTruyen-sub000/internal/models"
)

func contextWithFlushTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

// ExitFlush is the last-chance persistence hook for tab close and
// navigation-away. The local write is synchronous and completes before this
// returns; the network writes are fired and forgotten.
//
// The return value reports whether a local write happened. Hosts use it to
// raise the "leave page?" prompt, buying the async writes a moment to
// dispatch. That is a heuristic, not a durability guarantee.
func (s *Session) ExitFlush() bool {
	s.mu.Lock()
	state := s.state
	key := s.key
	s.mu.Unlock()

	if state.ManuallySaved || state.Phase == PhaseLoading {
		return false
	}
	if state.Phase != PhaseDirty && state.Phase != PhaseSaving {
		return false
	}

	snap := BuildSnapshot(s.editor.Fields(), s.clock.Now())
	if !Meaningful(snap) {
		return false
	}

	s.local.Save(key, snap, models.SourceExit)

	if !key.IsNew() && s.remote != nil && s.remote.HasToken() {
		if content, err := json.Marshal(snap); err == nil {
			// Two transports for one advisory write: a regular request that
			// may survive the unload, and the beacon variant that usually
			// does. Neither is awaited.
			go func() {
				ctx, cancel := contextWithFlushTimeout()
				defer cancel()
				s.remote.SaveDraft(ctx, key, string(content), snap.SavedAt)
			}()
			go s.remote.SendBeacon(key, string(content), snap.SavedAt)
		}
	}

	return true
}

// internal/editor/session.go
package editor

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tuanphong15032005/WebTruyen-sub000/internal/models"
	"github.com/tuanphong15032005/WebTruyen-sub000/internal/utils"
)

// Phase is the autosave state of an editing session.
type Phase int

const (
	// PhaseLoading covers editor startup until the initial content and the
	// draft-restore check have both finished. Nothing is persisted before
	// that, so a restore can never race the initial hydration.
	PhaseLoading Phase = iota
	// PhaseClean means the editor matches the last persisted state.
	PhaseClean
	// PhaseDirty means there are edits no save attempt has picked up yet.
	PhaseDirty
	// PhaseSaving means one save attempt is in flight. Ticks that land in
	// this phase are dropped, not queued.
	PhaseSaving
)

// SessionState is the session's mutable flags as one value, readable for
// tests and the exit-flush guard.
type SessionState struct {
	Phase Phase

	// ManuallySaved is set once a manual chapter save succeeds. It
	// permanently disables autosave and exit-flush for this session.
	ManuallySaved bool

	// DraftChecked gates the restore prompt to at most once per session.
	DraftChecked bool
}

// Editor is what the session needs from the host UI: read the current form
// fields, and apply a restored snapshot back onto them.
type Editor interface {
	Fields() Fields
	Apply(snap models.DraftSnapshot)
}

// StatusEvent feeds the passive "draft saved ..." status line.
type StatusEvent struct {
	Destination string // "local" or "server"
	SavedAt     time.Time
}

// RestoreOffer describes the draft candidate picked by reconciliation.
type RestoreOffer struct {
	Source   string // "local" or "server"
	SavedAt  time.Time
	Snapshot models.DraftSnapshot
}

// Options tunes a session. Zero values pick the defaults.
type Options struct {
	// Interval between autosave ticks. Defaults to 10 seconds.
	Interval time.Duration

	Clock Clock

	// Confirm decides whether an offered draft is restored. Nil declines
	// every offer.
	Confirm func(RestoreOffer) bool

	// OnStatus observes completed saves. Optional.
	OnStatus func(StatusEvent)
}

// Session drives draft persistence for one chapter being edited: the
// autosave ticker, the restore check, manual-save bookkeeping and the
// exit-time flush. Start acquires the ticker, Stop releases it; callers
// guarantee Stop runs on every exit path.
type Session struct {
	id       string
	editor   Editor
	local    DraftStore
	remote   *Client
	clock    Clock
	interval time.Duration
	confirm  func(RestoreOffer) bool
	onStatus func(StatusEvent)

	mu       sync.Mutex
	key      models.DraftKey
	state    SessionState
	inFlight bool

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewSession builds a session for the given draft slot. remote may be nil
// for a purely offline editor.
func NewSession(key models.DraftKey, ed Editor, local DraftStore, remote *Client, opts Options) *Session {
	if opts.Interval <= 0 {
		opts.Interval = 10 * time.Second
	}
	if opts.Clock == nil {
		opts.Clock = RealClock{}
	}

	return &Session{
		id:       uuid.New().String(),
		editor:   ed,
		local:    local,
		remote:   remote,
		clock:    opts.Clock,
		interval: opts.Interval,
		confirm:  opts.Confirm,
		onStatus: opts.OnStatus,
		key:      key,
		state:    SessionState{Phase: PhaseLoading},
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// ID identifies the session in logs.
func (s *Session) ID() string { return s.id }

// Key returns the current draft slot. It changes once when a new chapter is
// created server-side mid-session.
func (s *Session) Key() models.DraftKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.key
}

// State returns a copy of the session flags.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start launches the autosave ticker for the mounted editor.
func (s *Session) Start() {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		defer close(s.done)

		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				s.autosaveTick()
			}
		}
	}()
}

// Stop releases the ticker. Safe to call more than once; an in-flight save
// attempt is left to finish on its own and its result is discarded.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	<-s.done
}

// MarkEdited records an edit event. Edits during startup are ignored: the
// draft lifecycle begins after the initial load completes.
func (s *Session) MarkEdited() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.ManuallySaved || s.state.Phase == PhaseLoading {
		return
	}
	s.state.Phase = PhaseDirty
}

// autosaveTick runs on every ticker fire and decides whether to attempt a
// save. At most one attempt is in flight; a tick during an attempt is
// dropped.
func (s *Session) autosaveTick() {
	s.mu.Lock()

	if s.state.ManuallySaved || s.state.Phase != PhaseDirty || s.inFlight {
		s.mu.Unlock()
		return
	}

	snap := BuildSnapshot(s.editor.Fields(), s.clock.Now())
	if !Meaningful(snap) {
		s.mu.Unlock()
		return
	}

	s.inFlight = true
	s.state.Phase = PhaseSaving
	key := s.key
	s.mu.Unlock()

	go s.attemptSave(key, snap)
}

// attemptSave persists one snapshot: remote first when the chapter exists
// and a token is available, local fallback on any remote failure, local-only
// before the chapter has an id. Nothing here ever surfaces an error.
func (s *Session) attemptSave(key models.DraftKey, snap models.DraftSnapshot) {
	destination := "local"
	savedAt := snap.SavedAt

	if !key.IsNew() && s.remote != nil && s.remote.HasToken() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		content, err := json.Marshal(snap)
		if err == nil {
			var updatedAt time.Time
			updatedAt, err = s.remote.SaveDraft(ctx, key, string(content), snap.SavedAt)
			if err == nil {
				destination = "server"
				savedAt = updatedAt
			}
		}
		cancel()

		if err != nil {
			utils.GetLogger().Debug("remote autosave failed, falling back to local", map[string]interface{}{
				"session": s.id,
				"key":     key.String(),
				"err":     err.Error(),
			})
			s.local.Save(key, snap, models.SourceAutosave)
		}
	} else {
		s.local.Save(key, snap, models.SourceLocalOnly)
	}

	s.mu.Lock()
	s.inFlight = false
	// An edit that arrived during the attempt re-dirtied the session; only
	// an undisturbed attempt returns it to clean.
	if s.state.Phase == PhaseSaving {
		s.state.Phase = PhaseClean
	}
	s.mu.Unlock()

	if s.onStatus != nil {
		s.onStatus(StatusEvent{Destination: destination, SavedAt: savedAt})
	}
}

// ManualSaveCompleted records that the chapter itself was saved through the
// regular save flow. The draft's purpose is served: both copies are removed
// and autosave is disabled for the rest of the session. For a chapter that
// was just created, chapterID moves the session onto the real draft slot.
func (s *Session) ManualSaveCompleted(ctx context.Context, chapterID string) {
	s.mu.Lock()
	s.state.ManuallySaved = true
	s.state.Phase = PhaseClean
	if s.key.IsNew() && chapterID != "" {
		s.key.ChapterID = chapterID
	}
	key := s.key
	s.mu.Unlock()

	s.local.Clear(key)

	if !key.IsNew() && s.remote != nil && s.remote.HasToken() {
		if err := s.remote.DeleteDraft(ctx, key); err != nil {
			utils.GetLogger().Debug("server draft cleanup failed", map[string]interface{}{
				"session": s.id,
				"key":     key.String(),
				"err":     err.Error(),
			})
		}
	}
}

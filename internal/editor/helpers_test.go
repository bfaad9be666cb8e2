// internal/editor/helpers_test.go
package editor

import (
	"fmt"
	"sync"
	"time"

	"github.com/tuanphong15032005/WebTruyen-sub000/internal/models"
)

// fakeEditor mirrors how a host UI holds form fields behind a lock.
type fakeEditor struct {
	mu     sync.Mutex
	fields Fields
}

func (e *fakeEditor) Fields() Fields {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fields
}

func (e *fakeEditor) Apply(snap models.DraftSnapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.fields.Title = snap.Title
	e.fields.IsFree = snap.IsFree
	e.fields.PriceInput = ""
	if snap.PriceCoin != nil {
		e.fields.PriceInput = fmt.Sprintf("%g", *snap.PriceCoin)
	}
	e.fields.Status = snap.Status
	e.fields.ContentHTML = snap.ContentHTML
	e.fields.ContentDelta = snap.ContentDelta
}

func (e *fakeEditor) set(update func(*Fields)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	update(&e.fields)
}

// fakeClock returns a fixed instant.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// recordedSave is one Save call observed by recordingStore.
type recordedSave struct {
	Key    models.DraftKey
	Snap   models.DraftSnapshot
	Source models.DraftSource
}

// recordingStore is an in-memory DraftStore that remembers every call.
type recordingStore struct {
	mu      sync.Mutex
	records map[string]*models.StoredDraftRecord
	saves   []recordedSave
	clears  []models.DraftKey
}

func newRecordingStore() *recordingStore {
	return &recordingStore{records: make(map[string]*models.StoredDraftRecord)}
}

func (s *recordingStore) Save(key models.DraftKey, snap models.DraftSnapshot, source models.DraftSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves = append(s.saves, recordedSave{Key: key, Snap: snap, Source: source})
	s.records[key.String()] = &models.StoredDraftRecord{
		SavedAt: snap.SavedAt,
		Source:  source,
		Payload: snap,
	}
}

func (s *recordingStore) Read(key models.DraftKey) *models.StoredDraftRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[key.String()]
	if !ok {
		return nil
	}
	copied := *rec
	copied.Payload = copied.Payload.Normalize()
	return &copied
}

func (s *recordingStore) Clear(key models.DraftKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clears = append(s.clears, key)
	delete(s.records, key.String())
	if !key.IsNew() {
		delete(s.records, key.NewBucket().String())
	}
}

func (s *recordingStore) put(key models.DraftKey, rec models.StoredDraftRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key.String()] = &rec
}

func (s *recordingStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saves)
}

func (s *recordingStore) lastSave() (recordedSave, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.saves) == 0 {
		return recordedSave{}, false
	}
	return s.saves[len(s.saves)-1], true
}

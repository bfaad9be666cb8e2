// internal/api/websocket.go
package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/tuanphong15032005/WebTruyen-sub000/internal/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The draft API already requires a bearer token; origin checks are
		// delegated to the platform gateway.
		return true
	},
}

// draftEvent is pushed to every session watching a chapter when a draft
// write lands. Advisory only: storage stays last-write-wins.
type draftEvent struct {
	Type      string    `json:"type"`
	ChapterID string    `json:"chapterId"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type draftWatcher struct {
	conn *websocket.Conn
	send chan draftEvent
}

// DraftHub fans draft-saved events out to editor sessions subscribed per
// chapter. A second tab editing the same chapter uses it to learn its local
// copy went stale.
type DraftHub struct {
	mu       sync.RWMutex
	watchers map[string]map[*draftWatcher]struct{} // chapterID -> watchers
}

// NewDraftHub creates an empty hub.
func NewDraftHub() *DraftHub {
	return &DraftHub{
		watchers: make(map[string]map[*draftWatcher]struct{}),
	}
}

// Handle upgrades the request and keeps the subscription open until the
// client goes away.
func (h *DraftHub) Handle(c *gin.Context) {
	chapterID := c.Param("chapterID")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.GetLogger().Warn("websocket upgrade failed", map[string]interface{}{
			"chapter_id": chapterID,
			"err":        err.Error(),
		})
		return
	}

	w := &draftWatcher{
		conn: conn,
		send: make(chan draftEvent, 16),
	}
	h.register(chapterID, w)

	go h.writeLoop(w)
	h.readLoop(chapterID, w)
}

// DraftSaved broadcasts to every watcher of the chapter. Implements
// services.DraftNotifier.
func (h *DraftHub) DraftSaved(chapterID string, updatedAt time.Time) {
	event := draftEvent{
		Type:      "draft_saved",
		ChapterID: chapterID,
		UpdatedAt: updatedAt,
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for w := range h.watchers[chapterID] {
		select {
		case w.send <- event:
		default:
			// Slow consumer; dropping is fine for an advisory signal.
		}
	}
}

// WatcherCount reports how many sessions are subscribed to the chapter.
func (h *DraftHub) WatcherCount(chapterID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.watchers[chapterID])
}

func (h *DraftHub) register(chapterID string, w *draftWatcher) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.watchers[chapterID] == nil {
		h.watchers[chapterID] = make(map[*draftWatcher]struct{})
	}
	h.watchers[chapterID][w] = struct{}{}
}

func (h *DraftHub) unregister(chapterID string, w *draftWatcher) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if set, ok := h.watchers[chapterID]; ok {
		if _, ok := set[w]; ok {
			delete(set, w)
			close(w.send)
			if len(set) == 0 {
				delete(h.watchers, chapterID)
			}
		}
	}
}

func (h *DraftHub) writeLoop(w *draftWatcher) {
	for event := range w.send {
		w.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := w.conn.WriteJSON(event); err != nil {
			break
		}
	}
	w.conn.Close()
}

// readLoop drains incoming frames so pings are answered; the hub never acts
// on client messages.
func (h *DraftHub) readLoop(chapterID string, w *draftWatcher) {
	defer h.unregister(chapterID, w)

	w.conn.SetReadLimit(512)
	for {
		if _, _, err := w.conn.ReadMessage(); err != nil {
			return
		}
	}
}

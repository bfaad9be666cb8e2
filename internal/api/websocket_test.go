// internal/api/websocket_test.go
package api

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialHub(t *testing.T, hub *DraftHub, chapterID string) *websocket.Conn {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/ws/chapters/:chapterID/drafts", hub.Handle)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/chapters/" + chapterID + "/drafts"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestDraftHubBroadcastsToWatchers(t *testing.T) {
	hub := NewDraftHub()
	conn := dialHub(t, hub, "5")

	require.Eventually(t, func() bool { return hub.WatcherCount("5") == 1 },
		2*time.Second, 10*time.Millisecond)

	savedAt := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	hub.DraftSaved("5", savedAt)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event draftEvent
	require.NoError(t, conn.ReadJSON(&event))

	assert.Equal(t, "draft_saved", event.Type)
	assert.Equal(t, "5", event.ChapterID)
	assert.True(t, event.UpdatedAt.Equal(savedAt))
}

func TestDraftHubScopesEventsPerChapter(t *testing.T) {
	hub := NewDraftHub()
	conn := dialHub(t, hub, "5")

	require.Eventually(t, func() bool { return hub.WatcherCount("5") == 1 },
		2*time.Second, 10*time.Millisecond)

	// An event for another chapter never reaches this watcher.
	hub.DraftSaved("6", time.Now())

	conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	var event draftEvent
	assert.Error(t, conn.ReadJSON(&event))
}

func TestDraftHubUnregistersClosedConnections(t *testing.T) {
	hub := NewDraftHub()
	conn := dialHub(t, hub, "5")

	require.Eventually(t, func() bool { return hub.WatcherCount("5") == 1 },
		2*time.Second, 10*time.Millisecond)

	conn.Close()

	require.Eventually(t, func() bool { return hub.WatcherCount("5") == 0 },
		2*time.Second, 10*time.Millisecond)
}

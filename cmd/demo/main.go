// cmd/demo/main.go
package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/tuanphong15032005/WebTruyen-sub000/internal/editor"
	"github.com/tuanphong15032005/WebTruyen-sub000/internal/models"
)

// consoleEditor is a minimal Editor backing the demo: form fields guarded by
// a mutex, edited from the prompt loop while the autosave ticker reads them.
type consoleEditor struct {
	mu     sync.Mutex
	fields editor.Fields
}

func (e *consoleEditor) Fields() editor.Fields {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fields
}

func (e *consoleEditor) Apply(snap models.DraftSnapshot) {
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

func (e *consoleEditor) set(update func(*editor.Fields)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	update(&e.fields)
}

func main() {
	serverURL := envOr("SERVER_URL", "http://localhost:8080")
	token := envOr("AUTHOR_TOKEN", "demo-author")
	storyID := envOr("STORY_ID", "1")
	volumeID := envOr("VOLUME_ID", "1")
	chapterID := os.Getenv("CHAPTER_ID") // empty means "new chapter"
	interval := envDurationOr("AUTOSAVE_INTERVAL", 10*time.Second)

	cacheDir := filepath.Join(os.TempDir(), "webtruyen-editor-cache")
	local, err := editor.NewLocalDraftStore(cacheDir)
	if err != nil {
		fmt.Printf("cannot create draft cache: %v\n", err)
		os.Exit(1)
	}

	ed := &consoleEditor{}
	key := models.DraftKey{StoryID: storyID, VolumeID: volumeID, ChapterID: chapterID}
	remote := editor.NewClient(serverURL, token)

	reader := bufio.NewScanner(os.Stdin)

	session := editor.NewSession(key, ed, local, remote, editor.Options{
		Interval: interval,
		Confirm: func(offer editor.RestoreOffer) bool {
			fmt.Printf("Found a %s draft from %s (%q). Restore? [y/N] ",
				offer.Source, offer.SavedAt.Format("15:04:05"), offer.Snapshot.Title)
			if !reader.Scan() {
				return false
			}
			answer := strings.ToLower(strings.TrimSpace(reader.Text()))
			return answer == "y" || answer == "yes"
		},
		OnStatus: func(ev editor.StatusEvent) {
			fmt.Printf("\n[draft saved to %s at %s]\n> ", ev.Destination, ev.SavedAt.Format("15:04"))
		},
	})

	fmt.Println("WebTruyen chapter editor demo")
	fmt.Println("commands: title <text> | content <text> | price <coins> | free | save | quit")

	session.CompleteInitialLoad(context.Background())
	session.Start()

	for {
		fmt.Print("> ")
		if !reader.Scan() {
			break
		}
		line := strings.TrimSpace(reader.Text())
		cmd, rest, _ := strings.Cut(line, " ")

		switch cmd {
		case "title":
			ed.set(func(f *editor.Fields) { f.Title = rest })
			session.MarkEdited()
		case "content":
			ed.set(func(f *editor.Fields) { f.ContentHTML = "<p>" + rest + "</p>" })
			session.MarkEdited()
		case "price":
			ed.set(func(f *editor.Fields) { f.IsFree = false; f.PriceInput = rest })
			session.MarkEdited()
		case "free":
			ed.set(func(f *editor.Fields) { f.IsFree = true; f.PriceInput = "" })
			session.MarkEdited()
		case "save":
			manualSave(session, ed, serverURL, token, storyID, volumeID)
		case "quit", "exit":
			if session.ExitFlush() {
				fmt.Println("unsaved draft flushed locally")
				// Give the fire-and-forget network writes a moment.
				time.Sleep(500 * time.Millisecond)
			}
			session.Stop()
			return
		case "":
		default:
			fmt.Println("unknown command")
		}
	}
	session.Stop()
}

// manualSave pushes the chapter through the regular save endpoint and, on
// success, tells the session its drafts are obsolete.
func manualSave(session *editor.Session, ed *consoleEditor, serverURL, token, storyID, volumeID string) {
	fields := ed.Fields()
	snap := editor.BuildSnapshot(fields, time.Now())

	input := models.ChapterInput{
		Title:        snap.Title,
		IsFree:       snap.IsFree,
		PriceCoin:    snap.PriceCoin,
		Status:       string(snap.Status),
		ContentHTML:  snap.ContentHTML,
		ContentDelta: snap.ContentDelta,
	}
	body, err := json.Marshal(input)
	if err != nil {
		fmt.Printf("save failed: %v\n", err)
		return
	}

	key := session.Key()
	url := fmt.Sprintf("%s/stories/%s/volumes/%s/chapters", serverURL, storyID, volumeID)
	method := http.MethodPost
	if !key.IsNew() {
		url += "/" + key.ChapterID
		method = http.MethodPut
	}

	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		fmt.Printf("save failed: %v\n", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("save failed: %v\n", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var errBody struct {
			Error struct {
				Message string            `json:"message"`
				Fields  map[string]string `json:"fields"`
			} `json:"error"`
		}
		json.NewDecoder(resp.Body).Decode(&errBody)
		fmt.Printf("save rejected: %s\n", errBody.Error.Message)
		for field, msg := range errBody.Error.Fields {
			fmt.Printf("  %s: %s\n", field, msg)
		}
		return
	}

	var chapter models.Chapter
	if err := json.NewDecoder(resp.Body).Decode(&chapter); err != nil {
		fmt.Printf("save succeeded but response unreadable: %v\n", err)
		return
	}

	session.ManualSaveCompleted(context.Background(), chapter.ID)
	fmt.Printf("chapter %q saved (id %s); drafts cleared\n", chapter.Title, chapter.ID)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		fmt.Printf("ignoring invalid %s %q: %v\n", key, v, err)
		return fallback
	}
	return d
}

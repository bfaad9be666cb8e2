// internal/editor/snapshot.go
package editor

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tuanphong15032005/WebTruyen-sub000/internal/models"
)

// Fields mirrors the chapter editor's form state at one instant.
type Fields struct {
	Title        string
	IsFree       bool
	PriceInput   string // raw text from the price field
	Status       models.ChapterStatus
	ContentHTML  string
	ContentDelta string
}

// BuildSnapshot captures the fields into a snapshot. It is a pure function
// and always succeeds: unset fields fall back to their zero values and a
// non-numeric price becomes NaN for downstream guards to catch.
func BuildSnapshot(f Fields, now time.Time) models.DraftSnapshot {
	snap := models.DraftSnapshot{
		Title:        f.Title,
		IsFree:       f.IsFree,
		Status:       f.Status,
		ContentHTML:  f.ContentHTML,
		ContentDelta: f.ContentDelta,
		SavedAt:      now,
	}
	if snap.Status == "" {
		snap.Status = models.StatusDraft
	}
	if !f.IsFree {
		price := parsePrice(f.PriceInput)
		snap.PriceCoin = &price
	}
	return snap
}

func parsePrice(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return math.NaN()
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return math.NaN()
	}
	return price
}

// Meaningful reports whether the snapshot carries anything worth persisting:
// a title, real content, or a positive price on a paid chapter. Autosave and
// exit-flush skip snapshots that fail this check.
func Meaningful(snap models.DraftSnapshot) bool {
	if strings.TrimSpace(snap.Title) != "" {
		return true
	}
	if !emptyContent(snap.ContentHTML) {
		return true
	}
	if !snap.IsFree && snap.PriceCoin != nil && !math.IsNaN(*snap.PriceCoin) && *snap.PriceCoin > 0 {
		return true
	}
	return false
}

// emptyContent treats whitespace and the rich-text editor's blank-document
// markup as no content.
func emptyContent(html string) bool {
	trimmed := strings.TrimSpace(html)
	if trimmed == "" {
		return true
	}
	switch trimmed {
	case "<p><br></p>", "<p></p>", "<br>":
		return true
	}
	return false
}

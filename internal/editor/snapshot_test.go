// internal/editor/snapshot_test.go
package editor

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanphong15032005/WebTruyen-sub000/internal/models"
)

func TestBuildSnapshotDefaults(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	snap := BuildSnapshot(Fields{}, now)

	assert.Equal(t, "", snap.Title)
	assert.False(t, snap.IsFree)
	assert.Equal(t, models.StatusDraft, snap.Status)
	assert.Equal(t, "", snap.ContentHTML)
	assert.Equal(t, now, snap.SavedAt)

	// A paid chapter with no price input carries NaN for callers to guard.
	require.NotNil(t, snap.PriceCoin)
	assert.True(t, math.IsNaN(*snap.PriceCoin))
}

func TestBuildSnapshotPriceParsing(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name  string
		input string
		want  float64
		nan   bool
	}{
		{name: "integer", input: "15", want: 15},
		{name: "decimal", input: "2.5", want: 2.5},
		{name: "padded", input: "  30 ", want: 30},
		{name: "words", input: "ten coins", nan: true},
		{name: "empty", input: "", nan: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := BuildSnapshot(Fields{IsFree: false, PriceInput: tt.input}, now)
			require.NotNil(t, snap.PriceCoin)
			if tt.nan {
				assert.True(t, math.IsNaN(*snap.PriceCoin))
			} else {
				assert.Equal(t, tt.want, *snap.PriceCoin)
			}
		})
	}
}

func TestBuildSnapshotFreeChapterHasNoPrice(t *testing.T) {
	snap := BuildSnapshot(Fields{IsFree: true, PriceInput: "99"}, time.Now())
	assert.Nil(t, snap.PriceCoin)
}

func TestNormalizeClearsPriceOnFreeChapter(t *testing.T) {
	price := 10.0
	snap := models.DraftSnapshot{IsFree: true, PriceCoin: &price}

	normalized := snap.Normalize()

	assert.Nil(t, normalized.PriceCoin)

	// Paid chapters keep their price.
	paid := models.DraftSnapshot{IsFree: false, PriceCoin: &price}
	assert.Equal(t, &price, paid.Normalize().PriceCoin)
}

func TestMeaningful(t *testing.T) {
	price := 5.0
	zero := 0.0
	nan := math.NaN()

	tests := []struct {
		name string
		snap models.DraftSnapshot
		want bool
	}{
		{name: "all empty", snap: models.DraftSnapshot{IsFree: true}, want: false},
		{name: "title only", snap: models.DraftSnapshot{Title: "Chapter One", IsFree: true}, want: true},
		{name: "whitespace title", snap: models.DraftSnapshot{Title: "   ", IsFree: true}, want: false},
		{name: "content only", snap: models.DraftSnapshot{ContentHTML: "<p>hello</p>", IsFree: true}, want: true},
		{name: "blank editor markup", snap: models.DraftSnapshot{ContentHTML: "<p><br></p>", IsFree: true}, want: false},
		{name: "positive price", snap: models.DraftSnapshot{IsFree: false, PriceCoin: &price}, want: true},
		{name: "zero price", snap: models.DraftSnapshot{IsFree: false, PriceCoin: &zero}, want: false},
		{name: "nan price", snap: models.DraftSnapshot{IsFree: false, PriceCoin: &nan}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Meaningful(tt.snap))
		})
	}
}

func TestApplySnapshotIsIdempotent(t *testing.T) {
	price := 12.0
	snap := models.DraftSnapshot{
		Title:        "Chapter Two",
		IsFree:       false,
		PriceCoin:    &price,
		Status:       models.StatusDraft,
		ContentHTML:  "<p>body</p>",
		ContentDelta: `{"ops":[]}`,
	}

	ed := &fakeEditor{}
	ed.Apply(snap)
	first := ed.Fields()

	ed.Apply(snap)
	second := ed.Fields()

	assert.Equal(t, first, second)
	assert.Equal(t, "Chapter Two", second.Title)
	assert.Equal(t, "12", second.PriceInput)
}

package analyze

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/boligsjekk/boligsjekk/internal/normalize"
)

func TestMockAnalysis_Deterministic(t *testing.T) {
	url := "https://www.finn.no/realestate/homes/ad.html?finnkode=123456789"
	listing := normalize.Defaulted(url)

	a := MockAnalysis(url, listing)
	b := MockAnalysis(url, listing)

	assert.Equal(t, a.Score, b.Score)
	assert.Equal(t, a.TheGood, b.TheGood)
	assert.Equal(t, a.TheBad, b.TheBad)
	assert.Equal(t, a.TheUgly, b.TheUgly)
	assert.Equal(t, a.Summary, b.Summary)
	assert.Equal(t, a.Listing.Parkering, b.Listing.Parkering)

	// Only identity and timestamps vary between calls.
	assert.NotEqual(t, a.ID, b.ID)
}

func TestMockAnalysis_Invariants(t *testing.T) {
	for i := 0; i < 50; i++ {
		url := fmt.Sprintf("https://www.finn.no/realestate/homes/ad.html?finnkode=%d", 100000000+i)
		r := MockAnalysis(url, normalize.Defaulted(url))

		assert.GreaterOrEqual(t, r.Score, 35, "url %s", url)
		assert.LessOrEqual(t, r.Score, 94, "url %s", url)
		assert.True(t, r.IsMock())
		assert.Equal(t, url, r.SourceURL)
		assert.NotEmpty(t, r.TheGood)
		assert.NotEmpty(t, r.TheBad)
		assert.NotEmpty(t, r.Summary)

		if r.Score < uglyScoreThreshold {
			assert.NotEmpty(t, r.TheUgly, "url %s score %d", url, r.Score)
		} else {
			assert.Empty(t, r.TheUgly, "url %s score %d", url, r.Score)
		}
	}
}

func TestMockAnalysis_FillsAbsentFacilities(t *testing.T) {
	url := "https://www.finn.no/realestate/homes/ad.html?finnkode=555555555"

	r := MockAnalysis(url, normalize.Defaulted(url))
	assert.NotEmpty(t, r.Listing.Parkering)
	assert.NotEmpty(t, r.Listing.Balkong)
	assert.NotEmpty(t, r.Listing.Oppvarming)
}

func TestMockAnalysis_KeepsExtractedFacilities(t *testing.T) {
	url := "https://www.finn.no/realestate/homes/ad.html?finnkode=555555555"
	listing := normalize.Defaulted(url)
	listing.Parkering = "Egen garasjeplass i kjeller"

	r := MockAnalysis(url, listing)
	assert.Equal(t, "Egen garasjeplass i kjeller", r.Listing.Parkering)
}

func TestMockSummary_Bands(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{94, "anbefales på det sterkeste"},
		{85, "anbefales på det sterkeste"},
		{84, "solid objekt"},
		{60, "solid objekt"},
		{59, "nærmere undersøkelse"},
		{35, "nærmere undersøkelse"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("score %d", tt.score), func(t *testing.T) {
			s := mockSummary(tt.score)
			assert.Contains(t, s, tt.want)
			assert.Contains(t, s, fmt.Sprintf("%d", tt.score))
		})
	}
}

func TestMockExtended(t *testing.T) {
	url := "https://www.finn.no/realestate/homes/ad.html?finnkode=123456789"

	a := MockExtended(url)
	b := MockExtended(url)

	assert.True(t, a.Success)
	assert.NotEmpty(t, a.Text)
	assert.Equal(t, a.Text, b.Text)
}

func TestPick_WrapsAroundPool(t *testing.T) {
	pool := []string{"a", "b", "c"}

	got := pick(pool, 2, 3)
	assert.Equal(t, []string{"c", "a", "b"}, got)

	// Requests larger than the pool clamp to pool size.
	got = pick(pool, 0, 10)
	assert.Len(t, got, 3)
}

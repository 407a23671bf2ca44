package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boligsjekk/boligsjekk/internal/model"
)

const testURL = "https://www.finn.no/realestate/homes/ad.html?finnkode=123456789"

func TestNormalize_RequiredDefaults(t *testing.T) {
	got := Normalize(model.RawFieldSet{}, model.SourceDirect, testURL)

	assert.Equal(t, testURL, got.URL)
	assert.Equal(t, DefaultAdresse, got.Adresse)
	assert.Equal(t, DefaultTittel, got.Tittel)
	assert.Equal(t, DefaultPris, got.Pris)
	assert.Equal(t, DefaultType, got.Type)
	assert.Equal(t, DefaultAreal, got.Areal)
	assert.Equal(t, DefaultAntallRom, got.AntallRom)
	assert.Equal(t, DefaultByggeaar, got.Byggeaar)
	assert.Equal(t, DefaultEierform, got.Eierform)
	assert.Equal(t, DefaultEnergimerking, got.Energimerking)
	assert.Equal(t, DefaultBeliggenhet, got.Beliggenhet)
	assert.NotEmpty(t, got.ScrapedAt)

	// Optional fields stay absent, not defaulted.
	assert.Empty(t, got.Fellesgjeld)
	assert.Empty(t, got.Soverom)
	assert.Empty(t, got.Megler)
}

func TestNormalize_PrimaryOverAlias(t *testing.T) {
	raw := model.RawFieldSet{}
	raw.Set("boligtype", "Leilighet")
	raw.Set("type", "Hus")

	got := Normalize(raw, model.SourceDirect, testURL)
	assert.Equal(t, "Leilighet", got.Type)
}

func TestNormalize_AliasFallback(t *testing.T) {
	tests := []struct {
		name    string
		rawKey  string
		value   string
		extract func(model.CanonicalListing) string
	}{
		{"prisantydning feeds pris", "prisantydning", "4 500 000 kr", func(l model.CanonicalListing) string { return l.Pris }},
		{"rom feeds antallRom", "rom", "3", func(l model.CanonicalListing) string { return l.AntallRom }},
		{"energimerke feeds energimerking", "energimerke", "C", func(l model.CanonicalListing) string { return l.Energimerking }},
		{"felleskostnader feeds fellesutgifter", "felleskostnader", "3 200 kr", func(l model.CanonicalListing) string { return l.Fellesutgifter }},
		{"omraade feeds beliggenhet", "omraade", "Grünerløkka", func(l model.CanonicalListing) string { return l.Beliggenhet }},
		{"bra feeds bruksareal", "bra", "72 m²", func(l model.CanonicalListing) string { return l.Bruksareal }},
		{"ligningsverdi feeds formuesverdi", "ligningsverdi", "1 100 000 kr", func(l model.CanonicalListing) string { return l.Formuesverdi }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := model.RawFieldSet{}
			raw.Set(tt.rawKey, tt.value)
			got := Normalize(raw, model.SourceExtended, testURL)
			assert.Equal(t, tt.value, tt.extract(got))
		})
	}
}

func TestNormalize_NilRaw(t *testing.T) {
	got := Normalize(nil, model.SourceDirect, testURL)
	assert.Equal(t, testURL, got.URL)
	assert.Equal(t, DefaultTittel, got.Tittel)
}

func TestNormalize_ErrorMarker(t *testing.T) {
	raw := model.RawFieldSet{}
	raw.Set("tittel", "Flott enebolig")
	raw.Set(ErrorMarkerKey, "navigation timed out")

	got := Normalize(raw, model.SourceDirect, testURL)

	// The marker forces the fully-defaulted record; partial data is discarded.
	assert.Equal(t, DefaultTittel, got.Tittel)
	assert.Equal(t, DefaultPris, got.Pris)
}

func TestNormalize_ValuesStayDisplayStrings(t *testing.T) {
	raw := model.RawFieldSet{}
	raw.Set("pris", "4 500 000 kr")
	raw.Set("areal", "85 m²")

	got := Normalize(raw, model.SourceDirect, testURL)
	assert.Equal(t, "4 500 000 kr", got.Pris)
	assert.Equal(t, "85 m²", got.Areal)
}

func TestNormalize_SourcesIndistinguishable(t *testing.T) {
	raw := model.RawFieldSet{}
	raw.Set("adresse", "Storgata 1")
	raw.Set("soverom", "2")

	direct := Normalize(raw, model.SourceDirect, testURL)
	extended := Normalize(raw, model.SourceExtended, testURL)

	// ScrapedAt is the only per-call variance.
	direct.ScrapedAt = ""
	extended.ScrapedAt = ""
	assert.Equal(t, direct, extended)
}

func TestDefaulted_ScrapedAtIsRFC3339(t *testing.T) {
	got := Defaulted(testURL)
	parsed, err := time.Parse(time.RFC3339, got.ScrapedAt)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), parsed, time.Minute)
}

func TestAliasSources_EveryCanonicalHasTarget(t *testing.T) {
	var l model.CanonicalListing
	targets := fieldTargets(&l)
	for canonical := range aliasSources {
		_, ok := targets[canonical]
		assert.True(t, ok, "canonical key %q has no struct target", canonical)
	}
}

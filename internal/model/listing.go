// Package model defines the canonical data shapes shared across the
// analysis pipeline: raw field sets, the normalized listing record,
// analysis results, and chat messages.
package model

import (
	"strings"
	"time"
)

// RawSource tags which extraction path produced a RawFieldSet.
type RawSource string

const (
	// SourceDirect marks fields scraped straight off the listing page.
	SourceDirect RawSource = "direct"
	// SourceExtended marks fields recovered by the extended document analysis.
	SourceExtended RawSource = "extended"
)

// RawFieldSet maps raw field names to extracted string values. A missing key
// means the field was not found; values are never empty strings. RawFieldSets
// are transient: they exist between extraction and normalization only.
type RawFieldSet map[string]string

// Set stores a value, dropping empty or whitespace-only strings so absence
// stays observable as a missing key.
func (r RawFieldSet) Set(key, value string) {
	if key == "" {
		return
	}
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		r[key] = trimmed
	}
}

// Get returns the value and whether it is present.
func (r RawFieldSet) Get(key string) (string, bool) {
	v, ok := r[key]
	return v, ok
}

// CanonicalListing is the single normalized listing record. Required fields
// carry deterministic defaults applied at normalization time and are never
// empty. Optional fields are absent ("") when unknown, never zero values
// masquerading as facts. Treat values as immutable after normalization.
type CanonicalListing struct {
	// Required. Always populated.
	URL           string `json:"url"`
	Adresse       string `json:"adresse"`
	Tittel        string `json:"tittel"`
	Pris          string `json:"pris"`
	Type          string `json:"type"`
	Areal         string `json:"areal"`
	AntallRom     string `json:"antallRom"`
	Byggeaar      string `json:"byggeaar"`
	Eierform      string `json:"eierform"`
	Energimerking string `json:"energimerking"`
	Beliggenhet   string `json:"beliggenhet"`
	ScrapedAt     string `json:"scraped_at"`

	// Economics, optional.
	Fellesutgifter    string `json:"fellesutgifter,omitempty"`
	Fellesgjeld       string `json:"fellesgjeld,omitempty"`
	Totalpris         string `json:"totalpris,omitempty"`
	Omkostninger      string `json:"omkostninger,omitempty"`
	KommunaleAvgifter string `json:"kommunaleAvgifter,omitempty"`
	Eiendomsskatt     string `json:"eiendomsskatt,omitempty"`
	Formuesverdi      string `json:"formuesverdi,omitempty"`

	// Size and layout, optional.
	Primaerrom string `json:"primaerrom,omitempty"`
	Bruksareal string `json:"bruksareal,omitempty"`
	Tomteareal string `json:"tomteareal,omitempty"`
	Etasje     string `json:"etasje,omitempty"`
	Soverom    string `json:"soverom,omitempty"`

	// Facilities, optional.
	Parkering  string `json:"parkering,omitempty"`
	Garasje    string `json:"garasje,omitempty"`
	Balkong    string `json:"balkong,omitempty"`
	Hage       string `json:"hage,omitempty"`
	Heis       string `json:"heis,omitempty"`
	Oppvarming string `json:"oppvarming,omitempty"`
	Internett  string `json:"internett,omitempty"`

	// Sale process, optional.
	Visningsdato string `json:"visningsdato,omitempty"`
	Budfrist     string `json:"budfrist,omitempty"`
	Megler       string `json:"megler,omitempty"`
	Finnkode     string `json:"finnkode,omitempty"`
	SistEndret   string `json:"sistEndret,omitempty"`
}

// ScrapedTime parses ScrapedAt, returning the zero time on malformed input.
func (l CanonicalListing) ScrapedTime() time.Time {
	t, err := time.Parse(time.RFC3339, l.ScrapedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

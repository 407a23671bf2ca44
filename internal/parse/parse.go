// Package parse extracts and validates the analysis JSON from free-form
// model output. Each stage is recoverable on its own; hard failures are
// typed so the orchestrator can apply its fallback policy. The package
// itself never decides fallback.
package parse

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/boligsjekk/boligsjekk/internal/model"
)

// Hard failures of one model-parse attempt.
var (
	ErrNoJSONFound   = eris.New("parse: no JSON object found in model output")
	ErrMalformedJSON = eris.New("parse: malformed JSON in model output")
	ErrMissingKey    = eris.New("parse: required key missing or invalid")
)

// requiredKeys must all be present in the model's JSON. Absence is a hard
// failure; filling defaults here would fabricate analysis content.
var requiredKeys = []string{"score", "the_good", "the_bad", "the_ugly", "summary"}

// Analysis holds the validated analysis fields parsed from model output.
type Analysis struct {
	Score   int      `json:"score"`
	TheGood []string `json:"the_good"`
	TheBad  []string `json:"the_bad"`
	TheUgly []string `json:"the_ugly"`
	Summary string   `json:"summary"`
}

// trailingCommaRe matches one or more commas (with interleaved whitespace)
// directly before a closing brace or bracket, so a single pass reaches the
// fixpoint even on consecutive commas.
var trailingCommaRe = regexp.MustCompile(`(?:,\s*)+([}\]])`)

// RepairTrailingCommas strips trailing commas before a closing brace or
// bracket. This is the only syntactic repair performed, and it is idempotent.
func RepairTrailingCommas(s string) string {
	return trailingCommaRe.ReplaceAllString(s, "$1")
}

// ParseAnalysis locates the first balanced JSON object in the model text,
// repairs trailing commas, parses it, and validates the required keys.
func ParseAnalysis(text string) (*Analysis, error) {
	span, ok := firstBalancedObject(text)
	if !ok {
		return nil, ErrNoJSONFound
	}

	span = RepairTrailingCommas(span)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(span), &raw); err != nil {
		return nil, eris.Wrapf(ErrMalformedJSON, "%v (offending text: %s)", err, snippet(span))
	}

	for _, key := range requiredKeys {
		if _, present := raw[key]; !present {
			return nil, eris.Wrapf(ErrMissingKey, "key %q", key)
		}
	}

	var a Analysis
	if err := json.Unmarshal([]byte(span), &a); err != nil {
		return nil, eris.Wrapf(ErrMalformedJSON, "%v (offending text: %s)", err, snippet(span))
	}

	// Semantic checks: a structurally valid answer with an impossible score
	// or non-string arrays is still unusable.
	if a.Score < 1 || a.Score > 100 {
		return nil, eris.Wrapf(ErrMissingKey, "score %d out of range [1,100]", a.Score)
	}
	var summary string
	if err := json.Unmarshal(raw["summary"], &summary); err != nil {
		return nil, eris.Wrap(ErrMissingKey, "summary is not a string")
	}
	// JSON null unmarshals into a string without error; an analysis without a
	// written summary is unusable either way.
	if strings.TrimSpace(summary) == "" {
		return nil, eris.Wrap(ErrMissingKey, "summary is empty")
	}

	if a.TheGood == nil {
		a.TheGood = []string{}
	}
	if a.TheBad == nil {
		a.TheBad = []string{}
	}
	if a.TheUgly == nil {
		a.TheUgly = []string{}
	}

	return &a, nil
}

// ParseExtended parses the extended-document response: a field map routed to
// the normalizer plus a free-text assessment.
func ParseExtended(text string) (model.RawFieldSet, string, error) {
	span, ok := firstBalancedObject(text)
	if !ok {
		return nil, "", ErrNoJSONFound
	}

	span = RepairTrailingCommas(span)

	var payload struct {
		Felter    map[string]string `json:"felter"`
		Vurdering string            `json:"vurdering"`
	}
	if err := json.Unmarshal([]byte(span), &payload); err != nil {
		return nil, "", eris.Wrapf(ErrMalformedJSON, "%v (offending text: %s)", err, snippet(span))
	}
	if payload.Vurdering == "" {
		return nil, "", eris.Wrap(ErrMissingKey, "key \"vurdering\"")
	}

	raw := make(model.RawFieldSet, len(payload.Felter))
	for k, v := range payload.Felter {
		raw.Set(k, v)
	}
	return raw, payload.Vurdering, nil
}

// firstBalancedObject returns the first balanced {...} span in the text,
// tracking string literals and escapes so braces inside values do not skew
// the depth count.
func firstBalancedObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

// snippet bounds diagnostic text so logs stay readable.
func snippet(s string) string {
	const max = 200
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

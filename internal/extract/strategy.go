// Package extract pulls raw listing fields out of a loaded document. Each
// field has an ordered list of strategies; the first non-empty result wins
// and every strategy failure is absorbed as field absence. Extraction as a
// whole never fails; it degrades field by field.
package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"

	"github.com/boligsjekk/boligsjekk/internal/fetch"
)

// ErrFieldMissing signals that a strategy found no value. Non-fatal: the
// field is simply absent from the RawFieldSet.
var ErrFieldMissing = eris.New("extract: field missing")

// Strategy attempts to extract one raw value from a document.
type Strategy interface {
	Name() string
	Apply(doc *fetch.Document) (string, error)
}

// selector extracts the text (or an attribute) of the first element matching
// a CSS selector.
type selector struct {
	sel  string
	attr string
}

// Selector builds a text-content selector strategy.
func Selector(sel string) Strategy { return selector{sel: sel} }

// SelectorAttr builds an attribute selector strategy.
func SelectorAttr(sel, attr string) Strategy { return selector{sel: sel, attr: attr} }

func (s selector) Name() string { return "selector(" + s.sel + ")" }

func (s selector) Apply(doc *fetch.Document) (string, error) {
	node := doc.Find(s.sel).First()
	if node.Length() == 0 {
		return "", ErrFieldMissing
	}
	var v string
	if s.attr != "" {
		v, _ = node.Attr(s.attr)
	} else {
		v = node.Text()
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return "", ErrFieldMissing
	}
	return v, nil
}

// keyFact reads a definition-list pair: a dt/label node whose text matches,
// followed by the sibling dd/value node. Listing pages render their key-facts
// box this way.
type keyFact struct {
	label string
}

// KeyFact builds a dt/dd key-facts strategy for the given label.
func KeyFact(label string) Strategy { return keyFact{label: label} }

func (s keyFact) Name() string { return "keyfact(" + s.label + ")" }

func (s keyFact) Apply(doc *fetch.Document) (string, error) {
	var value string
	doc.Find("dt").EachWithBreak(func(_ int, dt *goquery.Selection) bool {
		if !strings.EqualFold(strings.TrimSpace(dt.Text()), s.label) {
			return true
		}
		value = strings.TrimSpace(dt.Next().Filter("dd").Text())
		return value == ""
	})
	if value == "" {
		return "", ErrFieldMissing
	}
	return value, nil
}

// labelScan searches the flattened page text for a label followed by a value
// matching a digit-bearing pattern. Last-resort heuristic for fields whose
// markup has drifted away from every known selector.
type labelScan struct {
	label   string
	pattern *regexp.Regexp
}

// LabelScan builds a full-text scan strategy. The pattern must contain one
// capture group for the value.
func LabelScan(label, pattern string) Strategy {
	return labelScan{
		label:   label,
		pattern: regexp.MustCompile(`(?i)` + regexp.QuoteMeta(label) + `\s*:?\s*` + pattern),
	}
}

func (s labelScan) Name() string { return "labelscan(" + s.label + ")" }

func (s labelScan) Apply(doc *fetch.Document) (string, error) {
	m := s.pattern.FindStringSubmatch(doc.Text())
	if len(m) < 2 {
		return "", ErrFieldMissing
	}
	v := strings.TrimSpace(m[1])
	if v == "" {
		return "", ErrFieldMissing
	}
	return v, nil
}

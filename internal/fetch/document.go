// Package fetch acquires listing documents through a chain of fetchers:
// a headless browser for script-rendered pages and a plain HTTP client as
// the cheap path. Fetchers are tried in priority order; the first success
// wins.
package fetch

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
)

// Document is a loaded listing page ready for field extraction.
type Document struct {
	URL   string
	Title string
	HTML  string

	doc  *goquery.Document
	text string
}

// NewDocument parses raw HTML into a Document.
func NewDocument(url, html string) (*Document, error) {
	gq, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, eris.Wrap(err, "fetch: parse document")
	}
	d := &Document{
		URL:   url,
		Title: strings.TrimSpace(gq.Find("title").First().Text()),
		HTML:  html,
		doc:   gq,
	}
	return d, nil
}

// Find runs a CSS selector against the parsed DOM.
func (d *Document) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

// Text returns the flattened page text with collapsed whitespace, computed
// once and cached. Heuristic label scans run against this.
func (d *Document) Text() string {
	if d.text == "" {
		d.text = collapseWhitespace(d.doc.Find("body").Text())
	}
	return d.text
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

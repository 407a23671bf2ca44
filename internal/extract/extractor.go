package extract

import (
	"go.uber.org/zap"

	"github.com/boligsjekk/boligsjekk/internal/fetch"
	"github.com/boligsjekk/boligsjekk/internal/model"
)

// Extract runs every field's strategy chain against the document and returns
// the raw values found. It never fails: strategy errors are absorbed and the
// field is left absent. Strategies for a field run in fixed priority order
// and the first non-empty result wins; partial matches are never merged
// across strategies.
func Extract(doc *fetch.Document) model.RawFieldSet {
	raw := make(model.RawFieldSet, len(fieldSpecs))

	for _, spec := range fieldSpecs {
		value, strategyName := applyChain(doc, spec)
		if value == "" {
			zap.L().Debug("extract: field absent",
				zap.String("field", spec.Key),
				zap.String("url", doc.URL),
			)
			continue
		}
		raw.Set(spec.Key, value)
		zap.L().Debug("extract: field found",
			zap.String("field", spec.Key),
			zap.String("strategy", strategyName),
		)
	}

	return raw
}

// applyChain tries a field's strategies in order, returning the first
// non-empty value and the name of the strategy that produced it.
func applyChain(doc *fetch.Document, spec FieldSpec) (string, string) {
	for _, s := range spec.Strategies {
		v, err := s.Apply(doc)
		if err != nil || v == "" {
			continue
		}
		return v, s.Name()
	}
	return "", ""
}

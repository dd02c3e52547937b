package engine

import (
	"github.com/kfreiman/docshield/internal/config"
	"github.com/kfreiman/docshield/internal/pii"
)

// Filter drops invalid spans and spans scoring below the per-type minimum
// for the bundle's language. A score exactly equal to the threshold is kept;
// entity types without a configured threshold use the bundle default. Pure
// function of its inputs.
func Filter(spans []pii.ValidatedSpan, b *config.Bundle) []pii.ValidatedSpan {
	out := make([]pii.ValidatedSpan, 0, len(spans))
	for _, s := range spans {
		if !s.Valid {
			continue
		}
		if s.Score >= b.Threshold(s.Type) {
			out = append(out, s)
		}
	}
	return out
}

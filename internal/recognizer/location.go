package recognizer

import (
	"regexp"
	"strings"

	"github.com/kfreiman/docshield/internal/config"
	"github.com/kfreiman/docshield/internal/pii"
)

// Street address shapes. Spanish addresses follow the road-type + numbering
// convention (Calle 26 # 13-19, Carrera 7 No. 45-10); English ones the
// number + name + road-type convention (742 Evergreen Terrace is matched by
// the suffix list below).
var (
	reAddressES = regexp.MustCompile(`(?i)\b(?:calle|carrera|avenida|diagonal|transversal|autopista|cra|cr|cl|av|dg|tv)\.?\s?\d+[a-z]?(?:\s?(?:#|no\.?|n°)\s?\d+[a-z]?(?:\s?-\s?\d+)?)?`)
	reAddressEN = regexp.MustCompile(`\b\d{1,5}\s+[A-Z][a-z]+(?:\s[A-Z][a-z]+)?\s(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Lane|Ln|Drive|Dr|Terrace|Court|Ct)\b`)
)

// LocationRecognizer recognizes street addresses and keyword-anchored
// place references.
type LocationRecognizer struct {
	bundle  *config.Bundle
	pattern *regexp.Regexp
}

// NewLocationRecognizer creates a location recognizer for the given language.
func NewLocationRecognizer(b *config.Bundle) *LocationRecognizer {
	p := reAddressEN
	if b.Language == "es" {
		p = reAddressES
	}
	return &LocationRecognizer{bundle: b, pattern: p}
}

// Name implements Recognizer.
func (r *LocationRecognizer) Name() string { return "location" }

// Recognize implements Recognizer.
func (r *LocationRecognizer) Recognize(text string) ([]pii.Candidate, error) {
	if text == "" || len(text) > maxInputBytes {
		return nil, nil
	}

	var out []pii.Candidate
	for _, m := range r.pattern.FindAllStringIndex(text, -1) {
		start := m[0]
		value := strings.TrimRight(text[start:m[1]], " .-")
		end := start + len(value)
		if end <= start {
			continue
		}
		tier := pii.TierBare
		score := scoreLocationBare
		if _, ok := explicitKeyword(r.bundle, text, start, pii.Location); ok {
			tier = pii.TierExplicit
			score = scoreLocationExplicit
		}
		out = append(out, pii.Candidate{
			Span: pii.Span{
				Start:    start,
				End:      end,
				Text:     value,
				Type:     pii.Location,
				Score:    score,
				Language: r.bundle.Language,
			},
			Tier:   tier,
			Source: r.Name(),
		})
	}
	return out, nil
}

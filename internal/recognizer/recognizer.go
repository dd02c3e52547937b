// Package recognizer implements pattern-based candidate generation, one
// recognizer per entity family (ID documents, phone numbers, email
// addresses, locations). Recognizers are stateless after construction —
// precompiled patterns plus the read-only keyword table of their language
// bundle — and safe for concurrent use.
//
// Every recognizer produces candidates in one of two confidence tiers: an
// explicit-context match (the value is immediately preceded by a recognized
// keyword for its family) carries a high base score, a bare-pattern match
// (shape only) carries a low base score and must survive context validation
// and threshold filtering.
package recognizer

import (
	"github.com/kfreiman/docshield/internal/config"
	"github.com/kfreiman/docshield/internal/pii"
)

// Recognizer produces raw candidates for a single entity family.
type Recognizer interface {
	// Name identifies the candidate source in logs and rule traces.
	Name() string
	// Recognize scans text and returns unvalidated candidates with byte
	// offsets into text. The returned slice is unsorted.
	Recognize(text string) ([]pii.Candidate, error)
}

// Base scores per family and tier.
const (
	scoreIDExplicit       = 0.90
	scoreIDBare           = 0.35
	scorePhoneExplicit    = 0.85
	scorePhoneBare        = 0.40
	scoreEmailExplicit    = 0.95
	scoreEmailBare        = 0.85
	scoreLocationExplicit = 0.75
	scoreLocationBare     = 0.45
)

// keywordLookback is how many bytes before a match are inspected to decide
// whether a family keyword immediately precedes it.
const keywordLookback = 20

// maxInputBytes is the maximum input length a recognizer will process.
// Larger inputs yield no candidates.
const maxInputBytes = 1 << 20 // 1 MiB

// explicitKeyword reports the first keyword of the given family found in the
// folded lookback window before offset start, scanning rules in table order.
func explicitKeyword(b *config.Bundle, text string, start int, t pii.EntityType) (string, bool) {
	from := start - keywordLookback
	if from < 0 {
		from = 0
	}
	prefix := pii.Fold(text[from:start])
	for _, r := range b.Keywords {
		if r.Type == t && pii.ContainsWord(prefix, r.Term) {
			return r.Term, true
		}
	}
	return "", false
}

// All returns the full recognizer set for a language bundle.
func All(b *config.Bundle) []Recognizer {
	return []Recognizer{
		NewIDRecognizer(b),
		NewPhoneRecognizer(b),
		NewEmailRecognizer(b),
		NewLocationRecognizer(b),
	}
}

// digitCount returns the number of ASCII digits in s.
func digitCount(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			n++
		}
	}
	return n
}

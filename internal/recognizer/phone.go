package recognizer

import (
	"regexp"
	"strings"

	"github.com/kfreiman/docshield/internal/config"
	"github.com/kfreiman/docshield/internal/pii"
)

// Phone shapes: an optional leading +, then digits possibly broken up by
// spaces, dots, hyphens, or parentheses. The match is broad; ValidatePhone
// narrows it by digit count and digit-to-length ratio.
var rePhone = regexp.MustCompile(`\+?\(?\d[\d\s().-]{5,18}\d`)

// PhoneRecognizer recognizes phone numbers in local and international forms.
type PhoneRecognizer struct {
	bundle *config.Bundle
}

// NewPhoneRecognizer creates a phone recognizer for the given language.
func NewPhoneRecognizer(b *config.Bundle) *PhoneRecognizer {
	return &PhoneRecognizer{bundle: b}
}

// Name implements Recognizer.
func (r *PhoneRecognizer) Name() string { return "phone_number" }

// Recognize implements Recognizer.
func (r *PhoneRecognizer) Recognize(text string) ([]pii.Candidate, error) {
	if text == "" || len(text) > maxInputBytes {
		return nil, nil
	}

	var out []pii.Candidate
	for _, m := range rePhone.FindAllStringIndex(text, -1) {
		start, end := m[0], m[1]
		// Trim separators the broad pattern may have swallowed.
		value := strings.TrimRight(text[start:end], " .-()")
		end = start + len(value)
		if !ValidatePhone(value) {
			continue
		}
		// Digit runs glued to letters or more digits are not phones.
		if start > 0 && isWordByteAt(text, start-1) {
			continue
		}
		if end < len(text) && isWordByteAt(text, end) {
			continue
		}

		tier := pii.TierBare
		score := scorePhoneBare
		if _, ok := explicitKeyword(r.bundle, text, start, pii.PhoneNumber); ok {
			tier = pii.TierExplicit
			score = scorePhoneExplicit
		}
		out = append(out, pii.Candidate{
			Span: pii.Span{
				Start:    start,
				End:      end,
				Text:     value,
				Type:     pii.PhoneNumber,
				Score:    score,
				Language: r.bundle.Language,
			},
			Tier:   tier,
			Source: r.Name(),
		})
	}
	return out, nil
}

// ValidatePhone enforces the phone shape rules: 7 to 15 digits and a
// digit-to-length ratio of at least 0.7 so that sparse digit scatter inside
// prose does not qualify.
func ValidatePhone(value string) bool {
	digits := digitCount(value)
	if digits < 7 || digits > 15 {
		return false
	}
	return float64(digits)/float64(len(value)) >= 0.7
}

// isWordByteAt reports whether the byte at index i is a letter or digit.
func isWordByteAt(s string, i int) bool {
	b := s[i]
	return b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

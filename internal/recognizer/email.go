package recognizer

import (
	"regexp"

	"github.com/kfreiman/docshield/internal/config"
	"github.com/kfreiman/docshield/internal/pii"
)

var reEmail = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// maxEmailLen is the maximum length of an email address per RFC 5321.
const maxEmailLen = 254

// EmailRecognizer recognizes email addresses.
type EmailRecognizer struct {
	bundle *config.Bundle
}

// NewEmailRecognizer creates an email recognizer for the given language.
func NewEmailRecognizer(b *config.Bundle) *EmailRecognizer {
	return &EmailRecognizer{bundle: b}
}

// Name implements Recognizer.
func (r *EmailRecognizer) Name() string { return "email_address" }

// Recognize implements Recognizer.
func (r *EmailRecognizer) Recognize(text string) ([]pii.Candidate, error) {
	if text == "" || len(text) > maxInputBytes {
		return nil, nil
	}

	var out []pii.Candidate
	for _, m := range reEmail.FindAllStringIndex(text, -1) {
		if m[1]-m[0] > maxEmailLen {
			continue
		}
		tier := pii.TierBare
		score := scoreEmailBare
		if _, ok := explicitKeyword(r.bundle, text, m[0], pii.EmailAddress); ok {
			tier = pii.TierExplicit
			score = scoreEmailExplicit
		}
		out = append(out, pii.Candidate{
			Span: pii.Span{
				Start:    m[0],
				End:      m[1],
				Text:     text[m[0]:m[1]],
				Type:     pii.EmailAddress,
				Score:    score,
				Language: r.bundle.Language,
			},
			Tier:   tier,
			Source: r.Name(),
		})
	}
	return out, nil
}

// Package validator implements context validation: each candidate is judged
// against a bounded window of surrounding text using the language bundle's
// keyword and exclusion tables. Keyword corroboration adds a capped score
// bonus; exclusion terms force rejection regardless of score. Validation is
// deterministic — the same window always produces the same result, and the
// applied-rule trace is emitted in sorted order so it does not depend on
// table iteration order.
package validator

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"unicode"

	"github.com/kfreiman/docshield/internal/config"
	"github.com/kfreiman/docshield/internal/pii"
)

// maxContextBonus caps the additive keyword bonus so repeated keyword hits
// cannot inflate a weak shape match past any threshold.
const maxContextBonus = 0.3

// rivalPenalty is subtracted once when a digit-run candidate's window
// contains keywords only for the competing digit family (phone vs ID).
const rivalPenalty = 0.15

// Validator validates candidates against their context window.
type Validator struct {
	bundle *config.Bundle
	logger *slog.Logger
}

// New creates a validator for the given language bundle.
func New(b *config.Bundle, logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{bundle: b, logger: logger}
}

// Validate inspects the window around the candidate and returns it with the
// validation verdict and the rules that fired.
func (v *Validator) Validate(c pii.Candidate, text string) pii.ValidatedSpan {
	out := pii.ValidatedSpan{Candidate: c, Valid: true}

	window := v.window(text, c.Start, c.End)
	folded := pii.Fold(window)

	// Exclusion terms reject outright.
	for _, term := range v.bundle.Exclusions[c.Type] {
		if pii.ContainsWord(folded, term) {
			out.Valid = false
			out.RulesApplied = append(out.RulesApplied, "exclusion:"+term)
		}
	}
	if !out.Valid {
		v.logger.Debug("candidate rejected by exclusion table",
			"span", c.Span.String(),
			"rules", out.RulesApplied,
		)
		sort.Strings(out.RulesApplied)
		return out
	}

	if c.Type == pii.Person {
		if rejected := v.applyPersonRules(&out); rejected {
			sort.Strings(out.RulesApplied)
			return out
		}
	}

	// Corroborating keywords: additive, capped.
	var bonus float64
	ownHits := 0
	for _, r := range v.bundle.Keywords {
		if r.Type != c.Type || !pii.ContainsWord(folded, r.Term) {
			continue
		}
		ownHits++
		bonus += r.Delta
		out.RulesApplied = append(out.RulesApplied,
			fmt.Sprintf("context:%s:%+.2f", r.Term, r.Delta))
	}
	if bonus > maxContextBonus {
		bonus = maxContextBonus
		out.RulesApplied = append(out.RulesApplied, "context:bonus-capped")
	}
	out.Score += bonus

	// A digit run whose window speaks only of the rival digit family loses
	// confidence; final arbitration happens in the conflict resolver.
	if rival, ok := rivalType(c.Type); ok && ownHits == 0 && v.bundle.HasKeyword(folded, rival) {
		out.Score -= rivalPenalty
		out.RulesApplied = append(out.RulesApplied, "context:rival:"+string(rival))
	}

	if out.Score > 1 {
		out.Score = 1
	}
	if out.Score < 0 {
		out.Score = 0
	}
	sort.Strings(out.RulesApplied)
	return out
}

// window returns the symmetric context window around [start, end), clipped
// to the text bounds.
func (v *Validator) window(text string, start, end int) string {
	w := v.bundle.ContextWindow
	from := start - w
	if from < 0 {
		from = 0
	}
	to := end + w
	if to > len(text) {
		to = len(text)
	}
	return text[from:to]
}

// applyPersonRules enforces the person acceptance policy: single generic
// tokens are rejected, and without external-model confirmation a name needs
// at least two properly capitalized tokens. Returns true when rejected.
func (v *Validator) applyPersonRules(out *pii.ValidatedSpan) bool {
	tokens := strings.Fields(out.Text)

	if len(tokens) == 1 {
		folded := pii.Fold(tokens[0])
		for _, stop := range v.bundle.PersonStoplist {
			if folded == stop {
				out.Valid = false
				out.RulesApplied = append(out.RulesApplied, "person:generic-token")
				return true
			}
		}
	}

	if out.Source == "model" {
		out.RulesApplied = append(out.RulesApplied, "person:model-confirmed")
		return false
	}

	capitalized := 0
	for _, tok := range tokens {
		for _, r := range tok {
			if unicode.IsUpper(r) {
				capitalized++
			}
			break
		}
	}
	if len(tokens) < 2 || capitalized < 2 {
		out.Valid = false
		out.RulesApplied = append(out.RulesApplied, "person:capitalization")
		return true
	}
	out.RulesApplied = append(out.RulesApplied, "person:capitalized-tokens")
	return false
}

// rivalType returns the competing digit-run family, if any.
func rivalType(t pii.EntityType) (pii.EntityType, bool) {
	switch t {
	case pii.PhoneNumber:
		return pii.IDDocument, true
	case pii.IDDocument:
		return pii.PhoneNumber, true
	default:
		return "", false
	}
}

// Package resolver merges validated spans from every source into one
// ordered, non-overlapping span list. This is the disambiguation core: the
// same digit run can be shape-valid as both a phone number and an ID
// document, and two recognizers (or the external model) can claim
// overlapping ranges. Resolution is deterministic; every decision is made by
// a fixed rule order so the outcome can be explained and tested in
// isolation.
package resolver

import (
	"cmp"
	"log/slog"
	"slices"

	"github.com/kfreiman/docshield/internal/config"
	"github.com/kfreiman/docshield/internal/pii"
)

// maxSpans caps the number of spans emitted per call.
const maxSpans = 10000

// Resolver resolves overlap conflicts between validated spans.
type Resolver struct {
	bundle *config.Bundle
	logger *slog.Logger
}

// New creates a resolver for the given language bundle.
func New(b *config.Bundle, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{bundle: b, logger: logger}
}

// Resolve returns the non-overlapping subset of spans, sorted ascending by
// start offset. Spans that violate the text bounds are dropped with an
// error log rather than corrupting the output; the caller trades recall for
// correctness. Postcondition: out[i].End <= out[i+1].Start for all i.
func (r *Resolver) Resolve(spans []pii.ValidatedSpan, text string) []pii.ValidatedSpan {
	if len(spans) == 0 {
		return nil
	}

	sorted := make([]pii.ValidatedSpan, 0, len(spans))
	for _, s := range spans {
		if err := s.CheckBounds(len(text)); err != nil {
			// A source produced an impossible span; never emit it.
			r.logger.Error("dropping out-of-bounds span",
				"span", s.Span.String(),
				"source", s.Source,
				"error", err,
			)
			continue
		}
		sorted = append(sorted, s)
	}
	if len(sorted) == 0 {
		return nil
	}

	// Start ascending, longer spans first at the same start.
	slices.SortStableFunc(sorted, func(a, b pii.ValidatedSpan) int {
		if c := cmp.Compare(a.Start, b.Start); c != 0 {
			return c
		}
		return cmp.Compare(b.Length(), a.Length())
	})

	out := make([]pii.ValidatedSpan, 0, len(sorted))
	for _, s := range sorted {
		if len(out) == 0 || s.Start >= out[len(out)-1].End {
			out = append(out, s)
			if len(out) >= maxSpans {
				break
			}
			continue
		}
		last := &out[len(out)-1]
		winner := r.resolveConflict(*last, s, text)
		*last = winner
	}
	return out
}

// resolveConflict decides between two overlapping spans. The accepted span
// comes first; the challenger starts at or after it. Rules, in order:
//
//  1. Digit-run special case: if exactly one of the phone/ID keyword
//     families appears in the context window, that family's claim wins
//     outright, whatever the shape scores say.
//  2. An explicit-context match beats a bare-pattern match.
//  3. Higher adjusted score wins.
//  4. The longer span wins.
//  5. The more specific classification wins (subtyped ID document >
//     ID document > phone number > location > person).
//  6. Still tied: the already-accepted span stays.
func (r *Resolver) resolveConflict(accepted, challenger pii.ValidatedSpan, text string) pii.ValidatedSpan {
	if forced, ok := r.forceDigitRun(accepted, challenger, text); ok {
		return forced
	}

	if accepted.Tier != challenger.Tier {
		if challenger.Tier == pii.TierExplicit {
			return challenger
		}
		return accepted
	}
	if accepted.Score != challenger.Score {
		if challenger.Score > accepted.Score {
			return challenger
		}
		return accepted
	}
	if accepted.Length() != challenger.Length() {
		if challenger.Length() > accepted.Length() {
			return challenger
		}
		return accepted
	}
	as := pii.Specificity(accepted.Type, accepted.Subtype)
	cs := pii.Specificity(challenger.Type, challenger.Subtype)
	if cs > as {
		return challenger
	}
	return accepted
}

// forceDigitRun applies the phone-versus-ID override: when one span claims
// PHONE_NUMBER and the other ID_DOCUMENT over overlapping text, and the
// context window names exactly one of the two families, the named family
// wins even against a stronger shape claim.
func (r *Resolver) forceDigitRun(a, b pii.ValidatedSpan, text string) (pii.ValidatedSpan, bool) {
	var phone, id *pii.ValidatedSpan
	switch {
	case a.Type == pii.PhoneNumber && b.Type == pii.IDDocument:
		phone, id = &a, &b
	case a.Type == pii.IDDocument && b.Type == pii.PhoneNumber:
		phone, id = &b, &a
	default:
		return pii.ValidatedSpan{}, false
	}

	from := min(a.Start, b.Start) - r.bundle.ContextWindow
	if from < 0 {
		from = 0
	}
	to := max(a.End, b.End) + r.bundle.ContextWindow
	if to > len(text) {
		to = len(text)
	}
	folded := pii.Fold(text[from:to])

	hasPhoneKW := r.bundle.HasKeyword(folded, pii.PhoneNumber)
	hasIDKW := r.bundle.HasKeyword(folded, pii.IDDocument)
	switch {
	case hasPhoneKW && !hasIDKW:
		p := *phone
		p.RulesApplied = append(p.RulesApplied, "resolver:forced-phone")
		return p, true
	case hasIDKW && !hasPhoneKW:
		i := *id
		i.RulesApplied = append(i.RulesApplied, "resolver:forced-id")
		return i, true
	default:
		return pii.ValidatedSpan{}, false
	}
}

// Check verifies the resolver postconditions on an emitted span list. It is
// used by tests and by the engine as a final guard; a non-nil error means a
// defect in the resolver itself.
func Check(spans []pii.ValidatedSpan, textLen int) error {
	for i, s := range spans {
		if err := s.CheckBounds(textLen); err != nil {
			return err
		}
		if i > 0 && spans[i-1].End > s.Start {
			return &pii.OverlapError{A: spans[i-1].Span, B: s.Span}
		}
	}
	return nil
}

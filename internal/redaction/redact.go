// Package redaction rebuilds text with PII spans replaced by per-type
// labels. All slicing uses original-text offsets exclusively, so label
// length differences can never shift later replacements: every byte outside
// a replaced span is preserved exactly, and the emitted audit items allow
// the original text to be reconstructed from the redacted output.
package redaction

import (
	"strings"

	"github.com/kfreiman/docshield/internal/config"
	"github.com/kfreiman/docshield/internal/pii"
	"github.com/kfreiman/docshield/internal/resolver"
)

// Result is the outcome of a redaction pass.
type Result struct {
	RedactedText string              `json:"redacted_text"`
	Items        []pii.RedactionItem `json:"items"`
}

// Redact replaces each span in text with the bundle label for its entity
// type. Spans must be sorted ascending, in bounds, and non-overlapping — the
// conflict resolver's postcondition. A violation is returned as an error
// rather than producing corrupt output; it indicates a defect upstream.
// Redact is a pure function of its inputs.
func Redact(text string, spans []pii.ValidatedSpan, bundle *config.Bundle) (Result, error) {
	if err := resolver.Check(spans, len(text)); err != nil {
		return Result{}, err
	}

	var b strings.Builder
	b.Grow(len(text))
	items := make([]pii.RedactionItem, 0, len(spans))

	cursor := 0
	for _, s := range spans {
		label := bundle.Label(s.Type)
		b.WriteString(text[cursor:s.Start])
		b.WriteString(label)
		cursor = s.End
		items = append(items, pii.RedactionItem{
			Type:    s.Type,
			Subtype: s.Subtype,
			Start:   s.Start,
			End:     s.End,
			Text:    text[s.Start:s.End],
			Label:   label,
		})
	}
	b.WriteString(text[cursor:])

	return Result{RedactedText: b.String(), Items: items}, nil
}

// Restore reconstructs the original text from redacted output and its audit
// items. It is the inverse of Redact for any valid span set and exists so
// callers holding an audit report can verify a redaction byte-for-byte.
func Restore(redacted string, items []pii.RedactionItem) string {
	var b strings.Builder
	cursor := 0 // offset into redacted
	shift := 0  // original offset minus redacted offset at cursor
	for _, it := range items {
		start := it.Start - shift
		b.WriteString(redacted[cursor:start])
		b.WriteString(it.Text)
		cursor = start + len(it.Label)
		shift += (it.End - it.Start) - len(it.Label)
	}
	b.WriteString(redacted[cursor:])
	return b.String()
}

// Count tallies redaction items per entity type, keyed by the type name.
func Count(items []pii.RedactionItem) map[string]int {
	counts := make(map[string]int)
	for _, it := range items {
		counts[string(it.Type)]++
	}
	return counts
}

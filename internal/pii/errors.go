package pii

import "fmt"

// BoundsError reports a span whose offsets do not fit the source text.
type BoundsError struct {
	Span    Span
	TextLen int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("span %s out of bounds for text of %d bytes", e.Span, e.TextLen)
}

// OverlapError reports two spans that share bytes after conflict resolution,
// which indicates a defect in the resolver itself.
type OverlapError struct {
	A, B Span
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("overlapping spans after resolution: %s and %s", e.A, e.B)
}

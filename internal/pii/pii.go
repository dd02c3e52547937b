// Package pii defines the data model shared by the recognition, validation,
// disambiguation, and redaction stages: spans with byte offsets into the
// original text, entity classifications, and the audit records emitted with
// redacted output.
//
// All offsets are byte offsets forming half-open ranges [Start, End) that
// satisfy text[Start:End] == Text. Values are created and consumed within a
// single request and are never persisted.
package pii

import (
	"encoding/json"
	"fmt"
)

// EntityType classifies a recognized PII span.
type EntityType string

const (
	Person       EntityType = "PERSON"
	PhoneNumber  EntityType = "PHONE_NUMBER"
	EmailAddress EntityType = "EMAIL_ADDRESS"
	IDDocument   EntityType = "ID_DOCUMENT"
	Location     EntityType = "LOCATION"
)

// entityTypes is the closed set of supported entity types.
var entityTypes = map[EntityType]struct{}{
	Person:       {},
	PhoneNumber:  {},
	EmailAddress: {},
	IDDocument:   {},
	Location:     {},
}

// Valid reports whether t is one of the supported entity types.
func (t EntityType) Valid() bool {
	_, ok := entityTypes[t]
	return ok
}

// ParseEntityType converts a string name into an EntityType.
func ParseEntityType(s string) (EntityType, error) {
	t := EntityType(s)
	if !t.Valid() {
		const maxErrLen = 50
		if len(s) > maxErrLen {
			s = s[:maxErrLen] + "..."
		}
		return "", fmt.Errorf("unknown entity type: %q", s)
	}
	return t, nil
}

// AllEntityTypes returns the supported entity types in a fixed order.
func AllEntityTypes() []EntityType {
	return []EntityType{Person, PhoneNumber, EmailAddress, IDDocument, Location}
}

// IDSubtype identifies the kind of ID document a span was classified as.
// The set is closed; an empty subtype means the document kind could not be
// narrowed down.
type IDSubtype string

const (
	SubtypeNone          IDSubtype = ""
	SubtypeCitizenID     IDSubtype = "CITIZEN_ID"
	SubtypeMinorID       IDSubtype = "MINOR_ID"
	SubtypeForeignID     IDSubtype = "FOREIGN_RESIDENT_ID"
	SubtypeCivilRegistry IDSubtype = "CIVIL_REGISTRY"
	SubtypePassport      IDSubtype = "PASSPORT"
	SubtypeTaxID         IDSubtype = "TAX_ID"
	SubtypeSpecialPermit IDSubtype = "SPECIAL_PERMIT"
)

// Tier records how a pattern candidate earned its base confidence.
type Tier int

const (
	// TierBare marks a value that only matched the expected shape
	// (digit/letter count, charset) with no nearby keyword.
	TierBare Tier = iota
	// TierExplicit marks a value immediately preceded by a recognized
	// keyword for its entity family ("phone", "cédula", "passport").
	TierExplicit
)

// String returns the tier name used in logs and rule traces.
func (t Tier) String() string {
	if t == TierExplicit {
		return "explicit"
	}
	return "bare"
}

// Span is a half-open byte range [Start, End) in the source text together
// with its classification. Invariants: 0 <= Start < End <= len(text) and
// 0.0 <= Score <= 1.0.
type Span struct {
	Start    int        `json:"start"`
	End      int        `json:"end"`
	Text     string     `json:"text"`
	Type     EntityType `json:"entity_type"`
	Subtype  IDSubtype  `json:"subtype,omitempty"`
	Score    float64    `json:"score"`
	Language string     `json:"language"`
}

// Length returns the span length in bytes.
func (s Span) Length() int { return s.End - s.Start }

// Overlaps reports whether s and o share at least one byte.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// CheckBounds verifies the span invariants against a text of textLen bytes.
func (s Span) CheckBounds(textLen int) error {
	if s.Start < 0 || s.End <= s.Start || s.End > textLen {
		return &BoundsError{Span: s, TextLen: textLen}
	}
	if s.Score < 0 || s.Score > 1 {
		return fmt.Errorf("span score %g outside [0,1]", s.Score)
	}
	return nil
}

// String returns a debug representation, e.g. PHONE_NUMBER("3001234567")[12:22].
func (s Span) String() string {
	if s.Subtype != SubtypeNone {
		return fmt.Sprintf("%s/%s(%q)[%d:%d]", s.Type, s.Subtype, s.Text, s.Start, s.End)
	}
	return fmt.Sprintf("%s(%q)[%d:%d]", s.Type, s.Text, s.Start, s.End)
}

// Candidate is a span before context validation, tagged with the source that
// produced it (a pattern recognizer name or "model") and its confidence tier.
type Candidate struct {
	Span
	Tier   Tier   `json:"tier"`
	Source string `json:"source"`
}

// ValidatedSpan is a candidate after context validation. RulesApplied lists
// every validation rule that fired, in deterministic order, so that a
// classification decision can be explained after the fact.
type ValidatedSpan struct {
	Candidate
	Valid        bool     `json:"valid"`
	RulesApplied []string `json:"rules_applied,omitempty"`
}

// RedactionItem is the audit record emitted for each replaced span. Offsets
// refer to the original text, so the original can be reconstructed from the
// redacted output plus the item list.
type RedactionItem struct {
	Type    EntityType `json:"entity_type"`
	Subtype IDSubtype  `json:"subtype,omitempty"`
	Start   int        `json:"start"`
	End     int        `json:"end"`
	Text    string     `json:"text"`
	Label   string     `json:"label"`
}

// Specificity ranks entity classifications for conflict resolution tie
// breaks: a subtyped ID document outranks a generic one, which outranks a
// phone number, a location, and finally a person.
func Specificity(t EntityType, sub IDSubtype) int {
	switch t {
	case IDDocument:
		if sub != SubtypeNone {
			return 5
		}
		return 4
	case PhoneNumber:
		return 3
	case Location:
		return 2
	case Person:
		return 1
	default:
		return 0
	}
}

// MarshalJSON encodes the tier as its string name.
func (t Tier) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes "explicit" or "bare" into a Tier.
func (t *Tier) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "explicit":
		*t = TierExplicit
	case "bare":
		*t = TierBare
	default:
		return fmt.Errorf("unknown confidence tier: %q", s)
	}
	return nil
}

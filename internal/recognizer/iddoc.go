package recognizer

import (
	"regexp"
	"strings"

	"github.com/kfreiman/docshield/internal/config"
	"github.com/kfreiman/docshield/internal/pii"
)

// ID document shapes. Digit runs are matched broadly and narrowed to a
// subtype by ValidateID; the hyphenated form is a tax ID with its
// verification digit.
var (
	reIDDigits = regexp.MustCompile(`\b\d{6,15}\b`)
	reIDTaxDV  = regexp.MustCompile(`\b\d{9,10}-\d\b`)
	// Passport: 6-8 uppercase alphanumerics. Bare matches additionally
	// require a mix of letters and digits so plain words don't qualify.
	reIDPassport = regexp.MustCompile(`\b[A-Z0-9]{6,8}\b`)
)

// keywordSubtypes maps folded keyword terms to the subtype they name.
// Generic terms ("id", "documento") are absent: they raise the tier but
// leave subtype inference to the shape rules.
var keywordSubtypes = map[string]pii.IDSubtype{
	"cedula":                pii.SubtypeCitizenID,
	"cedula de ciudadania":  pii.SubtypeCitizenID,
	"citizen id":            pii.SubtypeCitizenID,
	"national id":           pii.SubtypeCitizenID,
	"tarjeta de identidad":  pii.SubtypeMinorID,
	"cedula de extranjeria": pii.SubtypeForeignID,
	"registro civil":        pii.SubtypeCivilRegistry,
	"civil registry":        pii.SubtypeCivilRegistry,
	"pasaporte":             pii.SubtypePassport,
	"passport":              pii.SubtypePassport,
	"nit":                   pii.SubtypeTaxID,
	"tax id":                pii.SubtypeTaxID,
	"permiso especial":      pii.SubtypeSpecialPermit,
	"pep":                   pii.SubtypeSpecialPermit,
	"permit":                pii.SubtypeSpecialPermit,
}

// IDRecognizer recognizes national ID documents of all supported subtypes.
type IDRecognizer struct {
	bundle *config.Bundle
}

// NewIDRecognizer creates an ID document recognizer for the given language.
func NewIDRecognizer(b *config.Bundle) *IDRecognizer {
	return &IDRecognizer{bundle: b}
}

// Name implements Recognizer.
func (r *IDRecognizer) Name() string { return "id_document" }

// Recognize implements Recognizer.
func (r *IDRecognizer) Recognize(text string) ([]pii.Candidate, error) {
	if text == "" || len(text) > maxInputBytes {
		return nil, nil
	}

	var out []pii.Candidate
	// Tax IDs with verification digit first so the plain digit-run pattern
	// does not claim the same positions with a weaker subtype.
	taken := make(map[int]struct{})
	for _, m := range reIDTaxDV.FindAllStringIndex(text, -1) {
		value := text[m[0]:m[1]]
		ok, sub, score := ValidateID(value)
		if !ok {
			continue
		}
		taken[m[0]] = struct{}{}
		out = append(out, r.candidate(text, m[0], m[1], sub, score))
	}
	for _, m := range reIDDigits.FindAllStringIndex(text, -1) {
		if _, dup := taken[m[0]]; dup {
			continue
		}
		value := text[m[0]:m[1]]
		ok, sub, score := ValidateID(value)
		if !ok {
			continue
		}
		out = append(out, r.candidate(text, m[0], m[1], sub, score))
	}
	for _, m := range reIDPassport.FindAllStringIndex(text, -1) {
		value := text[m[0]:m[1]]
		if !isMixedAlphanumeric(value) {
			continue
		}
		ok, sub, score := ValidateID(value)
		if !ok || sub != pii.SubtypePassport {
			continue
		}
		out = append(out, r.candidate(text, m[0], m[1], sub, score))
	}
	return out, nil
}

// candidate builds the candidate for a shape match, raising it to the
// explicit tier when a family keyword immediately precedes it. An explicit
// keyword that names a subtype overrides the shape-inferred one, provided
// the value is shape-compatible with it.
func (r *IDRecognizer) candidate(text string, start, end int, shapeSub pii.IDSubtype, shapeScore float64) pii.Candidate {
	tier := pii.TierBare
	score := scoreIDBare + shapeScore
	sub := shapeSub
	if term, ok := explicitKeyword(r.bundle, text, start, pii.IDDocument); ok {
		tier = pii.TierExplicit
		score = scoreIDExplicit + shapeScore
		if ks, named := keywordSubtypes[term]; named && subtypeCompatible(ks, text[start:end]) {
			sub = ks
		}
	}
	if score > 1 {
		score = 1
	}
	return pii.Candidate{
		Span: pii.Span{
			Start:    start,
			End:      end,
			Text:     text[start:end],
			Type:     pii.IDDocument,
			Subtype:  sub,
			Score:    score,
			Language: r.bundle.Language,
		},
		Tier:   tier,
		Source: r.Name(),
	}
}

// ValidateID enforces the subtype shape rules on a raw matched value and
// infers the most specific compatible subtype:
//
//	citizen ID        7-10 digits
//	minor ID          10-11 digits
//	foreign resident  6-7 digits
//	civil registry    10-11 digits
//	passport          6-8 alphanumerics, mixed letters and digits
//	tax ID            9-11 digits, optional hyphenated check digit
//	special permit    15 digits
//
// When several subtypes are shape-compatible the more specific one wins
// (passport > tax ID > citizen > minor > civil registry > foreign). The
// returned score is a shape bonus added to the tier base: a verified tax-ID
// check digit earns +0.05.
func ValidateID(value string) (bool, pii.IDSubtype, float64) {
	// Hyphenated tax ID: digits, hyphen, verification digit.
	if i := strings.IndexByte(value, '-'); i > 0 {
		base, dv := value[:i], value[i+1:]
		if len(dv) != 1 || digitCount(base) != len(base) {
			return false, pii.SubtypeNone, 0
		}
		if len(base) < 9 || len(base) > 10 {
			return false, pii.SubtypeNone, 0
		}
		if taxCheckDigit(base) != dv[0] {
			return false, pii.SubtypeNone, 0
		}
		return true, pii.SubtypeTaxID, 0.05
	}

	digits := digitCount(value)
	if digits == len(value) {
		switch {
		case digits == 15:
			return true, pii.SubtypeSpecialPermit, 0
		case digits >= 12:
			return false, pii.SubtypeNone, 0
		case digits == 11:
			return true, pii.SubtypeMinorID, 0
		case digits >= 7:
			return true, pii.SubtypeCitizenID, 0
		case digits == 6:
			return true, pii.SubtypeForeignID, 0
		default:
			return false, pii.SubtypeNone, 0
		}
	}

	// Mixed alphanumerics: passport shape.
	if len(value) >= 6 && len(value) <= 8 && isMixedAlphanumeric(value) {
		return true, pii.SubtypePassport, 0
	}
	return false, pii.SubtypeNone, 0
}

// subtypeCompatible reports whether value's shape admits the given subtype.
func subtypeCompatible(sub pii.IDSubtype, value string) bool {
	digits := digitCount(value)
	allDigits := digits == len(value)
	switch sub {
	case pii.SubtypeCitizenID:
		return allDigits && digits >= 7 && digits <= 10
	case pii.SubtypeMinorID:
		return allDigits && digits >= 10 && digits <= 11
	case pii.SubtypeForeignID:
		return allDigits && digits >= 6 && digits <= 7
	case pii.SubtypeCivilRegistry:
		return allDigits && digits >= 10 && digits <= 11
	case pii.SubtypePassport:
		return len(value) >= 6 && len(value) <= 8 && isMixedAlphanumeric(value)
	case pii.SubtypeTaxID:
		return digits >= 9 && digits <= 11
	case pii.SubtypeSpecialPermit:
		return allDigits && digits == 15
	default:
		return false
	}
}

// taxCheckDigit computes the verification digit for a tax ID base number
// using the standard mod-11 weight table, returned as an ASCII digit.
var taxWeights = []int{3, 7, 13, 17, 19, 23, 29, 37, 41, 43, 47, 53, 59, 67, 71}

func taxCheckDigit(base string) byte {
	sum := 0
	for i := 0; i < len(base); i++ {
		d := int(base[len(base)-1-i] - '0')
		sum += d * taxWeights[i]
	}
	rem := sum % 11
	if rem > 1 {
		rem = 11 - rem
	}
	return byte('0' + rem)
}

// isMixedAlphanumeric reports whether s contains at least one uppercase
// ASCII letter and at least one ASCII digit.
func isMixedAlphanumeric(s string) bool {
	var hasLetter, hasDigit bool
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			hasLetter = true
		} else if c >= '0' && c <= '9' {
			hasDigit = true
		}
		if hasLetter && hasDigit {
			return true
		}
	}
	return false
}

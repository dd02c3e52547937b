package resolver

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/kfreiman/docshield/internal/config"
	"github.com/kfreiman/docshield/internal/pii"
)

func newResolver(t *testing.T, lang string) *Resolver {
	t.Helper()
	b, ok := config.Default().Bundle(lang)
	require.True(t, ok)
	return New(b, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func span(text string, start, end int, typ pii.EntityType, sub pii.IDSubtype, score float64, tier pii.Tier) pii.ValidatedSpan {
	return pii.ValidatedSpan{
		Candidate: pii.Candidate{
			Span: pii.Span{
				Start:   start,
				End:     end,
				Text:    text[start:end],
				Type:    typ,
				Subtype: sub,
				Score:   score,
			},
			Tier: tier,
		},
		Valid: true,
	}
}

// neutral has no keywords of any family, so conflicts fall through to the
// generic rules.
const neutral = "xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx"

func TestResolve_DisjointSpansPassThrough(t *testing.T) {
	r := newResolver(t, "es")
	spans := []pii.ValidatedSpan{
		span(neutral, 20, 30, pii.EmailAddress, pii.SubtypeNone, 0.9, pii.TierBare),
		span(neutral, 0, 10, pii.PhoneNumber, pii.SubtypeNone, 0.8, pii.TierBare),
	}

	out := r.Resolve(spans, neutral)

	require.Len(t, out, 2)
	assert.Equal(t, 0, out[0].Start)
	assert.Equal(t, 20, out[1].Start)
	assert.NoError(t, Check(out, len(neutral)))
}

func TestResolve_ExplicitBeatsBare(t *testing.T) {
	r := newResolver(t, "es")
	spans := []pii.ValidatedSpan{
		span(neutral, 0, 10, pii.IDDocument, pii.SubtypeNone, 0.95, pii.TierBare),
		span(neutral, 0, 10, pii.EmailAddress, pii.SubtypeNone, 0.60, pii.TierExplicit),
	}

	out := r.Resolve(spans, neutral)

	require.Len(t, out, 1)
	assert.Equal(t, pii.EmailAddress, out[0].Type, "tier outranks score")
}

func TestResolve_HigherScoreWins(t *testing.T) {
	r := newResolver(t, "es")
	spans := []pii.ValidatedSpan{
		span(neutral, 0, 10, pii.EmailAddress, pii.SubtypeNone, 0.60, pii.TierBare),
		span(neutral, 0, 10, pii.Location, pii.SubtypeNone, 0.80, pii.TierBare),
	}

	out := r.Resolve(spans, neutral)

	require.Len(t, out, 1)
	assert.Equal(t, pii.Location, out[0].Type)
}

func TestResolve_LongerSpanWins(t *testing.T) {
	r := newResolver(t, "es")
	spans := []pii.ValidatedSpan{
		span(neutral, 0, 10, pii.EmailAddress, pii.SubtypeNone, 0.8, pii.TierBare),
		span(neutral, 5, 25, pii.Location, pii.SubtypeNone, 0.8, pii.TierBare),
	}

	out := r.Resolve(spans, neutral)

	require.Len(t, out, 1)
	assert.Equal(t, pii.Location, out[0].Type)
	assert.Equal(t, 5, out[0].Start)
}

func TestResolve_SpecificityBreaksFullTie(t *testing.T) {
	r := newResolver(t, "es")
	spans := []pii.ValidatedSpan{
		span(neutral, 0, 10, pii.Person, pii.SubtypeNone, 0.8, pii.TierBare),
		span(neutral, 0, 10, pii.Location, pii.SubtypeNone, 0.8, pii.TierBare),
	}

	out := r.Resolve(spans, neutral)

	require.Len(t, out, 1)
	assert.Equal(t, pii.Location, out[0].Type)
}

func TestResolve_AcceptedStaysOnFullTie(t *testing.T) {
	r := newResolver(t, "es")
	first := span(neutral, 0, 10, pii.Location, pii.SubtypeNone, 0.8, pii.TierBare)
	first.Source = "first"
	second := span(neutral, 0, 10, pii.Location, pii.SubtypeNone, 0.8, pii.TierBare)
	second.Source = "second"

	out := r.Resolve([]pii.ValidatedSpan{first, second}, neutral)

	require.Len(t, out, 1)
	assert.Equal(t, "first", out[0].Source)
}

func TestResolve_PhoneKeywordForcesPhone(t *testing.T) {
	r := newResolver(t, "es")
	text := "cel: 3001234567"
	spans := []pii.ValidatedSpan{
		// The ID claim is stronger on every generic rule.
		span(text, 5, 15, pii.IDDocument, pii.SubtypeCitizenID, 1.0, pii.TierExplicit),
		span(text, 5, 15, pii.PhoneNumber, pii.SubtypeNone, 0.4, pii.TierBare),
	}

	out := r.Resolve(spans, text)

	require.Len(t, out, 1)
	assert.Equal(t, pii.PhoneNumber, out[0].Type)
	assert.Contains(t, out[0].RulesApplied, "resolver:forced-phone")
}

func TestResolve_IDKeywordForcesID(t *testing.T) {
	r := newResolver(t, "es")
	text := "cedula: 3001234567"
	spans := []pii.ValidatedSpan{
		span(text, 8, 18, pii.PhoneNumber, pii.SubtypeNone, 0.85, pii.TierExplicit),
		span(text, 8, 18, pii.IDDocument, pii.SubtypeCitizenID, 0.35, pii.TierBare),
	}

	out := r.Resolve(spans, text)

	require.Len(t, out, 1)
	assert.Equal(t, pii.IDDocument, out[0].Type)
	assert.Contains(t, out[0].RulesApplied, "resolver:forced-id")
}

func TestResolve_NoForcingWhenBothFamiliesNamed(t *testing.T) {
	r := newResolver(t, "es")
	text := "tel y cedula: 3001234567"
	spans := []pii.ValidatedSpan{
		span(text, 14, 24, pii.PhoneNumber, pii.SubtypeNone, 0.85, pii.TierExplicit),
		span(text, 14, 24, pii.IDDocument, pii.SubtypeCitizenID, 0.35, pii.TierBare),
	}

	out := r.Resolve(spans, text)

	require.Len(t, out, 1)
	assert.Equal(t, pii.PhoneNumber, out[0].Type, "generic rules apply: explicit beats bare")
}

func TestResolve_DropsOutOfBoundsSpans(t *testing.T) {
	r := newResolver(t, "es")
	spans := []pii.ValidatedSpan{
		span(neutral, 0, 10, pii.EmailAddress, pii.SubtypeNone, 0.9, pii.TierBare),
		{Candidate: pii.Candidate{Span: pii.Span{Start: 30, End: 100, Score: 0.9, Type: pii.Location}}},
	}

	out := r.Resolve(spans, neutral)

	require.Len(t, out, 1)
	assert.Equal(t, pii.EmailAddress, out[0].Type)
}

func TestResolve_Empty(t *testing.T) {
	r := newResolver(t, "es")
	assert.Nil(t, r.Resolve(nil, neutral))
}

func TestCheck(t *testing.T) {
	good := []pii.ValidatedSpan{
		span(neutral, 0, 10, pii.EmailAddress, pii.SubtypeNone, 0.9, pii.TierBare),
		span(neutral, 10, 20, pii.Location, pii.SubtypeNone, 0.9, pii.TierBare),
	}
	assert.NoError(t, Check(good, len(neutral)))

	overlapping := []pii.ValidatedSpan{
		span(neutral, 0, 11, pii.EmailAddress, pii.SubtypeNone, 0.9, pii.TierBare),
		span(neutral, 10, 20, pii.Location, pii.SubtypeNone, 0.9, pii.TierBare),
	}
	var overlapErr *pii.OverlapError
	require.ErrorAs(t, Check(overlapping, len(neutral)), &overlapErr)

	var boundsErr *pii.BoundsError
	bad := []pii.ValidatedSpan{
		{Candidate: pii.Candidate{Span: pii.Span{Start: 0, End: 100, Score: 0.9}}},
	}
	require.ErrorAs(t, Check(bad, len(neutral)), &boundsErr)
}

func TestResolve_OutputNeverOverlaps(t *testing.T) {
	r := newResolver(t, "es")
	text := strings.Repeat("x", 80)
	types := pii.AllEntityTypes()

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 12).Draw(t, "spans")
		spans := make([]pii.ValidatedSpan, 0, n)
		for i := 0; i < n; i++ {
			start := rapid.IntRange(0, len(text)-1).Draw(t, "start")
			end := rapid.IntRange(start+1, len(text)).Draw(t, "end")
			spans = append(spans, span(text, start, end,
				rapid.SampledFrom(types).Draw(t, "type"),
				pii.SubtypeNone,
				rapid.Float64Range(0, 1).Draw(t, "score"),
				rapid.SampledFrom([]pii.Tier{pii.TierBare, pii.TierExplicit}).Draw(t, "tier"),
			))
		}

		out := r.Resolve(spans, text)

		if err := Check(out, len(text)); err != nil {
			t.Fatalf("postcondition violated: %v", err)
		}
		if len(out) > len(spans) {
			t.Fatalf("resolver invented spans: %d in, %d out", len(spans), len(out))
		}
	})
}

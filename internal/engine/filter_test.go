package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kfreiman/docshield/internal/config"
	"github.com/kfreiman/docshield/internal/pii"
)

func scored(typ pii.EntityType, score float64, valid bool) pii.ValidatedSpan {
	return pii.ValidatedSpan{
		Candidate: pii.Candidate{
			Span: pii.Span{Start: 0, End: 5, Type: typ, Score: score},
		},
		Valid: valid,
	}
}

func TestFilter_ThresholdBoundary(t *testing.T) {
	b, ok := config.Default().Bundle("en")
	require.True(t, ok)
	threshold := b.Threshold(pii.PhoneNumber)

	spans := []pii.ValidatedSpan{
		scored(pii.PhoneNumber, threshold, true),
		scored(pii.PhoneNumber, threshold-0.001, true),
	}

	out := Filter(spans, b)
	require.Len(t, out, 1)
	assert.Equal(t, threshold, out[0].Score, "a score exactly at the threshold is kept")
}

func TestFilter_DropsInvalidRegardlessOfScore(t *testing.T) {
	b, _ := config.Default().Bundle("en")

	out := Filter([]pii.ValidatedSpan{scored(pii.EmailAddress, 1.0, false)}, b)
	assert.Empty(t, out)
}

func TestFilter_UnknownTypeUsesDefaultThreshold(t *testing.T) {
	b, _ := config.Default().Bundle("en")
	custom := pii.EntityType("CUSTOM")

	out := Filter([]pii.ValidatedSpan{
		scored(custom, b.DefaultThreshold, true),
		scored(custom, b.DefaultThreshold-0.001, true),
	}, b)
	require.Len(t, out, 1)
	assert.Equal(t, b.DefaultThreshold, out[0].Score)
}

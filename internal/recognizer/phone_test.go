package recognizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kfreiman/docshield/internal/pii"
)

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		value string
		ok    bool
	}{
		{"3001234567", true},
		{"+57 300 123 4567", true},
		{"(300) 123-4567", true},
		{"601.234.5678", true},
		{"123456", false},           // too few digits
		{"1234567890123456", false}, // too many digits
		{"1-2-3-4-5-6-7", false},    // digits too sparse
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.ok, ValidatePhone(tt.value))
		})
	}
}

func TestPhoneRecognizer_ExplicitKeyword(t *testing.T) {
	r := NewPhoneRecognizer(esBundle(t))

	out, err := r.Recognize("tel: 3001234567")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, pii.TierExplicit, out[0].Tier)
	assert.Equal(t, scorePhoneExplicit, out[0].Score)
	assert.Equal(t, "3001234567", out[0].Text)
	assert.Equal(t, 5, out[0].Start)
	assert.Equal(t, 15, out[0].End)
}

func TestPhoneRecognizer_AccentedKeyword(t *testing.T) {
	r := NewPhoneRecognizer(esBundle(t))

	out, err := r.Recognize("TELÉFONO: 3001234567")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, pii.TierExplicit, out[0].Tier)
}

func TestPhoneRecognizer_BareMatch(t *testing.T) {
	r := NewPhoneRecognizer(esBundle(t))

	out, err := r.Recognize("3001234567")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, pii.TierBare, out[0].Tier)
	assert.Equal(t, scorePhoneBare, out[0].Score)
}

func TestPhoneRecognizer_InternationalFormat(t *testing.T) {
	r := NewPhoneRecognizer(enBundle(t))

	out, err := r.Recognize("call me at +57 300 123-4567 today")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "+57 300 123-4567", out[0].Text)
	assert.Equal(t, pii.TierExplicit, out[0].Tier)
}

func TestPhoneRecognizer_RejectsGluedDigitRuns(t *testing.T) {
	r := NewPhoneRecognizer(esBundle(t))

	out, err := r.Recognize("REF1234567890")
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = r.Recognize("1234567890abc")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestPhoneRecognizer_SparseDigitsInProse(t *testing.T) {
	r := NewPhoneRecognizer(esBundle(t))

	out, err := r.Recognize("1 - 2 - 3 - 4 - 5 - 6 - 7")
	require.NoError(t, err)
	assert.Empty(t, out)
}

package recognizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kfreiman/docshield/internal/pii"
)

func TestLocationRecognizer_SpanishAddress(t *testing.T) {
	r := NewLocationRecognizer(esBundle(t))

	out, err := r.Recognize("Dirección: Calle 26 # 13-19")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Calle 26 # 13-19", out[0].Text)
	assert.Equal(t, pii.TierExplicit, out[0].Tier)
	assert.Equal(t, scoreLocationExplicit, out[0].Score)
}

func TestLocationRecognizer_SpanishAbbreviations(t *testing.T) {
	r := NewLocationRecognizer(esBundle(t))

	out, err := r.Recognize("vive en la Carrera 7 No. 45-10 desde marzo")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Carrera 7 No. 45-10", out[0].Text)
	assert.Equal(t, pii.TierExplicit, out[0].Tier)
}

func TestLocationRecognizer_EnglishAddress(t *testing.T) {
	r := NewLocationRecognizer(enBundle(t))

	out, err := r.Recognize("ships to 742 Evergreen Terrace next week")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "742 Evergreen Terrace", out[0].Text)
	assert.Equal(t, pii.TierBare, out[0].Tier)
	assert.Equal(t, scoreLocationBare, out[0].Score)
}

func TestLocationRecognizer_RoadTypeWithoutNumbering(t *testing.T) {
	r := NewLocationRecognizer(esBundle(t))

	out, err := r.Recognize("la calle estaba vacía")
	require.NoError(t, err)
	assert.Empty(t, out)
}

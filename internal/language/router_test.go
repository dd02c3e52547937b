package language

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kfreiman/docshield/internal/config"
)

func newTestRouter(t *testing.T) *Router {
	t.Helper()
	return NewRouter(config.Default(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"es", "es"},
		{"ES", "es"},
		{"es-CO", "es"},
		{"en_US", "en"},
		{" en ", "en"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}

func TestRoute_SupportedLanguage(t *testing.T) {
	r := newTestRouter(t)

	route, warning := r.Route("en")
	assert.Empty(t, warning)
	assert.False(t, route.Fallback)
	assert.Equal(t, "en", route.Bundle.Language)
	assert.Len(t, route.Recognizers, 4)
}

func TestRoute_RegionSubtagStripped(t *testing.T) {
	r := newTestRouter(t)

	route, warning := r.Route("es-CO")
	assert.Empty(t, warning)
	assert.Equal(t, "es", route.Bundle.Language)
}

func TestRoute_UnsupportedFallsBackToDefault(t *testing.T) {
	r := newTestRouter(t)

	route, warning := r.Route("fr")
	require.NotEmpty(t, warning)
	assert.Contains(t, warning, `"fr"`)
	assert.True(t, route.Fallback)
	assert.Equal(t, "es", route.Bundle.Language)
	assert.Len(t, route.Recognizers, 4)
}

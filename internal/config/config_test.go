package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kfreiman/docshield/internal/pii"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "es", cfg.DefaultLanguage())
	assert.Equal(t, []string{"en", "es"}, cfg.Languages())
	assert.NotEmpty(t, cfg.Version())

	es, ok := cfg.Bundle("es")
	require.True(t, ok)
	assert.Equal(t, "es", es.Language)
	assert.NotEmpty(t, es.Keywords)
	assert.NotEmpty(t, es.Exclusions)

	_, ok = cfg.Bundle("fr")
	assert.False(t, ok)
}

func TestNew_PanicsWithoutDefaultBundle(t *testing.T) {
	assert.Panics(t, func() {
		New("es", &Bundle{Language: "en"})
	})
}

func TestBundleThreshold(t *testing.T) {
	cfg := Default()
	b, _ := cfg.Bundle("en")

	assert.Equal(t, 0.55, b.Threshold(pii.PhoneNumber))
	assert.Equal(t, 0.60, b.Threshold(pii.Person))
	assert.Equal(t, b.DefaultThreshold, b.Threshold(pii.EntityType("CUSTOM")),
		"unknown types fall back to the bundle default")
}

func TestBundleLabel(t *testing.T) {
	cfg := Default()
	en, _ := cfg.Bundle("en")
	es, _ := cfg.Bundle("es")

	assert.Equal(t, "[PHONE]", en.Label(pii.PhoneNumber))
	assert.Equal(t, "[TELEFONO]", es.Label(pii.PhoneNumber))
	assert.Equal(t, "[CUSTOM]", en.Label(pii.EntityType("CUSTOM")))
}

func TestBundleKeywords(t *testing.T) {
	cfg := Default()
	es, _ := cfg.Bundle("es")

	phoneRules := es.KeywordsFor(pii.PhoneNumber)
	require.NotEmpty(t, phoneRules)
	for _, r := range phoneRules {
		assert.Equal(t, pii.PhoneNumber, r.Type)
		assert.Greater(t, r.Delta, 0.0)
	}

	assert.True(t, es.HasKeyword("mi celular es", pii.PhoneNumber))
	assert.False(t, es.HasKeyword("mi celular es", pii.IDDocument))
	assert.False(t, es.HasKeyword("sin contexto", pii.PhoneNumber))
}

func TestWithBundle_LeavesReceiverUntouched(t *testing.T) {
	cfg := Default()
	updated := cfg.WithBundle(&Bundle{Language: "pt", DefaultThreshold: 0.5})

	_, ok := cfg.Bundle("pt")
	assert.False(t, ok, "original configuration must not gain the bundle")

	_, ok = updated.Bundle("pt")
	assert.True(t, ok)
	assert.NotEqual(t, cfg.Version(), updated.Version())
	assert.Equal(t, cfg.DefaultLanguage(), updated.DefaultLanguage())
}

func TestStoreSwap(t *testing.T) {
	first := Default()
	store := NewStore(first)
	assert.Same(t, first, store.Load())

	second := first.WithBundle(&Bundle{Language: "pt"})
	old := store.Swap(second)
	assert.Same(t, first, old)
	assert.Same(t, second, store.Load())
}

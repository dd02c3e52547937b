// Package config holds the immutable per-language recognition configuration:
// thresholds, replacement labels, context-window sizes, and keyword and
// exclusion tables. A Configuration is never mutated in place; any change
// produces a new value with a fresh version, and Store swaps whole
// configurations atomically so concurrent requests need no locks.
package config

import (
	"sort"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/kfreiman/docshield/internal/pii"
)

// KeywordRule maps a context term to the entity type it corroborates and the
// score delta it contributes. Terms are stored folded (lowercase, no
// diacritics); see pii.Fold.
type KeywordRule struct {
	Term  string
	Type  pii.EntityType
	Delta float64
}

// Bundle is the per-language configuration consumed by the pipeline stages.
// Bundles are treated as read-only after construction.
type Bundle struct {
	Language         string
	ContextWindow    int
	DefaultThreshold float64
	Thresholds       map[pii.EntityType]float64
	Labels           map[pii.EntityType]string
	Keywords         []KeywordRule
	// Exclusions are folded terms that force rejection of a candidate of
	// the keyed type regardless of score.
	Exclusions map[pii.EntityType][]string
	// PersonStoplist holds folded generic tokens that are never accepted
	// as a single-token person name.
	PersonStoplist []string
}

// Threshold returns the minimum score for the given entity type, falling
// back to the bundle default for unknown types.
func (b *Bundle) Threshold(t pii.EntityType) float64 {
	if v, ok := b.Thresholds[t]; ok {
		return v
	}
	return b.DefaultThreshold
}

// Label returns the replacement label for the given entity type.
func (b *Bundle) Label(t pii.EntityType) string {
	if v, ok := b.Labels[t]; ok {
		return v
	}
	return "[" + string(t) + "]"
}

// KeywordsFor returns the keyword rules corroborating the given entity type,
// in table order.
func (b *Bundle) KeywordsFor(t pii.EntityType) []KeywordRule {
	var out []KeywordRule
	for _, r := range b.Keywords {
		if r.Type == t {
			out = append(out, r)
		}
	}
	return out
}

// HasKeyword reports whether the folded window contains any keyword for the
// given entity type.
func (b *Bundle) HasKeyword(foldedWindow string, t pii.EntityType) bool {
	for _, r := range b.Keywords {
		if r.Type == t && pii.ContainsWord(foldedWindow, r.Term) {
			return true
		}
	}
	return false
}

// Configuration is the process-wide, versioned bundle set. The zero value is
// not usable; construct with Default or New.
type Configuration struct {
	version         string
	defaultLanguage string
	bundles         map[string]*Bundle
}

// New builds a Configuration from the given bundles. The default language
// must be among them.
func New(defaultLanguage string, bundles ...*Bundle) *Configuration {
	m := make(map[string]*Bundle, len(bundles))
	for _, b := range bundles {
		m[b.Language] = b
	}
	if _, ok := m[defaultLanguage]; !ok {
		panic("config: default language has no bundle")
	}
	return &Configuration{
		version:         uuid.NewString(),
		defaultLanguage: defaultLanguage,
		bundles:         m,
	}
}

// Version returns the unique identifier of this configuration value.
func (c *Configuration) Version() string { return c.version }

// DefaultLanguage returns the language used when a request names an
// unsupported one.
func (c *Configuration) DefaultLanguage() string { return c.defaultLanguage }

// Bundle returns the bundle for the given language code, if configured.
func (c *Configuration) Bundle(language string) (*Bundle, bool) {
	b, ok := c.bundles[language]
	return b, ok
}

// Languages returns the configured language codes in sorted order.
func (c *Configuration) Languages() []string {
	out := make([]string, 0, len(c.bundles))
	for l := range c.bundles {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// WithBundle returns a new Configuration with the given bundle added or
// replaced. The receiver is left untouched.
func (c *Configuration) WithBundle(b *Bundle) *Configuration {
	m := make(map[string]*Bundle, len(c.bundles)+1)
	for k, v := range c.bundles {
		m[k] = v
	}
	m[b.Language] = b
	return &Configuration{
		version:         uuid.NewString(),
		defaultLanguage: c.defaultLanguage,
		bundles:         m,
	}
}

// Store publishes the current Configuration to concurrent readers. Updates
// swap the whole value; readers always observe a consistent bundle set.
type Store struct {
	current atomic.Pointer[Configuration]
}

// NewStore creates a store holding the given configuration.
func NewStore(c *Configuration) *Store {
	s := &Store{}
	s.current.Store(c)
	return s
}

// Load returns the current configuration.
func (s *Store) Load() *Configuration { return s.current.Load() }

// Swap publishes a new configuration and returns the previous one.
func (s *Store) Swap(c *Configuration) *Configuration {
	return s.current.Swap(c)
}

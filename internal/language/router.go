// Package language routes a requested language code to the recognizer set,
// thresholds, and labels configured for it. Unsupported codes fall back to
// the default language with a recorded warning — a recoverable condition,
// never a hard failure.
package language

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kfreiman/docshield/internal/config"
	"github.com/kfreiman/docshield/internal/recognizer"
)

// Route is the per-language bundle handed to the pipeline: the configuration
// and the recognizer set built from it.
type Route struct {
	Bundle      *config.Bundle
	Recognizers []recognizer.Recognizer
	// Fallback is set when the requested language was unsupported and the
	// default language's route was substituted.
	Fallback bool
}

// Router resolves language codes against a configuration. Recognizer sets
// are built once per configured language at construction; routing itself is
// read-only and safe for concurrent use.
type Router struct {
	cfg    *config.Configuration
	routes map[string]Route
	logger *slog.Logger
}

// NewRouter builds a router over the given configuration.
func NewRouter(cfg *config.Configuration, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	routes := make(map[string]Route, len(cfg.Languages()))
	for _, lang := range cfg.Languages() {
		b, _ := cfg.Bundle(lang)
		routes[lang] = Route{
			Bundle:      b,
			Recognizers: recognizer.All(b),
		}
	}
	return &Router{cfg: cfg, routes: routes, logger: logger}
}

// Route resolves a language code, normalizing case and region subtags
// ("es-CO" routes like "es"). For an unsupported code it returns the default
// language's route with Fallback set and a non-empty warning.
func (r *Router) Route(code string) (Route, string) {
	normalized := Normalize(code)
	if route, ok := r.routes[normalized]; ok {
		return route, ""
	}

	def := r.cfg.DefaultLanguage()
	warning := fmt.Sprintf("unsupported language %q, falling back to %q", code, def)
	r.logger.Warn("unsupported language requested",
		"language", code,
		"fallback", def,
	)
	route := r.routes[def]
	route.Fallback = true
	return route, warning
}

// Normalize lowercases a language code and strips any region subtag.
func Normalize(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if i := strings.IndexAny(code, "-_"); i > 0 {
		code = code[:i]
	}
	return code
}

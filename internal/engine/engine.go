// Package engine orchestrates the recognition pipeline: candidate
// generation across pattern recognizers and the external model, context
// validation, threshold filtering, conflict resolution, and redaction.
//
// Candidate generation fans out across entity families for a single
// request; results are re-sorted by offset before conflict resolution so
// output never depends on completion order. A failed source is logged and
// excluded — the request degrades to the remaining sources instead of
// aborting.
package engine

import (
	"cmp"
	"context"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kfreiman/docshield/internal/language"
	"github.com/kfreiman/docshield/internal/model"
	"github.com/kfreiman/docshield/internal/pii"
	"github.com/kfreiman/docshield/internal/redaction"
	"github.com/kfreiman/docshield/internal/resolver"
	"github.com/kfreiman/docshield/internal/validator"
)

// Config holds the engine's collaborators.
type Config struct {
	Router *language.Router
	Model  model.Client
	Logger *slog.Logger
}

// Engine is the top-level analyzer. It is stateless per request and safe
// for concurrent use.
type Engine struct {
	router *language.Router
	model  model.Client
	logger *slog.Logger
}

// New creates an engine from the given configuration.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m := cfg.Model
	if m == nil {
		m = model.Disabled{}
	}
	return &Engine{router: cfg.Router, model: m, logger: logger}
}

// AnalysisResult is the outcome of Analyze. Warnings record recoverable
// conditions (unsupported language fallback, degraded sources) that did not
// prevent a result.
type AnalysisResult struct {
	Spans    []pii.ValidatedSpan `json:"spans"`
	Warnings []string            `json:"warnings,omitempty"`
}

// RedactionResult is the outcome of Redact.
type RedactionResult struct {
	RedactedText string              `json:"redacted_text"`
	Items        []pii.RedactionItem `json:"items"`
	Warnings     []string            `json:"warnings,omitempty"`
}

// Analyze runs the pipeline up to conflict resolution and returns the final
// ordered, non-overlapping span list. Empty text yields an empty result,
// not an error. When entityTypes is non-empty, candidates of other types
// are discarded before validation.
func (e *Engine) Analyze(ctx context.Context, text, lang string, entityTypes ...pii.EntityType) (AnalysisResult, error) {
	result, _, err := e.analyze(ctx, text, lang, entityTypes)
	return result, err
}

// analyze runs the pipeline and also returns the route it resolved, so
// Redact does not route (and log a fallback) twice for one request.
func (e *Engine) analyze(ctx context.Context, text, lang string, entityTypes []pii.EntityType) (AnalysisResult, language.Route, error) {
	if text == "" {
		return AnalysisResult{}, language.Route{}, nil
	}

	route, warning := e.router.Route(lang)
	var warnings []string
	if warning != "" {
		warnings = append(warnings, warning)
	}

	requestID := uuid.NewString()
	logger := e.logger.With("request_id", requestID, "language", route.Bundle.Language)
	logger.DebugContext(ctx, "starting analysis", "text_bytes", len(text))

	candidates, sourceWarnings := e.collect(ctx, logger, route, text)
	warnings = append(warnings, sourceWarnings...)

	if len(entityTypes) > 0 {
		candidates = filterTypes(candidates, entityTypes)
	}

	// Completion order must not influence the outcome, including for
	// candidates claiming the same range.
	slices.SortStableFunc(candidates, func(a, b pii.Candidate) int {
		if c := cmp.Compare(a.Start, b.Start); c != 0 {
			return c
		}
		if c := cmp.Compare(a.End, b.End); c != 0 {
			return c
		}
		if c := cmp.Compare(string(a.Type), string(b.Type)); c != 0 {
			return c
		}
		return cmp.Compare(a.Source, b.Source)
	})

	v := validator.New(route.Bundle, logger)
	validated := make([]pii.ValidatedSpan, 0, len(candidates))
	for _, c := range candidates {
		validated = append(validated, v.Validate(c, text))
	}

	kept := Filter(validated, route.Bundle)
	resolved := resolver.New(route.Bundle, logger).Resolve(kept, text)

	if err := resolver.Check(resolved, len(text)); err != nil {
		// Resolver defect: drop the offending tail rather than emit
		// overlapping or out-of-bounds spans.
		logger.ErrorContext(ctx, "resolver postcondition violated, clamping output",
			"error", err,
		)
		resolved = clamp(resolved, len(text))
	}

	logger.DebugContext(ctx, "analysis complete",
		"candidates", len(candidates),
		"validated", len(kept),
		"spans", len(resolved),
	)
	return AnalysisResult{Spans: resolved, Warnings: warnings}, route, nil
}

// Redact analyzes text and substitutes each resulting span with its
// configured label. The redacted text is byte-exact outside replaced
// ranges.
func (e *Engine) Redact(ctx context.Context, text, lang string, entityTypes ...pii.EntityType) (RedactionResult, error) {
	analysis, route, err := e.analyze(ctx, text, lang, entityTypes)
	if err != nil {
		return RedactionResult{}, err
	}
	if text == "" {
		return RedactionResult{RedactedText: "", Warnings: analysis.Warnings}, nil
	}

	result, err := redaction.Redact(text, analysis.Spans, route.Bundle)
	if err != nil {
		return RedactionResult{}, err
	}
	return RedactionResult{
		RedactedText: result.RedactedText,
		Items:        result.Items,
		Warnings:     analysis.Warnings,
	}, nil
}

// collect fans candidate generation out across the route's recognizers and
// the external model. Each source writes its own slot, so no locking is
// needed; a failing source contributes nothing beyond a warning.
func (e *Engine) collect(ctx context.Context, logger *slog.Logger, route language.Route, text string) ([]pii.Candidate, []string) {
	slots := make([][]pii.Candidate, len(route.Recognizers)+1)
	errs := make([]error, len(route.Recognizers)+1)

	var g errgroup.Group
	for i, rec := range route.Recognizers {
		g.Go(func() error {
			cands, err := rec.Recognize(text)
			slots[i], errs[i] = cands, err
			return nil
		})
	}
	g.Go(func() error {
		last := len(slots) - 1
		cands, err := e.model.Recognize(ctx, text, route.Bundle.Language)
		slots[last], errs[last] = cands, err
		return nil
	})
	g.Wait()

	var warnings []string
	var all []pii.Candidate
	for i, err := range errs {
		if err != nil {
			source := model.Source
			if i < len(route.Recognizers) {
				source = route.Recognizers[i].Name()
			}
			logger.WarnContext(ctx, "candidate source failed, continuing without it",
				"source", source,
				"error", err,
			)
			warnings = append(warnings, "source "+source+" unavailable")
			continue
		}
		all = append(all, slots[i]...)
	}
	return all, warnings
}

// filterTypes keeps only candidates of the requested entity types.
func filterTypes(candidates []pii.Candidate, types []pii.EntityType) []pii.Candidate {
	want := make(map[pii.EntityType]struct{}, len(types))
	for _, t := range types {
		want[t] = struct{}{}
	}
	out := candidates[:0]
	for _, c := range candidates {
		if _, ok := want[c.Type]; ok {
			out = append(out, c)
		}
	}
	return out
}

// clamp drops spans violating bounds or overlapping their predecessor.
// Reached only if the resolver postcondition check fails.
func clamp(spans []pii.ValidatedSpan, textLen int) []pii.ValidatedSpan {
	out := spans[:0]
	lastEnd := 0
	for _, s := range spans {
		if s.CheckBounds(textLen) != nil || s.Start < lastEnd {
			continue
		}
		out = append(out, s)
		lastEnd = s.End
	}
	return out
}

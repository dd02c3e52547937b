// Package model integrates the external entity-recognition capability — a
// pretrained NER service reached over HTTP. The service is treated as an
// opaque, possibly slow, possibly partial candidate source: its output is
// merged into the pipeline exactly like a pattern recognizer's, and its
// failures degrade the request (fewer entity types found) instead of
// aborting it.
package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/kfreiman/docshield/internal/pii"
)

// Source is the candidate source name stamped on model output.
const Source = "model"

// Client is the interface the pipeline consumes.
type Client interface {
	// Recognize returns unvalidated candidates with byte offsets into text.
	Recognize(ctx context.Context, text, language string) ([]pii.Candidate, error)
}

// Config holds the model integration settings, loaded from the environment.
type Config struct {
	Endpoint    string        `env:"MODEL_ENDPOINT" env-default:"" env-description:"URL of the external NER service; empty disables the model source"`
	Timeout     time.Duration `env:"MODEL_TIMEOUT" env-default:"10s" env-description:"Per-request timeout for the NER service"`
	MaxAttempts int           `env:"MODEL_MAX_ATTEMPTS" env-default:"3" env-description:"Retry attempts for transient NER service failures"`
	MinScore    float64       `env:"MODEL_MIN_SCORE" env-default:"0.2" env-description:"Model entities below this score are discarded"`
}

// Error reports a model service failure. Status zero means the request
// never produced an HTTP response.
type Error struct {
	Endpoint string
	Status   int
	Err      error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("model service error (%s)", e.Endpoint)
	if e.Status != 0 {
		msg += fmt.Sprintf(" status %d %s", e.Status, http.StatusText(e.Status))
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// retryable reports whether a failed call is worth retrying: transport
// failures and 5xx responses are, 4xx responses are not.
func (e *Error) retryable() bool {
	return e.Status == 0 || e.Status >= 500
}

// Disabled is a no-op client used when no model endpoint is configured.
type Disabled struct{}

// Recognize implements Client; it never returns candidates.
func (Disabled) Recognize(ctx context.Context, text, language string) ([]pii.Candidate, error) {
	return nil, nil
}

// HTTPClient calls the NER service over HTTP with bounded retries.
type HTTPClient struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

// NewHTTPClient creates a client for the configured endpoint.
func NewHTTPClient(cfg Config, logger *slog.Logger) *HTTPClient {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &HTTPClient{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// NewClient returns the HTTP client when an endpoint is configured and the
// disabled client otherwise.
func NewClient(cfg Config, logger *slog.Logger) Client {
	if cfg.Endpoint == "" {
		return Disabled{}
	}
	return NewHTTPClient(cfg, logger)
}

// request and response mirror the NER service wire format.
type request struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

type response struct {
	Entities []wireEntity `json:"entities"`
}

type wireEntity struct {
	Text  string  `json:"text"`
	Start int     `json:"start"`
	End   int     `json:"end"`
	Type  string  `json:"type"`
	Score float64 `json:"score"`
}

// Recognize implements Client.
func (c *HTTPClient) Recognize(ctx context.Context, text, language string) ([]pii.Candidate, error) {
	body, err := json.Marshal(request{Text: text, Language: language})
	if err != nil {
		return nil, fmt.Errorf("encode model request: %w", err)
	}

	var resp response
	err = c.withRetry(ctx, func(attempt int) error {
		return c.call(ctx, body, &resp)
	})
	if err != nil {
		return nil, err
	}
	return c.convert(resp.Entities, text, language), nil
}

// call performs one HTTP round trip.
func (c *HTTPClient) call(ctx context.Context, body []byte, out *response) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return &Error{Endpoint: c.cfg.Endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return &Error{Endpoint: c.cfg.Endpoint, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		io.Copy(io.Discard, res.Body)
		return &Error{Endpoint: c.cfg.Endpoint, Status: res.StatusCode}
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return &Error{Endpoint: c.cfg.Endpoint, Status: res.StatusCode, Err: err}
	}
	return nil
}

// withRetry retries transient failures with exponential backoff.
func (c *HTTPClient) withRetry(ctx context.Context, fn func(attempt int) error) error {
	const baseDelay = 200 * time.Millisecond
	var lastErr error
	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		err := fn(attempt)
		if err == nil {
			return nil
		}
		lastErr = err

		me, ok := err.(*Error)
		if !ok || !me.retryable() || attempt >= c.cfg.MaxAttempts {
			break
		}
		delay := baseDelay << (attempt - 1)
		c.logger.Debug("retrying model call",
			"attempt", attempt,
			"delay", delay,
			"error", err,
		)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("model call cancelled: %w", ctx.Err())
		}
	}
	return lastErr
}

// typeAliases maps the labels NER models commonly emit onto our entity
// types. Unknown labels are dropped.
var typeAliases = map[string]pii.EntityType{
	"PERSON":        pii.Person,
	"PER":           pii.Person,
	"PHONE_NUMBER":  pii.PhoneNumber,
	"PHONE":         pii.PhoneNumber,
	"EMAIL_ADDRESS": pii.EmailAddress,
	"EMAIL":         pii.EmailAddress,
	"ID_DOCUMENT":   pii.IDDocument,
	"ID":            pii.IDDocument,
	"LOCATION":      pii.Location,
	"LOC":           pii.Location,
	"GPE":           pii.Location,
}

// convert maps wire entities onto candidates, dropping anything with an
// unknown type, bad offsets, or a score below the configured floor.
func (c *HTTPClient) convert(entities []wireEntity, text, language string) []pii.Candidate {
	var out []pii.Candidate
	for _, e := range entities {
		t, ok := typeAliases[e.Type]
		if !ok {
			c.logger.Debug("dropping model entity with unknown type", "type", e.Type)
			continue
		}
		if e.Start < 0 || e.End <= e.Start || e.End > len(text) {
			c.logger.Warn("dropping model entity with bad offsets",
				"type", e.Type,
				"start", e.Start,
				"end", e.End,
			)
			continue
		}
		if e.Score < c.cfg.MinScore {
			continue
		}
		score := e.Score
		if score > 1 {
			score = 1
		}
		out = append(out, pii.Candidate{
			Span: pii.Span{
				Start:    e.Start,
				End:      e.End,
				Text:     text[e.Start:e.End],
				Type:     t,
				Score:    score,
				Language: language,
			},
			Tier:   pii.TierBare,
			Source: Source,
		})
	}
	return out
}

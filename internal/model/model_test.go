package model

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kfreiman/docshield/internal/pii"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewClient_DisabledWithoutEndpoint(t *testing.T) {
	c := NewClient(Config{}, discardLogger())
	assert.IsType(t, Disabled{}, c)

	cands, err := c.Recognize(context.Background(), "some text", "es")
	require.NoError(t, err)
	assert.Empty(t, cands)
}

func TestHTTPClient_Recognize(t *testing.T) {
	text := "prepared by Ana Gomez in Bogota"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, text, req.Text)
		assert.Equal(t, "es", req.Language)

		json.NewEncoder(w).Encode(response{Entities: []wireEntity{
			{Text: "Ana Gomez", Start: 12, End: 21, Type: "PER", Score: 0.93},
			{Text: "Bogota", Start: 25, End: 31, Type: "GPE", Score: 0.88},
			{Text: "review", Start: 0, End: 6, Type: "MISC", Score: 0.99},  // unknown type
			{Text: "x", Start: 40, End: 50, Type: "PER", Score: 0.9},       // out of bounds
			{Text: "prepared", Start: 0, End: 8, Type: "PER", Score: 0.05}, // below floor
		}})
	}))
	defer srv.Close()

	c := NewHTTPClient(Config{Endpoint: srv.URL, Timeout: time.Second, MaxAttempts: 1, MinScore: 0.2}, discardLogger())

	cands, err := c.Recognize(context.Background(), text, "es")
	require.NoError(t, err)
	require.Len(t, cands, 2)

	assert.Equal(t, pii.Person, cands[0].Type)
	assert.Equal(t, "Ana Gomez", cands[0].Text)
	assert.Equal(t, Source, cands[0].Source)
	assert.Equal(t, pii.TierBare, cands[0].Tier)
	assert.Equal(t, pii.Location, cands[1].Type)
}

func TestHTTPClient_RetriesTransientFailures(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(response{})
	}))
	defer srv.Close()

	c := NewHTTPClient(Config{Endpoint: srv.URL, Timeout: time.Second, MaxAttempts: 3}, discardLogger())

	_, err := c.Recognize(context.Background(), "text", "es")
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestHTTPClient_NoRetryOnClientError(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewHTTPClient(Config{Endpoint: srv.URL, Timeout: time.Second, MaxAttempts: 3}, discardLogger())

	_, err := c.Recognize(context.Background(), "text", "es")
	require.Error(t, err)
	assert.Equal(t, 1, attempts)

	var me *Error
	require.ErrorAs(t, err, &me)
	assert.Equal(t, http.StatusBadRequest, me.Status)
}

func TestHTTPClient_GivesUpAfterMaxAttempts(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewHTTPClient(Config{Endpoint: srv.URL, Timeout: time.Second, MaxAttempts: 2}, discardLogger())

	_, err := c.Recognize(context.Background(), "text", "es")
	require.Error(t, err)
	assert.Equal(t, 2, attempts)
}

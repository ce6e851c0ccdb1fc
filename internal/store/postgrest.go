package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sethvargo/go-retry"
)

// PostgREST is a Store backed by a PostgREST-compatible REST endpoint
// (Supabase). Filters become "field=eq.value" query parameters and writes
// ask for the representation back so callers never need a follow-up read.
type PostgREST struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewPostgREST creates a client for the given project base URL, e.g.
// "https://xyz.supabase.co".
func NewPostgREST(baseURL, apiKey string) *PostgREST {
	return &PostgREST{
		baseURL: baseURL + "/rest/v1",
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Select returns rows matching all equality filters.
func (s *PostgREST) Select(ctx context.Context, table string, filters map[string]string, order string) ([]Row, error) {
	q := eqParams(filters)
	if order != "" {
		q.Set("order", order)
	}
	return s.do(ctx, http.MethodGet, table, q, nil, "")
}

// Insert writes rows and returns their representation.
func (s *PostgREST) Insert(ctx context.Context, table string, rows []Row) ([]Row, error) {
	return s.do(ctx, http.MethodPost, table, nil, rows, "return=representation")
}

// Update patches rows matching all equality filters.
func (s *PostgREST) Update(ctx context.Context, table string, match map[string]string, patch Row) ([]Row, error) {
	return s.do(ctx, http.MethodPatch, table, eqParams(match), patch, "return=representation")
}

// Delete removes rows matching all equality filters.
func (s *PostgREST) Delete(ctx context.Context, table string, match map[string]string) error {
	_, err := s.do(ctx, http.MethodDelete, table, eqParams(match), nil, "")
	return err
}

// do issues one request with bounded exponential backoff. Network errors
// and 5xx responses are retried; anything else fails immediately.
func (s *PostgREST) do(ctx context.Context, method, table string, query url.Values, body any, prefer string) ([]Row, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	endpoint := s.baseURL + "/" + table
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var rows []Row
	backoff := retry.WithMaxRetries(3, retry.NewExponential(100*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
		if err != nil {
			return err
		}
		req.Header.Set("apikey", s.apiKey)
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if prefer != "" {
			req.Header.Set("Prefer", prefer)
		}

		resp, err := s.client.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return retry.RetryableError(fmt.Errorf("status %d", resp.StatusCode))
		}
		if resp.StatusCode >= 400 {
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			return fmt.Errorf("status %d: %s", resp.StatusCode, msg)
		}

		rows = nil
		if resp.StatusCode == http.StatusNoContent {
			return nil
		}
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return retry.RetryableError(err)
		}
		if len(raw) == 0 {
			return nil
		}
		if err := json.Unmarshal(raw, &rows); err != nil {
			// Single-object responses come back for some writes.
			var row Row
			if err2 := json.Unmarshal(raw, &row); err2 != nil {
				return err
			}
			rows = []Row{row}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, table, err)
	}
	return rows, nil
}

func eqParams(filters map[string]string) url.Values {
	q := url.Values{}
	for k, v := range filters {
		q.Set(k, "eq."+v)
	}
	return q
}

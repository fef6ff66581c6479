package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Payload is the chunk metadata stored alongside each vector.
type Payload struct {
	DocID    string `json:"doc_id"`
	Filename string `json:"filename"`
	Page     int    `json:"page"`
	ParaNum  int    `json:"para_num"`
	Text     string `json:"text"`
}

// Point is one upsert unit: deterministic ID, vector, payload.
type Point struct {
	ID      string    `json:"id"`
	Vector  []float32 `json:"vector"`
	Payload Payload   `json:"payload"`
}

// ScoredPoint is a ranked search result.
type ScoredPoint struct {
	Score   float64
	Payload Payload
}

// Client is a minimal REST client for one Qdrant collection. Collections are
// created with the cosine metric; upserts to distinct point IDs are safe to
// run concurrently, while Recreate is destructive and must not run alongside
// searches or upserts against the same collection.
type Client struct {
	baseURL    string
	apiKey     string
	collection string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey, collection string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		collection: collection,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Collection() string { return c.collection }

// Exists reports whether the collection exists. Absence is a normal state,
// not an error.
func (c *Client) Exists(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.collectionURL(), nil)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("check collection: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return true, nil
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("check collection %s: status %d: %s", c.collection, resp.StatusCode, readBody(resp.Body))
	}
}

// Create makes the collection with the given dimensionality and the cosine
// metric.
func (c *Client) Create(ctx context.Context, dim int) error {
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dim,
			"distance": "Cosine",
		},
	}
	return c.do(ctx, http.MethodPut, c.collectionURL(), body, nil)
}

// EnsureCollection creates the collection if absent. Not safe to run
// concurrently with searches or upserts.
func (c *Client) EnsureCollection(ctx context.Context, dim int) error {
	exists, err := c.Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return c.Create(ctx, dim)
}

// Recreate drops and recreates the collection. This is an explicit,
// destructive administrative operation requiring exclusive access.
func (c *Client) Recreate(ctx context.Context, dim int) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.collectionURL(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("drop collection: %w", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if resp.StatusCode >= 300 && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("drop collection %s: status %d", c.collection, resp.StatusCode)
	}
	return c.Create(ctx, dim)
}

// Upsert writes points keyed by their IDs; identical IDs overwrite prior
// vectors.
func (c *Client) Upsert(ctx context.Context, points []Point) error {
	if len(points) == 0 {
		return nil
	}
	body := map[string]any{"points": points}
	return c.do(ctx, http.MethodPut, c.collectionURL()+"/points?wait=true", body, nil)
}

// Search runs a nearest-neighbor query and returns ranked hits with payloads.
func (c *Client) Search(ctx context.Context, vector []float32, k int) ([]ScoredPoint, error) {
	body := map[string]any{
		"vector":       vector,
		"limit":        k,
		"with_payload": true,
	}
	var out struct {
		Result []struct {
			Score   float64 `json:"score"`
			Payload Payload `json:"payload"`
		} `json:"result"`
	}
	if err := c.do(ctx, http.MethodPost, c.collectionURL()+"/points/search", body, &out); err != nil {
		return nil, err
	}
	hits := make([]ScoredPoint, 0, len(out.Result))
	for _, r := range out.Result {
		hits = append(hits, ScoredPoint{Score: r.Score, Payload: r.Payload})
	}
	return hits, nil
}

const scrollPageSize = 256

// Scroll returns the payloads of every point whose doc_id matches, paging
// through the collection. Results carry no similarity score and arrive in
// store order, not ranking order.
func (c *Client) Scroll(ctx context.Context, docID string) ([]Payload, error) {
	var payloads []Payload
	var offset any

	for {
		body := map[string]any{
			"filter": map[string]any{
				"must": []map[string]any{
					{"key": "doc_id", "match": map[string]any{"value": docID}},
				},
			},
			"limit":        scrollPageSize,
			"with_payload": true,
		}
		if offset != nil {
			body["offset"] = offset
		}

		var out struct {
			Result struct {
				Points []struct {
					Payload Payload `json:"payload"`
				} `json:"points"`
				NextPageOffset any `json:"next_page_offset"`
			} `json:"result"`
		}
		if err := c.do(ctx, http.MethodPost, c.collectionURL()+"/points/scroll", body, &out); err != nil {
			return nil, err
		}
		for _, p := range out.Result.Points {
			payloads = append(payloads, p.Payload)
		}
		if out.Result.NextPageOffset == nil {
			return payloads, nil
		}
		offset = out.Result.NextPageOffset
	}
}

// Count returns the exact point count of the collection.
func (c *Client) Count(ctx context.Context) (int, error) {
	var out struct {
		Result struct {
			Count int `json:"count"`
		} `json:"result"`
	}
	if err := c.do(ctx, http.MethodPost, c.collectionURL()+"/points/count", map[string]any{"exact": true}, &out); err != nil {
		return 0, err
	}
	return out.Result.Count, nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

func (c *Client) collectionURL() string {
	return c.baseURL + "/collections/" + c.collection
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}
}

func (c *Client) do(ctx context.Context, method, url string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant %s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant %s %s: status %d: %s", method, url, resp.StatusCode, readBody(resp.Body))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func readBody(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 1024))
	return string(b)
}

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Config configures the OpenAI-compatible API client.
type Config struct {
	BaseURL         string
	APIKey          string
	EmbedModel      string
	ChatModel       string
	EmbedTimeout    time.Duration
	CompleteTimeout time.Duration
}

// Client talks to an OpenAI-compatible API for embeddings and chat
// completions. Every call carries a bounded timeout; transient failures
// (429, 5xx) are retried with backoff transparently to the caller.
type Client struct {
	baseURL         string
	apiKey          string
	embedModel      string
	chatModel       string
	embedTimeout    time.Duration
	completeTimeout time.Duration
	httpClient      *http.Client
	log             *slog.Logger

	// EmbedStats and CompleteStats track rolling per-operation latencies,
	// served on /api/stats/llm.
	EmbedStats    *Stats
	CompleteStats *Stats
}

func NewClient(cfg Config, log *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.EmbedTimeout <= 0 {
		cfg.EmbedTimeout = 30 * time.Second
	}
	if cfg.CompleteTimeout <= 0 {
		cfg.CompleteTimeout = 60 * time.Second
	}
	return &Client{
		baseURL:         cfg.BaseURL,
		apiKey:          cfg.APIKey,
		embedModel:      cfg.EmbedModel,
		chatModel:       cfg.ChatModel,
		embedTimeout:    cfg.EmbedTimeout,
		completeTimeout: cfg.CompleteTimeout,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		log:           log,
		EmbedStats:    NewStats(time.Hour),
		CompleteStats: NewStats(time.Hour),
	}
}

// Model returns the chat model in use.
func (c *Client) Model() string { return c.chatModel }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Embed computes the embedding vector for a text. Deterministic for a fixed
// model version.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, c.embedTimeout)
	defer cancel()

	reqBody := map[string]any{
		"model": c.embedModel,
		"input": text,
	}
	start := time.Now()
	respBody, err := c.postWithRetry(ctx, "/embeddings", reqBody)
	c.EmbedStats.Record(time.Since(start).Milliseconds())
	if err != nil {
		return nil, err
	}

	var out struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("decode embeddings response: %w", err)
	}
	if len(out.Data) == 0 || len(out.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	return out.Data[0].Embedding, nil
}

// Complete runs a chat completion with a system and user prompt. Failures
// are returned to the caller, who owns the fallback behavior.
func (c *Client) Complete(ctx context.Context, system, user string, temperature float64, maxTokens int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.completeTimeout)
	defer cancel()

	reqBody := map[string]any{
		"model": c.chatModel,
		"messages": []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		"temperature": temperature,
		"max_tokens":  maxTokens,
	}

	start := time.Now()
	respBody, err := c.postWithRetry(ctx, "/chat/completions", reqBody)
	c.CompleteStats.Record(time.Since(start).Milliseconds())
	if err != nil {
		return "", err
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error *struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("completion error: %s: %s", out.Error.Type, out.Error.Message)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}
	return out.Choices[0].Message.Content, nil
}

// postWithRetry posts JSON and retries transient failures with backoff.
// Retries are transparent to the caller; attempts are logged.
func (c *Client) postWithRetry(ctx context.Context, path string, body any) ([]byte, error) {
	var respBody []byte
	var lastErr error
	for attempt := 0; attempt < MaxRetries; attempt++ {
		respBody, lastErr = c.post(ctx, path, body)
		if lastErr == nil || !IsRetryable(lastErr) {
			break
		}
		c.log.Warn("retryable api error", "path", path, "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return respBody, lastErr
}

func (c *Client) post(ctx context.Context, path string, body any) ([]byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api %s: %w", path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, &RetryableError{
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("api %s status %d: %s", path, resp.StatusCode, truncate(string(respBody), 200))
	}
	return respBody, nil
}

// Close releases resources.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// truncate caps s at n characters on a rune boundary.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

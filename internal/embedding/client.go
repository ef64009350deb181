package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxRetries = 3

// Client is an HTTP client for an OpenAI-compatible embeddings API
// (OpenRouter, Ollama, OpenAI).
type Client struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	backoff time.Duration
}

// NewClient creates an embeddings client for the API at baseURL. apiKey may
// be empty for servers that need none, such as Ollama.
func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 60 * time.Second},
		backoff: time.Second,
	}
}

// Model returns the embedding model name.
func (c *Client) Model() string {
	return c.model
}

// Embed returns the embedding vector for text. Transport failures and
// non-200 responses are retried with a linear backoff.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	jsonData, err := json.Marshal(EmbeddingRequest{Model: c.model, Input: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var (
		status  int
		body    []byte
		lastErr error
	)
	for i := 0; i < maxRetries; i++ {
		status, body, lastErr = c.post(ctx, jsonData)
		if lastErr == nil && status == http.StatusOK {
			break
		}
		if i == maxRetries-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.backoff * time.Duration(i+1)):
		}
	}

	if lastErr != nil {
		return nil, fmt.Errorf("failed to execute request after %d retries: %w", maxRetries, lastErr)
	}

	if status != http.StatusOK {
		var errResp ErrorResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
			return nil, fmt.Errorf("API error (%d): %s", status, errResp.Error.Message)
		}
		return nil, fmt.Errorf("API returned status %d: %s", status, string(body))
	}

	var embeddingResp EmbeddingResponse
	if err := json.Unmarshal(body, &embeddingResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(embeddingResp.Data) == 0 {
		return nil, fmt.Errorf("no embedding data in response")
	}

	return embeddingResp.Data[0].Embedding, nil
}

func (c *Client) post(ctx context.Context, payload []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embeddings", bytes.NewReader(payload))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp.StatusCode, body, nil
}

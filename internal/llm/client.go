// Package llm calls the OpenAI Responses API with the web search tool enabled.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/trogers1052/prediction-service/internal/config"
	"golang.org/x/time/rate"
)

// ErrNotConfigured is returned by Generate when no API key is set.
var ErrNotConfigured = errors.New("llm: api key not configured")

const webSearchTool = "web_search_preview"

// Client generates text from prompts
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	cfg        config.LLMConfig
	logger     zerolog.Logger
	newBackOff func() backoff.BackOff
}

// New creates a new client. Zero values in cfg fall back to defaults.
func New(cfg config.LLMConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 2
	}
	if cfg.MaxRetryElapsed <= 0 {
		cfg.MaxRetryElapsed = 45 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	c := &Client{
		httpClient: &http.Client{},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.RequestsPerSecond),
		cfg:        cfg,
		logger:     log.With().Str("component", "llm_client").Logger(),
	}
	c.newBackOff = func() backoff.BackOff {
		b := backoff.NewExponentialBackOff()
		b.MaxElapsedTime = c.cfg.MaxRetryElapsed
		return b
	}
	return c
}

// Configured reports whether an API key is present
func (c *Client) Configured() bool {
	return c.cfg.APIKey != ""
}

// Model returns the configured model name
func (c *Client) Model() string {
	return c.cfg.Model
}

type responsesRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
	Tools []tool `json:"tools"`
}

type tool struct {
	Type string `json:"type"`
}

type responsesResponse struct {
	Output []outputItem `json:"output"`
}

type outputItem struct {
	Type    string          `json:"type"`
	Content []outputContent `json:"content"`
}

type outputContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Generate sends prompt to the Responses API and returns the text of the first
// message output. An empty string is returned when the response carries no
// message text. The whole call, retries included, is bounded by the
// configured timeout.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	body, err := json.Marshal(responsesRequest{
		Model: c.cfg.Model,
		Input: prompt,
		Tools: []tool{{Type: webSearchTool}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	var text string
	attempt := 0
	operation := func() error {
		attempt++
		out, err := c.do(ctx, body)
		if err != nil {
			var statusErr *StatusError
			if errors.As(err, &statusErr) && !statusErr.Retryable() {
				return backoff.Permanent(err)
			}
			c.logger.Warn().Err(err).Int("attempt", attempt).Msg("Generation request failed")
			return err
		}
		text = out
		return nil
	}

	started := time.Now()
	if err := backoff.Retry(operation, backoff.WithContext(c.newBackOff(), ctx)); err != nil {
		c.logger.Error().Err(err).Int("attempts", attempt).Msg("Generation failed")
		return "", err
	}

	c.logger.Debug().
		Int("attempts", attempt).
		Dur("elapsed", time.Since(started)).
		Int("chars", len(text)).
		Msg("Generation completed")
	return text, nil
}

func (c *Client) do(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/responses", bytes.NewReader(body))
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("failed to build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(data), 512)}
	}

	var parsed responsesResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", backoff.Permanent(fmt.Errorf("failed to decode response: %w", err))
	}
	return firstMessageText(parsed), nil
}

func firstMessageText(resp responsesResponse) string {
	for _, item := range resp.Output {
		if item.Type != "message" {
			continue
		}
		for _, content := range item.Content {
			if content.Type == "output_text" {
				return content.Text
			}
		}
		return ""
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// StatusError represents a non-2xx response from the API
type StatusError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface
func (e *StatusError) Error() string {
	return fmt.Sprintf("llm: status %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

// Retryable reports whether the request may succeed if repeated
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

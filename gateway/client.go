package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"

	"visareq/domain/core"
)

// Config holds provider settings for the OpenAI-backed completer.
type Config struct {
	APIKey        string
	BaseURL       string
	Model         string
	Temperature   float64
	MaxTokens     int
	Timeout       time.Duration
	MaxConcurrent int64 // provider quota is shared across concurrent runs
	SystemContext string
}

// OpenAIClient issues chat-completion requests against the OpenAI API.
// One request per Complete call; no internal retry.
type OpenAIClient struct {
	config Config
	http   *http.Client
	sem    *semaphore.Weighted
}

// NewOpenAIClient creates a completer from config. Calls are throttled
// centrally so concurrent runs respect the shared provider quota.
func NewOpenAIClient(config Config) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("missing OpenAI API key")
	}
	if strings.TrimSpace(config.BaseURL) == "" {
		config.BaseURL = "https://api.openai.com/v1"
	}
	if config.Timeout <= 0 {
		config.Timeout = 60 * time.Second
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = 4000
	}
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 4
	}
	log.Printf("[Gateway] Initializing client with model=%s, temp=%.2f, maxTokens=%d, timeout=%s",
		config.Model, config.Temperature, config.MaxTokens, config.Timeout)
	return &OpenAIClient{
		config: config,
		http:   &http.Client{Timeout: config.Timeout},
		sem:    semaphore.NewWeighted(config.MaxConcurrent),
	}, nil
}

// Complete sends one chat completion and returns the raw message content.
// Network, auth, quota, and timeout failures map to core.ErrProviderUnavailable.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return "", core.NewProviderError(err)
	}
	defer c.sem.Release(1)

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	type message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	type responseFormat struct {
		Type string `json:"type"`
	}
	type requestBody struct {
		Model               string          `json:"model"`
		Messages            []message       `json:"messages"`
		Temperature         float64         `json:"temperature,omitempty"`
		MaxCompletionTokens int             `json:"max_completion_tokens,omitempty"`
		ResponseFormat      *responseFormat `json:"response_format,omitempty"`
	}

	systemContent := c.config.SystemContext
	if systemContent == "" {
		systemContent = "You are a policy analysis assistant. Respond with valid JSON output only."
	}

	reqBody := requestBody{
		Model: c.config.Model,
		Messages: []message{
			{Role: "system", Content: systemContent},
			{Role: "user", Content: prompt},
		},
		Temperature:         c.config.Temperature,
		MaxCompletionTokens: c.config.MaxTokens,
		ResponseFormat:      &responseFormat{Type: "json_object"},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	log.Printf("[Gateway] Sending request to %s - promptLength=%d", c.config.Model, len(prompt))

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			log.Printf("[Gateway] Request timeout after %s", c.config.Timeout)
			return "", core.NewProviderError(fmt.Errorf("timeout after %s: %w", c.config.Timeout, err))
		}
		return "", core.NewProviderError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", core.NewProviderError(fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", core.NewProviderError(fmt.Errorf("failed to read response: %w", err))
	}

	type openAIResponse struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	var parsed openAIResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", core.NewParseError(fmt.Sprintf("unparsable provider envelope: %v", err))
	}
	if len(parsed.Choices) == 0 {
		return "", core.NewParseError("no choices in provider response")
	}

	content := parsed.Choices[0].Message.Content
	log.Printf("[Gateway] Response content length: %d bytes", len(content))
	return content, nil
}

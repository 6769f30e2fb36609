// Package openai provides a completion adapter for OpenAI-compatible
// chat completion APIs. Pointing BaseURL at a local Ollama
// (http://localhost:11434/v1) works too.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/docbase/internal/core/ports/driven"
)

// Ensure Completer implements the interfaces.
var (
	_ driven.Completer        = (*Completer)(nil)
	_ driven.PromptStoreAware = (*Completer)(nil)
)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"
	DefaultTimeout = 120 * time.Second
)

// Config holds configuration for the completer.
type Config struct {
	// APIKey is sent as a bearer token. Local endpoints may not need one.
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	BaseURL string

	// Model is the chat model to use (default: gpt-4o-mini).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration

	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
}

// Completer answers questions through /chat/completions.
type Completer struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
	prompts driven.PromptStore
}

// chatCompletionRequest is the /chat/completions request format.
type chatCompletionRequest struct {
	Model       string              `json:"model"`
	Messages    []chatCompletionMsg `json:"messages"`
	Temperature float64             `json:"temperature,omitempty"`
}

// chatCompletionMsg is the chat message format.
type chatCompletionMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionResponse is the /chat/completions response format.
type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// New creates a new completer.
func New(cfg Config) (*Completer, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.APIKey == "" && cfg.BaseURL == DefaultBaseURL {
		return nil, fmt.Errorf("openai: API key is required (set DOCBASE_API_KEY)")
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Completer{
		client:  client,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

// SetPromptStore lets the system prompt be customised from prompt files.
func (c *Completer) SetPromptStore(store driven.PromptStore) {
	c.prompts = store
}

// systemPrompt returns the configured system prompt, or the built-in one.
func (c *Completer) systemPrompt() string {
	if c.prompts == nil {
		return driven.DefaultAnswerSystemPrompt
	}
	prompt, err := c.prompts.Load(driven.PromptAnswerSystem)
	if err != nil || prompt == "" {
		return driven.DefaultAnswerSystemPrompt
	}
	return prompt
}

// Complete sends the question, its context and prior turns to the model.
func (c *Completer) Complete(ctx context.Context, req driven.CompletionRequest) (string, error) {
	reqBody := chatCompletionRequest{
		Model:       c.model,
		Messages:    buildMessages(c.systemPrompt(), req),
		Temperature: 0.2,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/chat/completions",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if chatResp.Error != nil {
		return "", fmt.Errorf("openai error: %s", chatResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai error (status %d): %s", resp.StatusCode, string(body))
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("openai: no response choices returned")
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}

// buildMessages lays out the conversation: instructions and context, the
// prior turns oldest first, then the question.
func buildMessages(systemPrompt string, req driven.CompletionRequest) []chatCompletionMsg {
	var sys strings.Builder
	sys.WriteString(systemPrompt)
	if req.Caller.Name != "" || req.Caller.Role != "" {
		fmt.Fprintf(&sys, "\n\nThe user is %s (role: %s).", orUnknown(req.Caller.Name), orUnknown(req.Caller.Role))
	}
	sys.WriteString("\n\nContext:\n")
	if req.Context == "" {
		sys.WriteString("(empty)")
	} else {
		sys.WriteString(req.Context)
	}

	messages := []chatCompletionMsg{{Role: "system", Content: sys.String()}}
	for _, turn := range req.History {
		messages = append(messages,
			chatCompletionMsg{Role: "user", Content: turn.Query},
			chatCompletionMsg{Role: "assistant", Content: turn.Answer},
		)
	}
	return append(messages, chatCompletionMsg{Role: "user", Content: req.Question})
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

// ModelName returns the name of the model being used.
func (c *Completer) ModelName() string {
	return c.model
}

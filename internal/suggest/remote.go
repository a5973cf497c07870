package suggest

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
)

const (
	DefaultBaseURL = "https://api.x.ai"
	DefaultModel   = "grok-beta"
	DefaultTimeout = 20 * time.Second

	maxResponseBytes = 1 << 20
)

const systemPrompt = "You are a functional training coach. Given the user's recent workouts, " +
	"suggest ONE next exercise. Return STRICT JSON with keys: exercise (string), " +
	"reason (string), and optionally sets (int), reps (int), duration (int seconds). " +
	"Keep parameters realistic."

// FailureKind classifies why the remote tier produced no suggestion.
type FailureKind int

const (
	ConfigAbsent FailureKind = iota + 1
	Transport
	Malformed
)

func (k FailureKind) String() string {
	switch k {
	case ConfigAbsent:
		return "config_absent"
	case Transport:
		return "transport"
	case Malformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// RemoteError is the only error type returned by RemoteClient.Fetch.
type RemoteError struct {
	Kind FailureKind
	Err  error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote suggestion (%s): %v", e.Kind, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// RemoteConfig configures the chat-completion endpoint. An empty APIKey
// disables the remote tier.
type RemoteConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

func (c RemoteConfig) withDefaults() RemoteConfig {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// RemoteClient asks an OpenAI-compatible chat-completions API for the next exercise.
type RemoteClient struct {
	cfg        RemoteConfig
	httpClient *http.Client
}

// NewRemoteClient creates a client; unset base URL, model and timeout use the defaults.
func NewRemoteClient(cfg RemoteConfig) *RemoteClient {
	cfg = cfg.withDefaults()
	return &RemoteClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Configured reports whether an API key is present.
func (c *RemoteClient) Configured() bool {
	return c.cfg.APIKey != ""
}

// Model returns the model identifier sent with each request.
func (c *RemoteClient) Model() string {
	return c.cfg.Model
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature"`
	ResponseFormat responseFormat `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Fetch sends the workout history to the remote model and returns its suggestion.
// Every failure is a *RemoteError; a partial suggestion is never returned.
func (c *RemoteClient) Fetch(ctx context.Context, history []HistoryEntry) (Suggestion, error) {
	if !c.Configured() {
		return Suggestion{}, &RemoteError{Kind: ConfigAbsent, Err: errors.New("api key not set")}
	}

	if history == nil {
		history = []HistoryEntry{}
	}
	userPrompt, err := json.Marshal(map[string]any{"recent_workouts": history})
	if err != nil {
		return Suggestion{}, &RemoteError{Kind: Transport, Err: fmt.Errorf("encoding history: %w", err)}
	}

	payload, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: string(userPrompt)},
		},
		Temperature:    0.3,
		ResponseFormat: responseFormat{Type: "json_object"},
	})
	if err != nil {
		return Suggestion{}, &RemoteError{Kind: Transport, Err: fmt.Errorf("encoding request: %w", err)}
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return Suggestion{}, &RemoteError{Kind: Transport, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Suggestion{}, &RemoteError{Kind: Transport, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Suggestion{}, &RemoteError{Kind: Transport, Err: fmt.Errorf("reading body: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Suggestion{}, &RemoteError{
			Kind: Transport,
			Err:  fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(body)),
		}
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Suggestion{}, &RemoteError{Kind: Malformed, Err: fmt.Errorf("decoding response: %w", err)}
	}
	if len(parsed.Choices) == 0 {
		return Suggestion{}, &RemoteError{Kind: Malformed, Err: errors.New("response has no choices")}
	}

	s, err := ParseSuggestion(parsed.Choices[0].Message.Content)
	if err != nil {
		return Suggestion{}, &RemoteError{Kind: Malformed, Err: err}
	}
	return s, nil
}

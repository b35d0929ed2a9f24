package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"
)

const (
	defaultClaudeBaseURL = "https://api.anthropic.com/v1/messages"
	anthropicVersion     = "2023-06-01"
)

// ClaudeClient talks to the Anthropic Messages API directly. The wire format
// is hand-built because the cache hints on exported messages map one-to-one
// onto its cache_control content blocks.
type ClaudeClient struct {
	APIKey      string
	BaseURL     string
	MaxTokens   int
	Temperature float32
	HTTP        *http.Client

	modelIDs     map[string]string
	defaultModel string
}

type claudeCacheControl struct {
	Type string `json:"type"`
}

type claudeContentBlock struct {
	Type         string              `json:"type"`
	Text         string              `json:"text"`
	CacheControl *claudeCacheControl `json:"cache_control,omitempty"`
}

type claudeMessage struct {
	Role    string               `json:"role"`
	Content []claudeContentBlock `json:"content"`
}

type claudeRequest struct {
	Model       string               `json:"model"`
	MaxTokens   int                  `json:"max_tokens"`
	System      []claudeContentBlock `json:"system"`
	Messages    []claudeMessage      `json:"messages"`
	Temperature float32              `json:"temperature"`
}

type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text,omitempty"`
	} `json:"content"`
	Usage struct {
		InputTokens              int `json:"input_tokens"`
		OutputTokens             int `json:"output_tokens"`
		CacheCreationInputTokens int `json:"cache_creation_input_tokens"`
		CacheReadInputTokens     int `json:"cache_read_input_tokens"`
	} `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewClaudeClient builds a client from config, applying the usual defaults.
func NewClaudeClient(cfg ClaudeConfig) *ClaudeClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultClaudeBaseURL
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	modelIDs := cfg.ModelIDs
	if len(modelIDs) == 0 {
		modelIDs = defaultClaudeModelIDs()
	}
	defaultModel := cfg.DefaultModel
	if _, ok := modelIDs[defaultModel]; !ok {
		defaultModel = "claude-sonnet-4-5"
	}
	return &ClaudeClient{
		APIKey:       cfg.APIKey,
		BaseURL:      baseURL,
		MaxTokens:    maxTokens,
		Temperature:  0.3,
		HTTP:         &http.Client{Timeout: 120 * time.Second},
		modelIDs:     modelIDs,
		defaultModel: defaultModel,
	}
}

func defaultClaudeModelIDs() map[string]string {
	return map[string]string{
		"claude-3-5-sonnet": "claude-3-5-sonnet-latest",
		"claude-3-7-sonnet": "claude-3-7-sonnet-latest",
		"claude-sonnet-4":   "claude-sonnet-4-0",
		"claude-sonnet-4-5": "claude-sonnet-4-5",
	}
}

// HasModel reports whether the friendly name maps to a Claude model id.
func (c *ClaudeClient) HasModel(modelName string) bool {
	_, ok := c.modelIDs[modelName]
	return ok
}

// Models lists the friendly model names, sorted for stable output.
func (c *ClaudeClient) Models() []string {
	out := make([]string, 0, len(c.modelIDs))
	for name := range c.modelIDs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// DefaultModel returns the friendly name used when the client names none.
func (c *ClaudeClient) DefaultModel() string { return c.defaultModel }

func (c *ClaudeClient) resolveModel(modelName string) string {
	if id, ok := c.modelIDs[modelName]; ok {
		return id
	}
	return c.modelIDs[c.defaultModel]
}

// Invoke performs one Messages API call. The system prompt goes out as a
// cache-marked block; each exported message block keeps its own cache hint.
func (c *ClaudeClient) Invoke(ctx context.Context, messages []ExportMessage, systemPrompt, modelName string) (string, Usage, error) {
	if c.APIKey == "" {
		return "", Usage{}, fmt.Errorf("%w: claude api key is not configured", ErrGatewayFailure)
	}

	reqBody := claudeRequest{
		Model:       c.resolveModel(modelName),
		MaxTokens:   c.MaxTokens,
		Temperature: c.Temperature,
		System: []claudeContentBlock{{
			Type:         "text",
			Text:         systemPrompt,
			CacheControl: &claudeCacheControl{Type: "ephemeral"},
		}},
		Messages: toClaudeMessages(messages),
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", Usage{}, fmt.Errorf("%w: %v", ErrGatewayFailure, err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return "", Usage{}, fmt.Errorf("%w: %v", ErrGatewayFailure, err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("x-api-key", c.APIKey)
	request.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.HTTP.Do(request)
	if err != nil {
		return "", Usage{}, fmt.Errorf("%w: %v", ErrGatewayFailure, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", Usage{}, fmt.Errorf("%w: reading response: %v", ErrGatewayFailure, err)
	}

	var parsed claudeResponse
	if resp.StatusCode >= 300 {
		if json.Unmarshal(bodyBytes, &parsed) == nil && parsed.Error != nil {
			return "", Usage{}, fmt.Errorf("%w: claude api status %d: %s", ErrGatewayFailure, resp.StatusCode, parsed.Error.Message)
		}
		return "", Usage{}, fmt.Errorf("%w: claude api status %d: %s", ErrGatewayFailure, resp.StatusCode, string(bodyBytes))
	}
	if err := json.Unmarshal(bodyBytes, &parsed); err != nil {
		return "", Usage{}, fmt.Errorf("%w: invalid response: %v", ErrGatewayFailure, err)
	}
	if parsed.Error != nil {
		return "", Usage{}, fmt.Errorf("%w: claude api error: %s", ErrGatewayFailure, parsed.Error.Message)
	}

	var text string
	for _, block := range parsed.Content {
		if block.Type == "text" && block.Text != "" {
			text = block.Text
			break
		}
	}
	if text == "" {
		return "", Usage{}, fmt.Errorf("%w: response contained no text content", ErrGatewayFailure)
	}

	usage := Usage{
		InputTokens:      parsed.Usage.InputTokens,
		OutputTokens:     parsed.Usage.OutputTokens,
		CacheWriteTokens: parsed.Usage.CacheCreationInputTokens,
		CacheReadTokens:  parsed.Usage.CacheReadInputTokens,
	}
	return text, usage, nil
}

func toClaudeMessages(messages []ExportMessage) []claudeMessage {
	out := make([]claudeMessage, 0, len(messages))
	for _, m := range messages {
		cm := claudeMessage{Role: string(m.Role)}
		for _, b := range m.Blocks {
			block := claudeContentBlock{Type: "text", Text: b.Text}
			if b.CacheHint {
				block.CacheControl = &claudeCacheControl{Type: "ephemeral"}
			}
			cm.Content = append(cm.Content, block)
		}
		out = append(out, cm)
	}
	return out
}

package app

import (
	"context"
	"fmt"
	"sort"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient wraps the official-style OpenAI SDK behind the Gateway
// interface. Cache hints on exported messages are ignored here: OpenAI
// decides caching on its own, and we flatten each export message back to
// plain text.
type OpenAIClient struct {
	client      *openai.Client
	maxTokens   int
	temperature float32

	modelIDs     map[string]string
	defaultModel string
}

// NewOpenAIClient builds a client from config. BaseURL is overridable so
// tests can point the SDK at a local server.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	modelIDs := cfg.ModelIDs
	if len(modelIDs) == 0 {
		modelIDs = defaultOpenAIModelIDs()
	}
	defaultModel := cfg.DefaultModel
	if _, ok := modelIDs[defaultModel]; !ok {
		defaultModel = "gpt-4o"
	}
	return &OpenAIClient{
		client:       openai.NewClientWithConfig(clientCfg),
		maxTokens:    maxTokens,
		temperature:  0.3,
		modelIDs:     modelIDs,
		defaultModel: defaultModel,
	}
}

func defaultOpenAIModelIDs() map[string]string {
	return map[string]string{
		"gpt-4o":      "gpt-4o-2024-11-20",
		"gpt-4o-mini": "gpt-4o-mini-2024-07-18",
		"o1":          "o1-2024-12-17",
		"o1-mini":     "o1-mini-2024-09-12",
	}
}

// HasModel reports whether the friendly name maps to an OpenAI model id.
func (c *OpenAIClient) HasModel(modelName string) bool {
	_, ok := c.modelIDs[modelName]
	return ok
}

// Models lists the friendly model names, sorted for stable output.
func (c *OpenAIClient) Models() []string {
	out := make([]string, 0, len(c.modelIDs))
	for name := range c.modelIDs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// DefaultModel returns the friendly name used when the client names none.
func (c *OpenAIClient) DefaultModel() string { return c.defaultModel }

func (c *OpenAIClient) resolveModel(modelName string) string {
	if id, ok := c.modelIDs[modelName]; ok {
		return id
	}
	return c.modelIDs[c.defaultModel]
}

// Invoke performs one chat completion. The system prompt rides as the leading
// system message; exported blocks are flattened to plain content.
func (c *OpenAIClient) Invoke(ctx context.Context, messages []ExportMessage, systemPrompt, modelName string) (string, Usage, error) {
	chat := make([]openai.ChatCompletionMessage, 0, len(messages)+1)
	chat = append(chat, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, m := range messages {
		chat = append(chat, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Text(),
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.resolveModel(modelName),
		Messages:    chat,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", Usage{}, fmt.Errorf("%w: openai api: %v", ErrGatewayFailure, err)
	}
	if len(resp.Choices) == 0 {
		return "", Usage{}, fmt.Errorf("%w: openai response contained no choices", ErrGatewayFailure)
	}

	usage := Usage{
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}
	if resp.Usage.PromptTokensDetails != nil {
		usage.CacheReadTokens = resp.Usage.PromptTokensDetails.CachedTokens
	}
	return resp.Choices[0].Message.Content, usage, nil
}

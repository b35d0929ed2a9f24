package app

import (
	"context"
	"errors"
)

// Provider tags the hosted completion backends this service can route to.
type Provider string

const (
	ProviderClaude Provider = "claude"
	ProviderOpenAI Provider = "openai"
)

// ErrGatewayFailure wraps every failed provider call. The core never
// interprets provider-specific error codes; a failed remote call is one
// opaque condition and the turn fails as a whole.
var ErrGatewayFailure = errors.New("provider call failed")

// Usage is the provider-neutral token accounting for one completion call.
// Fields a provider does not report stay zero; the OpenAI single cached-token
// figure lands in CacheReadTokens.
type Usage struct {
	InputTokens      int `json:"input_tokens"`
	OutputTokens     int `json:"output_tokens"`
	CacheWriteTokens int `json:"cache_write_tokens"`
	CacheReadTokens  int `json:"cache_read_tokens"`
}

// Gateway is the uniform surface over one completion provider: resolve the
// friendly model name, perform the remote call, and normalize usage.
type Gateway interface {
	// Invoke sends the exported conversation plus the out-of-band system
	// prompt and returns the model's raw reply text. Errors wrap
	// ErrGatewayFailure.
	Invoke(ctx context.Context, messages []ExportMessage, systemPrompt, modelName string) (string, Usage, error)

	// HasModel reports whether the friendly model name belongs to this
	// provider.
	HasModel(modelName string) bool

	// Models lists the friendly model names this provider serves.
	Models() []string

	// DefaultModel is the friendly name used when the client names none.
	DefaultModel() string
}

// DetermineProvider routes a friendly model name to a provider tag. Unknown
// names fall through to Claude.
func DetermineProvider(modelName string, claude, openai Gateway) Provider {
	switch {
	case claude != nil && claude.HasModel(modelName):
		return ProviderClaude
	case openai != nil && openai.HasModel(modelName):
		return ProviderOpenAI
	default:
		return ProviderClaude
	}
}

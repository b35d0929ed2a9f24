package app

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

// ChatRequest is one inbound chat turn.
type ChatRequest struct {
	Query     string       `json:"query"`
	Context   *ChatContext `json:"context,omitempty"`
	SessionID string       `json:"session_id"`
	ModelName string       `json:"model_name,omitempty"`
}

// ChatResponse is the envelope returned for every successful turn, including
// the parse-failure fallbacks. Usage is always present: tokens were spent even
// when the reply did not parse.
type ChatResponse struct {
	Type          ResponseKind   `json:"type"`
	Parsed        ParsedResponse `json:"parsed"`
	SessionID     string         `json:"session_id"`
	IsCodeChange  bool           `json:"is_code_change"`
	RequestType   string         `json:"request_type"`
	WorkspaceTree *WorkspaceTree `json:"workspace_tree,omitempty"`
	Usage         Usage          `json:"usage"`
	ModelName     string         `json:"model_name"`
	Provider      Provider       `json:"provider"`
}

// ChatService routes chat turns to the right provider and keeps session state.
type ChatService struct {
	Store  *SessionStore
	Claude Gateway
	OpenAI Gateway
	Log    *Logger
}

func NewChatService(cfg Config, log *Logger) *ChatService {
	return &ChatService{
		Store:  NewSessionStore(cfg.MaxMessages),
		Claude: NewClaudeClient(cfg.Claude),
		OpenAI: NewOpenAIClient(cfg.OpenAI),
		Log:    log,
	}
}

func (s *ChatService) gateway(p Provider) Gateway {
	if p == ProviderOpenAI {
		return s.OpenAI
	}
	return s.Claude
}

// ProcessChat runs one full chat turn: classify, assemble the user message,
// call the provider, record both turns, and parse the reply.
//
// The whole turn runs under the session lock so concurrent requests against
// one session serialize instead of interleaving. On a gateway failure the
// already-recorded user turn stays in the buffer; retrying the turn appends a
// second user message, which providers tolerate.
func (s *ChatService) ProcessChat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = "default"
	}
	modelName := req.ModelName
	if modelName == "" {
		modelName = s.Claude.DefaultModel()
	}
	provider := DetermineProvider(modelName, s.Claude, s.OpenAI)
	gw := s.gateway(provider)

	session := s.Store.Get(sessionID)
	session.mu.Lock()
	defer session.mu.Unlock()

	buf := session.buffer(provider)
	hasContext := req.Context.HasContent()
	hasPreviousCode := session.lastGeneratedCode != ""

	buf.InjectExamples()

	contextString := BuildContextString(req.Context)
	isModification := IsModificationRequest(req.Query, hasContext, hasPreviousCode)

	systemPrompt := claudeSystemPrompt
	if provider == ProviderOpenAI {
		systemPrompt = openaiSystemPrompt
	}

	userMessage := BuildUserMessage(req.Query, contextString, session.lastGeneratedCode, isModification)
	buf.AddMessage(RoleUser, userMessage)

	export := buf.ExportForCall()

	requestID := uuid.NewString()
	s.Log.Debug("calling provider", map[string]interface{}{
		"request_id":       requestID,
		"session_id":       sessionID,
		"provider":         provider,
		"model":            modelName,
		"messages":         len(export),
		"estimated_tokens": EstimateExportTokens(export),
		"is_modification":  isModification,
	})

	raw, usage, err := gw.Invoke(ctx, export, systemPrompt, modelName)
	if err != nil {
		s.Log.Error("provider call failed", map[string]interface{}{
			"request_id": requestID,
			"session_id": sessionID,
			"provider":   provider,
			"error":      err.Error(),
		})
		return ChatResponse{}, err
	}
	buf.AddMessage(RoleAssistant, raw)

	parsed := ParseAssistantReply(raw, IsLikelyCodeRequest(req.Query))
	if parsed.Type == KindCodeGeneration {
		if payload, err := json.MarshalIndent(parsed, "", "  "); err == nil {
			session.lastGeneratedCode = string(payload)
		}
	}

	var tree *WorkspaceTree
	if req.Context != nil {
		tree = req.Context.WorkspaceTree
	}

	s.Log.Info("chat turn complete", map[string]interface{}{
		"request_id":    requestID,
		"session_id":    sessionID,
		"provider":      provider,
		"model":         modelName,
		"response_type": parsed.Type,
		"input_tokens":  usage.InputTokens,
		"output_tokens": usage.OutputTokens,
		"cache_read":    usage.CacheReadTokens,
		"cache_write":   usage.CacheWriteTokens,
	})

	return ChatResponse{
		Type:          parsed.Type,
		Parsed:        parsed,
		SessionID:     sessionID,
		IsCodeChange:  parsed.IsCode(),
		RequestType:   requestType(parsed.Type),
		WorkspaceTree: tree,
		Usage:         usage,
		ModelName:     modelName,
		Provider:      provider,
	}, nil
}

func requestType(kind ResponseKind) string {
	switch kind {
	case KindCodeChanges:
		return "modification"
	case KindCodeGeneration:
		return "generation"
	case KindConversation:
		return "conversation"
	default:
		return "error"
	}
}

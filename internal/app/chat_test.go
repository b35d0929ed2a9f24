package app

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

// fakeGateway scripts provider replies and records what it was invoked with.
type fakeGateway struct {
	models  map[string]bool
	def     string
	reply   string
	usage   Usage
	err     error
	invoked int

	lastMessages []ExportMessage
	lastSystem   string
	lastModel    string
}

func (f *fakeGateway) Invoke(_ context.Context, messages []ExportMessage, systemPrompt, modelName string) (string, Usage, error) {
	f.invoked++
	f.lastMessages = messages
	f.lastSystem = systemPrompt
	f.lastModel = modelName
	if f.err != nil {
		return "", Usage{}, f.err
	}
	return f.reply, f.usage, nil
}

func (f *fakeGateway) HasModel(name string) bool { return f.models[name] }

func (f *fakeGateway) Models() []string {
	var out []string
	for m := range f.models {
		out = append(out, m)
	}
	return out
}

func (f *fakeGateway) DefaultModel() string { return f.def }

func newTestService(claude, openai *fakeGateway) *ChatService {
	return &ChatService{
		Store:  NewSessionStore(20),
		Claude: claude,
		OpenAI: openai,
		Log:    NewLogger(io.Discard, false),
	}
}

func fakeClaude() *fakeGateway {
	return &fakeGateway{
		models: map[string]bool{"claude-sonnet-4-5": true, "claude-3-5-sonnet": true},
		def:    "claude-sonnet-4-5",
	}
}

func fakeOpenAI() *fakeGateway {
	return &fakeGateway{
		models: map[string]bool{"gpt-4o": true, "o1": true},
		def:    "gpt-4o",
	}
}

const generationReply = `Analysis first.

{"type":"code_generation","changes":[{"file":"src/App.jsx","content":"export default function App() {}"}],"summary":"App shell"}`

func TestProcessChatGeneration(t *testing.T) {
	t.Parallel()

	claude := fakeClaude()
	claude.reply = generationReply
	claude.usage = Usage{InputTokens: 100, OutputTokens: 50, CacheWriteTokens: 80}
	svc := newTestService(claude, fakeOpenAI())

	resp, err := svc.ProcessChat(context.Background(), ChatRequest{Query: "create a todo app"})
	if err != nil {
		t.Fatalf("ProcessChat returned error: %v", err)
	}

	if resp.SessionID != "default" {
		t.Fatalf("SessionID = %q, want default", resp.SessionID)
	}
	if resp.Provider != ProviderClaude || resp.ModelName != "claude-sonnet-4-5" {
		t.Fatalf("routed to %s/%s, want claude/claude-sonnet-4-5", resp.Provider, resp.ModelName)
	}
	if resp.Type != KindCodeGeneration || !resp.IsCodeChange || resp.RequestType != "generation" {
		t.Fatalf("response envelope = %+v", resp)
	}
	if resp.Usage.InputTokens != 100 || resp.Usage.CacheWriteTokens != 80 {
		t.Fatalf("Usage = %+v", resp.Usage)
	}
	if claude.lastSystem != claudeSystemPrompt {
		t.Fatalf("claude call used wrong system prompt")
	}

	// The call must include the priming pair plus the user turn.
	if len(claude.lastMessages) != 3 {
		t.Fatalf("gateway saw %d messages, want 3", len(claude.lastMessages))
	}
	if !strings.Contains(claude.lastMessages[2].Text(), "<user_request>") {
		t.Fatalf("user turn missing request block: %q", claude.lastMessages[2].Text())
	}

	if svc.Store.LastGeneratedCode("default") == "" {
		t.Fatalf("generated code not persisted")
	}
	if got := len(svc.Store.History("default", ProviderClaude)); got != 4 {
		t.Fatalf("history has %d messages, want 4 (pair + user + assistant)", got)
	}
}

func TestProcessChatModificationUsesPreviousCode(t *testing.T) {
	t.Parallel()

	claude := fakeClaude()
	claude.reply = generationReply
	svc := newTestService(claude, fakeOpenAI())

	if _, err := svc.ProcessChat(context.Background(), ChatRequest{Query: "create a todo app", SessionID: "s"}); err != nil {
		t.Fatalf("first turn: %v", err)
	}

	claude.reply = `ok {"type":"code_changes","changes":[{"file":"src/App.jsx","modifications":[{"operation":"replace","start_line":1,"end_line":1,"new_content":"x"}]}],"summary":"tweak"}`
	resp, err := svc.ProcessChat(context.Background(), ChatRequest{Query: "fix the App component", SessionID: "s"})
	if err != nil {
		t.Fatalf("second turn: %v", err)
	}

	last := claude.lastMessages[len(claude.lastMessages)-1].Text()
	if !strings.Contains(last, "<previous_code>") {
		t.Fatalf("modification turn missing previous code block:\n%s", last)
	}
	if resp.Type != KindCodeChanges || resp.RequestType != "modification" {
		t.Fatalf("envelope = type %q request_type %q", resp.Type, resp.RequestType)
	}
}

func TestProcessChatExplicitContextBeatsPreviousCode(t *testing.T) {
	t.Parallel()

	claude := fakeClaude()
	claude.reply = generationReply
	svc := newTestService(claude, fakeOpenAI())

	if _, err := svc.ProcessChat(context.Background(), ChatRequest{Query: "create a form", SessionID: "s"}); err != nil {
		t.Fatalf("first turn: %v", err)
	}

	_, err := svc.ProcessChat(context.Background(), ChatRequest{
		Query:     "fix the handler",
		SessionID: "s",
		Context: &ChatContext{OpenFiles: []FileContext{
			{Path: "src/Form.jsx", Content: "..."},
		}},
	})
	if err != nil {
		t.Fatalf("second turn: %v", err)
	}

	last := claude.lastMessages[len(claude.lastMessages)-1].Text()
	if !strings.Contains(last, "<workspace_context>") || strings.Contains(last, "<previous_code>") {
		t.Fatalf("explicit context did not win:\n%s", last)
	}
}

func TestProcessChatRoutesToOpenAI(t *testing.T) {
	t.Parallel()

	openai := fakeOpenAI()
	openai.reply = generationReply
	claude := fakeClaude()
	svc := newTestService(claude, openai)

	resp, err := svc.ProcessChat(context.Background(), ChatRequest{Query: "create an app", ModelName: "gpt-4o"})
	if err != nil {
		t.Fatalf("ProcessChat returned error: %v", err)
	}
	if resp.Provider != ProviderOpenAI {
		t.Fatalf("Provider = %q, want openai", resp.Provider)
	}
	if claude.invoked != 0 || openai.invoked != 1 {
		t.Fatalf("invocations claude=%d openai=%d", claude.invoked, openai.invoked)
	}
	if openai.lastSystem != openaiSystemPrompt {
		t.Fatalf("openai call used wrong system prompt")
	}
}

func TestProcessChatUnknownModelDefaultsToClaude(t *testing.T) {
	t.Parallel()

	claude := fakeClaude()
	claude.reply = generationReply
	svc := newTestService(claude, fakeOpenAI())

	resp, err := svc.ProcessChat(context.Background(), ChatRequest{Query: "create an app", ModelName: "mystery-model"})
	if err != nil {
		t.Fatalf("ProcessChat returned error: %v", err)
	}
	if resp.Provider != ProviderClaude || claude.invoked != 1 {
		t.Fatalf("unknown model routed to %q", resp.Provider)
	}
}

func TestProcessChatGatewayFailureLeavesUserTurn(t *testing.T) {
	t.Parallel()

	claude := fakeClaude()
	claude.err = ErrGatewayFailure
	svc := newTestService(claude, fakeOpenAI())

	_, err := svc.ProcessChat(context.Background(), ChatRequest{Query: "create an app", SessionID: "s"})
	if !errors.Is(err, ErrGatewayFailure) {
		t.Fatalf("error = %v, want ErrGatewayFailure", err)
	}

	// The user turn stays recorded; pair + dangling user message.
	if got := len(svc.Store.History("s", ProviderClaude)); got != 3 {
		t.Fatalf("history has %d messages after failure, want 3", got)
	}
}

func TestProcessChatConversationFallback(t *testing.T) {
	t.Parallel()

	claude := fakeClaude()
	claude.reply = "Doing great, thanks!"
	claude.usage = Usage{InputTokens: 12, OutputTokens: 8}
	svc := newTestService(claude, fakeOpenAI())

	resp, err := svc.ProcessChat(context.Background(), ChatRequest{Query: "how are you"})
	if err != nil {
		t.Fatalf("ProcessChat returned error: %v", err)
	}
	if resp.Type != KindConversation || resp.IsCodeChange || resp.RequestType != "conversation" {
		t.Fatalf("envelope = %+v", resp)
	}
	if resp.Parsed.Summary != "Doing great, thanks!" {
		t.Fatalf("Summary = %q", resp.Parsed.Summary)
	}
	if resp.Usage.InputTokens != 12 {
		t.Fatalf("usage not reported on fallback: %+v", resp.Usage)
	}
	if svc.Store.LastGeneratedCode("default") != "" {
		t.Fatalf("conversation fallback persisted generated code")
	}
}

func TestProcessChatErrorFallback(t *testing.T) {
	t.Parallel()

	claude := fakeClaude()
	claude.reply = "I cannot help with that."
	svc := newTestService(claude, fakeOpenAI())

	resp, err := svc.ProcessChat(context.Background(), ChatRequest{Query: "create a dashboard"})
	if err != nil {
		t.Fatalf("ProcessChat returned error: %v", err)
	}
	if resp.Type != KindError || resp.RequestType != "error" {
		t.Fatalf("envelope = %+v", resp)
	}
	if resp.Parsed.Error == "" || resp.Parsed.Summary != "I cannot help with that." {
		t.Fatalf("parsed fallback = %+v", resp.Parsed)
	}
}

func TestProcessChatEchoesWorkspaceTree(t *testing.T) {
	t.Parallel()

	claude := fakeClaude()
	claude.reply = generationReply
	svc := newTestService(claude, fakeOpenAI())

	tree := &WorkspaceTree{Root: "my-app"}
	resp, err := svc.ProcessChat(context.Background(), ChatRequest{
		Query:   "create an app",
		Context: &ChatContext{WorkspaceTree: tree},
	})
	if err != nil {
		t.Fatalf("ProcessChat returned error: %v", err)
	}
	if resp.WorkspaceTree == nil || resp.WorkspaceTree.Root != "my-app" {
		t.Fatalf("WorkspaceTree = %+v", resp.WorkspaceTree)
	}
}

package app

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
)

// ResponseKind tags the shape of a parsed assistant reply. The tag is taken
// from the model's own JSON output, never inferred from the request.
type ResponseKind string

const (
	KindCodeGeneration ResponseKind = "code_generation"
	KindCodeChanges    ResponseKind = "code_changes"
	KindConversation   ResponseKind = "conversation"
	KindError          ResponseKind = "error"
)

// ParsedResponse is the structured form of one assistant reply. Changes is
// populated for the code kinds; Summary carries the model's own description,
// or the raw reply text for the fallback kinds.
type ParsedResponse struct {
	Type    ResponseKind `json:"type"`
	Changes []FileChange `json:"changes,omitempty"`
	Summary string       `json:"summary,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// IsCode reports whether the response carries applicable code.
func (p ParsedResponse) IsCode() bool {
	return p.Type == KindCodeGeneration || p.Type == KindCodeChanges
}

// ExtractJSON locates the JSON candidate inside free-form model output: the
// span from the first '{' to the last '}'. The prompts tell the model to emit
// a short analysis followed by exactly one JSON object, so this is a
// deliberate best-effort heuristic, not a parser — prose that itself quotes a
// brace pair before the payload will confuse it (known limitation).
func ExtractJSON(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// ParseAssistantReply turns an assistant's free-text reply into a
// ParsedResponse. It never fails: when no JSON payload can be decoded the
// reply degrades to a conversation (small talk) or an error (the query
// clearly wanted code), in both cases carrying the raw text.
//
// A code_changes payload comes back with its modification batch already in
// SortModifications order. Legacy old_content fields on modifications are
// accepted on input and dropped: decoding goes through typed structs that do
// not carry the field. A payload without a type tag is treated as a full
// generation rather than rejected; providers drift on output shape and a
// masked default beats a hard failure here.
func ParseAssistantReply(raw string, likelyCode bool) ParsedResponse {
	candidate, ok := ExtractJSON(raw)
	if !ok || !gjson.Valid(candidate) {
		return fallbackResponse(raw, likelyCode, "no JSON payload found")
	}

	var parsed ParsedResponse
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		return fallbackResponse(raw, likelyCode, err.Error())
	}

	if tag := gjson.Get(candidate, "type"); !tag.Exists() || parsed.Type == "" {
		parsed.Type = KindCodeGeneration
	}
	if parsed.Type == KindCodeChanges {
		parsed.Changes = SortModifications(parsed.Changes)
	}
	return parsed
}

func fallbackResponse(raw string, likelyCode bool, reason string) ParsedResponse {
	if !likelyCode {
		return ParsedResponse{
			Type:    KindConversation,
			Summary: strings.TrimSpace(raw),
		}
	}
	return ParsedResponse{
		Type:    KindError,
		Error:   "expected code but received unexpected response: " + reason,
		Summary: strings.TrimSpace(raw),
	}
}

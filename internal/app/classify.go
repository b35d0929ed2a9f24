package app

import "strings"

// Keyword vocabularies for request classification. Matching is substring
// based on the lowercased query, which is crude but cheap; the authoritative
// response kind always comes from the model's own type tag, these only steer
// prompt assembly and the parse-failure fallback.

var modificationKeywords = []string{
	"change", "modify", "update", "fix", "add", "remove", "delete",
	"edit", "refactor", "improve", "adjust", "alter", "correct",
	"replace", "swap", "rename", "move", "convert",
}

var referenceKeywords = []string{
	"the code", "above", "previous", "existing", "current",
	"this code", "that function", "the function", "this component",
}

var codeKeywords = []string{
	"create", "generate", "build", "make", "add", "modify",
	"change", "update", "fix", "remove", "delete", "refactor",
	"component", "hook", "function", "app", "page", "form",
}

// IsModificationRequest reports whether the query asks to edit code the model
// can actually see: it needs a modification verb or a backward reference, and
// either explicit context or previously generated code to anchor to.
func IsModificationRequest(query string, hasContext, hasPreviousCode bool) bool {
	if !hasContext && !hasPreviousCode {
		return false
	}
	q := strings.ToLower(query)
	return containsAny(q, modificationKeywords) || containsAny(q, referenceKeywords)
}

// IsLikelyCodeRequest reports whether the query looks like it wants code at
// all. Only consulted after a parse failure, to choose between a
// conversational fallback and a code-parse error.
func IsLikelyCodeRequest(query string) bool {
	return containsAny(strings.ToLower(query), codeKeywords)
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

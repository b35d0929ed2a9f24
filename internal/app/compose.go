package app

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FileContext is one open file supplied by the client.
type FileContext struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// WorkspaceNode is one entry of the client's workspace tree. Type is "file"
// or "folder".
type WorkspaceNode struct {
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	Children []WorkspaceNode `json:"children,omitempty"`
}

// WorkspaceTree is the client's view of the project layout.
type WorkspaceTree struct {
	Root     string          `json:"root"`
	Children []WorkspaceNode `json:"children"`
}

// ChatContext bundles the optional structured context of a chat request.
type ChatContext struct {
	OpenFiles     []FileContext  `json:"open_files,omitempty"`
	WorkspaceTree *WorkspaceTree `json:"workspace_tree,omitempty"`
}

// HasContent reports whether there is anything worth attaching.
func (c *ChatContext) HasContent() bool {
	return c != nil && (len(c.OpenFiles) > 0 || c.WorkspaceTree != nil)
}

// BuildContextString renders the structured context as the XML-ish block the
// prompts teach the model to read. Returns "" when there is nothing to show.
func BuildContextString(ctx *ChatContext) string {
	if !ctx.HasContent() {
		return ""
	}

	var parts []string
	if len(ctx.OpenFiles) > 0 {
		parts = append(parts, "<open_files>")
		for _, f := range ctx.OpenFiles {
			parts = append(parts, fmt.Sprintf("<file path='%s'>", f.Path))
			parts = append(parts, f.Content)
			parts = append(parts, "</file>")
		}
		parts = append(parts, "</open_files>")
	}
	if ctx.WorkspaceTree != nil {
		tree, _ := json.MarshalIndent(ctx.WorkspaceTree, "", "  ")
		parts = append(parts, "<workspace_structure>")
		parts = append(parts, fmt.Sprintf("<root>%s</root>", ctx.WorkspaceTree.Root))
		parts = append(parts, string(tree))
		parts = append(parts, "</workspace_structure>")
	}
	return strings.Join(parts, "\n")
}

// BuildUserMessage assembles the single user turn for this request. At most
// one contextual block is attached: explicit workspace context wins; a
// modification request with no context falls back to the session's previously
// generated code so the model still has something to edit. The literal query
// always closes the message under its own delimiter.
func BuildUserMessage(query, contextString, previousCode string, isModification bool) string {
	var parts []string
	if contextString != "" {
		parts = append(parts, "<workspace_context>\n"+contextString+"\n</workspace_context>\n")
	} else if isModification && previousCode != "" {
		parts = append(parts, "<previous_code>\n"+previousCode+"\n</previous_code>\n")
	}
	parts = append(parts, "<user_request>\n"+query+"\n</user_request>")
	return strings.Join(parts, "\n")
}

package app

// Role identifies the author of a conversation message. The system prompt is
// always sent out-of-band on the provider call and is never stored in a
// buffer, so there is no system role here.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one stored conversation turn. Stored messages are always plain
// text; cache markers exist only on the exported form.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ContentBlock is one piece of exported message content. CacheHint marks the
// block as the end of a stable prefix that the provider may cache across
// calls. It is a cost hint, never a correctness requirement.
type ContentBlock struct {
	Text      string
	CacheHint bool
}

// ExportMessage is a message prepared for a provider call.
type ExportMessage struct {
	Role   Role
	Blocks []ContentBlock
}

// Text joins the message's blocks back into plain text. Gateways that have no
// notion of per-block cache hints flatten with this.
func (m ExportMessage) Text() string {
	if len(m.Blocks) == 1 {
		return m.Blocks[0].Text
	}
	var out string
	for _, b := range m.Blocks {
		out += b.Text
	}
	return out
}

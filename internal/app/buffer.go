package app

import "fmt"

const (
	// DefaultMaxMessages bounds how many turns one session retains.
	DefaultMaxMessages = 20

	// exportVerbatimThreshold: buffers at or under this size are exported
	// as-is; there is not enough history to be worth annotating.
	exportVerbatimThreshold = 3

	// recentWindow is how many trailing messages stay unmarked on export so
	// the cache boundary sits behind the still-changing tail.
	recentWindow = 3
)

// ConversationBuffer holds the bounded message history for one session and
// one provider. It pins an optional priming pair at positions 0-1 and decides
// at export time which message should carry the provider cache hint.
//
// The buffer itself is not goroutine-safe; the session store serializes turns
// per session before touching it.
type ConversationBuffer struct {
	messages         []Message
	maxMessages      int
	primingPair      [2]Message
	examplesInjected bool

	// markCache enables the export-time cache window. Providers with
	// automatic prefix caching get the raw history instead.
	markCache bool
}

// NewConversationBuffer creates an empty buffer. maxMessages <= 0 selects
// DefaultMaxMessages.
func NewConversationBuffer(maxMessages int, primingPair [2]Message, markCache bool) *ConversationBuffer {
	if maxMessages <= 0 {
		maxMessages = DefaultMaxMessages
	}
	return &ConversationBuffer{
		maxMessages: maxMessages,
		primingPair: primingPair,
		markCache:   markCache,
	}
}

// InjectExamples seeds positions 0-1 with the priming pair. It does nothing
// unless the buffer is empty and examples were never injected before.
func (b *ConversationBuffer) InjectExamples() {
	if b.examplesInjected || len(b.messages) > 0 {
		return
	}
	b.messages = append(b.messages, b.primingPair[0], b.primingPair[1])
	b.examplesInjected = true
}

// AddMessage appends one turn and immediately applies the trim policy. The
// text is taken verbatim; on the assistant side it is the model's own output.
func (b *ConversationBuffer) AddMessage(role Role, text string) {
	if role != RoleUser && role != RoleAssistant {
		panic(fmt.Sprintf("conversation buffer: invalid role %q", role))
	}
	b.messages = append(b.messages, Message{Role: role, Content: text})
	b.trim()
}

// trim keeps the buffer at or under maxMessages. With examples injected the
// priming pair is pinned and only the tail is kept; if the message right
// after the pair is then not a user turn it is dropped as well, so every
// replay starts with a user message. Losing that one turn of context is the
// accepted cost of restoring alternation.
func (b *ConversationBuffer) trim() {
	if len(b.messages) <= b.maxMessages {
		return
	}
	if b.examplesInjected {
		kept := make([]Message, 0, b.maxMessages)
		kept = append(kept, b.messages[:2]...)
		kept = append(kept, b.messages[len(b.messages)-(b.maxMessages-2):]...)
		b.messages = kept
		if len(b.messages) > 2 && b.messages[2].Role != RoleUser {
			b.messages = append(b.messages[:2], b.messages[3:]...)
		}
		return
	}
	kept := make([]Message, b.maxMessages)
	copy(kept, b.messages[len(b.messages)-b.maxMessages:])
	b.messages = kept
}

// ExportForCall returns the sequence to hand to the provider.
//
// Small buffers (and buffers without cache marking) go out verbatim.
// Otherwise the conversation after the priming pair is split into an older
// prefix and a recent suffix of recentWindow messages, and only the last
// message of the older prefix carries the cache hint: caching is prefix
// based, so marking the boundary covers everything before it, priming pair
// included.
func (b *ConversationBuffer) ExportForCall() []ExportMessage {
	if !b.markCache || len(b.messages) <= exportVerbatimThreshold {
		return exportPlain(b.messages)
	}

	conversation := b.messages
	var out []ExportMessage
	if b.examplesInjected {
		out = exportPlain(b.messages[:2])
		conversation = b.messages[2:]
	}
	if len(conversation) <= recentWindow {
		return exportPlain(b.messages)
	}

	older := conversation[:len(conversation)-recentWindow]
	recent := conversation[len(conversation)-recentWindow:]
	for i, m := range older {
		em := ExportMessage{Role: m.Role, Blocks: []ContentBlock{{Text: m.Content}}}
		if i == len(older)-1 {
			em.Blocks[0].CacheHint = true
		}
		out = append(out, em)
	}
	return append(out, exportPlain(recent)...)
}

// Messages returns a copy of the stored history.
func (b *ConversationBuffer) Messages() []Message {
	out := make([]Message, len(b.messages))
	copy(out, b.messages)
	return out
}

// Len reports the number of stored messages.
func (b *ConversationBuffer) Len() int { return len(b.messages) }

// ExamplesInjected reports whether the priming pair is in place.
func (b *ConversationBuffer) ExamplesInjected() bool { return b.examplesInjected }

func exportPlain(msgs []Message) []ExportMessage {
	out := make([]ExportMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, ExportMessage{Role: m.Role, Blocks: []ContentBlock{{Text: m.Content}}})
	}
	return out
}

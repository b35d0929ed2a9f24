package app

import "sync"

// Session is one conversation's in-process state. Each provider keeps its own
// buffer because the priming pairs differ and histories must not leak across
// backends; lastGeneratedCode is shared so a modification request can follow a
// generation regardless of which provider produced it.
//
// mu serializes whole chat turns for the session, including the remote call.
// Concurrent requests against one session would otherwise interleave their
// buffer writes and corrupt the user/assistant alternation.
type Session struct {
	mu sync.Mutex

	claude *ConversationBuffer
	openai *ConversationBuffer

	lastGeneratedCode string
}

func (s *Session) buffer(p Provider) *ConversationBuffer {
	if p == ProviderOpenAI {
		return s.openai
	}
	return s.claude
}

// SessionStore holds every live session, keyed by client-chosen id. State is
// process memory only; a restart forgets everything.
type SessionStore struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	maxMessages int
}

func NewSessionStore(maxMessages int) *SessionStore {
	if maxMessages <= 0 {
		maxMessages = DefaultMaxMessages
	}
	return &SessionStore{
		sessions:    make(map[string]*Session),
		maxMessages: maxMessages,
	}
}

// Get returns the session for id, creating it on first touch. Claude buffers
// carry cache marking; OpenAI buffers do not.
func (st *SessionStore) Get(id string) *Session {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if ok {
		return s
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if s, ok := st.sessions[id]; ok {
		return s
	}
	s = &Session{
		claude: NewConversationBuffer(st.maxMessages, ClaudePrimingPair(), true),
		openai: NewConversationBuffer(st.maxMessages, OpenAIPrimingPair(), false),
	}
	st.sessions[id] = s
	return s
}

// Reset discards the session's state entirely. Resetting an id that was never
// seen is a no-op; the next Get starts fresh either way.
func (st *SessionStore) Reset(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// History returns the stored conversation of one provider's buffer for the
// session, or nil if the session does not exist. Priming turns are included
// when already injected, matching what the next export would build from.
func (st *SessionStore) History(id string, p Provider) []Message {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buffer(p).Messages()
}

// ExamplesInjected reports whether the priming pair is in place on one
// provider's buffer for the session. False for unknown sessions.
func (st *SessionStore) ExamplesInjected(id string, p Provider) bool {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buffer(p).ExamplesInjected()
}

// LastGeneratedCode returns the raw JSON payload of the session's most recent
// code generation, or "" when there is none.
func (st *SessionStore) LastGeneratedCode(id string) string {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastGeneratedCode
}

// Len reports how many sessions are live.
func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

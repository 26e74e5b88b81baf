package agent

import (
	"sync"

	"github.com/dukebot/dukebot-go/internal/genai"
)

// historyStore keeps bounded per-session conversation history in memory.
// Sessions are independent; there is no eviction beyond the per-session turn
// cap, so the store is sized for a single-process deployment.
type historyStore struct {
	mu       sync.RWMutex
	sessions map[string][]genai.Message
	limit    int
}

// newHistoryStore creates a store keeping at most limit turns per session.
// One turn is a user message plus the assistant reply.
func newHistoryStore(limit int) *historyStore {
	return &historyStore{
		sessions: make(map[string][]genai.Message),
		limit:    limit,
	}
}

// Get returns a copy of the session's history.
func (s *historyStore) Get(sessionID string) []genai.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.sessions[sessionID]
	if len(history) == 0 {
		return nil
	}
	out := make([]genai.Message, len(history))
	copy(out, history)
	return out
}

// Append records one completed turn and trims the session to the cap.
func (s *historyStore) Append(sessionID, query, answer string) {
	if s.limit == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	history := append(s.sessions[sessionID],
		genai.Message{Role: genai.RoleUser, Content: query},
		genai.Message{Role: genai.RoleAssistant, Content: answer},
	)

	if maxMessages := s.limit * 2; len(history) > maxMessages {
		history = history[len(history)-maxMessages:]
	}
	s.sessions[sessionID] = history
}

// Clear drops a session's history.
func (s *historyStore) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Len returns the number of stored messages for a session.
func (s *historyStore) Len(sessionID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions[sessionID])
}

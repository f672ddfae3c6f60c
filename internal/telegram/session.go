package telegram

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// DeepLink returns the t.me URL that opens the bot and binds the chat to
// the agent through the /start payload.
func DeepLink(botUsername string, agentID uuid.UUID) string {
	return fmt.Sprintf("https://t.me/%s?start=%s", botUsername, agentID)
}

// SessionStore maps Telegram chats to the agent they talk on behalf of,
// established by a /start deep link. In-memory only; a restart simply asks
// the client to /start again.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[int64]uuid.UUID
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[int64]uuid.UUID),
	}
}

func (s *SessionStore) Get(chatID int64) (uuid.UUID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	agentID, ok := s.sessions[chatID]
	return agentID, ok
}

func (s *SessionStore) Set(chatID int64, agentID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[chatID] = agentID
}

func (s *SessionStore) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, chatID)
}

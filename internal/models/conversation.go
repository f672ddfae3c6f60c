package models

import (
	"time"

	"github.com/google/uuid"
)

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Conversation groups the question/answer exchange for one chat request.
// AgentID is nil for anonymous questions asked outside any agent scope.
type Conversation struct {
	ID        uuid.UUID  `db:"id"`
	AgentID   *uuid.UUID `db:"agent_id"`
	CreatedAt time.Time  `db:"created_at"`
}

type Message struct {
	ID             uuid.UUID   `db:"id"`
	ConversationID uuid.UUID   `db:"conversation_id"`
	Role           MessageRole `db:"role"`
	Content        string      `db:"content"`
	CreatedAt      time.Time   `db:"created_at"`
}

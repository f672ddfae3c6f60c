package dto

import "investmate/internal/models"

type ChatRequest struct {
	Question string `json:"question" validate:"required"`
	AgentID  string `json:"agent_id"`
}

type ChatResponse struct {
	Message        string                 `json:"message"`
	Filters        *models.SearchCriteria `json:"filters"`
	Results        []PropertyResponse     `json:"results"`
	ConversationID string                 `json:"conversation_id,omitempty"`
	Cached         bool                   `json:"cached"`
}

type ConversationResponse struct {
	ID        string            `json:"id"`
	CreatedAt string            `json:"created_at"`
	Messages  []MessageResponse `json:"messages,omitempty"`
}

type MessageResponse struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

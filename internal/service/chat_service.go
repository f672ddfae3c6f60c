package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"investmate/internal/dto"
	"investmate/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrEmptyQuestion = errors.New("question is empty")

type criteriaExtractor interface {
	Extract(ctx context.Context, question string) *models.SearchCriteria
}

type propertySearcher interface {
	Search(ctx context.Context, filter models.PropertyFilter) ([]*models.Property, error)
}

type conversationStore interface {
	Create(ctx context.Context, conv *models.Conversation) error
	AppendMessages(ctx context.Context, messages []*models.Message) error
	GetMessages(ctx context.Context, conversationID uuid.UUID) ([]*models.Message, error)
	ListForAgent(ctx context.Context, agentID uuid.UUID, limit int) ([]*models.Conversation, error)
	TrimForAgent(ctx context.Context, agentID uuid.UUID, keep int) (int64, error)
	DeleteForAgent(ctx context.Context, agentID uuid.UUID) (int64, error)
}

type analyticsRecorder interface {
	IncrementQuestion(ctx context.Context, agentID uuid.UUID, question string) error
	IncrementHour(ctx context.Context, agentID uuid.UUID, hour int) error
	IncrementMentions(ctx context.Context, agentID uuid.UUID, propertyIDs []uuid.UUID) error
}

// ChatService answers natural-language property questions: criteria come
// from the cache or the extractor, get compiled into a search filter, and
// the results are rendered in the question's language. Recording the
// exchange is best-effort and never fails the request.
type ChatService struct {
	extractor        criteriaExtractor
	cache            *CacheService
	properties       propertySearcher
	conversations    conversationStore
	analytics        analyticsRecorder
	maxConversations int
	logger           *zap.Logger
}

func NewChatService(
	extractor criteriaExtractor,
	cache *CacheService,
	properties propertySearcher,
	conversations conversationStore,
	analytics analyticsRecorder,
	maxConversations int,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		extractor:        extractor,
		cache:            cache,
		properties:       properties,
		conversations:    conversations,
		analytics:        analytics,
		maxConversations: maxConversations,
		logger:           logger,
	}
}

func (s *ChatService) Ask(ctx context.Context, question string, agentID *uuid.UUID) (*dto.ChatResponse, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	lang := DetectLanguage(question)

	criteria, cached := s.cache.Get(ctx, question)
	if !cached {
		criteria = s.extractor.Extract(ctx, question)
		if criteria.Err == "" {
			s.cache.Put(ctx, question, criteria)
		}
	}

	results, err := s.properties.Search(ctx, criteria.Compile(agentID))
	if err != nil {
		return nil, fmt.Errorf("search properties: %w", err)
	}

	message := BuildResponseMessage(criteria, results, lang)

	conversationID := uuid.New()
	go s.record(conversationID, agentID, question, message, results)

	return &dto.ChatResponse{
		Message:        message,
		Filters:        criteria,
		Results:        toPropertyResponses(results),
		ConversationID: conversationID.String(),
		Cached:         cached,
	}, nil
}

// record persists the exchange and bumps the analytics counters. Runs off
// the request path; every failure is logged and swallowed.
func (s *ChatService) record(conversationID uuid.UUID, agentID *uuid.UUID, question, answer string, results []*models.Property) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := time.Now().UTC()

	conv := &models.Conversation{ID: conversationID, AgentID: agentID, CreatedAt: now}
	if err := s.conversations.Create(ctx, conv); err != nil {
		s.logger.Warn("failed to save conversation", zap.Error(err))
		return
	}

	messages := []*models.Message{
		{ID: uuid.New(), ConversationID: conversationID, Role: models.RoleUser, Content: question, CreatedAt: now},
		{ID: uuid.New(), ConversationID: conversationID, Role: models.RoleAssistant, Content: answer, CreatedAt: now},
	}
	if err := s.conversations.AppendMessages(ctx, messages); err != nil {
		s.logger.Warn("failed to save messages", zap.Error(err))
	}

	if agentID == nil {
		return
	}

	if err := s.analytics.IncrementQuestion(ctx, *agentID, question); err != nil {
		s.logger.Warn("failed to count question", zap.Error(err))
	}
	if err := s.analytics.IncrementHour(ctx, *agentID, now.Hour()); err != nil {
		s.logger.Warn("failed to count hour", zap.Error(err))
	}
	if len(results) > 0 {
		ids := make([]uuid.UUID, 0, len(results))
		for _, p := range results {
			ids = append(ids, p.ID)
		}
		if err := s.analytics.IncrementMentions(ctx, *agentID, ids); err != nil {
			s.logger.Warn("failed to count property mentions", zap.Error(err))
		}
	}

	if _, err := s.conversations.TrimForAgent(ctx, *agentID, s.maxConversations); err != nil {
		s.logger.Warn("failed to trim conversations", zap.Error(err))
	}
}

func (s *ChatService) ListConversations(ctx context.Context, agentID uuid.UUID, limit int) ([]dto.ConversationResponse, error) {
	conversations, err := s.conversations.ListForAgent(ctx, agentID, limit)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}

	out := make([]dto.ConversationResponse, 0, len(conversations))
	for _, c := range conversations {
		messages, err := s.conversations.GetMessages(ctx, c.ID)
		if err != nil {
			return nil, fmt.Errorf("load messages: %w", err)
		}

		resp := dto.ConversationResponse{
			ID:        c.ID.String(),
			CreatedAt: c.CreatedAt.Format(time.RFC3339),
		}
		for _, m := range messages {
			resp.Messages = append(resp.Messages, dto.MessageResponse{
				Role:      string(m.Role),
				Content:   m.Content,
				CreatedAt: m.CreatedAt.Format(time.RFC3339),
			})
		}
		out = append(out, resp)
	}

	return out, nil
}

func (s *ChatService) DeleteConversations(ctx context.Context, agentID uuid.UUID) (int64, error) {
	return s.conversations.DeleteForAgent(ctx, agentID)
}

package service

import (
	"context"
	"time"

	"investmate/internal/repository"

	"go.uber.org/zap"
)

// CleanupService enforces the retention rules in the background: the
// per-agent conversation cap, the conversation age limit, and the criteria
// cache TTL.
type CleanupService struct {
	agents           *repository.AgentRepository
	conversations    *repository.ConversationRepository
	cache            *CacheService
	maxConversations int
	conversationTTL  time.Duration
	logger           *zap.Logger
}

func NewCleanupService(
	agents *repository.AgentRepository,
	conversations *repository.ConversationRepository,
	cache *CacheService,
	maxConversations int,
	conversationTTL time.Duration,
	logger *zap.Logger,
) *CleanupService {
	return &CleanupService{
		agents:           agents,
		conversations:    conversations,
		cache:            cache,
		maxConversations: maxConversations,
		conversationTTL:  conversationTTL,
		logger:           logger,
	}
}

// Run executes one cleanup pass. Failures are logged per step so one
// broken step does not block the rest.
func (s *CleanupService) Run(ctx context.Context) {
	agentIDs, err := s.agents.ListIDs(ctx)
	if err != nil {
		s.logger.Error("cleanup: failed to list agents", zap.Error(err))
	} else {
		var trimmed int64
		for _, id := range agentIDs {
			n, err := s.conversations.TrimForAgent(ctx, id, s.maxConversations)
			if err != nil {
				s.logger.Warn("cleanup: failed to trim conversations",
					zap.String("agent_id", id.String()), zap.Error(err))
				continue
			}
			trimmed += n
		}
		if trimmed > 0 {
			s.logger.Info("cleanup: trimmed conversations", zap.Int64("count", trimmed))
		}
	}

	expired, err := s.conversations.DeleteOlderThan(ctx, time.Now().Add(-s.conversationTTL))
	if err != nil {
		s.logger.Error("cleanup: failed to expire conversations", zap.Error(err))
	} else if expired > 0 {
		s.logger.Info("cleanup: expired conversations", zap.Int64("count", expired))
	}

	s.cache.PurgeStale(ctx)
}

// Start runs cleanup passes on the given interval until ctx is canceled.
func (s *CleanupService) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("cleanup loop started", zap.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("cleanup loop stopped")
			return
		case <-ticker.C:
			s.Run(ctx)
		}
	}
}

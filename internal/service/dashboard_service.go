package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"investmate/internal/dto"
	"investmate/internal/repository"
	"investmate/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const topEntriesLimit = 5

const insightsSystemPrompt = "You are an assistant for a real-estate agent. " +
	"You are given recent questions the agent's clients asked. Analyze them and respond with JSON only, in the form " +
	"{\"summary\": string, \"frequent_needs\": [string], \"potential_opportunities\": [string], \"recommended_actions\": [string]}. " +
	"Keep every entry short and concrete."

// DashboardService aggregates per-agent conversation analytics. Hour
// buckets are stored in UTC and shifted by the configured display offset
// on the way out.
type DashboardService struct {
	analytics      *repository.AnalyticsRepository
	conversations  *repository.ConversationRepository
	properties     *repository.PropertyRepository
	completer      Completer
	hourOffset     int
	insightTimeout time.Duration
	logger         *zap.Logger
}

func NewDashboardService(
	analytics *repository.AnalyticsRepository,
	conversations *repository.ConversationRepository,
	properties *repository.PropertyRepository,
	completer Completer,
	hourOffset int,
	insightTimeout time.Duration,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		analytics:      analytics,
		conversations:  conversations,
		properties:     properties,
		completer:      completer,
		hourOffset:     hourOffset,
		insightTimeout: insightTimeout,
		logger:         logger,
	}
}

func (s *DashboardService) FAQs(ctx context.Context, agentID uuid.UUID) ([]dto.FAQResponse, error) {
	questions, err := s.analytics.TopQuestions(ctx, agentID, topEntriesLimit)
	if err != nil {
		return nil, fmt.Errorf("top questions: %w", err)
	}

	out := make([]dto.FAQResponse, 0, len(questions))
	for _, q := range questions {
		out = append(out, dto.FAQResponse{Question: q.Question, Count: q.Count})
	}
	return out, nil
}

func (s *DashboardService) PeakHours(ctx context.Context, agentID uuid.UUID) ([]dto.PeakHourResponse, error) {
	hours, err := s.analytics.HourCounts(ctx, agentID)
	if err != nil {
		return nil, fmt.Errorf("hour counts: %w", err)
	}

	out := make([]dto.PeakHourResponse, 0, len(hours))
	for _, h := range hours {
		out = append(out, dto.PeakHourResponse{
			Hour:  ((h.Hour+s.hourOffset)%24 + 24) % 24,
			Count: h.Count,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Hour < out[j].Hour
	})

	return out, nil
}

func (s *DashboardService) PopularProperties(ctx context.Context, agentID uuid.UUID) ([]dto.PopularPropertyResponse, error) {
	mentions, err := s.analytics.TopMentions(ctx, agentID, topEntriesLimit)
	if err != nil {
		return nil, fmt.Errorf("top mentions: %w", err)
	}

	out := make([]dto.PopularPropertyResponse, 0, len(mentions))
	for _, m := range mentions {
		out = append(out, dto.PopularPropertyResponse{
			PropertyID: m.PropertyID.String(),
			Address:    m.Address,
			City:       m.City,
			Mentions:   m.Mentions,
		})
	}
	return out, nil
}

// Insights summarizes the agent's recent client questions with the model.
// An unparsable reply degrades to a plain-text summary instead of an error.
func (s *DashboardService) Insights(ctx context.Context, agentID uuid.UUID) (*dto.InsightsResponse, error) {
	questions, err := s.conversations.RecentUserMessages(ctx, agentID, 50)
	if err != nil {
		return nil, fmt.Errorf("load recent questions: %w", err)
	}

	if len(questions) == 0 {
		return &dto.InsightsResponse{
			Summary:                "Not enough conversation data yet.",
			FrequentNeeds:          []string{},
			PotentialOpportunities: []string{},
			RecommendedActions:     []string{},
		}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.insightTimeout)
	defer cancel()

	prompt := "Recent client questions:\n- " + strings.Join(questions, "\n- ")

	reply, err := s.completer.Complete(ctx, insightsSystemPrompt, prompt, 0.4)
	if err != nil {
		return nil, fmt.Errorf("generate insights: %w", err)
	}

	var insights dto.InsightsResponse
	if err := utils.ParseModelJSON(reply, &insights); err != nil {
		s.logger.Warn("insights reply was not valid JSON", zap.Error(err))
		return &dto.InsightsResponse{
			Summary:                strings.TrimSpace(reply),
			FrequentNeeds:          []string{},
			PotentialOpportunities: []string{},
			RecommendedActions:     []string{},
		}, nil
	}

	return &insights, nil
}

func (s *DashboardService) Stats(ctx context.Context, agentID uuid.UUID) (*dto.StatsResponse, error) {
	stats, err := s.analytics.Stats(ctx, agentID)
	if err != nil {
		return nil, fmt.Errorf("conversation stats: %w", err)
	}

	propertyCount, err := s.properties.CountForAgent(ctx, agentID)
	if err != nil {
		return nil, fmt.Errorf("count properties: %w", err)
	}

	return &dto.StatsResponse{
		TotalConversations: stats.TotalConversations,
		UniqueQuestions:    stats.UniqueQuestions,
		HoursTracked:       stats.HoursTracked,
		TotalProperties:    propertyCount,
	}, nil
}

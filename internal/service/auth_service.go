package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"investmate/internal/dto"
	"investmate/internal/models"
	"investmate/internal/repository"
	"investmate/pkg/auth"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var (
	ErrAgentExists        = errors.New("agent with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAgentNotFound      = errors.New("agent not found")
)

type AuthService struct {
	agents     *repository.AgentRepository
	jwtManager *auth.JWTManager
	logger     *zap.Logger
}

func NewAuthService(agents *repository.AgentRepository, jwtManager *auth.JWTManager, logger *zap.Logger) *AuthService {
	return &AuthService{
		agents:     agents,
		jwtManager: jwtManager,
		logger:     logger,
	}
}

func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.agents.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("check existing agent: %w", err)
	}
	if existing != nil {
		return nil, ErrAgentExists
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	agent := &models.Agent{
		ID:           uuid.New(),
		FullName:     strings.TrimSpace(req.FullName),
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.agents.Create(ctx, agent); err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}

	s.logger.Info("agent registered", zap.String("agent_id", agent.ID.String()))

	return s.issueTokens(agent)
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	agent, err := s.agents.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get agent: %w", err)
	}

	if !auth.CheckPasswordHash(req.Password, agent.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(agent)
}

func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
	claims, err := s.jwtManager.ValidateToken(refreshToken)
	if err != nil {
		return nil, auth.ErrInvalidToken
	}

	agentID, err := uuid.Parse(claims.AgentID)
	if err != nil {
		return nil, auth.ErrInvalidToken
	}

	agent, err := s.agents.GetByID(ctx, agentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAgentNotFound
		}
		return nil, fmt.Errorf("get agent: %w", err)
	}

	return s.issueTokens(agent)
}

func (s *AuthService) GetAgent(ctx context.Context, agentID uuid.UUID) (*dto.AgentResponse, error) {
	agent, err := s.agents.GetByID(ctx, agentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAgentNotFound
		}
		return nil, fmt.Errorf("get agent: %w", err)
	}

	resp := toAgentResponse(agent)
	return &resp, nil
}

func (s *AuthService) issueTokens(agent *models.Agent) (*dto.AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateToken(agent.ID.String(), agent.FullName, agent.Email)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(agent.ID.String())
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtManager.GetTokenDuration().Seconds()),
		Agent:        toAgentResponse(agent),
	}, nil
}

func toAgentResponse(agent *models.Agent) dto.AgentResponse {
	return dto.AgentResponse{
		ID:          agent.ID.String(),
		FullName:    agent.FullName,
		PhoneNumber: agent.PhoneNumber,
		Email:       agent.Email,
		CreatedAt:   agent.CreatedAt.Format(time.RFC3339),
	}
}

package main

import (
	"context"
	"errors"
	"log"
	"time"

	"investmate/internal/models"
	"investmate/internal/repository"
	"investmate/pkg/auth"
	"investmate/pkg/config"
	"investmate/pkg/logger"
	"investmate/pkg/postgres"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const (
	demoAgentEmail    = "demo@investmate.local"
	demoAgentPassword = "demo-password-123"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	// Connect to database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	agentRepo := repository.NewAgentRepository(db, appLogger)
	propertyRepo := repository.NewPropertyRepository(db, appLogger)

	appLogger.Info("Starting database seeding...")

	agent, err := seedDemoAgent(ctx, agentRepo)
	if err != nil {
		appLogger.Fatal("Failed to seed demo agent", zap.Error(err))
	}

	if err := seedDemoProperties(ctx, propertyRepo, agent.ID); err != nil {
		appLogger.Fatal("Failed to seed demo properties", zap.Error(err))
	}

	appLogger.Info("Database seeding completed successfully!",
		zap.String("agent_id", agent.ID.String()),
		zap.String("email", demoAgentEmail))
}

func seedDemoAgent(ctx context.Context, repo *repository.AgentRepository) (*models.Agent, error) {
	existing, err := repo.GetByEmail(ctx, demoAgentEmail)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	passwordHash, err := auth.HashPassword(demoAgentPassword)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	agent := &models.Agent{
		ID:           uuid.New(),
		FullName:     "Demo Agent",
		PhoneNumber:  "+972-50-000-0000",
		Email:        demoAgentEmail,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := repo.Create(ctx, agent); err != nil {
		return nil, err
	}

	return agent, nil
}

func seedDemoProperties(ctx context.Context, repo *repository.PropertyRepository, agentID uuid.UUID) error {
	existing, err := repo.ListForAgent(ctx, agentID)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	apartment := models.PropertyTypeApartment
	house := models.PropertyTypeHouse
	vacation := models.PropertyTypeVacation

	properties := []*models.Property{
		{
			City:           "Tel Aviv",
			Address:        "Dizengoff 120",
			Price:          1850000,
			PropertyType:   &apartment,
			Rooms:          intPtr(3),
			Floor:          intPtr(4),
			Description:    strPtr("Renovated apartment with balcony, near the city center, elevator in the building"),
			RentalEstimate: floatPtr(6200),
			YieldPercent:   floatPtr(4.0),
		},
		{
			City:           "Tel Aviv",
			Address:        "Rothschild 45",
			Price:          2400000,
			PropertyType:   &apartment,
			Rooms:          intPtr(4),
			Floor:          intPtr(2),
			Description:    strPtr("Spacious apartment on the boulevard, parking spot, close to the light rail"),
			RentalEstimate: floatPtr(8000),
			YieldPercent:   floatPtr(4.0),
		},
		{
			City:           "Haifa",
			Address:        "Herzl 12",
			Price:          950000,
			PropertyType:   &apartment,
			Rooms:          intPtr(3),
			Floor:          intPtr(1),
			Description:    strPtr("Bright apartment in the north area, garden access, near the metro station"),
			RentalEstimate: floatPtr(3500),
			YieldPercent:   floatPtr(4.4),
		},
		{
			City:           "Jerusalem",
			Address:        "Jaffa 80",
			Price:          1650000,
			PropertyType:   &apartment,
			Rooms:          intPtr(2),
			Floor:          intPtr(6),
			Description:    strPtr("Two-room apartment with elevator, city center location"),
			RentalEstimate: floatPtr(5400),
			YieldPercent:   floatPtr(3.9),
		},
		{
			City:           "Ra'anana",
			Address:        "Ahuza 33",
			Price:          3200000,
			PropertyType:   &house,
			Rooms:          intPtr(5),
			Description:    strPtr("Private house with garden and pool, quiet street"),
			RentalEstimate: floatPtr(11000),
			YieldPercent:   floatPtr(4.1),
		},
		{
			City:           "Eilat",
			Address:        "HaTmarim 5",
			Price:          1200000,
			PropertyType:   &vacation,
			Rooms:          intPtr(2),
			Floor:          intPtr(3),
			Description:    strPtr("Vacation apartment with pool in the complex, short walk to the beach"),
			RentalEstimate: floatPtr(5000),
			YieldPercent:   floatPtr(5.0),
		},
	}

	now := time.Now().UTC()
	for _, p := range properties {
		p.ID = uuid.New()
		p.AgentID = agentID
		p.CreatedAt = now
		if err := repo.Create(ctx, p); err != nil {
			return err
		}
	}

	return nil
}

func intPtr(v int) *int           { return &v }
func strPtr(v string) *string     { return &v }
func floatPtr(v float64) *float64 { return &v }

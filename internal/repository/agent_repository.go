package repository

import (
	"context"

	"investmate/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type AgentRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewAgentRepository(db *pgxpool.Pool, logger *zap.Logger) *AgentRepository {
	return &AgentRepository{
		db:     db,
		logger: logger,
	}
}

var agentColumns = []string{"id", "full_name", "phone_number", "email", "password_hash", "created_at", "updated_at"}

func (r *AgentRepository) Create(ctx context.Context, agent *models.Agent) error {
	query := squirrel.Insert("agents").
		Columns(agentColumns...).
		Values(agent.ID, agent.FullName, agent.PhoneNumber, agent.Email, agent.PasswordHash, agent.CreatedAt, agent.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *AgentRepository) GetByEmail(ctx context.Context, email string) (*models.Agent, error) {
	query := squirrel.Select(agentColumns...).
		From("agents").
		Where(squirrel.Eq{"email": email}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var agent models.Agent
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&agent.ID, &agent.FullName, &agent.PhoneNumber, &agent.Email, &agent.PasswordHash, &agent.CreatedAt, &agent.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &agent, nil
}

func (r *AgentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Agent, error) {
	query := squirrel.Select(agentColumns...).
		From("agents").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var agent models.Agent
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&agent.ID, &agent.FullName, &agent.PhoneNumber, &agent.Email, &agent.PasswordHash, &agent.CreatedAt, &agent.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &agent, nil
}

// Delete removes an agent. Properties and conversations cascade via
// foreign keys.
func (r *AgentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := squirrel.Delete("agents").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *AgentRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	query := squirrel.Select("id").From("agents")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

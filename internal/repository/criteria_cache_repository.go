package repository

import (
	"context"
	"time"

	"investmate/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// CriteriaCacheRepository stores extracted search criteria keyed by the
// exact question text.
type CriteriaCacheRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewCriteriaCacheRepository(db *pgxpool.Pool, logger *zap.Logger) *CriteriaCacheRepository {
	return &CriteriaCacheRepository{
		db:     db,
		logger: logger,
	}
}

func (r *CriteriaCacheRepository) Get(ctx context.Context, question string) (*models.CachedCriteria, error) {
	query := squirrel.Select("question", "criteria_json", "created_at").
		From("cached_criteria").
		Where(squirrel.Eq{"question": question}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var cached models.CachedCriteria
	err = r.db.QueryRow(ctx, sql, args...).Scan(&cached.Question, &cached.CriteriaJSON, &cached.CreatedAt)
	if err != nil {
		return nil, err
	}

	return &cached, nil
}

// Put upserts one entry, refreshing its insertion timestamp.
func (r *CriteriaCacheRepository) Put(ctx context.Context, question, criteriaJSON string) error {
	query := squirrel.Insert("cached_criteria").
		Columns("question", "criteria_json", "created_at").
		Values(question, criteriaJSON, time.Now().UTC()).
		Suffix("ON CONFLICT (question) DO UPDATE SET criteria_json = EXCLUDED.criteria_json, created_at = EXCLUDED.created_at").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *CriteriaCacheRepository) Count(ctx context.Context) (int, error) {
	sql, args, err := squirrel.Select("COUNT(*)").From("cached_criteria").ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

// EvictOverflow deletes the oldest entries (by insertion time) until at most
// max remain. Returns the number of evicted rows.
func (r *CriteriaCacheRepository) EvictOverflow(ctx context.Context, max int) (int64, error) {
	// Keep the newest max rows, delete the rest.
	tag, err := r.db.Exec(ctx, `DELETE FROM cached_criteria
	    WHERE question NOT IN (
	        SELECT question FROM cached_criteria
	        ORDER BY created_at DESC
	        LIMIT $1
	    )`, max)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

// DeleteOlderThan purges entries inserted before the cutoff.
func (r *CriteriaCacheRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := squirrel.Delete("cached_criteria").
		Where(squirrel.Lt{"created_at": cutoff}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

func (r *CriteriaCacheRepository) Delete(ctx context.Context, question string) error {
	query := squirrel.Delete("cached_criteria").
		Where(squirrel.Eq{"question": question}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *CriteriaCacheRepository) Clear(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM cached_criteria")
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Ping reports backing-store health for cache statistics.
func (r *CriteriaCacheRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

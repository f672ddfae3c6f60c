package repository

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// AnalyticsRepository maintains the per-agent dashboard counters: question
// frequency, hour-of-day buckets and property mention counts. Each increment
// is a single upsert so concurrent requests never lose updates.
type AnalyticsRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewAnalyticsRepository(db *pgxpool.Pool, logger *zap.Logger) *AnalyticsRepository {
	return &AnalyticsRepository{
		db:     db,
		logger: logger,
	}
}

type QuestionCount struct {
	Question string `json:"question"`
	Count    int    `json:"count"`
}

type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

type PropertyMention struct {
	PropertyID uuid.UUID `json:"property_id"`
	Address    string    `json:"address"`
	City       string    `json:"city"`
	Mentions   int       `json:"mentions"`
}

func (r *AnalyticsRepository) IncrementQuestion(ctx context.Context, agentID uuid.UUID, question string) error {
	_, err := r.db.Exec(ctx, `INSERT INTO agent_question_stats (agent_id, question, count)
	    VALUES ($1, $2, 1)
	    ON CONFLICT (agent_id, question)
	    DO UPDATE SET count = agent_question_stats.count + 1`, agentID, question)
	return err
}

// IncrementHour bumps the bucket for the given UTC hour.
func (r *AnalyticsRepository) IncrementHour(ctx context.Context, agentID uuid.UUID, hour int) error {
	_, err := r.db.Exec(ctx, `INSERT INTO agent_hour_stats (agent_id, hour, count)
	    VALUES ($1, $2, 1)
	    ON CONFLICT (agent_id, hour)
	    DO UPDATE SET count = agent_hour_stats.count + 1`, agentID, hour)
	return err
}

// IncrementMentions bumps the mention counter once per returned property,
// in one statement.
func (r *AnalyticsRepository) IncrementMentions(ctx context.Context, agentID uuid.UUID, propertyIDs []uuid.UUID) error {
	if len(propertyIDs) == 0 {
		return nil
	}

	builder := squirrel.Insert("property_mention_stats").
		Columns("agent_id", "property_id", "count").
		Suffix("ON CONFLICT (agent_id, property_id) DO UPDATE SET count = property_mention_stats.count + 1").
		PlaceholderFormat(squirrel.Dollar)

	for _, id := range propertyIDs {
		builder = builder.Values(agentID, id, 1)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *AnalyticsRepository) TopQuestions(ctx context.Context, agentID uuid.UUID, limit int) ([]QuestionCount, error) {
	query := squirrel.Select("question", "count").
		From("agent_question_stats").
		Where(squirrel.Eq{"agent_id": agentID}).
		OrderBy("count DESC, question").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []QuestionCount
	for rows.Next() {
		var qc QuestionCount
		if err := rows.Scan(&qc.Question, &qc.Count); err != nil {
			return nil, err
		}
		results = append(results, qc)
	}

	return results, rows.Err()
}

// HourCounts returns the raw UTC hour buckets ordered by hour. The local
// offset is applied by the dashboard service at read time.
func (r *AnalyticsRepository) HourCounts(ctx context.Context, agentID uuid.UUID) ([]HourCount, error) {
	query := squirrel.Select("hour", "count").
		From("agent_hour_stats").
		Where(squirrel.Eq{"agent_id": agentID}).
		OrderBy("hour ASC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []HourCount
	for rows.Next() {
		var hc HourCount
		if err := rows.Scan(&hc.Hour, &hc.Count); err != nil {
			return nil, err
		}
		results = append(results, hc)
	}

	return results, rows.Err()
}

func (r *AnalyticsRepository) TopMentions(ctx context.Context, agentID uuid.UUID, limit int) ([]PropertyMention, error) {
	query := squirrel.Select("s.property_id", "p.address", "p.city", "s.count").
		From("property_mention_stats s").
		Join("properties p ON p.id = s.property_id").
		Where(squirrel.Eq{"s.agent_id": agentID}).
		OrderBy("s.count DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []PropertyMention
	for rows.Next() {
		var pm PropertyMention
		if err := rows.Scan(&pm.PropertyID, &pm.Address, &pm.City, &pm.Mentions); err != nil {
			return nil, err
		}
		results = append(results, pm)
	}

	return results, rows.Err()
}

type ConversationStats struct {
	TotalConversations int `json:"total_conversations"`
	UniqueQuestions    int `json:"unique_questions"`
	HoursTracked       int `json:"hours_tracked"`
}

func (r *AnalyticsRepository) Stats(ctx context.Context, agentID uuid.UUID) (*ConversationStats, error) {
	var stats ConversationStats
	err := r.db.QueryRow(ctx, `SELECT
	    (SELECT COUNT(*) FROM conversations WHERE agent_id = $1),
	    (SELECT COUNT(*) FROM agent_question_stats WHERE agent_id = $1),
	    (SELECT COUNT(*) FROM agent_hour_stats WHERE agent_id = $1)`, agentID).
		Scan(&stats.TotalConversations, &stats.UniqueQuestions, &stats.HoursTracked)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

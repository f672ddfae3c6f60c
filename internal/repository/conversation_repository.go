package repository

import (
	"context"
	"time"

	"investmate/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type ConversationRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewConversationRepository(db *pgxpool.Pool, logger *zap.Logger) *ConversationRepository {
	return &ConversationRepository{
		db:     db,
		logger: logger,
	}
}

func (r *ConversationRepository) Create(ctx context.Context, conv *models.Conversation) error {
	query := squirrel.Insert("conversations").
		Columns("id", "agent_id", "created_at").
		Values(conv.ID, conv.AgentID, conv.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// AppendMessages inserts the given messages in one statement.
func (r *ConversationRepository) AppendMessages(ctx context.Context, messages []*models.Message) error {
	if len(messages) == 0 {
		return nil
	}

	builder := squirrel.Insert("messages").
		Columns("id", "conversation_id", "role", "content", "created_at").
		PlaceholderFormat(squirrel.Dollar)

	for _, m := range messages {
		builder = builder.Values(m.ID, m.ConversationID, m.Role, m.Content, m.CreatedAt)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *ConversationRepository) GetMessages(ctx context.Context, conversationID uuid.UUID) ([]*models.Message, error) {
	query := squirrel.Select("id", "conversation_id", "role", "content", "created_at").
		From("messages").
		Where(squirrel.Eq{"conversation_id": conversationID}).
		OrderBy("created_at ASC").
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

	var messages []*models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, &m)
	}

	return messages, rows.Err()
}

// ListForAgent returns the agent's newest conversations first.
func (r *ConversationRepository) ListForAgent(ctx context.Context, agentID uuid.UUID, limit int) ([]*models.Conversation, error) {
	query := squirrel.Select("id", "agent_id", "created_at").
		From("conversations").
		Where(squirrel.Eq{"agent_id": agentID}).
		OrderBy("created_at DESC").
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

	var conversations []*models.Conversation
	for rows.Next() {
		var c models.Conversation
		if err := rows.Scan(&c.ID, &c.AgentID, &c.CreatedAt); err != nil {
			return nil, err
		}
		conversations = append(conversations, &c)
	}

	return conversations, rows.Err()
}

// RecentUserMessages returns the newest user-authored messages for an agent,
// used to feed dashboard insight generation.
func (r *ConversationRepository) RecentUserMessages(ctx context.Context, agentID uuid.UUID, limit int) ([]string, error) {
	query := squirrel.Select("m.content").
		From("messages m").
		Join("conversations c ON c.id = m.conversation_id").
		Where(squirrel.Eq{"c.agent_id": agentID, "m.role": models.RoleUser}).
		OrderBy("m.created_at DESC").
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

	var contents []string
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return nil, err
		}
		contents = append(contents, content)
	}

	return contents, rows.Err()
}

// TrimForAgent deletes conversations beyond the newest keep entries.
// Messages cascade via the conversation foreign key.
func (r *ConversationRepository) TrimForAgent(ctx context.Context, agentID uuid.UUID, keep int) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM conversations
	    WHERE agent_id = $1
	      AND id NOT IN (
	        SELECT id FROM conversations
	        WHERE agent_id = $1
	        ORDER BY created_at DESC
	        LIMIT $2
	    )`, agentID, keep)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

// DeleteOlderThan purges conversations created before the cutoff.
func (r *ConversationRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := squirrel.Delete("conversations").
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

func (r *ConversationRepository) DeleteForAgent(ctx context.Context, agentID uuid.UUID) (int64, error) {
	query := squirrel.Delete("conversations").
		Where(squirrel.Eq{"agent_id": agentID}).
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

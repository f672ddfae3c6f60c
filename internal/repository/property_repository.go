package repository

import (
	"context"
	"strings"

	"investmate/internal/models"
	"investmate/internal/utils"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type PropertyRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewPropertyRepository(db *pgxpool.Pool, logger *zap.Logger) *PropertyRepository {
	return &PropertyRepository{
		db:     db,
		logger: logger,
	}
}

var propertyColumns = []string{
	"id", "agent_id", "city", "address", "price", "yield_percent",
	"property_type", "rooms", "floor", "description", "rental_estimate",
	"image_key", "created_at",
}

func (r *PropertyRepository) Create(ctx context.Context, p *models.Property) error {
	query := squirrel.Insert("properties").
		Columns(propertyColumns...).
		Values(p.ID, p.AgentID, p.City, p.Address, p.Price, p.YieldPercent,
			p.PropertyType, p.Rooms, p.Floor, p.Description, p.RentalEstimate,
			p.ImageKey, p.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *PropertyRepository) GetByIDForAgent(ctx context.Context, id, agentID uuid.UUID) (*models.Property, error) {
	query := squirrel.Select(propertyColumns...).
		From("properties").
		Where(squirrel.Eq{"id": id, "agent_id": agentID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var p models.Property
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&p.ID, &p.AgentID, &p.City, &p.Address, &p.Price, &p.YieldPercent,
		&p.PropertyType, &p.Rooms, &p.Floor, &p.Description, &p.RentalEstimate,
		&p.ImageKey, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *PropertyRepository) ListForAgent(ctx context.Context, agentID uuid.UUID) ([]*models.Property, error) {
	query := squirrel.Select(propertyColumns...).
		From("properties").
		Where(squirrel.Eq{"agent_id": agentID}).
		OrderBy("created_at DESC, id").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	return r.queryProperties(ctx, sql, args)
}

func (r *PropertyRepository) Update(ctx context.Context, p *models.Property) error {
	query := squirrel.Update("properties").
		Set("city", p.City).
		Set("address", p.Address).
		Set("price", p.Price).
		Set("yield_percent", p.YieldPercent).
		Set("property_type", p.PropertyType).
		Set("rooms", p.Rooms).
		Set("floor", p.Floor).
		Set("description", p.Description).
		Set("rental_estimate", p.RentalEstimate).
		Set("image_key", p.ImageKey).
		Where(squirrel.Eq{"id": p.ID, "agent_id": p.AgentID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *PropertyRepository) Delete(ctx context.Context, id, agentID uuid.UUID) error {
	query := squirrel.Delete("properties").
		Where(squirrel.Eq{"id": id, "agent_id": agentID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// Search executes the compiled filter. Absent fields impose no constraint.
func (r *PropertyRepository) Search(ctx context.Context, filter models.PropertyFilter) ([]*models.Property, error) {
	sql, args, err := buildSearchQuery(filter).ToSql()
	if err != nil {
		return nil, err
	}

	return r.queryProperties(ctx, sql, args)
}

// buildSearchQuery turns a PropertyFilter into one conjunctive SELECT.
// City and address match as case-insensitive substrings, numeric bounds are
// inclusive, yield is a minimum bound and the property type matches exactly
// after lower/trim normalization. Description tags expand through the
// synonym table into a single OR group that is ANDed with the rest.
func buildSearchQuery(filter models.PropertyFilter) squirrel.SelectBuilder {
	query := squirrel.Select(propertyColumns...).
		From("properties").
		OrderBy("created_at DESC, id").
		PlaceholderFormat(squirrel.Dollar)

	if filter.AgentID != nil {
		query = query.Where(squirrel.Eq{"agent_id": *filter.AgentID})
	}
	if filter.City != nil {
		query = query.Where(squirrel.ILike{"city": "%" + strings.TrimSpace(*filter.City) + "%"})
	}
	if filter.Address != nil {
		query = query.Where(squirrel.ILike{"address": "%" + strings.TrimSpace(*filter.Address) + "%"})
	}
	if filter.MinPrice != nil {
		query = query.Where(squirrel.GtOrEq{"price": *filter.MinPrice})
	}
	if filter.MaxPrice != nil {
		query = query.Where(squirrel.LtOrEq{"price": *filter.MaxPrice})
	}
	if filter.MinRooms != nil {
		query = query.Where(squirrel.GtOrEq{"rooms": *filter.MinRooms})
	}
	if filter.MaxRooms != nil {
		query = query.Where(squirrel.LtOrEq{"rooms": *filter.MaxRooms})
	}
	if filter.MinFloor != nil {
		query = query.Where(squirrel.GtOrEq{"floor": *filter.MinFloor})
	}
	if filter.MaxFloor != nil {
		query = query.Where(squirrel.LtOrEq{"floor": *filter.MaxFloor})
	}
	if filter.RentalEstimateMax != nil {
		query = query.Where(squirrel.LtOrEq{"rental_estimate": *filter.RentalEstimateMax})
	}
	if filter.MinYieldPercent != nil {
		query = query.Where(squirrel.GtOrEq{"yield_percent": *filter.MinYieldPercent})
	}
	if filter.PropertyType != nil {
		query = query.Where(squirrel.Eq{"property_type": strings.ToLower(strings.TrimSpace(*filter.PropertyType))})
	}

	if len(filter.DescriptionFilters) > 0 {
		var synonymMatch squirrel.Or
		for _, tag := range filter.DescriptionFilters {
			for _, syn := range utils.ExpandFilterTag(tag) {
				synonymMatch = append(synonymMatch, squirrel.ILike{"description": "%" + syn + "%"})
			}
		}
		query = query.Where(synonymMatch)
	}

	return query
}

func (r *PropertyRepository) queryProperties(ctx context.Context, sql string, args []interface{}) ([]*models.Property, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var properties []*models.Property
	for rows.Next() {
		var p models.Property
		if err := rows.Scan(
			&p.ID, &p.AgentID, &p.City, &p.Address, &p.Price, &p.YieldPercent,
			&p.PropertyType, &p.Rooms, &p.Floor, &p.Description, &p.RentalEstimate,
			&p.ImageKey, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		properties = append(properties, &p)
	}

	return properties, rows.Err()
}

func (r *PropertyRepository) CountForAgent(ctx context.Context, agentID uuid.UUID) (int, error) {
	query := squirrel.Select("COUNT(*)").
		From("properties").
		Where(squirrel.Eq{"agent_id": agentID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

func (r *PropertyRepository) SetImageKey(ctx context.Context, id, agentID uuid.UUID, key string) error {
	query := squirrel.Update("properties").
		Set("image_key", key).
		Where(squirrel.Eq{"id": id, "agent_id": agentID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"investmate/internal/dto"
	"investmate/internal/models"
	"investmate/internal/repository"
	"investmate/internal/utils"
	"investmate/pkg/objectstore"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var (
	ErrPropertyNotFound    = errors.New("property not found")
	ErrInvalidPropertyType = errors.New("invalid property type")
	ErrNoImage             = errors.New("property has no image")
)

const estimationSystemPrompt = "You are a real-estate investment analyst. " +
	"Estimate the monthly rental income and annual yield for the property you are given. " +
	"Respond with JSON only, in the form {\"rental_estimate\": number, \"yield_percent\": number}. " +
	"rental_estimate is monthly rent in ILS, yield_percent is annual gross yield as a percentage."

// PropertyService covers the agent-facing property lifecycle. When a new
// property comes in without rental or yield figures, the model fills the
// gap; estimation failures leave the fields empty rather than fail the
// create.
type PropertyService struct {
	properties *repository.PropertyRepository
	completer  Completer
	store      *objectstore.Store
	llmTimeout time.Duration
	logger     *zap.Logger
}

func NewPropertyService(
	properties *repository.PropertyRepository,
	completer Completer,
	store *objectstore.Store,
	llmTimeout time.Duration,
	logger *zap.Logger,
) *PropertyService {
	return &PropertyService{
		properties: properties,
		completer:  completer,
		store:      store,
		llmTimeout: llmTimeout,
		logger:     logger,
	}
}

func (s *PropertyService) Create(ctx context.Context, agentID uuid.UUID, req *dto.CreatePropertyRequest) (*dto.PropertyResponse, error) {
	if req.PropertyType != nil && !models.ValidPropertyType(*req.PropertyType) {
		return nil, ErrInvalidPropertyType
	}

	p := &models.Property{
		ID:             uuid.New(),
		AgentID:        agentID,
		City:           strings.TrimSpace(req.City),
		Address:        strings.TrimSpace(req.Address),
		Price:          req.Price,
		YieldPercent:   req.YieldPercent,
		PropertyType:   toPropertyType(req.PropertyType),
		Rooms:          req.Rooms,
		Floor:          req.Floor,
		Description:    req.Description,
		RentalEstimate: req.RentalEstimate,
		CreatedAt:      time.Now().UTC(),
	}

	if p.RentalEstimate == nil || p.YieldPercent == nil {
		s.estimateMetrics(ctx, p)
	}

	if err := s.properties.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create property: %w", err)
	}

	s.logger.Info("property created",
		zap.String("property_id", p.ID.String()),
		zap.String("agent_id", agentID.String()))

	resp := toPropertyResponse(p)
	return &resp, nil
}

func (s *PropertyService) Get(ctx context.Context, id, agentID uuid.UUID) (*dto.PropertyResponse, error) {
	p, err := s.getOwned(ctx, id, agentID)
	if err != nil {
		return nil, err
	}

	resp := toPropertyResponse(p)
	return &resp, nil
}

func (s *PropertyService) List(ctx context.Context, agentID uuid.UUID) ([]dto.PropertyResponse, error) {
	properties, err := s.properties.ListForAgent(ctx, agentID)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}

	return toPropertyResponses(properties), nil
}

func (s *PropertyService) Update(ctx context.Context, id, agentID uuid.UUID, req *dto.UpdatePropertyRequest) (*dto.PropertyResponse, error) {
	if req.PropertyType != nil && !models.ValidPropertyType(*req.PropertyType) {
		return nil, ErrInvalidPropertyType
	}

	p, err := s.getOwned(ctx, id, agentID)
	if err != nil {
		return nil, err
	}

	if req.City != nil {
		p.City = strings.TrimSpace(*req.City)
	}
	if req.Address != nil {
		p.Address = strings.TrimSpace(*req.Address)
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.YieldPercent != nil {
		p.YieldPercent = req.YieldPercent
	}
	if req.PropertyType != nil {
		p.PropertyType = toPropertyType(req.PropertyType)
	}
	if req.Rooms != nil {
		p.Rooms = req.Rooms
	}
	if req.Floor != nil {
		p.Floor = req.Floor
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.RentalEstimate != nil {
		p.RentalEstimate = req.RentalEstimate
	}

	if err := s.properties.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update property: %w", err)
	}

	resp := toPropertyResponse(p)
	return &resp, nil
}

func (s *PropertyService) Delete(ctx context.Context, id, agentID uuid.UUID) error {
	p, err := s.getOwned(ctx, id, agentID)
	if err != nil {
		return err
	}

	if err := s.properties.Delete(ctx, id, agentID); err != nil {
		return fmt.Errorf("delete property: %w", err)
	}

	if p.ImageKey != nil && s.store != nil {
		if err := s.store.Delete(ctx, *p.ImageKey); err != nil {
			s.logger.Warn("failed to delete property image",
				zap.String("key", *p.ImageKey), zap.Error(err))
		}
	}

	return nil
}

// UploadImage stores the file under a deterministic key and attaches it to
// the property. A re-upload overwrites the previous object.
func (s *PropertyService) UploadImage(ctx context.Context, id, agentID uuid.UUID, fileName, contentType string, body io.Reader, size int64) (*dto.ImageUploadResponse, error) {
	if _, err := s.getOwned(ctx, id, agentID); err != nil {
		return nil, err
	}

	ext := strings.ToLower(path.Ext(fileName))
	key := fmt.Sprintf("properties/%s/%s%s", agentID, id, ext)

	if err := s.store.Put(ctx, key, body, size, contentType); err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}

	if err := s.properties.SetImageKey(ctx, id, agentID, key); err != nil {
		return nil, fmt.Errorf("attach image: %w", err)
	}

	return &dto.ImageUploadResponse{
		PropertyID: id.String(),
		ImageKey:   key,
	}, nil
}

func (s *PropertyService) ImageURL(ctx context.Context, id, agentID uuid.UUID, ttl time.Duration) (*dto.ImageURLResponse, error) {
	p, err := s.getOwned(ctx, id, agentID)
	if err != nil {
		return nil, err
	}
	if p.ImageKey == nil {
		return nil, ErrNoImage
	}

	url, err := s.store.PresignGet(ctx, *p.ImageKey, ttl)
	if err != nil {
		return nil, fmt.Errorf("presign image: %w", err)
	}

	return &dto.ImageURLResponse{
		PropertyID: id.String(),
		ImageURL:   url,
		ExpiresIn:  int64(ttl.Seconds()),
	}, nil
}

func (s *PropertyService) getOwned(ctx context.Context, id, agentID uuid.UUID) (*models.Property, error) {
	p, err := s.properties.GetByIDForAgent(ctx, id, agentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPropertyNotFound
		}
		return nil, fmt.Errorf("get property: %w", err)
	}
	return p, nil
}

type metricEstimate struct {
	RentalEstimate *float64 `json:"rental_estimate"`
	YieldPercent   *float64 `json:"yield_percent"`
}

func (s *PropertyService) estimateMetrics(ctx context.Context, p *models.Property) {
	if s.completer == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, s.llmTimeout)
	defer cancel()

	var b strings.Builder
	fmt.Fprintf(&b, "Property for sale in %s, %s, priced at %.0f ILS.", p.City, p.Address, p.Price)
	if p.PropertyType != nil {
		fmt.Fprintf(&b, " Type: %s.", *p.PropertyType)
	}
	if p.Rooms != nil {
		fmt.Fprintf(&b, " Rooms: %d.", *p.Rooms)
	}
	if p.Floor != nil {
		fmt.Fprintf(&b, " Floor: %d.", *p.Floor)
	}
	if p.Description != nil && *p.Description != "" {
		fmt.Fprintf(&b, " Description: %s", *p.Description)
	}

	reply, err := s.completer.Complete(ctx, estimationSystemPrompt, b.String(), 0.3)
	if err != nil {
		s.logger.Warn("metric estimation failed", zap.Error(err))
		return
	}

	var est metricEstimate
	if err := utils.ParseModelJSON(reply, &est); err != nil {
		s.logger.Warn("metric estimation returned unparsable reply", zap.Error(err))
		return
	}

	if p.RentalEstimate == nil && est.RentalEstimate != nil {
		p.RentalEstimate = est.RentalEstimate
	}
	if p.YieldPercent == nil && est.YieldPercent != nil {
		p.YieldPercent = est.YieldPercent
	}
}

func toPropertyType(s *string) *models.PropertyType {
	if s == nil {
		return nil
	}
	t := models.PropertyType(strings.ToLower(strings.TrimSpace(*s)))
	return &t
}

func fromPropertyType(t *models.PropertyType) *string {
	if t == nil {
		return nil
	}
	s := string(*t)
	return &s
}

func toPropertyResponse(p *models.Property) dto.PropertyResponse {
	return dto.PropertyResponse{
		ID:             p.ID.String(),
		City:           p.City,
		Address:        p.Address,
		Price:          p.Price,
		YieldPercent:   p.YieldPercent,
		PropertyType:   fromPropertyType(p.PropertyType),
		Rooms:          p.Rooms,
		Floor:          p.Floor,
		Description:    p.Description,
		RentalEstimate: p.RentalEstimate,
		CreatedAt:      p.CreatedAt.Format(time.RFC3339),
	}
}

func toPropertyResponses(properties []*models.Property) []dto.PropertyResponse {
	out := make([]dto.PropertyResponse, 0, len(properties))
	for _, p := range properties {
		out = append(out, toPropertyResponse(p))
	}
	return out
}

package dto

type CreatePropertyRequest struct {
	City           string   `json:"city" validate:"required"`
	Address        string   `json:"address" validate:"required"`
	Price          float64  `json:"price" validate:"required,gt=0"`
	YieldPercent   *float64 `json:"yield_percent"`
	PropertyType   *string  `json:"property_type" validate:"omitempty,oneof=apartment house vacation"`
	Rooms          *int     `json:"rooms"`
	Floor          *int     `json:"floor"`
	Description    *string  `json:"description"`
	RentalEstimate *float64 `json:"rental_estimate"`
}

type UpdatePropertyRequest struct {
	City           *string  `json:"city"`
	Address        *string  `json:"address"`
	Price          *float64 `json:"price" validate:"omitempty,gt=0"`
	YieldPercent   *float64 `json:"yield_percent"`
	PropertyType   *string  `json:"property_type" validate:"omitempty,oneof=apartment house vacation"`
	Rooms          *int     `json:"rooms"`
	Floor          *int     `json:"floor"`
	Description    *string  `json:"description"`
	RentalEstimate *float64 `json:"rental_estimate"`
}

type PropertyResponse struct {
	ID             string   `json:"id"`
	City           string   `json:"city"`
	Address        string   `json:"address"`
	Price          float64  `json:"price"`
	YieldPercent   *float64 `json:"yield_percent,omitempty"`
	PropertyType   *string  `json:"property_type,omitempty"`
	Rooms          *int     `json:"rooms,omitempty"`
	Floor          *int     `json:"floor,omitempty"`
	Description    *string  `json:"description,omitempty"`
	RentalEstimate *float64 `json:"rental_estimate,omitempty"`
	ImageURL       string   `json:"image_url,omitempty"`
	CreatedAt      string   `json:"created_at"`
}

type ImageUploadResponse struct {
	PropertyID string `json:"property_id"`
	ImageKey   string `json:"image_key"`
}

type ImageURLResponse struct {
	PropertyID string `json:"property_id"`
	ImageURL   string `json:"image_url"`
	ExpiresIn  int64  `json:"expires_in"`
}

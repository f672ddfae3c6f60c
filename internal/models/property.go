package models

import (
	"time"

	"github.com/google/uuid"
)

type PropertyType string

const (
	PropertyTypeApartment PropertyType = "apartment"
	PropertyTypeHouse     PropertyType = "house"
	PropertyTypeVacation  PropertyType = "vacation"
)

// ValidPropertyType reports whether t is one of the supported property types.
func ValidPropertyType(t string) bool {
	switch PropertyType(t) {
	case PropertyTypeApartment, PropertyTypeHouse, PropertyTypeVacation:
		return true
	}
	return false
}

type Property struct {
	ID             uuid.UUID     `db:"id"`
	AgentID        uuid.UUID     `db:"agent_id"`
	City           string        `db:"city"`
	Address        string        `db:"address"`
	Price          float64       `db:"price"`
	YieldPercent   *float64      `db:"yield_percent"`
	PropertyType   *PropertyType `db:"property_type"`
	Rooms          *int          `db:"rooms"`
	Floor          *int          `db:"floor"`
	Description    *string       `db:"description"`
	RentalEstimate *float64      `db:"rental_estimate"`
	ImageKey       *string       `db:"image_key"`
	CreatedAt      time.Time     `db:"created_at"`
}

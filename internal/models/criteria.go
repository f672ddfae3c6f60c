package models

import "github.com/google/uuid"

// SearchCriteria is the structured filter set extracted from one
// natural-language question. All fields are optional; absent fields impose
// no constraint. Raw keeps the full model reply for diagnostics and Err
// carries the extraction failure, if any. Neither ever reaches the query
// builder.
type SearchCriteria struct {
	City              *string  `json:"city"`
	Address           *string  `json:"address"`
	MinPrice          *float64 `json:"min_price"`
	MaxPrice          *float64 `json:"max_price"`
	Price             *float64 `json:"price"`
	MinRooms          *int     `json:"min_rooms"`
	MaxRooms          *int     `json:"max_rooms"`
	MinFloor          *int     `json:"min_floor"`
	MaxFloor          *int     `json:"max_floor"`
	PropertyType      *string  `json:"property_type"`
	RentalEstimateMax *float64 `json:"rental_estimate_max"`
	YieldPercent      *float64 `json:"yield_percent"`

	DescriptionFilters []string `json:"description_filters"`

	Raw string `json:"_raw,omitempty"`
	Err string `json:"_error,omitempty"`
}

// PropertyFilter is the whitelisted projection of SearchCriteria that the
// property repository executes. Diagnostic fields never cross this boundary.
type PropertyFilter struct {
	AgentID            *uuid.UUID
	City               *string
	Address            *string
	MinPrice           *float64
	MaxPrice           *float64
	MinRooms           *int
	MaxRooms           *int
	MinFloor           *int
	MaxFloor           *int
	PropertyType       *string
	RentalEstimateMax  *float64
	MinYieldPercent    *float64
	DescriptionFilters []string
}

// Compile projects the criteria onto the filter whitelist, optionally
// scoping the search to a single agent. A bare "price" from the extractor
// is treated as a purchase-price ceiling.
func (c *SearchCriteria) Compile(agentID *uuid.UUID) PropertyFilter {
	f := PropertyFilter{
		AgentID:            agentID,
		City:               c.City,
		Address:            c.Address,
		MinPrice:           c.MinPrice,
		MaxPrice:           c.MaxPrice,
		MinRooms:           c.MinRooms,
		MaxRooms:           c.MaxRooms,
		MinFloor:           c.MinFloor,
		MaxFloor:           c.MaxFloor,
		PropertyType:       c.PropertyType,
		RentalEstimateMax:  c.RentalEstimateMax,
		MinYieldPercent:    c.YieldPercent,
		DescriptionFilters: c.DescriptionFilters,
	}
	if f.MaxPrice == nil && c.Price != nil {
		f.MaxPrice = c.Price
	}
	return f
}

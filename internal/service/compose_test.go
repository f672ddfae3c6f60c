package service

import (
	"testing"

	"investmate/internal/models"

	"github.com/stretchr/testify/assert"
)

func strp(s string) *string   { return &s }
func intp(v int) *int         { return &v }
func fltp(v float64) *float64 { return &v }

func props(n int) []*models.Property {
	out := make([]*models.Property, n)
	for i := range out {
		out[i] = &models.Property{}
	}
	return out
}

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, "en", DetectLanguage("apartments in Tel Aviv"))
	assert.Equal(t, "he", DetectLanguage("דירות בתל אביב"))
	assert.Equal(t, "he", DetectLanguage("apartments in תל אביב"))
	assert.Equal(t, "en", DetectLanguage(""))
	assert.Equal(t, "en", DetectLanguage("123 ₪"))
}

func TestBuildResponseMessageEnglish(t *testing.T) {
	criteria := &models.SearchCriteria{
		City:               strp("Tel Aviv"),
		MaxPrice:           fltp(2000000),
		DescriptionFilters: []string{},
	}

	msg := BuildResponseMessage(criteria, props(3), "en")
	assert.Equal(t, "Found 3 properties in Tel Aviv, with purchase price under ₪2,000,000.", msg)
}

func TestBuildResponseMessageZeroResults(t *testing.T) {
	criteria := &models.SearchCriteria{
		City:               strp("Haifa"),
		DescriptionFilters: []string{},
	}

	msg := BuildResponseMessage(criteria, nil, "en")
	assert.Equal(t, "Found 0 properties in Haifa. No matching properties found.", msg)
}

func TestBuildResponseMessageFullCriteria(t *testing.T) {
	criteria := &models.SearchCriteria{
		City:               strp("Tel Aviv"),
		Address:            strp("Dizengoff"),
		MinFloor:           intp(2),
		MaxFloor:           intp(5),
		PropertyType:       strp("apartment"),
		MaxPrice:           fltp(2500000),
		RentalEstimateMax:  fltp(7000),
		YieldPercent:       fltp(4.25),
		DescriptionFilters: []string{"balcony", "elevator"},
		MinRooms:           intp(3),
		MaxRooms:           intp(4),
	}

	msg := BuildResponseMessage(criteria, props(1), "en")
	assert.Equal(t,
		"Found 1 properties in Tel Aviv, on street Dizengoff, on floors 2–5, type: apartment, "+
			"with purchase price under ₪2,500,000, with estimated rent under ₪7,000, "+
			"with estimated yield of at least 4.2%, with features: balcony, elevator, with 3–4 rooms.",
		msg)
}

func TestBuildResponseMessageBareFallsBackToMaxPrice(t *testing.T) {
	criteria := &models.SearchCriteria{
		Price:              fltp(1500000),
		DescriptionFilters: []string{},
	}

	msg := BuildResponseMessage(criteria, props(2), "en")
	assert.Equal(t, "Found 2 properties, with purchase price under ₪1,500,000.", msg)
}

func TestBuildResponseMessageSingleBounds(t *testing.T) {
	criteria := &models.SearchCriteria{
		MinFloor:           intp(3),
		MinRooms:           intp(4),
		DescriptionFilters: []string{},
	}

	msg := BuildResponseMessage(criteria, props(1), "en")
	assert.Equal(t, "Found 1 properties, from floor 3 and up, with at least 4 rooms.", msg)

	criteria = &models.SearchCriteria{
		MaxFloor:           intp(2),
		MaxRooms:           intp(3),
		DescriptionFilters: []string{},
	}

	msg = BuildResponseMessage(criteria, props(1), "en")
	assert.Equal(t, "Found 1 properties, up to floor 2, with up to 3 rooms.", msg)
}

func TestBuildResponseMessageEqualRangeCollapses(t *testing.T) {
	criteria := &models.SearchCriteria{
		MinRooms:           intp(3),
		MaxRooms:           intp(3),
		DescriptionFilters: []string{},
	}

	// An equal min/max pair reads as a ceiling, not a degenerate range.
	msg := BuildResponseMessage(criteria, props(1), "en")
	assert.Equal(t, "Found 1 properties, with up to 3 rooms.", msg)
}

func TestBuildResponseMessageHebrew(t *testing.T) {
	criteria := &models.SearchCriteria{
		City:               strp("Tel Aviv"),
		MaxPrice:           fltp(2000000),
		DescriptionFilters: []string{"balcony"},
	}

	msg := BuildResponseMessage(criteria, props(2), "he")
	assert.Equal(t, "נמצאו 2 נכסים בעיר Tel Aviv, במחיר רכישה של עד ₪2,000,000, מסנני חיפוש: balcony.", msg)
}

func TestBuildResponseMessageHebrewZeroResults(t *testing.T) {
	criteria := &models.SearchCriteria{DescriptionFilters: []string{}}

	msg := BuildResponseMessage(criteria, nil, "he")
	assert.Equal(t, "נמצאו 0 נכסים. לא נמצאו נכסים מתאימים.", msg)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0", formatAmount(0))
	assert.Equal(t, "950", formatAmount(950))
	assert.Equal(t, "1,000", formatAmount(1000))
	assert.Equal(t, "2,000,000", formatAmount(2000000))
	assert.Equal(t, "2,500,000", formatAmount(2500000.9))
	assert.Equal(t, "-12,345", formatAmount(-12345))
}

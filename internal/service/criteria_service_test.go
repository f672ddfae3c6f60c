package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCompleter struct {
	reply string
	err   error
}

func (f *fakeCompleter) Complete(ctx context.Context, system, user string, temperature float32) (string, error) {
	return f.reply, f.err
}

func newTestCriteriaService(reply string, err error) *CriteriaService {
	return NewCriteriaService(&fakeCompleter{reply: reply, err: err}, time.Second, zap.NewNop())
}

func TestExtractPurchaseQuestion(t *testing.T) {
	svc := newTestCriteriaService(`{
		"city": "Tel Aviv",
		"max_price": 2000000,
		"property_type": "apartment",
		"description_filters": ["balcony"]
	}`, nil)

	criteria := svc.Extract(context.Background(), "apartments in Tel Aviv under 2,000,000 with a balcony")

	require.Empty(t, criteria.Err)
	require.NotNil(t, criteria.City)
	assert.Equal(t, "Tel Aviv", *criteria.City)
	require.NotNil(t, criteria.MaxPrice)
	assert.Equal(t, float64(2000000), *criteria.MaxPrice)
	assert.Nil(t, criteria.RentalEstimateMax)
	assert.Equal(t, []string{"balcony"}, criteria.DescriptionFilters)
}

func TestExtractRentPrecedenceMovesAmount(t *testing.T) {
	// The model wrongly put a rent budget under max_price; the rent rule
	// moves it over and clears the purchase fields.
	svc := newTestCriteriaService(`{"city": "Haifa", "max_price": 5000, "description_filters": []}`, nil)

	criteria := svc.Extract(context.Background(), "apartments for rent in Haifa up to 5000")

	require.NotNil(t, criteria.RentalEstimateMax)
	assert.Equal(t, float64(5000), *criteria.RentalEstimateMax)
	assert.Nil(t, criteria.MaxPrice)
	assert.Nil(t, criteria.MinPrice)
	assert.Nil(t, criteria.Price)
}

func TestExtractExplicitRentAndPurchaseKeepsBoth(t *testing.T) {
	svc := newTestCriteriaService(`{"max_price": 2000000, "rental_estimate_max": 6000, "description_filters": []}`, nil)

	criteria := svc.Extract(context.Background(),
		"properties to buy under 2,000,000 or rent up to 6,000")

	require.NotNil(t, criteria.MaxPrice)
	assert.Equal(t, float64(2000000), *criteria.MaxPrice)
	require.NotNil(t, criteria.RentalEstimateMax)
	assert.Equal(t, float64(6000), *criteria.RentalEstimateMax)
}

func TestExtractMirroredPriceWithRoomCountStaysRent(t *testing.T) {
	// A room count makes the question carry two distinct numbers, but a
	// reply that mirrors the rent budget into max_price is not a real
	// rent/purchase split: the duplicate purchase value must not survive.
	svc := newTestCriteriaService(`{"rental_estimate_max": 5000, "max_price": 5000, "min_rooms": 3, "description_filters": []}`, nil)

	criteria := svc.Extract(context.Background(), "apartments for rent up to 5000 with 3 rooms")

	require.NotNil(t, criteria.RentalEstimateMax)
	assert.Equal(t, float64(5000), *criteria.RentalEstimateMax)
	assert.Nil(t, criteria.MaxPrice)
	assert.Nil(t, criteria.Price)
	assert.Nil(t, criteria.MinPrice)
	require.NotNil(t, criteria.MinRooms)
	assert.Equal(t, 3, *criteria.MinRooms)
}

func TestExtractAmbiguousRentOrBuyDropsPurchase(t *testing.T) {
	// "rent or buy" with one amount stays in the rent context even when
	// the model filled both field sets.
	svc := newTestCriteriaService(`{"max_price": 4500, "rental_estimate_max": 4500, "description_filters": []}`, nil)

	criteria := svc.Extract(context.Background(), "rent or buy in Jerusalem around 4500")

	require.NotNil(t, criteria.RentalEstimateMax)
	assert.Equal(t, float64(4500), *criteria.RentalEstimateMax)
	assert.Nil(t, criteria.MaxPrice)
	assert.Nil(t, criteria.Price)
}

func TestExtractHebrewRentVocabulary(t *testing.T) {
	svc := newTestCriteriaService(`{"city": "Tel Aviv", "price": 6000, "description_filters": []}`, nil)

	criteria := svc.Extract(context.Background(), "דירות לשכירות בתל אביב עד 6000")

	require.NotNil(t, criteria.RentalEstimateMax)
	assert.Equal(t, float64(6000), *criteria.RentalEstimateMax)
	assert.Nil(t, criteria.Price)
}

func TestExtractCompletionFailure(t *testing.T) {
	svc := newTestCriteriaService("", errors.New("provider down"))

	criteria := svc.Extract(context.Background(), "apartments in Tel Aviv")

	assert.Equal(t, "provider down", criteria.Err)
	assert.NotNil(t, criteria.DescriptionFilters)
	assert.Empty(t, criteria.DescriptionFilters)
	assert.Nil(t, criteria.City)
}

func TestExtractUnparsableReply(t *testing.T) {
	svc := newTestCriteriaService("I could not figure out any filters, sorry.", nil)

	criteria := svc.Extract(context.Background(), "something vague")

	assert.NotEmpty(t, criteria.Err)
	assert.Equal(t, "I could not figure out any filters, sorry.", criteria.Raw)
	assert.Empty(t, criteria.DescriptionFilters)
}

func TestExtractReplyInCodeFence(t *testing.T) {
	svc := newTestCriteriaService("```json\n{\"city\": \"Eilat\", \"description_filters\": [\"pool\"]}\n```", nil)

	criteria := svc.Extract(context.Background(), "vacation homes in Eilat with a pool")

	require.Empty(t, criteria.Err)
	require.NotNil(t, criteria.City)
	assert.Equal(t, "Eilat", *criteria.City)
	assert.Equal(t, []string{"pool"}, criteria.DescriptionFilters)
}

func TestExtractRoundsFractionalCounts(t *testing.T) {
	svc := newTestCriteriaService(`{"min_rooms": 3.0, "max_floor": 4.6, "description_filters": []}`, nil)

	criteria := svc.Extract(context.Background(), "at least 3 rooms below floor 5")

	require.NotNil(t, criteria.MinRooms)
	assert.Equal(t, 3, *criteria.MinRooms)
	require.NotNil(t, criteria.MaxFloor)
	assert.Equal(t, 5, *criteria.MaxFloor)
}

func TestCanonicalTags(t *testing.T) {
	tags := canonicalTags([]string{"Center", "north", " balcony ", "balcony", "near public transport", ""})
	assert.Equal(t, []string{"city center", "north area", "balcony", "near metro"}, tags)
}

func TestContainsRentVocabulary(t *testing.T) {
	assert.True(t, containsRentVocabulary("flats for RENT in Haifa"))
	assert.True(t, containsRentVocabulary("דירה בשכירות"))
	assert.False(t, containsRentVocabulary("apartments to buy in Haifa"))
}

func TestCountDistinctAmounts(t *testing.T) {
	assert.Equal(t, 0, countDistinctAmounts("no numbers here"))
	assert.Equal(t, 1, countDistinctAmounts("under 2,000,000 or 2000000"))
	assert.Equal(t, 2, countDistinctAmounts("buy for 2,000,000 or rent for 6,000"))
}

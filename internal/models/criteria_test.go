package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileProjectsWhitelist(t *testing.T) {
	city := "Tel Aviv"
	maxPrice := 2000000.0
	yield := 4.5

	criteria := &SearchCriteria{
		City:               &city,
		MaxPrice:           &maxPrice,
		YieldPercent:       &yield,
		DescriptionFilters: []string{"balcony"},
		Raw:                "model reply text",
		Err:                "",
	}

	filter := criteria.Compile(nil)

	assert.Equal(t, &city, filter.City)
	assert.Equal(t, &maxPrice, filter.MaxPrice)
	assert.Equal(t, &yield, filter.MinYieldPercent)
	assert.Equal(t, []string{"balcony"}, filter.DescriptionFilters)
	assert.Nil(t, filter.AgentID)
}

func TestCompileBarePriceBecomesCeiling(t *testing.T) {
	price := 1500000.0

	filter := (&SearchCriteria{Price: &price}).Compile(nil)

	require.NotNil(t, filter.MaxPrice)
	assert.Equal(t, price, *filter.MaxPrice)
}

func TestCompileExplicitMaxPriceWins(t *testing.T) {
	price := 1500000.0
	maxPrice := 1200000.0

	filter := (&SearchCriteria{Price: &price, MaxPrice: &maxPrice}).Compile(nil)

	require.NotNil(t, filter.MaxPrice)
	assert.Equal(t, maxPrice, *filter.MaxPrice)
}

func TestCompileScopesToAgent(t *testing.T) {
	agentID := uuid.New()

	filter := (&SearchCriteria{}).Compile(&agentID)

	require.NotNil(t, filter.AgentID)
	assert.Equal(t, agentID, *filter.AgentID)
}

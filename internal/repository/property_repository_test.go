package repository

import (
	"strings"
	"testing"

	"investmate/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSearchQueryEmptyFilter(t *testing.T) {
	sql, args, err := buildSearchQuery(models.PropertyFilter{}).ToSql()
	require.NoError(t, err)

	assert.NotContains(t, sql, "WHERE")
	assert.Empty(t, args)
	assert.Contains(t, sql, "ORDER BY created_at DESC, id")
}

func TestBuildSearchQueryInclusiveBounds(t *testing.T) {
	minPrice := 1000000.0
	maxPrice := 2000000.0
	minRooms := 3
	maxFloor := 5

	filter := models.PropertyFilter{
		MinPrice: &minPrice,
		MaxPrice: &maxPrice,
		MinRooms: &minRooms,
		MaxFloor: &maxFloor,
	}

	sql, args, err := buildSearchQuery(filter).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "price >= $1")
	assert.Contains(t, sql, "price <= $2")
	assert.Contains(t, sql, "rooms >= $3")
	assert.Contains(t, sql, "floor <= $4")
	assert.Equal(t, []interface{}{minPrice, maxPrice, minRooms, maxFloor}, args)
}

func TestBuildSearchQuerySubstringMatching(t *testing.T) {
	city := " Tel Aviv "
	address := "Dizengoff"

	filter := models.PropertyFilter{City: &city, Address: &address}

	sql, args, err := buildSearchQuery(filter).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "city ILIKE $1")
	assert.Contains(t, sql, "address ILIKE $2")
	assert.Equal(t, []interface{}{"%Tel Aviv%", "%Dizengoff%"}, args)
}

func TestBuildSearchQueryYieldIsMinimumBound(t *testing.T) {
	yield := 4.0
	rentMax := 6000.0

	filter := models.PropertyFilter{MinYieldPercent: &yield, RentalEstimateMax: &rentMax}

	sql, _, err := buildSearchQuery(filter).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "rental_estimate <= $1")
	assert.Contains(t, sql, "yield_percent >= $2")
}

func TestBuildSearchQueryNormalizesPropertyType(t *testing.T) {
	propertyType := " Apartment "

	filter := models.PropertyFilter{PropertyType: &propertyType}

	sql, args, err := buildSearchQuery(filter).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "property_type = $1")
	assert.Equal(t, []interface{}{"apartment"}, args)
}

func TestBuildSearchQueryAgentScoping(t *testing.T) {
	agentID := uuid.New()

	filter := models.PropertyFilter{AgentID: &agentID}

	sql, args, err := buildSearchQuery(filter).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "agent_id = $1")
	assert.Equal(t, []interface{}{agentID}, args)
}

func TestBuildSearchQueryExpandsSynonyms(t *testing.T) {
	filter := models.PropertyFilter{DescriptionFilters: []string{"balcony"}}

	sql, args, err := buildSearchQuery(filter).ToSql()
	require.NoError(t, err)

	// Each tag becomes one OR group over its surface forms, including the
	// Hebrew variant, matched against the description.
	assert.Contains(t, sql, "description ILIKE $1 OR description ILIKE $2")
	assert.Equal(t, []interface{}{"%balcony%", "%מרפסת%"}, args)
}

func TestBuildSearchQuerySynonymGroupIsConjunctive(t *testing.T) {
	city := "Tel Aviv"
	filter := models.PropertyFilter{
		City:               &city,
		DescriptionFilters: []string{"pool", "parking"},
	}

	sql, args, err := buildSearchQuery(filter).ToSql()
	require.NoError(t, err)

	// The OR group is ANDed with the other predicates.
	assert.Contains(t, sql, "city ILIKE $1 AND (")
	assert.Equal(t, 1, strings.Count(sql, "("))
	assert.Len(t, args, 5)
	assert.Contains(t, args, "%pool%")
	assert.Contains(t, args, "%בריכה%")
	assert.Contains(t, args, "%parking%")
	assert.Contains(t, args, "%חניה%")
}

func TestBuildSearchQueryUnknownTagMatchesItself(t *testing.T) {
	filter := models.PropertyFilter{DescriptionFilters: []string{"sea view"}}

	sql, args, err := buildSearchQuery(filter).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "description ILIKE $1")
	assert.Equal(t, []interface{}{"%sea view%"}, args)
}

package service

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"investmate/internal/models"
	"investmate/internal/utils"

	"go.uber.org/zap"
)

const extractionSystemPrompt = "You are an AI assistant that extracts real estate search filters from user questions in English or Hebrew."

// buildExtractionPrompt renders the fixed instruction prompt for one
// question. The wording carries the disambiguation rules the model must
// follow; CriteriaService.normalize re-enforces the rent-precedence rule
// afterwards so a sloppy reply cannot leak purchase fields.
func buildExtractionPrompt(question string) string {
	return fmt.Sprintf(`You are a real estate assistant. A user asked: "%s"

Extract a JSON object with the following keys:
- city (string or null)
- address (string or null)
- min_price (number or null)
- max_price (number or null)
- min_rooms (minimum rooms if mentioned)
- max_rooms (maximum rooms if mentioned)
- min_floor (minimum floor if mentioned)
- max_floor (maximum floor if mentioned)
- property_type (string: "apartment", "house", "vacation" or null)
- rental_estimate_max (number or null) → for monthly rent filter
- yield_percent (number or null)
- description_filters (array of relevant keywords found in the user's request related to description, like: "pool", "balcony", "city center", "near metro", etc.)

Output must be valid JSON only. Do not explain anything.
If the question is in Hebrew, translate internally and extract in English.

If the user mentions rent-related expressions (in English or Hebrew), such as:
- "rent", "rental price", "monthly rent", "for rent", "שכירות", "שכר דירה", "מחיר שכירות"
→ extract the amount as rental_estimate_max.

If the user uses words like:
- "buy", "purchase", "for sale", "לקנייה", "מחיר", "קנייה", "מכירה"
→ extract the amount as price, min_price, or max_price.

If the question clearly and explicitly includes both rent and purchase prices — return both rental_estimate_max and max_price.

However, if both rent-related and purchase-related words appear ambiguously (e.g. "purchase rent", "rent or buy" without clear prices), always prioritize rent context:
→ Set rental_estimate_max, and set price fields (price, min_price, max_price) to null.

If the question contains the word "rent", assume the context is about renting — even if the word "buy" or "purchase" is also mentioned.
The presence of "rent" should default the context to rental, unless the user explicitly separates both options and gives two distinct prices.
Never duplicate values between rent and purchase fields unless both were explicitly mentioned by the user.

If the user mentions a specific street or address, extract the street name only into the address field.
A "street" can be mentioned in various natural ways, in both English and Hebrew. Detect and extract the street name without the word 'street' or 'רחוב', with no house number and no city name.
Examples:
- "Ben Yehuda street" → address = "Ben Yehuda"
- "street Ben Yehuda" → address = "Ben Yehuda"
- "flat at 12 Dizengoff" → address = "Dizengoff"
- "רחוב הרצל בתל אביב" → address = "Herzl"
If the street name is in Hebrew, translate it into its canonical English form.

Prices are in shekels - ILS - new israeli shekel.

If the user mentions general preferences or amenities, extract them as normalized English keywords into description_filters. Supported terms include:
- "pool", "בריכה"
- "balcony", "מרפסת"
- "garden", "חצר"
- "elevator", "מעלית"
- "parking", "חניה"
- "near metro", "near public transport", "קרוב לתחבורה ציבורית"
- "city center", "מרכז העיר", "במרכז"
- "north area", "south area", "צפון", "דרום"

If the term is ambiguous (e.g. "center"), assume the user means "city center" unless clearly stated otherwise.
Output all values in English. Only the normalized English terms in the description_filters list.`, question)
}

// CriteriaService turns a natural-language question into SearchCriteria.
type CriteriaService struct {
	completer Completer
	timeout   time.Duration
	logger    *zap.Logger
}

func NewCriteriaService(completer Completer, timeout time.Duration, logger *zap.Logger) *CriteriaService {
	return &CriteriaService{
		completer: completer,
		timeout:   timeout,
		logger:    logger,
	}
}

// rawCriteria tolerates fractional numbers where the model should have
// produced integers.
type rawCriteria struct {
	City              *string  `json:"city"`
	Address           *string  `json:"address"`
	MinPrice          *float64 `json:"min_price"`
	MaxPrice          *float64 `json:"max_price"`
	Price             *float64 `json:"price"`
	MinRooms          *float64 `json:"min_rooms"`
	MaxRooms          *float64 `json:"max_rooms"`
	MinFloor          *float64 `json:"min_floor"`
	MaxFloor          *float64 `json:"max_floor"`
	PropertyType      *string  `json:"property_type"`
	RentalEstimateMax *float64 `json:"rental_estimate_max"`
	YieldPercent      *float64 `json:"yield_percent"`

	DescriptionFilters []string `json:"description_filters"`
}

// Extract never returns an error: every failure yields criteria carrying
// only diagnostic markers so the caller degrades to an unfiltered search.
func (s *CriteriaService) Extract(ctx context.Context, question string) *models.SearchCriteria {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	reply, err := s.completer.Complete(ctx, extractionSystemPrompt, buildExtractionPrompt(question), 0.2)
	if err != nil {
		s.logger.Warn("criteria extraction failed", zap.Error(err))
		return &models.SearchCriteria{
			Err:                err.Error(),
			DescriptionFilters: []string{},
		}
	}

	var raw rawCriteria
	if err := utils.ParseModelJSON(reply, &raw); err != nil {
		s.logger.Warn("no JSON in model reply", zap.Error(err))
		return &models.SearchCriteria{
			Raw:                strings.TrimSpace(reply),
			Err:                err.Error(),
			DescriptionFilters: []string{},
		}
	}

	criteria := &models.SearchCriteria{
		City:               trimmed(raw.City),
		Address:            trimmed(raw.Address),
		MinPrice:           raw.MinPrice,
		MaxPrice:           raw.MaxPrice,
		Price:              raw.Price,
		MinRooms:           toInt(raw.MinRooms),
		MaxRooms:           toInt(raw.MaxRooms),
		MinFloor:           toInt(raw.MinFloor),
		MaxFloor:           toInt(raw.MaxFloor),
		PropertyType:       trimmed(raw.PropertyType),
		RentalEstimateMax:  raw.RentalEstimateMax,
		YieldPercent:       raw.YieldPercent,
		DescriptionFilters: canonicalTags(raw.DescriptionFilters),
		Raw:                strings.TrimSpace(reply),
	}

	s.normalize(question, criteria)
	return criteria
}

// rent vocabulary in both supported languages. Matching is substring-based
// so inflected Hebrew forms still hit.
var rentKeywords = []string{
	"rent", "rental", "monthly rent", "for rent",
	"שכירות", "שכר דירה", "מחיר שכירות",
}

func containsRentVocabulary(question string) bool {
	q := strings.ToLower(question)
	for _, kw := range rentKeywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}

var amountRe = regexp.MustCompile(`\d[\d,.]*`)

// countDistinctAmounts counts distinct numeric mentions in the question.
// "2,000,000" and "2000000" are the same amount.
func countDistinctAmounts(question string) int {
	seen := map[float64]struct{}{}
	for _, m := range amountRe.FindAllString(question, -1) {
		cleaned := strings.ReplaceAll(m, ",", "")
		cleaned = strings.TrimRight(cleaned, ".")
		v, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			continue
		}
		seen[v] = struct{}{}
	}
	return len(seen)
}

// normalize enforces the rent-precedence rule: when rent vocabulary is
// present and the question does not give two clearly distinct amounts, the
// purchase fields are dropped and the single amount (if any) lives under
// rental_estimate_max. Anything beyond "one amount" or "two distinct
// amounts" is treated as ambiguous and defaults to rent precedence as well.
// A reply that mirrors the same value into both field sets is never a real
// rent/purchase split, even when the question carries other numbers such as
// room or floor counts.
func (s *CriteriaService) normalize(question string, c *models.SearchCriteria) {
	if c.DescriptionFilters == nil {
		c.DescriptionFilters = []string{}
	}

	if !containsRentVocabulary(question) {
		return
	}
	if p := purchaseAmount(c); countDistinctAmounts(question) == 2 &&
		c.RentalEstimateMax != nil && p != nil && *p != *c.RentalEstimateMax {
		// Two explicitly separated amounts: both field sets may coexist.
		return
	}

	if c.RentalEstimateMax == nil {
		// The single amount belongs to the rent context.
		switch {
		case c.MaxPrice != nil:
			c.RentalEstimateMax = c.MaxPrice
		case c.Price != nil:
			c.RentalEstimateMax = c.Price
		}
	}
	c.Price = nil
	c.MinPrice = nil
	c.MaxPrice = nil
}

// purchaseAmount returns the most specific populated purchase value.
func purchaseAmount(c *models.SearchCriteria) *float64 {
	switch {
	case c.MaxPrice != nil:
		return c.MaxPrice
	case c.Price != nil:
		return c.Price
	case c.MinPrice != nil:
		return c.MinPrice
	}
	return nil
}

// canonicalTags folds model output into the canonical tag vocabulary.
// A bare directional or "center" mention maps to its area tag.
func canonicalTags(tags []string) []string {
	aliases := map[string]string{
		"center":                "city center",
		"centre":                "city center",
		"north":                 "north area",
		"south":                 "south area",
		"near public transport": "near metro",
		"near train":            "near metro",
	}

	out := make([]string, 0, len(tags))
	seen := map[string]struct{}{}
	for _, tag := range tags {
		t := strings.ToLower(strings.TrimSpace(tag))
		if t == "" {
			continue
		}
		if canonical, ok := aliases[t]; ok {
			t = canonical
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

func toInt(f *float64) *int {
	if f == nil {
		return nil
	}
	v := int(math.Round(*f))
	return &v
}

package service

import (
	"fmt"
	"strconv"
	"strings"

	"investmate/internal/models"
)

// DetectLanguage returns "he" when the text contains any Hebrew letter
// (U+0590..U+05EA), otherwise "en".
func DetectLanguage(text string) string {
	for _, r := range text {
		if r >= 0x0590 && r <= 0x05EA {
			return "he"
		}
	}
	return "en"
}

// BuildResponseMessage renders the bilingual one-sentence summary of a
// search: result count plus every criterion that was actually applied.
// Zero results still produce a complete sentence with an explicit
// "no matching properties" suffix.
func BuildResponseMessage(criteria *models.SearchCriteria, results []*models.Property, lang string) string {
	n := len(results)

	maxPrice := criteria.MaxPrice
	if maxPrice == nil {
		maxPrice = criteria.Price
	}

	var b strings.Builder

	if lang == "he" {
		fmt.Fprintf(&b, "נמצאו %d נכסים", n)
		if criteria.City != nil {
			fmt.Fprintf(&b, " בעיר %s", *criteria.City)
		}
		if criteria.Address != nil {
			fmt.Fprintf(&b, ", ברחוב %s", *criteria.Address)
		}
		switch {
		case criteria.MinFloor != nil && criteria.MaxFloor != nil && *criteria.MinFloor != *criteria.MaxFloor:
			fmt.Fprintf(&b, ", בקומות %d–%d", *criteria.MinFloor, *criteria.MaxFloor)
		case criteria.MaxFloor != nil:
			fmt.Fprintf(&b, ", עד קומה %d", *criteria.MaxFloor)
		case criteria.MinFloor != nil:
			fmt.Fprintf(&b, ", מקומה %d ומעלה", *criteria.MinFloor)
		}
		if criteria.PropertyType != nil {
			fmt.Fprintf(&b, ", מסוג %s", *criteria.PropertyType)
		}
		if maxPrice != nil {
			fmt.Fprintf(&b, ", במחיר רכישה של עד ₪%s", formatAmount(*maxPrice))
		}
		if criteria.RentalEstimateMax != nil {
			fmt.Fprintf(&b, ", בשכירות משוערת של עד ₪%s", formatAmount(*criteria.RentalEstimateMax))
		}
		if criteria.YieldPercent != nil {
			fmt.Fprintf(&b, ", עם תשואה משוערת של לפחות %.1f%%", *criteria.YieldPercent)
		}
		if len(criteria.DescriptionFilters) > 0 {
			fmt.Fprintf(&b, ", מסנני חיפוש: %s", strings.Join(criteria.DescriptionFilters, ", "))
		}
		switch {
		case criteria.MinRooms != nil && criteria.MaxRooms != nil && *criteria.MinRooms != *criteria.MaxRooms:
			fmt.Fprintf(&b, ", עם בין %d ל־%d חדרים", *criteria.MinRooms, *criteria.MaxRooms)
		case criteria.MaxRooms != nil:
			fmt.Fprintf(&b, ", עם עד %d חדרים", *criteria.MaxRooms)
		case criteria.MinRooms != nil:
			fmt.Fprintf(&b, ", עם לפחות %d חדרים", *criteria.MinRooms)
		}
		if n > 0 {
			b.WriteString(".")
		} else {
			b.WriteString(". לא נמצאו נכסים מתאימים.")
		}
		return b.String()
	}

	fmt.Fprintf(&b, "Found %d properties", n)
	if criteria.City != nil {
		fmt.Fprintf(&b, " in %s", *criteria.City)
	}
	if criteria.Address != nil {
		fmt.Fprintf(&b, ", on street %s", *criteria.Address)
	}
	switch {
	case criteria.MinFloor != nil && criteria.MaxFloor != nil && *criteria.MinFloor != *criteria.MaxFloor:
		fmt.Fprintf(&b, ", on floors %d–%d", *criteria.MinFloor, *criteria.MaxFloor)
	case criteria.MaxFloor != nil:
		fmt.Fprintf(&b, ", up to floor %d", *criteria.MaxFloor)
	case criteria.MinFloor != nil:
		fmt.Fprintf(&b, ", from floor %d and up", *criteria.MinFloor)
	}
	if criteria.PropertyType != nil {
		fmt.Fprintf(&b, ", type: %s", *criteria.PropertyType)
	}
	if maxPrice != nil {
		fmt.Fprintf(&b, ", with purchase price under ₪%s", formatAmount(*maxPrice))
	}
	if criteria.RentalEstimateMax != nil {
		fmt.Fprintf(&b, ", with estimated rent under ₪%s", formatAmount(*criteria.RentalEstimateMax))
	}
	if criteria.YieldPercent != nil {
		fmt.Fprintf(&b, ", with estimated yield of at least %.1f%%", *criteria.YieldPercent)
	}
	if len(criteria.DescriptionFilters) > 0 {
		fmt.Fprintf(&b, ", with features: %s", strings.Join(criteria.DescriptionFilters, ", "))
	}
	switch {
	case criteria.MinRooms != nil && criteria.MaxRooms != nil && *criteria.MinRooms != *criteria.MaxRooms:
		fmt.Fprintf(&b, ", with %d–%d rooms", *criteria.MinRooms, *criteria.MaxRooms)
	case criteria.MaxRooms != nil:
		fmt.Fprintf(&b, ", with up to %d rooms", *criteria.MaxRooms)
	case criteria.MinRooms != nil:
		fmt.Fprintf(&b, ", with at least %d rooms", *criteria.MinRooms)
	}
	if n > 0 {
		b.WriteString(".")
	} else {
		b.WriteString(". No matching properties found.")
	}
	return b.String()
}

// formatAmount renders a shekel amount with thousands separators.
// Fractional parts are dropped; amounts are whole shekels throughout.
func formatAmount(v float64) string {
	s := strconv.FormatInt(int64(v), 10)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)

	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}

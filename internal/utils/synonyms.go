package utils

// filterSynonyms maps each canonical description tag to every surface form
// (English and Hebrew) matched against property descriptions.
var filterSynonyms = map[string][]string{
	"city center": {"city center", "center", "מרכז", "מרכז העיר"},
	"north area":  {"north", "north area", "צפון", "צפון תל אביב"},
	"south area":  {"south", "south area", "דרום", "דרום תל אביב"},
	"balcony":     {"balcony", "מרפסת"},
	"pool":        {"pool", "בריכה"},
	"elevator":    {"elevator", "מעלית"},
	"parking":     {"parking", "חניה"},
	"garden":      {"garden", "חצר"},
	"near metro":  {"near metro", "train", "תחבורה ציבורית", "רכבת"},
}

// ExpandFilterTag returns all synonyms for a canonical tag. An unknown tag
// matches only itself.
func ExpandFilterTag(tag string) []string {
	if synonyms, ok := filterSynonyms[tag]; ok {
		return synonyms
	}
	return []string{tag}
}

// KnownFilterTags returns the canonical tag vocabulary.
func KnownFilterTags() []string {
	tags := make([]string, 0, len(filterSynonyms))
	for tag := range filterSynonyms {
		tags = append(tags, tag)
	}
	return tags
}

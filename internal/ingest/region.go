package ingest

import "strings"

type regionEntry struct {
	label    string
	keywords []string
}

// regionTable is checked in order; the first entry with a keyword present
// in the text wins.
var regionTable = []regionEntry{
	{"north_america", []string{"united states", "u.s.", "us", "america", "canada", "mexico"}},
	{"europe", []string{"europe", "european union", "eu", "uk", "britain", "germany", "france", "italy", "spain"}},
	{"asia", []string{"asia", "china", "japan", "india", "korea", "singapore", "thailand", "vietnam"}},
	{"middle_east", []string{"middle east", "israel", "palestine", "iran", "iraq", "saudi arabia", "turkey"}},
	{"africa", []string{"africa", "nigeria", "egypt", "south africa", "kenya", "ethiopia"}},
	{"south_america", []string{"south america", "brazil", "argentina", "colombia", "chile", "peru"}},
	{"oceania", []string{"australia", "new zealand", "pacific", "oceania"}},
}

// DetectRegion maps article text onto the fixed region vocabulary by
// case-insensitive substring presence. Text without a regional signal
// keeps the feed's own region.
func DetectRegion(text, feedRegion string) string {
	if text == "" {
		return feedRegion
	}
	lower := strings.ToLower(text)
	for _, entry := range regionTable {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.label
			}
		}
	}
	return feedRegion
}

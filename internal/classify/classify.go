// Package classify maps incident type tags to visual themes and derives
// type tags from dispatch keywords.
package classify

import "strings"

// Theme is the icon/color pair used to visually distinguish incident types.
// Background is a translucent tint in the same hue family as Color.
type Theme struct {
	Icon       string
	Color      string
	Background string
}

// Known incident type tags.
const (
	TypeFire      = "fire"
	TypeTechnical = "technical"
	TypeHazmat    = "hazmat"
	TypeOther     = "other"
	TypeUnknown   = "unknown"
)

// themes is the fixed lookup table for recognized type tags.
// Matching is exact and case-sensitive; anything else gets fallbackTheme.
var themes = map[string]Theme{
	TypeFire: {
		Icon:       "mdi:fire",
		Color:      "#f44336",
		Background: "rgba(244, 67, 54, 0.12)",
	},
	TypeTechnical: {
		Icon:       "mdi:car-emergency",
		Color:      "#2196f3",
		Background: "rgba(33, 150, 243, 0.12)",
	},
	TypeHazmat: {
		Icon:       "mdi:hazard-lights",
		Color:      "#ff9800",
		Background: "rgba(255, 152, 0, 0.12)",
	},
}

// fallbackTheme is returned for unknown, empty, or absent type tags.
// Its colors are shared with no recognized type so unclassified incidents
// stay visually distinguishable.
var fallbackTheme = Theme{
	Icon:       "mdi:alert",
	Color:      "#9e9e9e",
	Background: "rgba(158, 158, 158, 0.12)",
}

// Classify resolves a type tag to its theme. Total: every input, including
// the empty string, resolves to exactly one theme.
func Classify(typ string) Theme {
	if t, ok := themes[typ]; ok {
		return t
	}
	return fallbackTheme
}

// Fallback returns the theme used for unrecognized type tags.
func Fallback() Theme {
	return fallbackTheme
}

// Keyword fragments per category, checked against the upper-cased keyword.
var (
	fireKeywords = []string{
		"BRAND", "FEUER", "B1", "B2", "B3", "B4", "B5", "B ", "GMA", "BMA",
	}
	technicalKeywords = []string{
		"TH", "VU", "VERKEHR", "UNFALL", "H1", "H2", "H3", "H4", "H5",
		"HILFE", "THL", "PERSON",
	}
	hazmatKeywords = []string{
		"GEFAHRGUT", "ABC", "GSG", "GAS", "ÖL", "CHEMIE",
	}
)

// DeriveType determines the incident type from a dispatch keyword.
// Used by the ingest layer when the upstream record carries no type tag.
func DeriveType(keyword string) string {
	if keyword == "" {
		return TypeUnknown
	}

	upper := strings.ToUpper(keyword)

	for _, k := range fireKeywords {
		if strings.Contains(upper, k) {
			return TypeFire
		}
	}
	for _, k := range technicalKeywords {
		if strings.Contains(upper, k) {
			return TypeTechnical
		}
	}
	for _, k := range hazmatKeywords {
		if strings.Contains(upper, k) {
			return TypeHazmat
		}
	}

	return TypeOther
}

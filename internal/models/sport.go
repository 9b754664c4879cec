package models

import "strings"

// Sport identifies one of the supported season-stats variants.
type Sport string

const (
	SportFootball      Sport = "football"
	SportBasketball    Sport = "basketball"
	SportBaseball      Sport = "baseball"
	SportSoccer        Sport = "soccer"
	SportTennis        Sport = "tennis"
	SportGolf          Sport = "golf"
	SportSwimming      Sport = "swimming"
	SportTrackAndField Sport = "track-and-field"
)

// Sports lists every supported sport in display order.
var Sports = []Sport{
	SportFootball,
	SportBasketball,
	SportBaseball,
	SportSoccer,
	SportTennis,
	SportGolf,
	SportSwimming,
	SportTrackAndField,
}

// ParseSport resolves a user-supplied sport name. Matching is case-insensitive
// and treats spaces and underscores as hyphens.
func ParseSport(name string) (Sport, bool) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.NewReplacer(" ", "-", "_", "-").Replace(normalized)
	for _, s := range Sports {
		if string(s) == normalized {
			return s, true
		}
	}
	return "", false
}

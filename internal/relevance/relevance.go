// Package relevance decides whether a trend item suits the current
// temperature.
//
// Temperatures fall into three bands: cold (below Cold), mild (Cold to Warm
// inclusive) and hot (above Warm). Each band admits items whose lower-cased
// name contains one of its keywords. The bands cover every finite
// temperature, so there is no fallback verdict.
package relevance

import (
	"strings"

	"github.com/vzahanych/outfit-trends/internal/trends"
	"github.com/vzahanych/outfit-trends/internal/weather"
)

var (
	coldKeywords = []string{"jacket", "coat", "boots"}
	mildKeywords = []string{"jacket", "sweater"}
	hotKeywords  = []string{"shorts", "t-shirt", "dress"}
)

// Fahrenheit thresholds, and the exact same points in Celsius so a reading
// lands in the same band whichever unit it was fetched in.
var (
	Fahrenheit = Filter{Cold: 55, Warm: 75}
	Celsius    = Filter{Cold: toCelsius(55), Warm: toCelsius(75)}
)

func toCelsius(f float64) float64 {
	return (f - 32) * 5 / 9
}

// Filter holds the band edges in the unit the temperature is reported in.
type Filter struct {
	Cold float64
	Warm float64
}

// ForUnits returns the filter matching the unit system of a weather reading.
func ForUnits(units weather.Units) Filter {
	if units == weather.Metric {
		return Celsius
	}
	return Fahrenheit
}

// IsRelevant applies the Fahrenheit bands.
func IsRelevant(item trends.Item, temperature float64) bool {
	return Fahrenheit.IsRelevant(item, temperature)
}

func (f Filter) IsRelevant(item trends.Item, temperature float64) bool {
	name := strings.ToLower(item.Name)

	switch {
	case temperature < f.Cold:
		return containsAny(name, coldKeywords)
	case temperature <= f.Warm:
		return containsAny(name, mildKeywords)
	default:
		return containsAny(name, hotKeywords)
	}
}

// Apply returns the relevant items in their original order. The input is not
// modified.
func (f Filter) Apply(items []trends.Item, temperature float64) []trends.Item {
	kept := make([]trends.Item, 0, len(items))
	for _, item := range items {
		if f.IsRelevant(item, temperature) {
			kept = append(kept, item)
		}
	}
	return kept
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package weather

import (
	"strings"

	"github.com/wneessen/weather-agent/internal/errs"
)

// Query is a city name with an optional country or region qualifier, as in "London, UK".
type Query struct {
	City    string `json:"city"`
	Country string `json:"country,omitempty"`
}

// ParseQuery parses a free-text city query. The part before the first comma is the city, the rest
// is the qualifier. The city must not be empty after trimming.
func ParseQuery(raw string) (Query, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Query{}, errs.Validation("weather.query", "city", "must not be empty")
	}

	city, country, _ := strings.Cut(raw, ",")
	query := Query{
		City:    strings.Join(strings.Fields(city), " "),
		Country: strings.TrimSpace(country),
	}
	if query.City == "" {
		return Query{}, errs.Validation("weather.query", "city", "must contain a city name, got %q", raw)
	}
	return query, nil
}

// String returns the query in the "City,Country" form most provider APIs accept.
func (q Query) String() string {
	if q.Country == "" {
		return q.City
	}
	return q.City + "," + q.Country
}

// ValidateDays checks that days lies within the supported forecast horizon. Out-of-range values are
// rejected instead of being clamped.
func ValidateDays(days int) error {
	if days < MinForecastDays || days > MaxForecastDays {
		return errs.Validation("weather.forecast", "days", "must be between %d and %d, got %d",
			MinForecastDays, MaxForecastDays, days)
	}
	return nil
}

// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package weather

import (
	"testing"

	"github.com/wneessen/weather-agent/internal/errs"
)

func TestParseQuery(t *testing.T) {
	t.Run("valid queries", func(t *testing.T) {
		tests := []struct {
			raw     string
			city    string
			country string
			str     string
		}{
			{"London", "London", "", "London"},
			{"  London , UK ", "London", "UK", "London,UK"},
			{"New   York, NY, US", "New York", "NY, US", "New York,NY, US"},
		}
		for _, tc := range tests {
			t.Run(tc.raw, func(t *testing.T) {
				query, err := ParseQuery(tc.raw)
				if err != nil {
					t.Fatalf("failed to parse query: %s", err)
				}
				if query.City != tc.city || query.Country != tc.country {
					t.Errorf("expected %q/%q, got %q/%q", tc.city, tc.country, query.City, query.Country)
				}
				if query.String() != tc.str {
					t.Errorf("expected string %q, got %q", tc.str, query.String())
				}
			})
		}
	})
	t.Run("invalid queries fail with validation error", func(t *testing.T) {
		for _, raw := range []string{"", "   ", "\t\n", ", UK"} {
			_, err := ParseQuery(raw)
			if !errs.IsValidation(err) {
				t.Errorf("expected validation error for %q, got %v", raw, err)
			}
		}
	})
}

func TestValidateDays(t *testing.T) {
	for days := MinForecastDays; days <= MaxForecastDays; days++ {
		if err := ValidateDays(days); err != nil {
			t.Errorf("expected %d days to be valid, got %s", days, err)
		}
	}
	for _, days := range []int{-1, 0, 6, 40} {
		if err := ValidateDays(days); !errs.IsValidation(err) {
			t.Errorf("expected %d days to be rejected, got %v", days, err)
		}
	}
}

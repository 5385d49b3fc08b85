// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocode

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNotFound is returned by a Geocoder when no place matches the search.
var ErrNotFound = errors.New("no place found for search")

// StatusError is returned by a Geocoder when the geocoding API answered with an error status.
type StatusError struct {
	Provider string
	Status   int
	Message  string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s API returned status %d", e.Provider, e.Status)
	}
	return fmt.Sprintf("%s API returned status %d: %s", e.Provider, e.Status, e.Message)
}

// AuthOrQuota reports whether the API rejected the credentials or the request quota is exhausted.
func (e *StatusError) AuthOrQuota() bool {
	switch e.Status {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusTooManyRequests:
		return true
	}
	return false
}

// Failed reports whether code is an error status. A zero code means no response was received.
func Failed(code int) bool {
	return code != 0 && (code < 200 || code > 299)
}

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type Place struct {
	Name        string     `json:"name"`
	Country     string     `json:"country"`
	CountryCode string     `json:"country_code"`
	State       string     `json:"state,omitempty"`
	DisplayName string     `json:"display_name"`
	Timezone    string     `json:"timezone,omitempty"`
	Coordinate  Coordinate `json:"coordinate"`
	CacheHit    bool       `json:"-"`
}

// Geocoder resolves a city name (optionally qualified by a country or region) to a Place.
type Geocoder interface {
	Name() string
	Search(ctx context.Context, city, country string) (Place, error)
}

// MatchesCountry reports whether the place matches the given country qualifier. An empty qualifier
// matches every place.
func (p Place) MatchesCountry(country string) bool {
	country = strings.TrimSpace(country)
	if country == "" {
		return true
	}
	return strings.EqualFold(p.CountryCode, country) || strings.EqualFold(p.Country, country) ||
		strings.EqualFold(p.State, country)
}

// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package openmeteo

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/wneessen/weather-agent/internal/geocode"
	"github.com/wneessen/weather-agent/internal/http"
)

const (
	APIEndpoint = "https://geocoding-api.open-meteo.com/v1/search"
	APITimeout  = time.Second * 10
	name        = "open-meteo"

	// candidates is the number of results requested when the search is qualified by a country, so
	// that we can pick the matching one.
	candidates = 10
)

type OpenMeteo struct {
	http *http.Client
	lang language.Tag
}

type Response struct {
	Results []Result `json:"results"`
	Reason  string   `json:"reason"`
	Error   bool     `json:"error"`
}

type Result struct {
	Name        string  `json:"name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	CountryCode string  `json:"country_code"`
	Country     string  `json:"country"`
	Admin1      string  `json:"admin1"`
	Timezone    string  `json:"timezone"`
}

func New(client *http.Client, lang language.Tag) *OpenMeteo {
	return &OpenMeteo{
		http: client,
		lang: lang,
	}
}

func (o *OpenMeteo) Name() string {
	return name
}

func (o *OpenMeteo) Search(ctx context.Context, city, country string) (geocode.Place, error) {
	var response Response

	count := 1
	if strings.TrimSpace(country) != "" {
		count = candidates
	}
	base, _ := o.lang.Base()
	query := url.Values{}
	query.Set("name", city)
	query.Set("count", strconv.Itoa(count))
	query.Set("language", base.String())
	query.Set("format", "json")

	code, err := o.http.GetWithTimeout(ctx, APIEndpoint, &response, query, nil, APITimeout)
	if geocode.Failed(code) || (err == nil && response.Error) {
		return geocode.Place{}, &geocode.StatusError{Provider: "Open-Meteo geocoding", Status: code,
			Message: response.Reason}
	}
	if err != nil {
		return geocode.Place{}, fmt.Errorf("failed to search place with Open-Meteo geocoding API: %w", err)
	}

	for _, result := range response.Results {
		place := geocode.Place{
			Name:        result.Name,
			Country:     result.Country,
			CountryCode: result.CountryCode,
			State:       result.Admin1,
			Timezone:    result.Timezone,
			Coordinate:  geocode.Coordinate{Lat: result.Latitude, Lon: result.Longitude},
		}
		place.DisplayName = displayName(place)
		if place.MatchesCountry(country) {
			return place, nil
		}
	}
	return geocode.Place{}, geocode.ErrNotFound
}

func displayName(place geocode.Place) string {
	parts := []string{place.Name}
	if place.State != "" && place.State != place.Name {
		parts = append(parts, place.State)
	}
	if place.Country != "" {
		parts = append(parts, place.Country)
	}
	return strings.Join(parts, ", ")
}

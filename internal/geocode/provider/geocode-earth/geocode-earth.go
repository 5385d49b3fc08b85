// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocodeearth

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/wneessen/weather-agent/internal/geocode"
	"github.com/wneessen/weather-agent/internal/http"
)

const (
	APIEndpoint = "https://api.geocode.earth/v1/search"
	APITimeout  = time.Second * 10
	name        = "geocode-earth"
)

type GeocodeEarth struct {
	apikey string
	http   *http.Client
	lang   language.Tag
}

type Response struct {
	Features []Feature `json:"features"`
	Type     string    `json:"type"`
}

type Feature struct {
	Geometry   Geometry   `json:"geometry"`
	Properties Properties `json:"properties"`
	Type       string     `json:"type"`
}

// Geometry holds a GeoJSON point, coordinates are in lon/lat order.
type Geometry struct {
	Coordinates []float64 `json:"coordinates"`
}

type Properties struct {
	Name        string `json:"name"`
	DisplayName string `json:"label"`
	City        string `json:"locality"`
	Country     string `json:"country"`
	CountryCode string `json:"country_code"`
	State       string `json:"region"`
}

func New(client *http.Client, lang language.Tag, apikey string) *GeocodeEarth {
	return &GeocodeEarth{
		apikey: apikey,
		lang:   lang,
		http:   client,
	}
}

func (g *GeocodeEarth) Name() string {
	return name
}

func (g *GeocodeEarth) Search(ctx context.Context, city, country string) (geocode.Place, error) {
	var response Response

	search := city
	if country = strings.TrimSpace(country); country != "" {
		search = city + ", " + country
	}
	query := url.Values{}
	query.Set("api_key", g.apikey)
	query.Set("text", search)
	query.Set("layers", "locality")
	query.Set("size", "1")
	query.Set("lang", g.lang.String())

	code, err := g.http.GetWithTimeout(ctx, APIEndpoint, &response, query, nil, APITimeout)
	if geocode.Failed(code) {
		return geocode.Place{}, &geocode.StatusError{Provider: "geocode.earth", Status: code}
	}
	if err != nil {
		return geocode.Place{}, fmt.Errorf("failed to retrieve place details from geocode.earth API: %w", err)
	}
	if len(response.Features) < 1 {
		return geocode.Place{}, geocode.ErrNotFound
	}

	// Fill the geocode.Place struct
	feature := response.Features[0]
	if len(feature.Geometry.Coordinates) < 2 {
		return geocode.Place{}, fmt.Errorf("geocode.earth API returned feature without coordinates")
	}
	place := geocode.Place{
		Name:        feature.Properties.Name,
		DisplayName: feature.Properties.DisplayName,
		Country:     feature.Properties.Country,
		CountryCode: feature.Properties.CountryCode,
		State:       feature.Properties.State,
		Coordinate: geocode.Coordinate{
			Lat: feature.Geometry.Coordinates[1],
			Lon: feature.Geometry.Coordinates[0],
		},
	}
	if feature.Properties.City != "" {
		place.Name = feature.Properties.City
	}

	return place, nil
}

// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package nominatim

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
	APISearchEndpoint = "https://nominatim.openstreetmap.org/search"
	APITimeout        = time.Second * 10
	name              = "osm-nominatim"
)

type Nominatim struct {
	http *http.Client
	lang language.Tag
}

type SearchResult struct {
	APILat      string  `json:"lat"`
	APILon      string  `json:"lon"`
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	Address     Address `json:"address"`
}

type Address struct {
	City        string `json:"city"`
	Town        string `json:"town"`
	Village     string `json:"village"`
	State       string `json:"state"`
	Country     string `json:"country"`
	CountryCode string `json:"country_code"`
}

func New(client *http.Client, lang language.Tag) *Nominatim {
	return &Nominatim{
		lang: lang,
		http: client,
	}
}

func (n *Nominatim) Name() string {
	return name
}

func (n *Nominatim) Search(ctx context.Context, city, country string) (geocode.Place, error) {
	var result []SearchResult
	var err error

	search := city
	if country = strings.TrimSpace(country); country != "" {
		search = city + ", " + country
	}
	query := url.Values{}
	query.Set("format", "jsonv2")
	query.Set("q", search)
	query.Set("addressdetails", "1")
	query.Set("limit", "1")
	query.Set("accept-language", n.lang.String())

	code, err := n.http.GetWithTimeout(ctx, APISearchEndpoint, &result, query, nil, APITimeout)
	if geocode.Failed(code) {
		return geocode.Place{}, &geocode.StatusError{Provider: "Nominatim", Status: code}
	}
	if err != nil {
		return geocode.Place{}, fmt.Errorf("failed to fetch place details from Nominatim API: %w", err)
	}
	if len(result) < 1 {
		return geocode.Place{}, geocode.ErrNotFound
	}

	// Fill the geocode.Place struct
	place := geocode.Place{
		Name:        result[0].Name,
		DisplayName: result[0].DisplayName,
		Country:     result[0].Address.Country,
		CountryCode: strings.ToUpper(result[0].Address.CountryCode),
		State:       result[0].Address.State,
	}
	switch {
	case result[0].Address.City != "":
		place.Name = result[0].Address.City
	case result[0].Address.Town != "":
		place.Name = result[0].Address.Town
	case result[0].Address.Village != "":
		place.Name = result[0].Address.Village
	}
	place.Coordinate.Lat, err = strconv.ParseFloat(result[0].APILat, 64)
	if err != nil {
		return geocode.Place{}, fmt.Errorf("failed to parse latitude from Nominatim API response: %w", err)
	}
	place.Coordinate.Lon, err = strconv.ParseFloat(result[0].APILon, 64)
	if err != nil {
		return geocode.Place{}, fmt.Errorf("failed to parse longitude from Nominatim API response: %w", err)
	}

	return place, nil
}

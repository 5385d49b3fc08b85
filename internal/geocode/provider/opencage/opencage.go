// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package opencage

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
	APIEndpoint = "https://api.opencagedata.com/geocode/v1/json"
	APITimeout  = time.Second * 10
	name        = "opencage"
)

type OpenCage struct {
	apikey string
	http   *http.Client
	lang   language.Tag
}

type Response struct {
	Results      []Result `json:"results"`
	TotalResults int      `json:"total_results"`
	Status       Status   `json:"status"`
}

type Status struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type Result struct {
	Annotations Annotations `json:"annotations"`
	Components  Components  `json:"components"`
	DisplayName string      `json:"formatted"`
	Geometry    Geometry    `json:"geometry"`
}

type Annotations struct {
	Timezone struct {
		Name string `json:"name"`
	} `json:"timezone"`
}

type Components struct {
	NomalizedCity string `json:"_normalized_city"`
	City          string `json:"city"`
	Country       string `json:"country"`
	CountryCode   string `json:"country_code"`
	State         string `json:"state"`
	Town          string `json:"town"`
	Village       string `json:"village"`
}

type Geometry struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lng"`
}

func New(client *http.Client, lang language.Tag, apikey string) *OpenCage {
	return &OpenCage{
		apikey: apikey,
		lang:   lang,
		http:   client,
	}
}

func (o *OpenCage) Name() string {
	return name
}

func (o *OpenCage) Search(ctx context.Context, city, country string) (geocode.Place, error) {
	var response Response

	search := city
	if country = strings.TrimSpace(country); country != "" {
		search = city + ", " + country
	}
	query := url.Values{}
	query.Set("key", o.apikey)
	query.Set("q", search)
	query.Set("limit", "1")
	query.Set("no_record", "1")
	query.Set("language", o.lang.String())

	code, err := o.http.GetWithTimeout(ctx, APIEndpoint, &response, query, nil, APITimeout)
	if geocode.Failed(code) {
		return geocode.Place{}, &geocode.StatusError{Provider: "OpenCage", Status: code, Message: response.Status.Message}
	}
	if err != nil {
		return geocode.Place{}, fmt.Errorf("failed to retrieve place details from OpenCage API: %w", err)
	}
	if response.TotalResults < 1 || len(response.Results) < 1 {
		return geocode.Place{}, geocode.ErrNotFound
	}

	// Fill the geocode.Place struct
	result := response.Results[0]
	place := geocode.Place{
		Name:        result.Components.NomalizedCity,
		DisplayName: result.DisplayName,
		Country:     result.Components.Country,
		CountryCode: strings.ToUpper(result.Components.CountryCode),
		State:       result.Components.State,
		Timezone:    result.Annotations.Timezone.Name,
		Coordinate:  geocode.Coordinate{Lat: result.Geometry.Lat, Lon: result.Geometry.Lon},
	}
	switch {
	case result.Components.City != "":
		place.Name = result.Components.City
	case result.Components.Town != "":
		place.Name = result.Components.Town
	case result.Components.Village != "":
		place.Name = result.Components.Village
	}

	return place, nil
}

// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/wneessen/weather-agent/internal/config"
	"github.com/wneessen/weather-agent/internal/geocode"
	geocodeearth "github.com/wneessen/weather-agent/internal/geocode/provider/geocode-earth"
	geoopenmeteo "github.com/wneessen/weather-agent/internal/geocode/provider/open-meteo"
	"github.com/wneessen/weather-agent/internal/geocode/provider/opencage"
	nominatim "github.com/wneessen/weather-agent/internal/geocode/provider/osm-nominatim"
	"github.com/wneessen/weather-agent/internal/http"
	"github.com/wneessen/weather-agent/internal/logger"
	"github.com/wneessen/weather-agent/internal/weather"
	openmeteo "github.com/wneessen/weather-agent/internal/weather/provider/open-meteo"
	"github.com/wneessen/weather-agent/internal/weather/provider/openweathermap"
)

const (
	cacheHitTTL  = time.Hour * 24
	cacheMissTTL = time.Minute * 10
)

// selectGeocodeProvider returns the configured geocoder. Results are only memoized across tool
// calls if the geocoder cache is enabled in the config.
func selectGeocodeProvider(conf *config.Config, log *logger.Logger, lang language.Tag) (geocode.Geocoder, error) {
	var geocoder geocode.Geocoder

	switch strings.ToLower(conf.GeoCoder.Provider) {
	case "open-meteo":
		geocoder = geoopenmeteo.New(http.New(log), lang)
	case "nominatim":
		geocoder = nominatim.New(http.New(log), lang)
	case "opencage":
		if conf.GeoCoder.APIKey == "" {
			return nil, fmt.Errorf("opencage geocoder requires an API key")
		}
		geocoder = opencage.New(http.New(log), lang, conf.GeoCoder.APIKey)
	case "geocode-earth":
		if conf.GeoCoder.APIKey == "" {
			return nil, fmt.Errorf("geocode-earth geocoder requires an API key")
		}
		geocoder = geocodeearth.New(http.New(log), lang, conf.GeoCoder.APIKey)
	default:
		return nil, fmt.Errorf("unsupported geocoder type: %s", conf.GeoCoder.Provider)
	}

	if conf.GeoCoder.Cache {
		geocoder = geocode.NewCachedGeocoder(geocoder, cacheHitTTL, cacheMissTTL)
	}
	return geocoder, nil
}

// selectWeatherProvider returns the configured weather provider. If the provider resolves cities
// through a geocoder, that geocoder is returned as well.
func selectWeatherProvider(conf *config.Config, log *logger.Logger, lang language.Tag) (weather.Provider,
	geocode.Geocoder, error,
) {
	units, ok := weather.ParseUnitSystem(conf.Units)
	if !ok {
		return nil, nil, fmt.Errorf("unsupported unit system: %s", conf.Units)
	}

	switch strings.ToLower(conf.Weather.Provider) {
	case "openweathermap":
		provider, err := openweathermap.New(http.New(log), log, conf.Weather.APIKey, lang, units)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create OpenWeatherMap weather provider: %w", err)
		}
		return provider, nil, nil
	case "open-meteo":
		geocoder, err := selectGeocodeProvider(conf, log, lang)
		if err != nil {
			return nil, nil, err
		}
		provider, err := openmeteo.New(geocoder, log, units)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create Open-Meteo weather provider: %w", err)
		}
		return provider, geocoder, nil
	default:
		return nil, nil, fmt.Errorf("unsupported weather provider: %s", conf.Weather.Provider)
	}
}

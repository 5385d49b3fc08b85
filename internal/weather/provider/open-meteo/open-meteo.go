// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package openmeteo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	stdhttp "net/http"
	"time"
	_ "time/tzdata"

	"github.com/hectormalot/omgo"
	"github.com/nathan-osman/go-sunrise"

	"github.com/wneessen/weather-agent/internal/errs"
	"github.com/wneessen/weather-agent/internal/geocode"
	"github.com/wneessen/weather-agent/internal/http"
	"github.com/wneessen/weather-agent/internal/logger"
	"github.com/wneessen/weather-agent/internal/units"
	"github.com/wneessen/weather-agent/internal/vartype"
	"github.com/wneessen/weather-agent/internal/weather"
)

const (
	name           = "open-meteo"
	kelvinOffset   = 273.15
	secondsPerHour = 3600
)

var dataFields = []string{
	"temperature_2m", "apparent_temperature", "weather_code", "wind_speed_10m", "is_day",
	"wind_direction_10m", "relative_humidity_2m", "pressure_msl", "cloud_cover", "visibility",
	"precipitation_probability",
}

// forecaster is implemented by omgo.Client.
type forecaster interface {
	Forecast(ctx context.Context, loc omgo.Location, opts *omgo.Options) (*omgo.Forecast, error)
}

// OpenMeteo serves weather data from the keyless Open-Meteo API. Since the API only accepts
// coordinates, the city query is resolved with a geocoder first.
type OpenMeteo struct {
	client forecaster
	coder  geocode.Geocoder
	log    *logger.Logger
	units  weather.UnitSystem
	now    func() time.Time
}

func New(coder geocode.Geocoder, log *logger.Logger, units weather.UnitSystem) (*OpenMeteo, error) {
	if coder == nil {
		return nil, fmt.Errorf("geocoder is required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	omclient, err := omgo.NewClient()
	if err != nil {
		return nil, fmt.Errorf("failed to create Open-Meteo client: %w", err)
	}
	return &OpenMeteo{client: omclient, coder: coder, log: log, units: units, now: time.Now}, nil
}

func (o *OpenMeteo) Name() string {
	return name
}

func (o *OpenMeteo) Current(ctx context.Context, query weather.Query) (*weather.Conditions, error) {
	place, forecast, err := o.fetch(ctx, "weather.current", query)
	if err != nil {
		return nil, err
	}
	return newMapper(place, forecast, o.units).current(o.now()), nil
}

func (o *OpenMeteo) Forecast(ctx context.Context, query weather.Query, days int) (*weather.Forecast, error) {
	const op = "weather.forecast"
	place, forecast, err := o.fetch(ctx, op, query)
	if err != nil {
		return nil, err
	}
	result := newMapper(place, forecast, o.units).forecast(o.now(), days)
	if len(result.Samples) == 0 {
		return nil, errs.API(errs.KindParse, op, name, 0, "no forecast samples in requested range", nil)
	}
	return result, nil
}

func (o *OpenMeteo) fetch(ctx context.Context, op string, query weather.Query) (geocode.Place, *omgo.Forecast, error) {
	place, err := o.coder.Search(ctx, query.City, query.Country)
	var statusErr *geocode.StatusError
	switch {
	case errors.Is(err, geocode.ErrNotFound):
		return place, nil, errs.API(errs.KindNotFound, op, name, 0, "city not found", err)
	case errors.As(err, &statusErr):
		return place, nil, errs.API(geocodeKind(statusErr), op, name, statusErr.Status, statusErr.Message, err)
	case errors.Is(err, http.ErrDecode):
		return place, nil, errs.API(errs.KindParse, op, name, 0, "failed to decode geocoding response", err)
	case err != nil:
		return place, nil, errs.API(errs.KindNetwork, op, name, 0, "geocoding failed", err)
	}
	o.log.Debug("resolved city", slog.String("query", query.String()), slog.String("place", place.DisplayName),
		slog.String("geocoder", o.coder.Name()), slog.Bool("cache_hit", place.CacheHit))

	location, err := omgo.NewLocation(place.Coordinate.Lat, place.Coordinate.Lon)
	if err != nil {
		return place, nil, errs.API(errs.KindParse, op, name, 0, "geocoder returned invalid coordinates", err)
	}
	forecast, err := o.client.Forecast(ctx, location, o.options())
	if err != nil {
		return place, nil, errs.API(errs.KindNetwork, op, name, 0, "failed to get forecast data", err)
	}
	if forecast == nil || len(forecast.HourlyTimes) == 0 {
		return place, nil, errs.API(errs.KindParse, op, name, 0, "response contains no hourly data", nil)
	}
	return place, forecast, nil
}

// geocodeKind classifies an error status of the geocoding API.
func geocodeKind(err *geocode.StatusError) errs.Kind {
	switch {
	case err.AuthOrQuota():
		return errs.KindAuthOrQuota
	case err.Status == stdhttp.StatusNotFound:
		return errs.KindNotFound
	default:
		return errs.KindNetwork
	}
}

func (o *OpenMeteo) options() *omgo.Options {
	opts := &omgo.Options{
		Timezone:      "GMT",
		HourlyMetrics: dataFields,
	}
	switch o.units {
	case weather.Imperial:
		opts.TemperatureUnit = "fahrenheit"
		opts.PrecipitationUnit = "inch"
		opts.WindspeedUnit = "mph"
	default:
		opts.TemperatureUnit = "celsius"
		opts.PrecipitationUnit = "mm"
		opts.WindspeedUnit = "ms"
	}
	return opts
}

// mapper turns an omgo.Forecast into the normalized weather records.
type mapper struct {
	place  geocode.Place
	data   *omgo.Forecast
	system weather.UnitSystem
	zone   *time.Location
}

func newMapper(place geocode.Place, forecast *omgo.Forecast, system weather.UnitSystem) mapper {
	zone, err := time.LoadLocation(place.Timezone)
	if place.Timezone == "" || err != nil {
		// Without a named zone, approximate the offset from the longitude.
		offset := int(math.Round(place.Coordinate.Lon/15)) * secondsPerHour
		zone = time.FixedZone("", offset)
	}
	return mapper{place: place, data: forecast, system: system, zone: zone}
}

func (m mapper) current(now time.Time) *weather.Conditions {
	idx := m.nearest(now)
	conditions := m.sample(idx)
	current := m.data.CurrentWeather
	if !current.Time.IsZero() {
		conditions.Time = current.Time.Time
		conditions.Temperature = m.temperature(current.Temperature)
		conditions.WindSpeed = current.WindSpeed
		conditions.WindDirection = current.WindDirection
		cond := conditionFor(current.WeatherCode)
		conditions.Condition, conditions.Description = cond.Label, cond.Description
	}

	local := now.In(m.zone)
	rise, set := sunrise.SunriseSunset(m.place.Coordinate.Lat, m.place.Coordinate.Lon, local.Year(),
		local.Month(), local.Day())
	conditions.Sunrise, conditions.Sunset = rise, set
	conditions.PrecipitationProbability.Reset()
	return &conditions
}

// forecast returns the samples on the 3-hour grid starting with the slot that contains now.
func (m mapper) forecast(now time.Time, days int) *weather.Forecast {
	_, offset := now.In(m.zone).Zone()
	result := &weather.Forecast{
		City:        m.place.Name,
		Country:     m.place.CountryCode,
		Coordinates: m.place.Coordinate,
		GeneratedAt: now,
		UTCOffset:   offset,
		Units:       m.system.Units(),
	}
	start := now.UTC().Truncate(weather.SampleInterval)
	limit := days * weather.SamplesPerDay
	for idx, instant := range m.data.HourlyTimes {
		if len(result.Samples) >= limit {
			break
		}
		instant = instant.UTC()
		if instant.Before(start) || instant.Hour()%int(weather.SampleInterval.Hours()) != 0 {
			continue
		}
		result.Samples = append(result.Samples, m.sample(idx))
	}
	return result
}

func (m mapper) sample(idx int) weather.Conditions {
	cond := conditionFor(m.metric("weather_code", idx))
	conditions := weather.Conditions{
		City:                     m.place.Name,
		Country:                  m.place.CountryCode,
		Coordinates:              m.place.Coordinate,
		Time:                     m.data.HourlyTimes[idx].UTC(),
		Temperature:              m.temperature(m.metric("temperature_2m", idx)),
		ApparentTemperature:      m.temperature(m.metric("apparent_temperature", idx)),
		Humidity:                 m.metric("relative_humidity_2m", idx),
		Pressure:                 m.metric("pressure_msl", idx),
		WindSpeed:                m.metric("wind_speed_10m", idx),
		WindDirection:            m.metric("wind_direction_10m", idx),
		Cloudiness:               m.optional("cloud_cover", idx),
		Visibility:               m.optional("visibility", idx),
		PrecipitationProbability: m.optional("precipitation_probability", idx),
		Condition:                cond.Label,
		Description:              cond.Description,
		IsDay:                    m.metric("is_day", idx) == 1,
		Units:                    m.system.Units(),
	}
	return conditions
}

func (m mapper) nearest(now time.Time) int {
	best, bestDiff := 0, time.Duration(math.MaxInt64)
	for idx, instant := range m.data.HourlyTimes {
		if diff := instant.Sub(now).Abs(); diff < bestDiff {
			best, bestDiff = idx, diff
		}
	}
	return best
}

func (m mapper) metric(metric string, idx int) float64 {
	val, _ := m.lookup(metric, idx)
	return val
}

func (m mapper) optional(metric string, idx int) vartype.VarFloat64 {
	var val vartype.VarFloat64
	if v, ok := m.lookup(metric, idx); ok {
		val.Set(v)
	}
	return val
}

func (m mapper) lookup(metric string, idx int) (float64, bool) {
	series, ok := m.data.HourlyMetrics[metric]
	if !ok || idx >= len(series) {
		return 0, false
	}
	return series[idx], true
}

// temperature converts the API's celsius values when Kelvin is requested, which Open-Meteo does not
// support natively.
func (m mapper) temperature(val float64) float64 {
	if m.system != weather.Standard {
		return val
	}
	return units.Round(val+kelvinOffset, units.TemperaturePrecision)
}

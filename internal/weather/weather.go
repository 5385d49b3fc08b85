// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package weather

import (
	"context"
	"sort"
	"time"

	"github.com/wneessen/weather-agent/internal/geocode"
	"github.com/wneessen/weather-agent/internal/vartype"
)

const (
	// MinForecastDays and MaxForecastDays bound the forecast horizon a caller may request.
	MinForecastDays = 1
	MaxForecastDays = 5
	// DefaultForecastDays is used when the caller does not ask for a specific horizon.
	DefaultForecastDays = 5
	// SamplesPerDay is the number of forecast samples per day at 3-hour granularity.
	SamplesPerDay = 8
	// SampleInterval is the time between two forecast samples.
	SampleInterval = time.Hour * 3
)

// Provider is implemented by each weather API backend.
type Provider interface {
	Name() string
	Current(ctx context.Context, query Query) (*Conditions, error)
	Forecast(ctx context.Context, query Query, days int) (*Forecast, error)
}

// Conditions is the normalized weather record for a single point in time.
type Conditions struct {
	City        string             `json:"city"`
	Country     string             `json:"country,omitempty"`
	Coordinates geocode.Coordinate `json:"coordinates"`
	Time        time.Time          `json:"time"`

	Temperature              float64            `json:"temperature"`
	ApparentTemperature      float64            `json:"apparent_temperature"`
	TemperatureMin           vartype.VarFloat64 `json:"temperature_min"`
	TemperatureMax           vartype.VarFloat64 `json:"temperature_max"`
	Humidity                 float64            `json:"humidity"`
	Pressure                 float64            `json:"pressure"`
	WindSpeed                float64            `json:"wind_speed"`
	WindDirection            float64            `json:"wind_direction"`
	Cloudiness               vartype.VarFloat64 `json:"cloudiness"`
	Visibility               vartype.VarFloat64 `json:"visibility"`
	PrecipitationProbability vartype.VarFloat64 `json:"precipitation_probability"`

	// Condition is the short condition label in provider vocabulary (e.g. "Clouds"), Description
	// the longer human readable variant (e.g. "scattered clouds").
	Condition   string `json:"condition"`
	Description string `json:"description"`
	IsDay       bool   `json:"is_day"`

	Sunrise time.Time `json:"sunrise,omitzero"`
	Sunset  time.Time `json:"sunset,omitzero"`

	Units Units `json:"units"`
}

// Forecast is the normalized forecast record. Samples are in chronological order.
type Forecast struct {
	City        string             `json:"city"`
	Country     string             `json:"country,omitempty"`
	Coordinates geocode.Coordinate `json:"coordinates"`
	GeneratedAt time.Time          `json:"generated_at"`
	// UTCOffset is the offset of the location's local time to UTC in seconds.
	UTCOffset int          `json:"utc_offset_seconds"`
	Units     Units        `json:"units"`
	Samples   []Conditions `json:"samples"`
}

// Day groups the forecast samples of one local calendar day.
type Day struct {
	Date    string       `json:"date"`
	Samples []Conditions `json:"-"`
	// Representative is the sample closest to local noon.
	Representative Conditions `json:"representative"`
}

// Temperatures returns the temperature series of the forecast.
func (f *Forecast) Temperatures() []float64 {
	temps := make([]float64, len(f.Samples))
	for i, sample := range f.Samples {
		temps[i] = sample.Temperature
	}
	return temps
}

// ConditionLabels returns the condition label series of the forecast.
func (f *Forecast) ConditionLabels() []string {
	labels := make([]string, len(f.Samples))
	for i, sample := range f.Samples {
		labels[i] = sample.Condition
	}
	return labels
}

// Zone returns the fixed time zone of the forecast location.
func (f *Forecast) Zone() *time.Location {
	return time.FixedZone("", f.UTCOffset)
}

// Days groups the samples by local calendar date, in chronological order.
func (f *Forecast) Days() []Day {
	zone := f.Zone()
	var days []Day
	index := make(map[string]int)
	for _, sample := range f.Samples {
		date := sample.Time.In(zone).Format(time.DateOnly)
		pos, ok := index[date]
		if !ok {
			pos = len(days)
			index[date] = pos
			days = append(days, Day{Date: date})
		}
		days[pos].Samples = append(days[pos].Samples, sample)
	}
	for i := range days {
		days[i].Representative = closestToNoon(days[i].Samples, zone)
	}
	return days
}

// SortSamples puts the samples into chronological order.
func (f *Forecast) SortSamples() {
	sort.SliceStable(f.Samples, func(i, j int) bool {
		return f.Samples[i].Time.Before(f.Samples[j].Time)
	})
}

func closestToNoon(samples []Conditions, zone *time.Location) Conditions {
	var best Conditions
	bestDiff := time.Duration(-1)
	for _, sample := range samples {
		local := sample.Time.In(zone)
		noon := time.Date(local.Year(), local.Month(), local.Day(), 12, 0, 0, 0, zone)
		diff := local.Sub(noon).Abs()
		if bestDiff < 0 || diff < bestDiff {
			best, bestDiff = sample, diff
		}
	}
	return best
}

// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package trend aggregates a forecast into a trend summary. All functions are pure: the same
// forecast always yields the same summary.
package trend

import (
	"github.com/wneessen/weather-agent/internal/errs"
	"github.com/wneessen/weather-agent/internal/weather"
)

const (
	// Threshold is the temperature difference between the first and the last sample that has to be
	// exceeded for a series to count as warming or cooling.
	Threshold = 0.5

	op = "analyze_weather_trends"
)

// Direction is the classified temperature trend.
type Direction string

const (
	Warming Direction = "warming"
	Cooling Direction = "cooling"
	Stable  Direction = "stable"
)

// Stats holds the reduction of a temperature series.
type Stats struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
}

// Day is the per-date breakdown of a forecast.
type Day struct {
	Date     string  `json:"date"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Mean     float64 `json:"mean"`
	Dominant string  `json:"dominant_condition"`
	Samples  int     `json:"samples"`
}

// Summary is the result of Analyze.
type Summary struct {
	City     string    `json:"city"`
	Country  string    `json:"country,omitempty"`
	Trend    Direction `json:"trend"`
	Min      float64   `json:"min"`
	Max      float64   `json:"max"`
	Mean     float64   `json:"mean"`
	Dominant string    `json:"dominant_condition"`
	Count    int       `json:"sample_count"`
	First    float64   `json:"first"`
	Last     float64   `json:"last"`
	Delta    float64   `json:"delta"`
	// Slope is the least-squares temperature change per sample.
	Slope float64 `json:"slope_per_sample"`
	Unit  string  `json:"unit"`
	Days  []Day   `json:"days"`
}

// Analyze summarizes the temperature and condition series of the forecast. A forecast without
// samples is a validation error.
func Analyze(forecast *weather.Forecast) (Summary, error) {
	if forecast == nil || len(forecast.Samples) == 0 {
		return Summary{}, errs.Validation(op, "forecast", "must contain at least one sample")
	}

	temps := Temperatures(forecast)
	stats, err := Reduce(temps)
	if err != nil {
		return Summary{}, err
	}
	direction, err := ClassifySeries(temps)
	if err != nil {
		return Summary{}, err
	}
	dominant, err := Dominant(forecast.ConditionLabels())
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		City:     forecast.City,
		Country:  forecast.Country,
		Trend:    direction,
		Min:      stats.Min,
		Max:      stats.Max,
		Mean:     stats.Mean,
		Dominant: dominant,
		Count:    len(temps),
		First:    temps[0],
		Last:     temps[len(temps)-1],
		Delta:    temps[len(temps)-1] - temps[0],
		Slope:    Slope(temps),
		Unit:     forecast.Units.Temperature,
	}
	for _, day := range forecast.Days() {
		summary.Days = append(summary.Days, breakdown(day))
	}
	return summary, nil
}

// Temperatures extracts the temperature series of the forecast in sample order.
func Temperatures(forecast *weather.Forecast) []float64 {
	if forecast == nil {
		return nil
	}
	return forecast.Temperatures()
}

// Reduce returns min, max and mean of the series.
func Reduce(temps []float64) (Stats, error) {
	if len(temps) == 0 {
		return Stats{}, errs.Validation(op, "temperatures", "must not be empty")
	}
	stats := Stats{Min: temps[0], Max: temps[0]}
	var sum float64
	for _, temp := range temps {
		stats.Min = min(stats.Min, temp)
		stats.Max = max(stats.Max, temp)
		sum += temp
	}
	stats.Mean = sum / float64(len(temps))
	// keep constant series exact, the division can be off in the last bit
	if stats.Min == stats.Max {
		stats.Mean = stats.Min
	}
	stats.Mean = min(max(stats.Mean, stats.Min), stats.Max)
	return stats, nil
}

// Classify compares the first and the last temperature of a series.
func Classify(first, last float64) Direction {
	switch delta := last - first; {
	case delta > Threshold:
		return Warming
	case delta < -Threshold:
		return Cooling
	default:
		return Stable
	}
}

// ClassifySeries classifies the series by its first and last value. A single sample is stable.
func ClassifySeries(temps []float64) (Direction, error) {
	if len(temps) == 0 {
		return "", errs.Validation(op, "temperatures", "must not be empty")
	}
	return Classify(temps[0], temps[len(temps)-1]), nil
}

// Dominant returns the most frequent label. Ties go to the label that occurs first. Empty labels are
// ignored, so a series of empty labels yields an empty result.
func Dominant(labels []string) (string, error) {
	if len(labels) == 0 {
		return "", errs.Validation(op, "conditions", "must not be empty")
	}
	counts := make(map[string]int, len(labels))
	var order []string
	for _, label := range labels {
		if label == "" {
			continue
		}
		if counts[label] == 0 {
			order = append(order, label)
		}
		counts[label]++
	}

	var dominant string
	best := 0
	for _, label := range order {
		if counts[label] > best {
			dominant, best = label, counts[label]
		}
	}
	return dominant, nil
}

// Slope returns the least-squares slope of the series against the sample index. Series with fewer
// than two samples have a slope of zero.
func Slope(temps []float64) float64 {
	n := float64(len(temps))
	if len(temps) < 2 {
		return 0
	}
	var sumX, sumY, sumXY, sumXX float64
	for i, temp := range temps {
		x := float64(i)
		sumX += x
		sumY += temp
		sumXY += x * temp
		sumXX += x * x
	}
	return (n*sumXY - sumX*sumY) / (n*sumXX - sumX*sumX)
}

func breakdown(day weather.Day) Day {
	temps := make([]float64, len(day.Samples))
	labels := make([]string, len(day.Samples))
	for i, sample := range day.Samples {
		temps[i] = sample.Temperature
		labels[i] = sample.Condition
	}
	// a day from Forecast.Days always has at least one sample
	stats, _ := Reduce(temps)
	dominant, _ := Dominant(labels)
	return Day{
		Date:     day.Date,
		Min:      stats.Min,
		Max:      stats.Max,
		Mean:     stats.Mean,
		Dominant: dominant,
		Samples:  len(day.Samples),
	}
}

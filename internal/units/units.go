// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package units implements the temperature and distance conversions offered as tools.
package units

import (
	"math"

	"github.com/wneessen/weather-agent/internal/errs"
)

const (
	// AbsoluteZeroCelsius is 0 K expressed in degree Celsius.
	AbsoluteZeroCelsius = -273.15
	// KilometersPerMile is the length of an international mile in kilometers.
	KilometersPerMile = 1.60934

	// TemperaturePrecision is the number of decimals temperatures are rounded to, matching the
	// provider convention.
	TemperaturePrecision = 2
	// DistancePrecision is the number of decimals distances are rounded to.
	DistancePrecision = 4

	UnitCelsius    = "°C"
	UnitFahrenheit = "°F"
	UnitKelvin     = "K"
	UnitKilometers = "km"
	UnitMiles      = "mi"
)

// Result is the value of a conversion together with the unit it is expressed in.
type Result struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// KelvinToCelsius converts a temperature in Kelvin to degree Celsius. Negative and non-finite
// values are rejected.
func KelvinToCelsius(kelvin float64) (Result, error) {
	if err := checkValue("kelvin_to_celsius", "temperature", kelvin, 0); err != nil {
		return Result{}, err
	}
	return result("kelvin_to_celsius", "temperature", kelvin+AbsoluteZeroCelsius, TemperaturePrecision, UnitCelsius)
}

// KelvinToFahrenheit converts a temperature in Kelvin to degree Fahrenheit.
func KelvinToFahrenheit(kelvin float64) (Result, error) {
	if err := checkValue("kelvin_to_fahrenheit", "temperature", kelvin, 0); err != nil {
		return Result{}, err
	}
	return result("kelvin_to_fahrenheit", "temperature", kelvin*9/5-459.67, TemperaturePrecision, UnitFahrenheit)
}

// CelsiusToFahrenheit converts a temperature in degree Celsius to degree Fahrenheit. Values below
// absolute zero are rejected.
func CelsiusToFahrenheit(celsius float64) (Result, error) {
	if err := checkValue("celsius_to_fahrenheit", "temperature", celsius, AbsoluteZeroCelsius); err != nil {
		return Result{}, err
	}
	return result("celsius_to_fahrenheit", "temperature", celsius*9/5+32, TemperaturePrecision, UnitFahrenheit)
}

// MilesToKm converts a distance in miles to kilometers. Negative and non-finite values are rejected.
func MilesToKm(miles float64) (Result, error) {
	if err := checkValue("miles_to_km", "miles", miles, 0); err != nil {
		return Result{}, err
	}
	return result("miles_to_km", "miles", miles*KilometersPerMile, DistancePrecision, UnitKilometers)
}

// Round rounds val half away from zero to the given number of decimals. Negative zero is
// normalized to zero. Values too large to be scaled have no decimals left and are returned as is.
func Round(val float64, precision int) float64 {
	pow := math.Pow(10, float64(precision))
	scaled := val * pow
	if math.IsInf(scaled, 0) || math.IsNaN(scaled) {
		return val
	}
	rounded := math.Round(scaled) / pow
	if rounded == 0 {
		return 0
	}
	return rounded
}

// result rejects conversions that left the float64 range.
func result(op, field string, val float64, precision int, unit string) (Result, error) {
	if math.IsInf(val, 0) || math.IsNaN(val) {
		return Result{}, errs.Validation(op, field, "value too large, the converted value is not representable")
	}
	return Result{Value: Round(val, precision), Unit: unit}, nil
}

func checkValue(op, field string, val, floor float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return errs.Validation(op, field, "must be a finite number")
	}
	if val < floor {
		if floor == 0 {
			return errs.Validation(op, field, "must not be negative, got %g", val)
		}
		return errs.Validation(op, field, "must not be below %g, got %g", floor, val)
	}
	return nil
}

// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package weather

import "strings"

// UnitSystem selects the unit system the providers deliver their values in.
type UnitSystem string

const (
	Metric   UnitSystem = "metric"
	Imperial UnitSystem = "imperial"
	// Standard delivers temperatures in Kelvin.
	Standard UnitSystem = "standard"
)

type Units struct {
	Temperature   string `json:"temperature"`
	WindSpeed     string `json:"wind_speed"`
	Humidity      string `json:"humidity"`
	Pressure      string `json:"pressure"`
	WindDirection string `json:"wind_direction"`
	Visibility    string `json:"visibility"`
}

// ParseUnitSystem returns the UnitSystem for the given name and whether it is known.
func ParseUnitSystem(name string) (UnitSystem, bool) {
	switch system := UnitSystem(strings.ToLower(strings.TrimSpace(name))); system {
	case Metric, Imperial, Standard:
		return system, true
	default:
		return Metric, false
	}
}

// TemperatureUnit returns the temperature unit label of the unit system.
func (u UnitSystem) TemperatureUnit() string {
	switch u {
	case Imperial:
		return "°F"
	case Standard:
		return "K"
	default:
		return "°C"
	}
}

// WindSpeedUnit returns the wind speed unit label of the unit system.
func (u UnitSystem) WindSpeedUnit() string {
	if u == Imperial {
		return "mph"
	}
	return "m/s"
}

// Units returns the unit labels for every numeric field of a Conditions record in this unit system.
func (u UnitSystem) Units() Units {
	return Units{
		Temperature:   u.TemperatureUnit(),
		WindSpeed:     u.WindSpeedUnit(),
		Humidity:      "%",
		Pressure:      "hPa",
		WindDirection: "°",
		Visibility:    "m",
	}
}

// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package openmeteo

// wmoCondition is the condition label and description for a WMO weather code. Labels follow the
// vocabulary of the other providers so trend analysis treats them alike.
type wmoCondition struct {
	Label       string
	Description string
}

var wmoCodes = map[int]wmoCondition{
	0:  {"Clear", "clear sky"},
	1:  {"Clear", "mainly clear"},
	2:  {"Clouds", "partly cloudy"},
	3:  {"Clouds", "overcast"},
	45: {"Fog", "fog"},
	48: {"Fog", "depositing rime fog"},
	51: {"Drizzle", "light drizzle"},
	53: {"Drizzle", "moderate drizzle"},
	55: {"Drizzle", "dense drizzle"},
	56: {"Drizzle", "light freezing drizzle"},
	57: {"Drizzle", "dense freezing drizzle"},
	61: {"Rain", "slight rain"},
	63: {"Rain", "moderate rain"},
	65: {"Rain", "heavy rain"},
	66: {"Rain", "light freezing rain"},
	67: {"Rain", "heavy freezing rain"},
	71: {"Snow", "slight snow fall"},
	73: {"Snow", "moderate snow fall"},
	75: {"Snow", "heavy snow fall"},
	77: {"Snow", "snow grains"},
	80: {"Rain", "slight rain showers"},
	81: {"Rain", "moderate rain showers"},
	82: {"Rain", "violent rain showers"},
	85: {"Snow", "slight snow showers"},
	86: {"Snow", "heavy snow showers"},
	95: {"Thunderstorm", "thunderstorm"},
	96: {"Thunderstorm", "thunderstorm with slight hail"},
	99: {"Thunderstorm", "thunderstorm with heavy hail"},
}

func conditionFor(code float64) wmoCondition {
	if cond, ok := wmoCodes[int(code)]; ok {
		return cond
	}
	return wmoCondition{Label: "Unknown", Description: "unknown"}
}

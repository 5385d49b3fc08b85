// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package presenter

import (
	"github.com/vorlif/spreak/localize"

	"github.com/wneessen/weather-agent/internal/errs"
	"github.com/wneessen/weather-agent/internal/trend"
)

// MoonPhaseIcon is a map where moon phase names are keys and their corresponding emoji representations are values.
var MoonPhaseIcon = map[string]string{
	"New Moon":        "🌑",
	"Waxing Crescent": "🌒",
	"First Quarter":   "🌓",
	"Waxing Gibbous":  "🌔",
	"Full Moon":       "🌕",
	"Waning Gibbous":  "🌖",
	"Third Quarter":   "🌗",
	"Waning Crescent": "🌘",
}

// ConditionIcons maps lower-case condition labels to emoji icons for day (true) and night (false)
var ConditionIcons = map[string]map[bool]string{
	"clear": {
		true:  "☀️",
		false: "🌙",
	},
	"clouds": {
		true:  "☁️",
		false: "☁️",
	},
	"drizzle": {
		true:  "🌦️",
		false: "🌧️",
	},
	"rain": {
		true:  "🌧️",
		false: "🌧️",
	},
	"snow": {
		true:  "🌨️",
		false: "🌨️",
	},
	"thunderstorm": {
		true:  "⛈️",
		false: "⛈️",
	},
	"fog": {
		true:  "🌫️",
		false: "🌫️",
	},
	"mist": {
		true:  "🌫️",
		false: "🌫️",
	},
	"haze": {
		true:  "🌫️",
		false: "🌫️",
	},
	"squall": {
		true:  "💨",
		false: "💨",
	},
	"tornado": {
		true:  "🌪️",
		false: "🌪️",
	},
}

var trendIcons = map[trend.Direction]string{
	trend.Warming: "📈",
	trend.Cooling: "📉",
	trend.Stable:  "➡️",
}

var i18nVars = map[string]localize.MsgID{
	"temp":            "Temperature",
	"humidity":        "Humidity",
	"winddir":         "Wind direction",
	"windspeed":       "Wind speed",
	"wind":            "Wind",
	"pressure":        "Pressure",
	"apparent":        "Feels like",
	"visibility":      "Visibility",
	"cloudiness":      "Cloudiness",
	"weatherin":       "Weather in",
	"forecastfor":     "Forecast for",
	"trendfor":        "Temperature trend for",
	"sunrise":         "Sunrise",
	"sunset":          "Sunset",
	"moonphase":       "Moonphase",
	"new moon":        "New moon",
	"waxing crescent": "Waxing crescent",
	"first quarter":   "First quarter",
	"waxing gibbous":  "Waxing gibbous",
	"full moon":       "Full moon",
	"waning gibbous":  "Waning gibbous",
	"third quarter":   "Third quarter",
	"waning crescent": "Waning crescent",
	"max":             "Max",
	"min":             "Min",
	"mean":            "Mean",
	"dominant":        "Dominant condition",
	"samples":         "samples",
	"warming":         "warming",
	"cooling":         "cooling",
	"stable":          "stable",
	"clear":           "Clear",
	"clouds":          "Clouds",
	"rain":            "Rain",
	"drizzle":         "Drizzle",
	"snow":            "Snow",
	"fog":             "Fog",
	"mist":            "Mist",
	"thunderstorm":    "Thunderstorm",
}

type errorText struct {
	message localize.MsgID
	hint    localize.MsgID
}

var errorTexts = map[errs.Kind]errorText{
	errs.KindValidation: {
		message: "Invalid argument",
		hint:    "Check the tool arguments and call the tool again.",
	},
	errs.KindNotFound: {
		message: "Location not found",
		hint:    "Check the spelling of the city or add a country code, e.g. \"Paris,FR\".",
	},
	errs.KindAuthOrQuota: {
		message: "The weather service rejected the request",
		hint:    "Check the API key and the request quota of the weather service.",
	},
	errs.KindNetwork: {
		message: "The weather service is not reachable",
		hint:    "Try again later.",
	},
	errs.KindParse: {
		message: "The weather service sent an unexpected response",
		hint:    "Try again later or switch to another weather provider.",
	},
	errs.KindInternal: {
		message: "Internal error",
		hint:    "Please report this problem.",
	},
}

var windDirIcons = map[string]string{
	"N":  "↑",
	"NE": "↗",
	"E":  "→",
	"SE": "↘",
	"S":  "↓",
	"SW": "↙",
	"W":  "←",
	"NW": "↖",
}

// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package openweathermap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	stdhttp "net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/wneessen/weather-agent/internal/errs"
	"github.com/wneessen/weather-agent/internal/geocode"
	"github.com/wneessen/weather-agent/internal/http"
	"github.com/wneessen/weather-agent/internal/logger"
	"github.com/wneessen/weather-agent/internal/vartype"
	"github.com/wneessen/weather-agent/internal/weather"
)

const (
	name                = "openweathermap"
	APICurrentEndpoint  = "https://api.openweathermap.org/data/2.5/weather"
	APIForecastEndpoint = "https://api.openweathermap.org/data/2.5/forecast"
	APITimeout          = time.Second * 10
)

type OpenWeatherMap struct {
	apikey string
	http   *http.Client
	lang   language.Tag
	log    *logger.Logger
	units  weather.UnitSystem
}

// apiMessage is the "message" field of an API response. It is a string on errors, but a number on
// successful forecast responses.
type apiMessage string

type condition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type mainValues struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
	Pressure  float64 `json:"pressure"`
	Humidity  float64 `json:"humidity"`
}

type wind struct {
	Speed float64 `json:"speed"`
	Deg   float64 `json:"deg"`
}

type clouds struct {
	All *float64 `json:"all"`
}

type coord struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type currentResponse struct {
	Message    apiMessage  `json:"message"`
	Coord      coord       `json:"coord"`
	Weather    []condition `json:"weather"`
	Main       mainValues  `json:"main"`
	Visibility *float64    `json:"visibility"`
	Wind       wind        `json:"wind"`
	Clouds     clouds      `json:"clouds"`
	Dt         int64       `json:"dt"`
	Sys        struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
	Timezone int    `json:"timezone"`
	Name     string `json:"name"`
}

type forecastResponse struct {
	Message apiMessage `json:"message"`
	Count   int        `json:"cnt"`
	List    []struct {
		Dt         int64       `json:"dt"`
		Main       mainValues  `json:"main"`
		Weather    []condition `json:"weather"`
		Clouds     clouds      `json:"clouds"`
		Wind       wind        `json:"wind"`
		Visibility *float64    `json:"visibility"`
		Pop        *float64    `json:"pop"`
		Sys        struct {
			Pod string `json:"pod"`
		} `json:"sys"`
	} `json:"list"`
	City struct {
		Name     string `json:"name"`
		Coord    coord  `json:"coord"`
		Country  string `json:"country"`
		Timezone int    `json:"timezone"`
		Sunrise  int64  `json:"sunrise"`
		Sunset   int64  `json:"sunset"`
	} `json:"city"`
}

func New(client *http.Client, log *logger.Logger, apikey string, lang language.Tag, units weather.UnitSystem) (*OpenWeatherMap, error) {
	if client == nil {
		return nil, fmt.Errorf("http client is required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if strings.TrimSpace(apikey) == "" {
		return nil, fmt.Errorf("API key is required for OpenWeatherMap")
	}
	return &OpenWeatherMap{apikey: apikey, http: client, lang: lang, log: log, units: units}, nil
}

func (o *OpenWeatherMap) Name() string {
	return name
}

func (o *OpenWeatherMap) Current(ctx context.Context, query weather.Query) (*weather.Conditions, error) {
	const op = "weather.current"
	res := new(currentResponse)

	o.log.Debug("requesting current weather", slog.String("provider", name), slog.String("query", query.String()))
	code, err := o.http.GetWithTimeout(ctx, APICurrentEndpoint, res, o.query(query), nil, APITimeout)
	if err = o.classify(op, code, err, res.Message); err != nil {
		return nil, err
	}
	if res.Name == "" || len(res.Weather) == 0 {
		return nil, errs.API(errs.KindParse, op, name, code, "response is missing the city name or conditions", nil)
	}

	conditions := &weather.Conditions{
		City:                res.Name,
		Country:             res.Sys.Country,
		Coordinates:         geocode.Coordinate{Lat: res.Coord.Lat, Lon: res.Coord.Lon},
		Time:                unixTime(res.Dt),
		Temperature:         res.Main.Temp,
		ApparentTemperature: res.Main.FeelsLike,
		TemperatureMin:      vartype.NewVariable(res.Main.TempMin),
		TemperatureMax:      vartype.NewVariable(res.Main.TempMax),
		Humidity:            res.Main.Humidity,
		Pressure:            res.Main.Pressure,
		WindSpeed:           res.Wind.Speed,
		WindDirection:       res.Wind.Deg,
		Cloudiness:          optional(res.Clouds.All),
		Visibility:          optional(res.Visibility),
		Condition:           res.Weather[0].Main,
		Description:         res.Weather[0].Description,
		IsDay:               strings.HasSuffix(res.Weather[0].Icon, "d"),
		Sunrise:             unixTime(res.Sys.Sunrise),
		Sunset:              unixTime(res.Sys.Sunset),
		Units:               o.units.Units(),
	}
	return conditions, nil
}

func (o *OpenWeatherMap) Forecast(ctx context.Context, query weather.Query, days int) (*weather.Forecast, error) {
	const op = "weather.forecast"
	res := new(forecastResponse)

	params := o.query(query)
	params.Set("cnt", strconv.Itoa(days*weather.SamplesPerDay))
	o.log.Debug("requesting forecast", slog.String("provider", name), slog.String("query", query.String()),
		slog.String("cnt", params.Get("cnt")))
	code, err := o.http.GetWithTimeout(ctx, APIForecastEndpoint, res, params, nil, APITimeout)
	if err = o.classify(op, code, err, res.Message); err != nil {
		return nil, err
	}
	if res.City.Name == "" || len(res.List) == 0 {
		return nil, errs.API(errs.KindParse, op, name, code, "response is missing the city or forecast list", nil)
	}

	forecast := &weather.Forecast{
		City:        res.City.Name,
		Country:     res.City.Country,
		Coordinates: geocode.Coordinate{Lat: res.City.Coord.Lat, Lon: res.City.Coord.Lon},
		GeneratedAt: time.Now(),
		UTCOffset:   res.City.Timezone,
		Units:       o.units.Units(),
		Samples:     make([]weather.Conditions, 0, len(res.List)),
	}
	for _, item := range res.List {
		sample := weather.Conditions{
			City:                forecast.City,
			Country:             forecast.Country,
			Coordinates:         forecast.Coordinates,
			Time:                unixTime(item.Dt),
			Temperature:         item.Main.Temp,
			ApparentTemperature: item.Main.FeelsLike,
			TemperatureMin:      vartype.NewVariable(item.Main.TempMin),
			TemperatureMax:      vartype.NewVariable(item.Main.TempMax),
			Humidity:            item.Main.Humidity,
			Pressure:            item.Main.Pressure,
			WindSpeed:           item.Wind.Speed,
			WindDirection:       item.Wind.Deg,
			Cloudiness:          optional(item.Clouds.All),
			Visibility:          optional(item.Visibility),
			IsDay:               item.Sys.Pod == "d",
			Units:               forecast.Units,
		}
		if item.Pop != nil {
			sample.PrecipitationProbability = vartype.NewVariable(math.Round(*item.Pop * 100))
		}
		if len(item.Weather) > 0 {
			sample.Condition = item.Weather[0].Main
			sample.Description = item.Weather[0].Description
		}
		forecast.Samples = append(forecast.Samples, sample)
	}
	return forecast, nil
}

func (o *OpenWeatherMap) query(query weather.Query) url.Values {
	base, _ := o.lang.Base()
	values := url.Values{}
	values.Set("q", query.String())
	values.Set("appid", o.apikey)
	values.Set("lang", base.String())
	values.Set("units", string(o.units))
	return values
}

// classify turns the outcome of an API request into an *errs.Error of the matching kind. The status
// code takes precedence over decoding failures, since error pages are not always JSON.
func (o *OpenWeatherMap) classify(op string, code int, err error, message apiMessage) error {
	if errors.Is(err, http.ErrRequest) || (err != nil && code == 0) {
		return errs.API(errs.KindNetwork, op, name, 0, "request failed", err)
	}

	msg := string(message)
	if code >= 400 && msg == "" {
		msg = strings.ToLower(stdhttp.StatusText(code))
	}
	switch {
	case code == 400 || code == 404:
		return errs.API(errs.KindNotFound, op, name, code, msg, nil)
	case code == 401 || code == 403 || code == 429:
		return errs.API(errs.KindAuthOrQuota, op, name, code, msg, nil)
	case code >= 500:
		return errs.API(errs.KindNetwork, op, name, code, msg, nil)
	case code >= 300:
		return errs.API(errs.KindParse, op, name, code, "unexpected response status", nil)
	case err != nil:
		return errs.API(errs.KindParse, op, name, code, "failed to decode response", err)
	}
	return nil
}

func (m *apiMessage) UnmarshalJSON(b []byte) error {
	if len(b) == 0 {
		return fmt.Errorf("empty message")
	}
	if b[0] != '"' {
		// numeric placeholder on success
		*m = ""
		return nil
	}
	var msg string
	if err := json.Unmarshal(b, &msg); err != nil {
		return fmt.Errorf("failed to parse message: %w", err)
	}
	*m = apiMessage(msg)
	return nil
}

func optional(val *float64) vartype.VarFloat64 {
	var v vartype.VarFloat64
	if val != nil {
		v.Set(*val)
	}
	return v
}

func unixTime(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}

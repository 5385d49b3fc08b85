// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/kkyr/fig"
)

const (
	configEnv = "WEATHERAGENT"
	// apiKeyEnv is consulted when no API key is configured, so the key can live in a plain .env file.
	apiKeyEnv = "WEATHER_API_KEY"

	DefaultRateLimit    = 1.0
	DefaultBatchWorkers = 8

	DefaultCurrentTpl = "{{.ConditionIconWithSpace}}{{loc \"weatherin\"}} {{.Location}}: " +
		"{{floatFormat .Temperature 1}}{{.Units.Temperature}} ({{loc \"apparent\"}} " +
		"{{floatFormat .ApparentTemperature 1}}{{.Units.Temperature}}), {{.Description}}\n" +
		"{{loc \"humidity\"}}: {{floatFormat .Humidity 0}}{{.Units.Humidity}} • " +
		"{{loc \"wind\"}}: {{floatFormat .WindSpeed 1}} {{.Units.WindSpeed}} {{.WindDirIcon}} • " +
		"{{loc \"pressure\"}}: {{floatFormat .Pressure 0}} {{.Units.Pressure}}" +
		"{{if not .Sunrise.IsZero}}\n{{loc \"sunrise\"}}: {{localizedTime .Sunrise}} • " +
		"{{loc \"sunset\"}}: {{localizedTime .Sunset}}{{end}}\n" +
		"{{loc \"moonphase\"}}: {{.MoonPhaseIcon}} {{loc .MoonPhase}}"
	DefaultForecastTpl = "{{loc \"forecastfor\"}} {{.Location}}:" +
		"{{range .Days}}\n{{.Date}} {{.ConditionIconWithSpace}}{{.Description}}, " +
		"{{floatFormat .Temperature 1}}{{$.Units.Temperature}} " +
		"({{loc \"max\"}}: {{floatFormat .Max 1}}{{$.Units.Temperature}} • " +
		"{{loc \"min\"}}: {{floatFormat .Min 1}}{{$.Units.Temperature}}){{end}}"
	DefaultTrendTpl = "{{.TrendIcon}} {{loc \"trendfor\"}} {{.Location}}: {{loc .Trend}} " +
		"({{floatFormat .First 1}}{{.Unit}} → {{floatFormat .Last 1}}{{.Unit}})\n" +
		"{{loc \"min\"}}: {{floatFormat .Min 1}}{{.Unit}} • {{loc \"max\"}}: {{floatFormat .Max 1}}{{.Unit}} • " +
		"{{loc \"mean\"}}: {{floatFormat .Mean 1}}{{.Unit}}\n" +
		"{{loc \"dominant\"}}: {{.DominantIconWithSpace}}{{.DominantLabel}} ({{.Count}} {{loc \"samples\"}})"
)

var (
	ErrInvalidUnits      = errors.New("invalid units")
	ErrInvalidProvider   = errors.New("invalid weather provider")
	ErrInvalidGeoCoder   = errors.New("invalid geocoder")
	ErrMissingAPIKey     = errors.New("missing API key")
	ErrInvalidRateLimit  = errors.New("invalid rate limit")
	ErrInvalidBatchLimit = errors.New("invalid batch worker count")
)

// Config represents the application's configuration structure.
type Config struct {
	// Allowed values: metric, imperial, standard
	Units    string     `fig:"units" default:"metric"`
	Locale   string     `fig:"locale"`
	LogLevel slog.Level `fig:"loglevel" default:"0"`

	Weather struct {
		// Allowed values: openweathermap, open-meteo
		Provider string `fig:"provider" default:"openweathermap"`
		APIKey   string `fig:"apikey"`
		Language string `fig:"language" default:"en"`
		// Requests per second sent to the provider, 0 disables the limit. fig treats zero values as
		// unset, so the pointer tells an explicit 0 apart from a missing setting.
		RateLimit *float64 `fig:"rate_limit"`
		RateBurst int      `fig:"rate_burst" default:"5"`
	} `fig:"weather"`

	GeoCoder struct {
		// Allowed values: open-meteo, nominatim, opencage, geocode-earth
		Provider string `fig:"provider" default:"open-meteo"`
		APIKey   string `fig:"apikey"`
		// Memoize geocoding results across tool calls
		Cache bool `fig:"cache"`
	} `fig:"geocoder"`

	Server struct {
		Address      string `fig:"address" default:":8000"`
		BatchWorkers *int   `fig:"batch_workers"`
	} `fig:"server"`

	Templates struct {
		Current  string `fig:"current"`
		Forecast string `fig:"forecast"`
		Trend    string `fig:"trend"`
	} `fig:"templates"`
}

func NewFromFile(path, file string) (*Config, error) {
	conf := new(Config)
	_, err := os.Stat(filepath.Join(path, file))
	if err != nil {
		return conf, fmt.Errorf("failed to read Config: %w", err)
	}
	if err = fig.Load(conf, fig.Dirs(path), fig.File(file), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

func New() (*Config, error) {
	conf := new(Config)
	if err := fig.Load(conf, fig.AllowNoFile(), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

func (c *Config) Validate() error {
	c.Units = strings.ToLower(c.Units)
	if c.Units != "metric" && c.Units != "imperial" && c.Units != "standard" {
		return fmt.Errorf("%w: %s", ErrInvalidUnits, c.Units)
	}
	if c.Locale == "" {
		c.Locale = getLocale()
	}

	switch c.Weather.Provider {
	case "openweathermap":
		if c.Weather.APIKey == "" {
			c.Weather.APIKey = os.Getenv(apiKeyEnv)
		}
		if c.Weather.APIKey == "" {
			return fmt.Errorf("%w: the openweathermap provider requires an API key (set %s_WEATHER_APIKEY "+
				"or %s)", ErrMissingAPIKey, configEnv, apiKeyEnv)
		}
	case "open-meteo":
	default:
		return fmt.Errorf("%w: %s", ErrInvalidProvider, c.Weather.Provider)
	}
	if c.Weather.RateLimit == nil {
		c.Weather.RateLimit = ptr(DefaultRateLimit)
	}
	if limit := *c.Weather.RateLimit; limit < 0 || (limit > 0 && c.Weather.RateBurst < 1) {
		return fmt.Errorf("%w: %g requests/s with burst %d", ErrInvalidRateLimit, limit, c.Weather.RateBurst)
	}
	if c.Weather.Language == "" {
		c.Weather.Language = "en"
	}

	switch c.GeoCoder.Provider {
	case "open-meteo", "nominatim":
	case "opencage", "geocode-earth":
		if c.GeoCoder.APIKey == "" {
			return fmt.Errorf("%w: the %s geocoder requires an API key", ErrMissingAPIKey, c.GeoCoder.Provider)
		}
	default:
		return fmt.Errorf("%w: %s", ErrInvalidGeoCoder, c.GeoCoder.Provider)
	}

	if c.Server.BatchWorkers == nil {
		c.Server.BatchWorkers = ptr(DefaultBatchWorkers)
	}
	if *c.Server.BatchWorkers < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidBatchLimit, *c.Server.BatchWorkers)
	}

	if c.Templates.Current == "" {
		c.Templates.Current = DefaultCurrentTpl
	}
	if c.Templates.Forecast == "" {
		c.Templates.Forecast = DefaultForecastTpl
	}
	if c.Templates.Trend == "" {
		c.Templates.Trend = DefaultTrendTpl
	}

	return nil
}

func ptr[T any](val T) *T {
	return &val
}

func getLocale() string {
	locale := os.Getenv("LC_MESSAGES")
	if idx := strings.Index(locale, "."); idx != -1 {
		lang := locale[:idx]
		return strings.ReplaceAll(lang, "_", "-")
	}
	return locale
}

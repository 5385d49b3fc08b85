// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package openweathermap

import (
	"errors"
	"log/slog"
	stdhttp "net/http"
	"net/url"
	"os"
	"strings"
	"testing"

	"golang.org/x/text/language"

	"github.com/wneessen/weather-agent/internal/errs"
	"github.com/wneessen/weather-agent/internal/http"
	"github.com/wneessen/weather-agent/internal/logger"
	"github.com/wneessen/weather-agent/internal/testhelper"
	"github.com/wneessen/weather-agent/internal/weather"
)

const (
	currentFile       = "../../../../testdata/owm_weather_london.json"
	forecastFile      = "../../../../testdata/owm_forecast_london.json"
	notFoundFile      = "../../../../testdata/owm_404.json"
	unauthorizedFile  = "../../../../testdata/owm_401.json"
	rateLimitedFile   = "../../../../testdata/owm_429.json"
	missingFieldsFile = "../../../../testdata/owm_missing_fields.json"
	truncatedFile     = "../../../../testdata/owm_truncated.json"
	badGatewayFile    = "../../../../testdata/bad_gateway.html"
	testAPIKey        = "test-api-key"
)

var london = weather.Query{City: "London", Country: "UK"}

func TestNew(t *testing.T) {
	t.Run("creating a new provider succeeds", func(t *testing.T) {
		provider := testProvider(t, nil)
		if provider.Name() != name {
			t.Errorf("expected provider name to be %q, got %q", name, provider.Name())
		}
	})
	t.Run("missing API key fails", func(t *testing.T) {
		_, err := New(http.New(logger.New(slog.LevelDebug)), logger.New(slog.LevelDebug), " ",
			language.English, weather.Metric)
		if err == nil {
			t.Fatal("expected provider creation to fail")
		}
	})
	t.Run("missing http client fails", func(t *testing.T) {
		_, err := New(nil, logger.New(slog.LevelDebug), testAPIKey, language.English, weather.Metric)
		if err == nil {
			t.Fatal("expected provider creation to fail")
		}
	})
}

func TestOpenWeatherMap_Current(t *testing.T) {
	t.Run("current conditions are mapped", func(t *testing.T) {
		var query url.Values
		rtFn := func(req *stdhttp.Request) (*stdhttp.Response, error) {
			query = req.URL.Query()
			if req.URL.Path != "/data/2.5/weather" {
				t.Errorf("unexpected request path: %s", req.URL.Path)
			}
			return testhelper.FileResponse(t, 200, currentFile)(req)
		}
		provider := testProvider(t, rtFn)
		conditions, err := provider.Current(t.Context(), london)
		if err != nil {
			t.Fatalf("failed to get current conditions: %s", err)
		}
		for key, want := range map[string]string{"q": "London,UK", "appid": testAPIKey, "units": "metric", "lang": "en"} {
			if got := query[key]; len(got) != 1 || got[0] != want {
				t.Errorf("expected query parameter %s to be %q, got %v", key, want, got)
			}
		}
		if conditions.City != "London" || conditions.Country != "GB" {
			t.Errorf("unexpected location: %s, %s", conditions.City, conditions.Country)
		}
		if conditions.Temperature != 14.32 || conditions.ApparentTemperature != 13.81 {
			t.Errorf("unexpected temperatures: %f/%f", conditions.Temperature, conditions.ApparentTemperature)
		}
		if conditions.Humidity != 76 || conditions.Pressure != 1012 {
			t.Errorf("unexpected humidity/pressure: %f/%f", conditions.Humidity, conditions.Pressure)
		}
		if conditions.Condition != "Clouds" || conditions.Description != "broken clouds" {
			t.Errorf("unexpected condition: %s/%s", conditions.Condition, conditions.Description)
		}
		if !conditions.IsDay {
			t.Error("expected daytime conditions")
		}
		if !conditions.Cloudiness.IsSet() || conditions.Cloudiness.Value() != 75 {
			t.Errorf("unexpected cloudiness: %s", conditions.Cloudiness.String())
		}
		if !conditions.Visibility.IsSet() || conditions.Visibility.Value() != 10000 {
			t.Errorf("unexpected visibility: %s", conditions.Visibility.String())
		}
		if !conditions.TemperatureMax.IsSet() || conditions.TemperatureMax.Value() != 15.41 {
			t.Errorf("unexpected max temperature: %s", conditions.TemperatureMax.String())
		}
		if conditions.Sunrise.Unix() != 1760855384 || conditions.Time.Unix() != 1760889600 {
			t.Errorf("unexpected times: %s/%s", conditions.Sunrise, conditions.Time)
		}
		if conditions.Units.Temperature != "°C" {
			t.Errorf("expected temperature unit °C, got %q", conditions.Units.Temperature)
		}
	})
	t.Run("incomplete payload is a parse error", func(t *testing.T) {
		provider := testProvider(t, testhelper.FileResponse(t, 200, missingFieldsFile))
		_, err := provider.Current(t.Context(), london)
		assertKind(t, err, errs.KindParse, 200)
	})
	t.Run("truncated payload is a parse error", func(t *testing.T) {
		provider := testProvider(t, testhelper.FileResponse(t, 200, truncatedFile))
		_, err := provider.Current(t.Context(), london)
		assertKind(t, err, errs.KindParse, 200)
	})
}

func TestOpenWeatherMap_Forecast(t *testing.T) {
	t.Run("forecast is mapped", func(t *testing.T) {
		var count string
		rtFn := func(req *stdhttp.Request) (*stdhttp.Response, error) {
			count = req.URL.Query().Get("cnt")
			if req.URL.Path != "/data/2.5/forecast" {
				t.Errorf("unexpected request path: %s", req.URL.Path)
			}
			return testhelper.FileResponse(t, 200, forecastFile)(req)
		}
		provider := testProvider(t, rtFn)
		forecast, err := provider.Forecast(t.Context(), london, 2)
		if err != nil {
			t.Fatalf("failed to get forecast: %s", err)
		}
		if count != "16" {
			t.Errorf("expected cnt to be 16, got %q", count)
		}
		if forecast.City != "London" || forecast.Country != "GB" || forecast.UTCOffset != 3600 {
			t.Errorf("unexpected forecast location: %+v", forecast)
		}
		if len(forecast.Samples) != 16 {
			t.Fatalf("expected 16 samples, got %d", len(forecast.Samples))
		}
		first := forecast.Samples[0]
		if first.Temperature != 14.1 || first.Condition != "Clouds" || !first.IsDay {
			t.Errorf("unexpected first sample: %+v", first)
		}
		rain := forecast.Samples[2]
		if rain.Condition != "Rain" || !rain.PrecipitationProbability.IsSet() ||
			rain.PrecipitationProbability.Value() != 20 {
			t.Errorf("unexpected rain sample: %+v", rain)
		}
		if rain.IsDay {
			t.Error("expected night sample")
		}
		if forecast.Samples[3].Visibility.IsSet() {
			t.Error("expected visibility to be unset when not delivered")
		}
		if forecast.Samples[15].Temperature != 16.1 {
			t.Errorf("unexpected last temperature: %f", forecast.Samples[15].Temperature)
		}
	})
	t.Run("empty forecast list is a parse error", func(t *testing.T) {
		provider := testProvider(t, testhelper.FileResponse(t, 200, currentFile))
		_, err := provider.Forecast(t.Context(), london, 1)
		assertKind(t, err, errs.KindParse, 200)
	})
}

func TestOpenWeatherMap_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		file    string
		kind    errs.Kind
		message string
	}{
		{"unknown city", 404, notFoundFile, errs.KindNotFound, "city not found"},
		{"bad request", 400, notFoundFile, errs.KindNotFound, "city not found"},
		{"invalid API key", 401, unauthorizedFile, errs.KindAuthOrQuota, "Invalid API key"},
		{"rate limited", 429, rateLimitedFile, errs.KindAuthOrQuota, "exceeding of requests limitation"},
		{"server error with HTML body", 502, badGatewayFile, errs.KindNetwork, "bad gateway"},
		{"unexpected redirect", 302, notFoundFile, errs.KindParse, "unexpected response status"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			provider := testProvider(t, testhelper.FileResponse(t, tc.status, tc.file))
			_, err := provider.Current(t.Context(), london)
			assertKind(t, err, tc.kind, tc.status)
			if !strings.Contains(err.Error(), tc.message) {
				t.Errorf("expected error to contain %q, got %q", tc.message, err)
			}

			provider = testProvider(t, testhelper.FileResponse(t, tc.status, tc.file))
			_, err = provider.Forecast(t.Context(), london, 1)
			assertKind(t, err, tc.kind, tc.status)
		})
	}
	t.Run("transport failure is a network error", func(t *testing.T) {
		rtFn := func(*stdhttp.Request) (*stdhttp.Response, error) {
			return nil, errors.New("connection refused")
		}
		provider := testProvider(t, rtFn)
		_, err := provider.Current(t.Context(), london)
		assertKind(t, err, errs.KindNetwork, 0)
		if !errors.Is(err, http.ErrRequest) {
			t.Error("expected the transport error to be wrapped")
		}
	})
}

func TestOpenWeatherMap_Integration(t *testing.T) {
	testhelper.PerformIntegrationTests(t)
	apikey := os.Getenv("WEATHER_API_KEY")
	if apikey == "" {
		t.Skip("WEATHER_API_KEY not set")
	}
	provider, err := New(http.New(logger.New(slog.LevelDebug)), logger.New(slog.LevelDebug), apikey,
		language.English, weather.Metric)
	if err != nil {
		t.Fatalf("failed to create provider: %s", err)
	}
	conditions, err := provider.Current(t.Context(), london)
	if err != nil {
		t.Fatalf("failed to get current conditions: %s", err)
	}
	t.Logf("London: %.1f%s, %s", conditions.Temperature, conditions.Units.Temperature, conditions.Description)

	_, err = provider.Current(t.Context(), weather.Query{City: "Nonexistentcityxyz"})
	if errs.KindOf(err) != errs.KindNotFound {
		t.Errorf("expected not found error, got %v", err)
	}
}

func assertKind(t *testing.T, err error, kind errs.Kind, status int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	var apiErr *errs.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *errs.Error, got %T", err)
	}
	if apiErr.Kind != kind {
		t.Errorf("expected error kind %s, got %s (%s)", kind, apiErr.Kind, err)
	}
	if apiErr.Status != status {
		t.Errorf("expected status %d, got %d", status, apiErr.Status)
	}
	if apiErr.Provider != name {
		t.Errorf("expected provider %q, got %q", name, apiErr.Provider)
	}
}

func testProvider(t *testing.T, fn func(req *stdhttp.Request) (*stdhttp.Response, error)) weather.Provider {
	t.Helper()
	testHttpClient := http.New(logger.New(slog.LevelDebug))
	if fn != nil {
		testHttpClient.Transport = testhelper.MockRoundTripper{Fn: fn}
	}
	provider, err := New(testHttpClient, logger.New(slog.LevelDebug), testAPIKey, language.English, weather.Metric)
	if err != nil {
		t.Fatalf("failed to create provider: %s", err)
	}
	return provider
}

// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package tools

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/wneessen/weather-agent/internal/errs"
	"github.com/wneessen/weather-agent/internal/units"
)

func TestToolbox_Invoke(t *testing.T) {
	tests := []struct {
		name      string
		tool      string
		args      string
		wantKind  errs.Kind
		wantField string
		wantOK    bool
		wantDays  int
	}{
		{"get_weather succeeds", ToolGetWeather, `{"city":"Cologne"}`, 0, "", true, 0},
		{"get_weather without city", ToolGetWeather, `{}`, errs.KindValidation, "city", false, 0},
		{"get_weather with empty city", ToolGetWeather, `{"city":""}`, errs.KindValidation, "city", false, 0},
		{"get_weather with null arguments", ToolGetWeather, `null`, errs.KindValidation, "city", false, 0},
		{"get_weather without arguments", ToolGetWeather, ``, errs.KindValidation, "city", false, 0},
		{"get_weather with numeric city", ToolGetWeather, `{"city":5}`, errs.KindValidation, "city", false, 0},
		{"get_weather with unknown argument", ToolGetWeather, `{"city":"Cologne","units":"metric"}`, errs.KindValidation, "units", false, 0},
		{"get_weather with malformed JSON", ToolGetWeather, `{"city":`, errs.KindValidation, "arguments", false, 0},
		{"get_weather with trailing data", ToolGetWeather, `{"city":"Cologne"} {}`, errs.KindValidation, "arguments", false, 0},
		{"get_weather with array arguments", ToolGetWeather, `["Cologne"]`, errs.KindValidation, "arguments", false, 0},
		{"get_forecast uses the default horizon", ToolGetForecast, `{"city":"Cologne"}`, 0, "", true, 5},
		{"get_forecast with days", ToolGetForecast, `{"city":"Cologne","days":3}`, 0, "", true, 3},
		{"get_forecast with zero days", ToolGetForecast, `{"city":"Cologne","days":0}`, errs.KindValidation, "days", false, 0},
		{"get_forecast with too many days", ToolGetForecast, `{"city":"Cologne","days":6}`, errs.KindValidation, "days", false, 0},
		{"get_forecast with fractional days", ToolGetForecast, `{"city":"Cologne","days":2.5}`, errs.KindValidation, "days", false, 0},
		{"analyze_weather_trends succeeds", ToolAnalyzeWeatherTrends, `{"city":"Cologne","days":1}`, 0, "", true, 1},
		{"analyze_weather_trends without city", ToolAnalyzeWeatherTrends, `{"days":1}`, errs.KindValidation, "city", false, 0},
		{"kelvin_to_celsius succeeds", ToolKelvinToCelsius, `{"temperature":300}`, 0, "", true, 0},
		{"kelvin_to_celsius accepts zero", ToolKelvinToCelsius, `{"temperature":0}`, 0, "", true, 0},
		{"kelvin_to_celsius without temperature", ToolKelvinToCelsius, `{}`, errs.KindValidation, "temperature", false, 0},
		{"kelvin_to_celsius with string", ToolKelvinToCelsius, `{"temperature":"hot"}`, errs.KindValidation, "temperature", false, 0},
		{"kelvin_to_celsius below absolute zero", ToolKelvinToCelsius, `{"temperature":-0.5}`, errs.KindValidation, "temperature", false, 0},
		{"miles_to_km succeeds", ToolMilesToKm, `{"miles":1}`, 0, "", true, 0},
		{"miles_to_km with null", ToolMilesToKm, `{"miles":null}`, errs.KindValidation, "miles", false, 0},
		{"unknown tool", "get_horoscope", `{}`, errs.KindValidation, "tool", false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &mockProvider{}
			toolbox, _, _ := testToolbox(t, provider)
			result := toolbox.Invoke(t.Context(), tt.tool, json.RawMessage(tt.args))
			if result.Tool != tt.tool {
				t.Errorf("expected tool name %q, got %q", tt.tool, result.Tool)
			}
			if !tt.wantOK {
				assertError(t, result, tt.wantKind, tt.wantField)
				if tt.wantKind == errs.KindValidation && provider.callCount() != 0 {
					t.Errorf("expected no provider call, got %d", provider.callCount())
				}
				return
			}
			if !result.OK() {
				t.Fatalf("expected tool call to succeed, got %+v", result.Error)
			}
			if tt.wantDays != 0 && provider.lastDays() != tt.wantDays {
				t.Errorf("expected provider to be asked for %d days, got %d", tt.wantDays, provider.lastDays())
			}
		})
	}
	t.Run("conversion values are passed through", func(t *testing.T) {
		toolbox, _, _ := testToolbox(t, &mockProvider{})
		result := toolbox.Invoke(t.Context(), ToolKelvinToCelsius, json.RawMessage(`{"temperature":300}`))
		got, ok := result.Data.(units.Result)
		if !ok || got.Value != 26.85 {
			t.Errorf("expected 26.85 °C, got %+v", result.Data)
		}
	})
}

func TestToolbox_InvokeBatch(t *testing.T) {
	t.Run("results are returned in call order", func(t *testing.T) {
		provider := &mockProvider{}
		toolbox, _, _ := testToolbox(t, provider)
		calls := []Call{
			{Tool: ToolGetWeather, Arguments: json.RawMessage(`{"city":"Cologne"}`)},
			{Tool: ToolMilesToKm, Arguments: json.RawMessage(`{"miles":-1}`)},
			{Tool: ToolGetForecast, Arguments: json.RawMessage(`{"city":"Berlin","days":1}`)},
			{Tool: "unknown"},
			{Tool: ToolKelvinToCelsius, Arguments: json.RawMessage(`{"temperature":273.15}`)},
		}
		results := toolbox.InvokeBatch(t.Context(), calls)
		if len(results) != len(calls) {
			t.Fatalf("expected %d results, got %d", len(calls), len(results))
		}
		for i, call := range calls {
			if results[i].Tool != call.Tool {
				t.Errorf("expected result %d to belong to %q, got %q", i, call.Tool, results[i].Tool)
			}
		}
		wantOK := []bool{true, false, true, false, true}
		for i, want := range wantOK {
			if results[i].OK() != want {
				t.Errorf("expected result %d success to be %t, got %+v", i, want, results[i].Error)
			}
		}
		if provider.callCount() != 2 {
			t.Errorf("expected 2 provider calls, got %d", provider.callCount())
		}
	})
	t.Run("more calls than workers", func(t *testing.T) {
		toolbox, _, _ := testToolbox(t, &mockProvider{})
		calls := make([]Call, 25)
		for i := range calls {
			calls[i] = Call{Tool: ToolMilesToKm, Arguments: json.RawMessage(fmt.Sprintf(`{"miles":%d}`, i))}
		}
		results := toolbox.InvokeBatch(t.Context(), calls)
		for i, result := range results {
			got, ok := result.Data.(units.Result)
			if !ok {
				t.Fatalf("expected result %d to carry a conversion, got %+v", i, result.Error)
			}
			if want := units.Round(float64(i)*units.KilometersPerMile, units.DistancePrecision); got.Value != want {
				t.Errorf("expected result %d to be %v, got %v", i, want, got.Value)
			}
		}
	})
	t.Run("empty batch", func(t *testing.T) {
		toolbox, _, _ := testToolbox(t, &mockProvider{})
		if results := toolbox.InvokeBatch(t.Context(), nil); len(results) != 0 {
			t.Errorf("expected no results, got %d", len(results))
		}
	})
	t.Run("closed toolbox rejects batch calls", func(t *testing.T) {
		toolbox, _, _ := testToolbox(t, &mockProvider{})
		toolbox.Close()
		results := toolbox.InvokeBatch(t.Context(), []Call{{Tool: ToolMilesToKm, Arguments: json.RawMessage(`{"miles":1}`)}})
		assertError(t, results[0], errs.KindInternal, "")
	})
}

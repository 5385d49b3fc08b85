// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package tools

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/wneessen/weather-agent/internal/errs"
)

// Call is a single tool invocation of a batch.
type Call struct {
	Tool      string          `json:"tool"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// Invoke dispatches the tool call by name. The JSON arguments are decoded strictly: unknown fields,
// wrong types and values out of range are reported as validation errors.
func (t *Toolbox) Invoke(ctx context.Context, name string, arguments json.RawMessage) Result {
	switch name {
	case ToolGetWeather:
		args, err := decodeArgs[CityArgs](t.validate, name, arguments)
		if err != nil {
			return t.reject(ctx, name, err)
		}
		return t.GetWeather(ctx, args.City)
	case ToolGetForecast:
		args, err := decodeArgs[ForecastArgs](t.validate, name, arguments)
		if err != nil {
			return t.reject(ctx, name, err)
		}
		return t.GetForecast(ctx, args.City, args.DaysOrDefault())
	case ToolAnalyzeWeatherTrends:
		args, err := decodeArgs[ForecastArgs](t.validate, name, arguments)
		if err != nil {
			return t.reject(ctx, name, err)
		}
		return t.AnalyzeWeatherTrends(ctx, args.City, args.DaysOrDefault())
	case ToolKelvinToCelsius:
		args, err := decodeArgs[TemperatureArgs](t.validate, name, arguments)
		if err != nil {
			return t.reject(ctx, name, err)
		}
		return t.KelvinToCelsius(ctx, *args.Temperature)
	case ToolMilesToKm:
		args, err := decodeArgs[MilesArgs](t.validate, name, arguments)
		if err != nil {
			return t.reject(ctx, name, err)
		}
		return t.MilesToKm(ctx, *args.Miles)
	default:
		return t.reject(ctx, name, errs.Validation("invoke", "tool", "unknown tool %q", name))
	}
}

// Has reports whether a tool with the given name exists.
func (t *Toolbox) Has(name string) bool {
	for _, def := range t.definitions {
		if def.Name == name {
			return true
		}
	}
	return false
}

// InvokeBatch runs independent tool calls concurrently on the batch worker pool. The results are
// returned in the order of the calls.
func (t *Toolbox) InvokeBatch(ctx context.Context, calls []Call) []Result {
	results := make([]Result, len(calls))
	var wg sync.WaitGroup
	for i, call := range calls {
		wg.Add(1)
		err := t.pool.Submit(func() {
			defer wg.Done()
			results[i] = t.Invoke(ctx, call.Tool, call.Arguments)
		})
		if err != nil {
			wg.Done()
			results[i] = t.reject(ctx, call.Tool, &errs.Error{
				Kind: errs.KindInternal, Op: "invoke_batch", Msg: "failed to schedule tool call", Err: err,
			})
		}
	}
	wg.Wait()
	return results
}

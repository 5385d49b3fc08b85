// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package tools exposes the weather functionality as named tools. Every tool returns a Result and
// never an error: failures are turned into an error payload with a localized message and hint.
package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/oklog/ulid/v2"
	"github.com/panjf2000/ants/v2"

	"github.com/wneessen/weather-agent/internal/errs"
	"github.com/wneessen/weather-agent/internal/logger"
	"github.com/wneessen/weather-agent/internal/presenter"
	"github.com/wneessen/weather-agent/internal/trend"
	"github.com/wneessen/weather-agent/internal/units"
	"github.com/wneessen/weather-agent/internal/weather"
)

const (
	ToolGetWeather           = "get_weather"
	ToolGetForecast          = "get_forecast"
	ToolAnalyzeWeatherTrends = "analyze_weather_trends"
	ToolKelvinToCelsius      = "kelvin_to_celsius"
	ToolMilesToKm            = "miles_to_km"

	// DefaultBatchWorkers is the number of tool calls of a batch that run concurrently.
	DefaultBatchWorkers = 8
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Result is the payload every tool call returns to the caller.
type Result struct {
	Status    Status        `json:"status"`
	Tool      string        `json:"tool"`
	RequestID string        `json:"request_id"`
	Data      any           `json:"data,omitempty"`
	Summary   string        `json:"summary,omitempty"`
	Error     *ErrorPayload `json:"error,omitempty"`
}

// ErrorPayload describes a failed tool call. Message and Hint are localized, Details carries the
// underlying error text.
type ErrorPayload struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Hint    string `json:"hint"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
}

// OK reports whether the tool call succeeded.
func (r Result) OK() bool {
	return r.Status == StatusSuccess
}

// Fetcher is the weather data source of the Toolbox. It is satisfied by *weather.Fetcher.
type Fetcher interface {
	Name() string
	Current(ctx context.Context, city string) (*weather.Conditions, error)
	Forecast(ctx context.Context, city string, days int) (*weather.Forecast, error)
}

// Toolbox holds the dependencies shared by all tools. It is safe for concurrent use.
type Toolbox struct {
	fetcher     Fetcher
	presenter   *presenter.Presenter
	validate    *validator.Validate
	pool        *ants.Pool
	log         *logger.Logger
	definitions []Definition
	workers     int
}

// Option configures a Toolbox.
type Option func(*Toolbox)

// WithBatchWorkers limits the number of concurrently executed calls of InvokeBatch.
func WithBatchWorkers(workers int) Option {
	return func(t *Toolbox) {
		if workers > 0 {
			t.workers = workers
		}
	}
}

func New(fetcher Fetcher, pres *presenter.Presenter, log *logger.Logger, opts ...Option) (*Toolbox, error) {
	if fetcher == nil {
		return nil, errors.New("weather fetcher is required")
	}
	if pres == nil {
		return nil, errors.New("presenter is required")
	}
	if log == nil {
		return nil, errors.New("logger is required")
	}

	toolbox := &Toolbox{
		fetcher:   fetcher,
		presenter: pres,
		validate:  newValidator(),
		log:       log,
		workers:   DefaultBatchWorkers,
	}
	for _, opt := range opts {
		opt(toolbox)
	}

	definitions, err := buildDefinitions()
	if err != nil {
		return nil, fmt.Errorf("failed to build tool definitions: %w", err)
	}
	toolbox.definitions = definitions

	pool, err := ants.NewPool(toolbox.workers, ants.WithPanicHandler(func(p any) {
		log.Error("batch worker panicked", slog.Any("panic", p))
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to create batch worker pool: %w", err)
	}
	toolbox.pool = pool

	return toolbox, nil
}

// Provider returns the name of the weather provider behind the tools.
func (t *Toolbox) Provider() string {
	return t.fetcher.Name()
}

// Close releases the batch worker pool. Calls of InvokeBatch after Close fail.
func (t *Toolbox) Close() {
	t.pool.Release()
}

// GetWeather returns the current conditions for the given city.
func (t *Toolbox) GetWeather(ctx context.Context, city string) Result {
	return t.run(ctx, ToolGetWeather, func(ctx context.Context) (any, string, error) {
		conditions, err := t.fetcher.Current(ctx, city)
		if err != nil {
			return nil, "", err
		}
		return conditions, t.summary(t.presenter.Current(conditions)), nil
	})
}

// GetForecast returns the 3-hourly forecast for the given city and number of days.
func (t *Toolbox) GetForecast(ctx context.Context, city string, days int) Result {
	return t.run(ctx, ToolGetForecast, func(ctx context.Context) (any, string, error) {
		forecast, err := t.fetcher.Forecast(ctx, city, days)
		if err != nil {
			return nil, "", err
		}
		return forecast, t.summary(t.presenter.Forecast(forecast)), nil
	})
}

// AnalyzeWeatherTrends fetches the forecast for the given city and summarizes its temperature trend
// and dominant condition.
func (t *Toolbox) AnalyzeWeatherTrends(ctx context.Context, city string, days int) Result {
	return t.run(ctx, ToolAnalyzeWeatherTrends, func(ctx context.Context) (any, string, error) {
		forecast, err := t.fetcher.Forecast(ctx, city, days)
		if err != nil {
			return nil, "", err
		}
		summary, err := trend.Analyze(forecast)
		if err != nil {
			return nil, "", err
		}
		return summary, t.summary(t.presenter.Trend(summary)), nil
	})
}

func (t *Toolbox) KelvinToCelsius(ctx context.Context, temperature float64) Result {
	return t.run(ctx, ToolKelvinToCelsius, func(context.Context) (any, string, error) {
		result, err := units.KelvinToCelsius(temperature)
		if err != nil {
			return nil, "", err
		}
		return result, conversionSummary(temperature, units.UnitKelvin, result), nil
	})
}

func (t *Toolbox) MilesToKm(ctx context.Context, miles float64) Result {
	return t.run(ctx, ToolMilesToKm, func(context.Context) (any, string, error) {
		result, err := units.MilesToKm(miles)
		if err != nil {
			return nil, "", err
		}
		return result, conversionSummary(miles, units.UnitMiles, result), nil
	})
}

// run executes fn as the tool call name. It assigns the request ID, logs the outcome with the error
// kind and turns errors and panics into an error Result.
func (t *Toolbox) run(ctx context.Context, name string, fn func(context.Context) (any, string, error)) (result Result) {
	requestID := ulid.Make().String()
	log := t.log.With(slog.String("tool", name), slog.String("request_id", requestID))
	result = Result{Tool: name, RequestID: requestID}
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			log.Error("tool call panicked", slog.Any("panic", r), slog.String("stack", string(debug.Stack())))
			result = t.failure(result, &errs.Error{
				Kind: errs.KindInternal, Op: name, Msg: fmt.Sprintf("recovered from panic: %v", r),
			})
		}
	}()

	data, summary, err := fn(ctx)
	if err != nil {
		log.Warn("tool call failed", slog.String("kind", errs.KindOf(err).String()),
			slog.Duration("duration", time.Since(start)), logger.Err(err))
		return t.failure(result, err)
	}
	log.Debug("tool call succeeded", slog.Duration("duration", time.Since(start)))

	result.Status = StatusSuccess
	result.Data = data
	result.Summary = summary
	return result
}

// reject returns the error Result for a call that failed before the tool itself could run.
func (t *Toolbox) reject(ctx context.Context, name string, err error) Result {
	return t.run(ctx, name, func(context.Context) (any, string, error) {
		return nil, "", err
	})
}

func (t *Toolbox) failure(result Result, err error) Result {
	kind := errs.KindOf(err)
	message, hint := t.presenter.ErrorText(kind)
	payload := &ErrorPayload{
		Kind:    kind.String(),
		Message: message,
		Hint:    hint,
		Details: err.Error(),
	}
	var e *errs.Error
	if errors.As(err, &e) {
		payload.Field = e.Field
	}
	result.Status = StatusError
	result.Data = nil
	result.Summary = ""
	result.Error = payload
	return result
}

// summary drops a summary that failed to render. The structured data is still returned.
func (t *Toolbox) summary(text string, err error) string {
	if err != nil {
		t.log.Warn("failed to render summary", logger.Err(err))
		return ""
	}
	return text
}

func conversionSummary(input float64, inputUnit string, result units.Result) string {
	return strconv.FormatFloat(input, 'f', -1, 64) + " " + inputUnit + " = " +
		strconv.FormatFloat(result.Value, 'f', -1, 64) + " " + result.Unit
}

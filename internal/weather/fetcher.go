// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/wneessen/weather-agent/internal/errs"
	"github.com/wneessen/weather-agent/internal/logger"
)

// Fetcher validates caller input, applies the outbound rate limit and hands the request to the
// configured Provider. It is safe for concurrent use.
type Fetcher struct {
	provider Provider
	limiter  *rate.Limiter
	log      *logger.Logger
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithRateLimit limits the requests sent to the provider to rps per second with the given burst.
// A rps value <= 0 disables the limit.
func WithRateLimit(rps float64, burst int) FetcherOption {
	return func(f *Fetcher) {
		if rps <= 0 {
			f.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		f.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func NewFetcher(provider Provider, log *logger.Logger, opts ...FetcherOption) (*Fetcher, error) {
	if provider == nil {
		return nil, fmt.Errorf("weather provider is required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	fetcher := &Fetcher{provider: provider, log: log}
	for _, opt := range opts {
		opt(fetcher)
	}
	return fetcher, nil
}

// Name returns the name of the underlying provider.
func (f *Fetcher) Name() string {
	return f.provider.Name()
}

// Current returns the current conditions for the given city query.
func (f *Fetcher) Current(ctx context.Context, city string) (*Conditions, error) {
	const op = "weather.current"
	query, err := ParseQuery(city)
	if err != nil {
		return nil, err
	}
	if err = f.wait(ctx, op); err != nil {
		return nil, err
	}

	start := time.Now()
	conditions, err := f.provider.Current(ctx, query)
	if err != nil {
		return nil, f.fail(op, query, start, err)
	}
	f.log.Debug("current conditions fetched", slog.String("provider", f.provider.Name()),
		slog.String("query", query.String()), slog.String("city", conditions.City),
		slog.Duration("took", time.Since(start)))
	return conditions, nil
}

// Forecast returns the forecast for the given city query covering days days. Samples are returned in
// chronological order.
func (f *Fetcher) Forecast(ctx context.Context, city string, days int) (*Forecast, error) {
	const op = "weather.forecast"
	query, err := ParseQuery(city)
	if err != nil {
		return nil, err
	}
	if err = ValidateDays(days); err != nil {
		return nil, err
	}
	if err = f.wait(ctx, op); err != nil {
		return nil, err
	}

	start := time.Now()
	forecast, err := f.provider.Forecast(ctx, query, days)
	if err != nil {
		return nil, f.fail(op, query, start, err)
	}
	if len(forecast.Samples) == 0 {
		return nil, f.fail(op, query, start, errs.API(errs.KindParse, op, f.provider.Name(), 0,
			"forecast contains no samples", nil))
	}
	forecast.SortSamples()
	f.log.Debug("forecast fetched", slog.String("provider", f.provider.Name()),
		slog.String("query", query.String()), slog.Int("days", days),
		slog.Int("samples", len(forecast.Samples)), slog.Duration("took", time.Since(start)))
	return forecast, nil
}

func (f *Fetcher) wait(ctx context.Context, op string) error {
	if f.limiter == nil {
		return nil
	}
	if err := f.limiter.Wait(ctx); err != nil {
		return errs.API(errs.KindNetwork, op, f.provider.Name(), 0, "rate limit wait aborted", err)
	}
	return nil
}

// fail makes sure every provider failure leaves the fetcher as an *errs.Error and logs it.
func (f *Fetcher) fail(op string, query Query, start time.Time, err error) error {
	var apiErr *errs.Error
	if !errors.As(err, &apiErr) {
		kind := errs.KindNetwork
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			kind = errs.KindInternal
		}
		err = errs.API(kind, op, f.provider.Name(), 0, "provider request failed", err)
	}
	f.log.Warn("weather request failed", slog.String("provider", f.provider.Name()),
		slog.String("query", query.String()), slog.String("kind", errs.KindOf(err).String()),
		slog.Duration("took", time.Since(start)), logger.Err(err))
	return err
}

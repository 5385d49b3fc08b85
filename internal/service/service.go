// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package service wires the configured providers, the tools and the HTTP server together.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/vorlif/spreak"
	"golang.org/x/text/language"

	"github.com/wneessen/weather-agent/internal/config"
	"github.com/wneessen/weather-agent/internal/geocode"
	"github.com/wneessen/weather-agent/internal/job"
	"github.com/wneessen/weather-agent/internal/logger"
	"github.com/wneessen/weather-agent/internal/presenter"
	"github.com/wneessen/weather-agent/internal/server"
	"github.com/wneessen/weather-agent/internal/tools"
	"github.com/wneessen/weather-agent/internal/weather"
)

// purgeInterval is how often expired geocoder cache entries are dropped.
const purgeInterval = time.Minute * 30

type Service struct {
	config   *config.Config
	logger   *logger.Logger
	toolbox  *tools.Toolbox
	server   *server.Server
	geocoder geocode.Geocoder
}

func New(conf *config.Config, log *logger.Logger, t *spreak.Localizer) (*Service, error) {
	lang, err := language.Parse(conf.Weather.Language)
	if err != nil {
		return nil, fmt.Errorf("failed to parse weather language %q: %w", conf.Weather.Language, err)
	}

	provider, geocoder, err := selectWeatherProvider(conf, log, lang)
	if err != nil {
		return nil, err
	}
	fetcher, err := weather.NewFetcher(provider, log,
		weather.WithRateLimit(*conf.Weather.RateLimit, conf.Weather.RateBurst))
	if err != nil {
		return nil, fmt.Errorf("failed to create weather fetcher: %w", err)
	}

	pres, err := presenter.New(conf, t)
	if err != nil {
		return nil, fmt.Errorf("failed to create presenter: %w", err)
	}

	toolbox, err := tools.New(fetcher, pres, log, tools.WithBatchWorkers(*conf.Server.BatchWorkers))
	if err != nil {
		return nil, fmt.Errorf("failed to create toolbox: %w", err)
	}

	srv, err := server.New(conf.Server.Address, toolbox, log)
	if err != nil {
		toolbox.Close()
		return nil, fmt.Errorf("failed to create HTTP server: %w", err)
	}

	return &Service{
		config:   conf,
		logger:   log,
		toolbox:  toolbox,
		server:   srv,
		geocoder: geocoder,
	}, nil
}

// Toolbox returns the tools served by the service.
func (s *Service) Toolbox() *tools.Toolbox {
	return s.toolbox
}

// Run serves the tools over HTTP until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	defer s.toolbox.Close()
	s.logger.Info("serving weather tools", slog.String("address", s.config.Server.Address),
		slog.String("provider", s.toolbox.Provider()), slog.String("units", s.config.Units))

	if cache, ok := s.geocoder.(*geocode.CachedGeocoder); ok {
		scheduler, err := s.scheduleCachePurge(ctx, cache)
		if err != nil {
			return err
		}
		defer func() {
			if err := scheduler.Shutdown(); err != nil {
				s.logger.Error("failed to shut down job scheduler", logger.Err(err))
			}
		}()
	}
	return s.server.Run(ctx)
}

func (s *Service) scheduleCachePurge(ctx context.Context, cache *geocode.CachedGeocoder) (*job.Scheduler, error) {
	scheduler, err := job.New(s.logger)
	if err != nil {
		return nil, err
	}
	if err = scheduler.Add(ctx, "geocoder-cache-purge", purgeInterval, purgeCache(cache, s.logger)); err != nil {
		if shutdownErr := scheduler.Shutdown(); shutdownErr != nil {
			s.logger.Error("failed to shut down job scheduler", logger.Err(shutdownErr))
		}
		return nil, err
	}
	scheduler.Start()
	return scheduler, nil
}

func purgeCache(cache *geocode.CachedGeocoder, log *logger.Logger) job.Task {
	return func(context.Context) error {
		removed := cache.Purge()
		log.Debug("purged geocoder cache", slog.Int("removed", removed), slog.Int("remaining", cache.Len()))
		return nil
	}
}

// Call invokes a single tool and writes the JSON encoded result to w.
func (s *Service) Call(ctx context.Context, w io.Writer, name string, arguments json.RawMessage) (tools.Result, error) {
	defer s.toolbox.Close()
	result := s.toolbox.Invoke(ctx, name, arguments)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return result, fmt.Errorf("failed to encode tool result: %w", err)
	}
	return result, nil
}

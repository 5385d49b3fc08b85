// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package job runs housekeeping tasks of the service in the background.
package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/wneessen/weather-agent/internal/logger"
)

// Task is a unit of background work. A returned error is logged and does not stop the job.
type Task func(context.Context) error

// Scheduler runs named Tasks at fixed intervals.
type Scheduler struct {
	scheduler gocron.Scheduler
	log       *logger.Logger
}

func New(log *logger.Logger) (*Scheduler, error) {
	if log == nil {
		return nil, errors.New("logger is required")
	}
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return &Scheduler{scheduler: scheduler, log: log}, nil
}

// Add registers task to run every interval until ctx is canceled. Runs never overlap: a run that
// is due while the previous one is still in progress is rescheduled.
func (s *Scheduler) Add(ctx context.Context, name string, interval time.Duration, task Task) error {
	if task == nil {
		return fmt.Errorf("failed to create %s: task is required", name)
	}
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.run(name, task)),
		gocron.WithContext(ctx),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName(name),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	return nil
}

// Start starts executing the registered jobs.
func (s *Scheduler) Start() {
	s.scheduler.Start()
}

// Shutdown stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Shutdown() error {
	return s.scheduler.Shutdown()
}

func (s *Scheduler) run(name string, task Task) func(context.Context) {
	return func(ctx context.Context) {
		start := time.Now()
		if err := task(ctx); err != nil {
			s.log.Warn("background job failed", slog.String("job", name), logger.Err(err))
			return
		}
		s.log.Debug("background job finished", slog.String("job", name),
			slog.Duration("duration", time.Since(start)))
	}
}

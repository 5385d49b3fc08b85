// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package main implements the weather-agent service.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/wneessen/weather-agent/internal/config"
	"github.com/wneessen/weather-agent/internal/i18n"
	"github.com/wneessen/weather-agent/internal/logger"
	"github.com/wneessen/weather-agent/internal/service"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGABRT, os.Interrupt)
	defer cancel()

	// Initialize Logger
	log := logger.New(slog.LevelError)

	// Read config
	confPath := flag.String("config", "", "path to the config file")
	toolName := flag.String("tool", "", "invoke a single tool and print the result instead of serving HTTP")
	toolArgs := flag.String("args", "{}", "JSON encoded arguments for the tool given with -tool")
	flag.Parse()

	conf, err := loadConfig(*confPath)
	if err != nil {
		log.Error("failed to load config", logger.Err(err))
		os.Exit(1)
	}

	log = logger.New(conf.LogLevel)
	t, err := i18n.New(conf.Locale)
	if err != nil {
		log.Error("failed to initialize localizer", logger.Err(err))
		os.Exit(1)
	}

	// Initialize the service
	serv, err := service.New(conf, log, t)
	if err != nil {
		log.Error("failed to initialize weather-agent service", logger.Err(err))
		os.Exit(1)
	}

	// One-shot tool invocation
	if *toolName != "" {
		if !json.Valid([]byte(*toolArgs)) {
			log.Error("tool arguments are not valid JSON", slog.String("args", *toolArgs))
			os.Exit(1)
		}
		result, err := serv.Call(ctx, os.Stdout, *toolName, json.RawMessage(*toolArgs))
		if err != nil {
			log.Error("failed to write tool result", logger.Err(err))
			os.Exit(1)
		}
		if !result.OK() {
			os.Exit(2)
		}
		return
	}

	// Start the service loop
	log.Info(t.Get("starting weather-agent service"), slog.String("version", version),
		slog.String("commit", commit), slog.String("date", date))
	if err = serv.Run(ctx); err != nil {
		log.Error(t.Get("failed to start weather-agent service"), logger.Err(err))
	}
	log.Info(t.Get("shutting down weather-agent service"))
}

// loadConfig reads the config file given with -config, or the one in the default location. Only if
// there is no config file, the config is read from the environment alone.
func loadConfig(confPath string) (*config.Config, error) {
	if confPath != "" {
		conf, err := config.NewFromFile(filepath.Dir(confPath), filepath.Base(confPath))
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		return conf, nil
	}
	if path, file := findConfigFile(); path != "" && file != "" {
		conf, err := config.NewFromFile(path, file)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		return conf, nil
	}
	return config.New()
}

func findConfigFile() (string, string) {
	homedir, err := os.UserHomeDir()
	if err != nil {
		return "", ""
	}
	exts := []string{"toml", "yaml", "yml", "json"}
	for _, ext := range exts {
		path := filepath.Join(homedir, ".config", "weather-agent", "config."+ext)
		if _, err = os.Stat(path); err == nil {
			return filepath.Dir(path), filepath.Base(path)
		}
	}
	return "", ""
}

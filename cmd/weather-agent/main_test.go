// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/wneessen/weather-agent/internal/config"
)

func TestLoadConfig(t *testing.T) {
	t.Run("API key from the given config file is used without environment", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		t.Setenv("WEATHER_API_KEY", "")
		conf, err := loadConfig("../../etc/config.toml")
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.Weather.APIKey != "your-openweathermap-api-key" {
			t.Errorf("expected API key from file, got %q", conf.Weather.APIKey)
		}
	})
	t.Run("config file in the default location is found", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		t.Setenv("WEATHER_API_KEY", "")
		dir := filepath.Join(home, ".config", "weather-agent")
		if err := os.MkdirAll(dir, 0o700); err != nil {
			t.Fatalf("failed to create config dir: %s", err)
		}
		content := []byte("[weather]\napikey = \"home-key\"\n")
		if err := os.WriteFile(filepath.Join(dir, "config.toml"), content, 0o600); err != nil {
			t.Fatalf("failed to write config file: %s", err)
		}
		conf, err := loadConfig("")
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.Weather.APIKey != "home-key" {
			t.Errorf("expected API key from the default config file, got %q", conf.Weather.APIKey)
		}
	})
	t.Run("without config file the environment is used", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		t.Setenv("WEATHER_API_KEY", "env-key")
		conf, err := loadConfig("")
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.Weather.APIKey != "env-key" {
			t.Errorf("expected API key from environment, got %q", conf.Weather.APIKey)
		}
	})
	t.Run("without config file and API key loading fails", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		t.Setenv("WEATHER_API_KEY", "")
		if _, err := loadConfig(""); !errors.Is(err, config.ErrMissingAPIKey) {
			t.Errorf("expected ErrMissingAPIKey, got %v", err)
		}
	})
	t.Run("missing config file fails", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		if _, err := loadConfig("../../etc/non-existent.toml"); err == nil {
			t.Error("expected loading a missing config file to fail")
		}
	})
}

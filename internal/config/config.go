package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

const (
	appName    = "wkapp"
	configFile = "config.json"
)

type Config struct {
	Host      string `json:"host" env:"WKAPP_HOST"`
	Port      int    `json:"port" env:"WKAPP_PORT"`
	Title     string `json:"title" env:"WKAPP_TITLE"`
	Width     int    `json:"width" env:"WKAPP_WIDTH"`
	Height    int    `json:"height" env:"WKAPP_HEIGHT"`
	Debug     bool   `json:"debug" env:"WKAPP_DEBUG"`
	Browser   bool   `json:"browser" env:"WKAPP_BROWSER"`
	AppDir    string `json:"app_dir" env:"WKAPP_APP_DIR"`
	DevURL    string `json:"dev_url,omitempty" env:"WKAPP_DEV_URL"`
	LogLevel  string `json:"log_level" env:"WKAPP_LOG_LEVEL"`
	LogFormat string `json:"log_format" env:"WKAPP_LOG_FORMAT"`
}

func Default() Config {
	return Config{
		Host:      "127.0.0.1",
		Port:      0,
		Title:     "WKApp",
		Width:     1040,
		Height:    768,
		AppDir:    ".",
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Addr is the listen address. Port 0 picks a free port.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func Load() (*Config, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(filepath.Join(configDir, appName, configFile))
}

// LoadFrom reads the config file at path, writing one with defaults if it
// does not exist yet, and then applies environment overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, err
		}
		out, _ := json.MarshalIndent(cfg, "", "  ")
		_ = os.WriteFile(path, out, 0600)
		log.Printf("Generated new config at: %s", path)
	default:
		return nil, err
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("env overrides: %w", err)
	}
	return &cfg, nil
}

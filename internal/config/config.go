package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	DirName    = ".salectl"
	ConfigName = "config.json"
)

type Config struct {
	PanelBaseURL       string `json:"panel_base_url"`
	DefaultRegistrarID string `json:"default_registrar_id,omitempty"`
	DefaultYears       int    `json:"default_years"`
	OutputDefault      string `json:"output_default"`
}

func Default() *Config {
	return &Config{
		PanelBaseURL:  "http://localhost:5000",
		DefaultYears:  1,
		OutputDefault: "json",
	}
}

func HomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DirName), nil
}

func Path() (string, error) {
	home, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ConfigName), nil
}

func EnsureDir() (string, error) {
	dir, err := HomeDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	path = filepath.Clean(path)
	// #nosec G304 -- path is derived from user home + fixed filename.
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Default()
			if saveErr := Save(cfg); saveErr != nil {
				return nil, fmt.Errorf("initialize config: %w", saveErr)
			}
			return cfg, nil
		}
		return nil, err
	}
	cfg := Default()
	if err := json.Unmarshal(b, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(cfg *Config) error {
	if _, err := EnsureDir(); err != nil {
		return err
	}
	path, err := Path()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return os.WriteFile(path, b, 0o600)
}

// BaseURL resolves the panel API root: the SALECTL_BASE_URL environment
// variable wins over the configured value.
func BaseURL(cfg *Config) string {
	if override := strings.TrimSpace(os.Getenv("SALECTL_BASE_URL")); override != "" {
		return strings.TrimSuffix(override, "/")
	}
	return strings.TrimSuffix(cfg.PanelBaseURL, "/")
}

// Package config содержит логику чтения конфигурации клиента Market Scout.
package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config содержит параметры конфигурации клиента Market Scout.
type Config struct {
	APIAddress     string        `env:"API_ADDRESS"`
	SessionFile    string        `env:"SESSION_FILE"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
// Значения из окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	// Файл .env необязателен: при его отсутствии используется системное окружение.
	_ = godotenv.Load()

	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envAPIAddress := cfg.APIAddress
	envSessionFile := cfg.SessionFile
	envRequestTimeout := cfg.RequestTimeout

	flag.StringVar(&cfg.APIAddress, "a", "http://localhost:5000", "base address of the Market Scout API")
	flag.StringVar(&cfg.SessionFile, "s", defaultSessionFile(), "path to the session token file")
	flag.DurationVar(&cfg.RequestTimeout, "t", 5*time.Second, "HTTP request timeout")

	flag.Parse()

	if envAPIAddress != "" {
		cfg.APIAddress = envAPIAddress
	}
	if envSessionFile != "" {
		cfg.SessionFile = envSessionFile
	}
	if envRequestTimeout != 0 {
		cfg.RequestTimeout = envRequestTimeout
	}

	if cfg.APIAddress == "" {
		cfg.APIAddress = "http://localhost:5000"
	}

	return cfg, nil
}

func defaultSessionFile() string {
	return filepath.Join(os.TempDir(), "marketscout", "session.json")
}

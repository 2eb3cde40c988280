package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config - конфигурация клиента. Источники: .env файл (если есть)
// и переменные окружения с префиксом BOTPANEL_.
type Config struct {
	APIURL          string        `envconfig:"API_URL" default:"http://localhost:8000"`
	SessionPath     string        `envconfig:"SESSION_PATH"`
	LogFile         string        `envconfig:"LOG_FILE" default:"bot_panel.log"`
	RefreshInterval time.Duration `envconfig:"REFRESH_INTERVAL" default:"5s"`
	HTTPTimeout     time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
}

// Load загружает конфигурацию из окружения
func Load(logger *slog.Logger) (*Config, error) {
	// .env опционален: в проде все приходит из окружения
	if err := godotenv.Load(); err == nil {
		logger.Debug("Loaded .env file")
	}

	var cfg Config
	if err := envconfig.Process("botpanel", &cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.SessionPath == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}

		cfg.SessionPath = filepath.Join(configDir, "bot-panel", "session.db")
	}

	logger.Debug("Config loaded",
		slog.String("api_url", cfg.APIURL),
		slog.Duration("refresh_interval", cfg.RefreshInterval))

	return &cfg, nil
}

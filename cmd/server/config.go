package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Addr   string `env:"ACTIONFORGE_ADDR"    envDefault:":8080"`
	Store  string `env:"ACTIONFORGE_STORE"   envDefault:"postgres"`
	DSN    string `env:"ACTIONFORGE_DB_DSN"`
	LogLvl string `env:"ACTIONFORGE_LOG_LEVEL" envDefault:"info"`
	LogSQL bool   `env:"ACTIONFORGE_LOG_SQL"`

	CatalogRoot string `env:"ACTIONFORGE_CATALOG_ROOT" envDefault:"./catalog"`
	CatalogFile string `env:"ACTIONFORGE_CATALOG_FILE" envDefault:"actions.yaml"`

	WordsDB    string `env:"ACTIONFORGE_WORDS_DB"    envDefault:"./data/words.db"`
	ArchiveDir string `env:"ACTIONFORGE_ARCHIVE_DIR"`

	MaxOpenConns    int           `env:"ACTIONFORGE_DB_MAX_OPEN_CONNS"     envDefault:"16"`
	MaxIdleConns    int           `env:"ACTIONFORGE_DB_MAX_IDLE_CONNS"     envDefault:"4"`
	ConnMaxLifetime time.Duration `env:"ACTIONFORGE_DB_CONN_MAX_LIFETIME"  envDefault:"30m"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Store = strings.ToLower(strings.TrimSpace(cfg.Store))
	switch cfg.Store {
	case "postgres":
		if strings.TrimSpace(cfg.DSN) == "" {
			return Config{}, fmt.Errorf("ACTIONFORGE_DB_DSN is required for the postgres store")
		}
	case "memory":
	default:
		return Config{}, fmt.Errorf("unknown store %q", cfg.Store)
	}
	return cfg, nil
}

func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLvl) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

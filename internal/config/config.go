package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port           int           `envconfig:"PORT" default:"8080"`
	WebDir         string        `envconfig:"WEB_DIR" default:"./web"`
	ProjectDir     string        `envconfig:"PROJECT_DIR" default:"./data/projects"`
	CanvasWidth    int           `envconfig:"CANVAS_WIDTH" default:"800"`
	CanvasHeight   int           `envconfig:"CANVAS_HEIGHT" default:"600"`
	HistoryLimit   int           `envconfig:"HISTORY_LIMIT" default:"50"`
	NudgeDebounce  time.Duration `envconfig:"NUDGE_DEBOUNCE" default:"300ms"`
	ThumbnailSize  int           `envconfig:"THUMBNAIL_SIZE" default:"128"`
	AllowedOrigins string        `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Origins splits AllowedOrigins into trimmed, non-empty entries.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// SlogLevel maps LogLevel onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

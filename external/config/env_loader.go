package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	internalconfig "github.com/gangstaai/scanclient/internal/config"
)

type envConfig struct {
	Env               string        `env:"ENV" envDefault:"production"`
	APIBaseURL        string        `env:"API_BASE_URL" envDefault:"http://localhost:3002"`
	StreamIdleTimeout time.Duration `env:"STREAM_IDLE_TIMEOUT" envDefault:"120s"`
	RequestTimeout    time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	FinalizeTimeout   time.Duration `env:"FINALIZE_TIMEOUT" envDefault:"15s"`
	PollInterval      time.Duration `env:"POLL_INTERVAL" envDefault:"3s"`
	PollMaxAttempts   int           `env:"POLL_MAX_ATTEMPTS" envDefault:"20"`
	SongPath          string        `env:"SONG_PATH" envDefault:"/api/news-to-song"`
	DatabaseURL       string        `env:"DATABASE_URL"`
	ScanHistoryPath   string        `env:"SCAN_HISTORY_PATH"`
	ScanWebhookURL    string        `env:"SCAN_WEBHOOK_URL"`
	DiscordToken      string        `env:"DISCORD_TOKEN"`
	DiscordChannelID  string        `env:"DISCORD_CHANNEL_ID"`
}

func Load() (*internalconfig.Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:               raw.Env,
		APIBaseURL:        raw.APIBaseURL,
		StreamIdleTimeout: raw.StreamIdleTimeout,
		RequestTimeout:    raw.RequestTimeout,
		FinalizeTimeout:   raw.FinalizeTimeout,
		PollInterval:      raw.PollInterval,
		PollMaxAttempts:   raw.PollMaxAttempts,
		SongPath:          raw.SongPath,
		DatabaseURL:       raw.DatabaseURL,
		ScanHistoryPath:   raw.ScanHistoryPath,
		ScanWebhookURL:    raw.ScanWebhookURL,
		DiscordToken:      raw.DiscordToken,
		DiscordChannelID:  raw.DiscordChannelID,
	}
	if cfg.ScanHistoryPath == "" {
		cfg.ScanHistoryPath = defaultScanHistoryPath()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// defaultScanHistoryPath is empty when the platform has no user cache dir.
func defaultScanHistoryPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "scanclient", "scans.jsonl")
}

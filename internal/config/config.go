package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

type Config struct {
	Env               string
	APIBaseURL        string
	StreamIdleTimeout time.Duration
	RequestTimeout    time.Duration
	FinalizeTimeout   time.Duration
	PollInterval      time.Duration
	PollMaxAttempts   int
	SongPath          string
	DatabaseURL       string
	ScanHistoryPath   string
	ScanWebhookURL    string
	DiscordToken      string
	DiscordChannelID  string
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return fmt.Errorf("API_BASE_URL is invalid: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("API_BASE_URL must use http or https, got %q", u.Scheme)
	}
	for _, d := range c.positiveDurationChecks() {
		if d.value <= 0 {
			return fmt.Errorf("%s must be positive, got %s", d.name, d.value)
		}
	}
	if c.PollMaxAttempts <= 0 {
		return fmt.Errorf("POLL_MAX_ATTEMPTS must be positive, got %d", c.PollMaxAttempts)
	}
	if !strings.HasPrefix(c.SongPath, "/") {
		return fmt.Errorf("SONG_PATH must start with /, got %q", c.SongPath)
	}
	if (c.DiscordToken == "") != (c.DiscordChannelID == "") {
		return fmt.Errorf("DISCORD_TOKEN and DISCORD_CHANNEL_ID must be set together")
	}
	return nil
}

type durationField struct {
	name  string
	value time.Duration
}

func (c *Config) positiveDurationChecks() []durationField {
	return []durationField{
		{name: "STREAM_IDLE_TIMEOUT", value: c.StreamIdleTimeout},
		{name: "REQUEST_TIMEOUT", value: c.RequestTimeout},
		{name: "FINALIZE_TIMEOUT", value: c.FinalizeTimeout},
		{name: "POLL_INTERVAL", value: c.PollInterval},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) DiscordEnabled() bool {
	return c.DiscordToken != "" && c.DiscordChannelID != ""
}

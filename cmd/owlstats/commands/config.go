package commands

import (
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	"brotherowl-backend/lib/configutil"
	"brotherowl-backend/lib/scrapers/tornstats"

	"github.com/joho/godotenv"
)

const apiKeyEnv = "TORNSTATS_API_KEY"

type TornStatsConfig struct {
	BaseUrl string `json:"base_url" validate:"omitempty,url"`
	ApiKey  string `json:"api_key"`
	// defaults to an hour
	CacheTtlSeconds int `json:"cache_ttl_seconds" validate:"gte=0"`
	// zero uses the default rate, negative removes the limit
	RequestsPerSecond       float64 `json:"requests_per_second"`
	DisableCloudflareBypass bool    `json:"disable_cloudflare_bypass"`
}

type Config struct {
	TornStats TornStatsConfig `json:"tornstats"`
	// a sqlite path, a postgres:// or libsql:// dsn, or a .json file
	SpyStore             string `json:"spy_store"`
	Concurrency          int    `json:"concurrency" validate:"gte=0,lte=64"`
	WatchIntervalSeconds int    `json:"watch_interval_seconds" validate:"gte=0"`
}

func defaultConfig() Config {
	return Config{
		SpyStore:             "<dev_state>/spies.db",
		WatchIntervalSeconds: 300,
	}
}

// loadConfig reads the json5 config (a missing file means defaults), then
// applies .env and the environment on top.
func loadConfig(path string) (Config, error) {
	config, err := configutil.ReadWithDefaults(path, defaultConfig())
	if err != nil {
		return Config{}, err
	}

	err = godotenv.Load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "err", err)
	}
	if key, ok := os.LookupEnv(apiKeyEnv); ok && strings.TrimSpace(key) != "" {
		config.TornStats.ApiKey = strings.TrimSpace(key)
	}

	err = configutil.Validate(config)
	if err != nil {
		return Config{}, err
	}
	return config, nil
}

func (c Config) clientOptions() tornstats.ClientOptions {
	return tornstats.ClientOptions{
		BaseURL:                 c.TornStats.BaseUrl,
		APIKey:                  c.TornStats.ApiKey,
		CacheTTL:                time.Duration(c.TornStats.CacheTtlSeconds) * time.Second,
		RequestsPerSecond:       c.TornStats.RequestsPerSecond,
		DisableCloudflareBypass: c.TornStats.DisableCloudflareBypass,
	}
}

func (c Config) watchInterval() time.Duration {
	return time.Duration(c.WatchIntervalSeconds) * time.Second
}

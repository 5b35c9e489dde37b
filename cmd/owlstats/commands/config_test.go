package commands

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	err := os.WriteFile(path, []byte(contents), 0600)
	if err != nil {
		t.Fatal(err)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(apiKeyEnv, "")

	config, err := loadConfig("owlstats.json5")
	require.NoError(t, err)
	require.Equal(t, defaultConfig(), config)
	require.Equal(t, 5*time.Minute, config.watchInterval())
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(apiKeyEnv, "")

	writeFile(t, filepath.Join(dir, "owlstats.json5"), `{
		// shared settings
		tornstats: {
			base_url: "https://www.tornstats.com",
			api_key: "from-file",
			cache_ttl_seconds: 60,
		},
		spy_store: "data/spies.json",
	}`)
	writeFile(t, filepath.Join(dir, "owlstats.local.json5"), `{
		tornstats: { api_key: "from-local" },
		concurrency: 8,
	}`)

	config, err := loadConfig("owlstats.json5")
	require.NoError(t, err)
	require.Equal(t, "from-local", config.TornStats.ApiKey)
	require.Equal(t, 8, config.Concurrency)
	require.Equal(t, "data/spies.json", config.SpyStore)
	require.Equal(t, 300, config.WatchIntervalSeconds)

	opts := config.clientOptions()
	require.Equal(t, time.Minute, opts.CacheTTL)
	require.Equal(t, "https://www.tornstats.com", opts.BaseURL)

	writeFile(t, filepath.Join(dir, ".env"), "TORNSTATS_API_KEY=from-dotenv\n")
	os.Unsetenv(apiKeyEnv)
	config, err = loadConfig("owlstats.json5")
	require.NoError(t, err)
	require.Equal(t, "from-dotenv", config.TornStats.ApiKey)
}

func TestLoadConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	writeFile(t, filepath.Join(dir, "owlstats.json5"), `{ tornstats: { base_url: "not a url" } }`)
	_, err := loadConfig("owlstats.json5")
	require.Error(t, err)
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgnsrekt/barcache/internal/bars"
)

func TestLoadWithCredentials(t *testing.T) {
	t.Setenv("NO_DOTENV", "1")
	t.Setenv("ALPACA_API_KEY", "key-123")
	t.Setenv("ALPACA_SECRET_KEY", "secret-456")
	t.Setenv("API_KEY", "edu-789")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "key-123", cfg.API.KeyID)
	assert.Equal(t, "secret-456", cfg.API.SecretKey)
	assert.Equal(t, "edu-789", cfg.Edufund.APIKey)
	assert.True(t, cfg.API.HasCredentials())

	assert.Equal(t, "https://data.alpaca.markets", cfg.API.BaseURL)
	assert.Equal(t, filepath.Join("data", "stock data"), cfg.Cache.Directory)
	assert.Equal(t, KeyStrategyCount, cfg.Cache.KeyStrategy)
	assert.Equal(t, 0, cfg.API.RetryCount)
}

// Credentials are only needed once a request goes out.
func TestLoadWithoutCredentials(t *testing.T) {
	t.Setenv("NO_DOTENV", "1")
	t.Setenv("ALPACA_API_KEY", "")
	t.Setenv("ALPACA_SECRET_KEY", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.False(t, cfg.API.HasCredentials())
}

func TestLoadDotenv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("ALPACA_API_KEY=from-file\nALPACA_SECRET_KEY=secret-file\n"), 0600))

	t.Setenv("NO_DOTENV", "")
	t.Setenv("ENV_FILE", envFile)
	// t.Setenv registers cleanup; clear so godotenv may fill them
	t.Setenv("ALPACA_API_KEY", "")
	t.Setenv("ALPACA_SECRET_KEY", "")
	require.NoError(t, os.Unsetenv("ALPACA_API_KEY"))
	require.NoError(t, os.Unsetenv("ALPACA_SECRET_KEY"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.API.KeyID)
	assert.Equal(t, "secret-file", cfg.API.SecretKey)
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("NO_DOTENV", "1")

	dir := t.TempDir()
	path := filepath.Join(dir, "barcache.yaml")
	yaml := `
cache:
  directory: /tmp/bars
  key_strategy: symbols
warm:
  workers: 4
  requests:
    - tickers: [AAPL, MSFT]
      years: 2
      timeframe: 1Day
    - tickers: [SPY]
      years: 0
      timeframe: 15Min
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/bars", cfg.Cache.Directory)
	assert.Equal(t, KeyStrategySymbols, cfg.Cache.KeyStrategy)
	assert.Equal(t, 4, cfg.Warm.Workers)
	require.Len(t, cfg.Warm.Requests, 2)

	req, err := cfg.Warm.Requests[1].Request()
	require.NoError(t, err)
	assert.Equal(t, []string{"SPY"}, req.Tickers)
	assert.Equal(t, bars.TimeFrame{Amount: 15, Unit: bars.UnitMinute}, req.TimeFrame)
}

func TestLoadRejectsBadKeyStrategy(t *testing.T) {
	t.Setenv("NO_DOTENV", "1")
	t.Setenv("BARCACHE_CACHE_KEY_STRATEGY", "tickers")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid cache key strategy: tickers")
}

func TestLoadNotifyFromNtfyEnv(t *testing.T) {
	t.Setenv("NO_DOTENV", "1")
	t.Setenv("NTFY_ENABLED", "true")
	t.Setenv("NTFY_TOPIC", "bars")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Notify.Enabled)
	assert.Equal(t, "bars", cfg.Notify.Topic)
	assert.Equal(t, "https://ntfy.sh", cfg.Notify.Server)
	assert.Equal(t, "default", cfg.Notify.Priority)
}

func TestNotifyValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     NotifyConfig
		wantErr string
	}{
		{"disabled ignores missing topic", NotifyConfig{Enabled: false}, ""},
		{"enabled without topic", NotifyConfig{Enabled: true, Priority: "default"}, "notify.topic is required"},
		{"bad priority", NotifyConfig{Enabled: true, Topic: "t", Priority: "loud"}, "invalid notify.priority: loud"},
		{"valid", NotifyConfig{Enabled: true, Topic: "t", Priority: "high"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

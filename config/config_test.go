package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, "./fxledger.db", cfg.Database.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Import.AutoMerge)
	assert.Equal(t, 1e-5, cfg.Matching.Epsilon)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	with := func(edit func(*Config)) *Config {
		cfg := Default()
		edit(cfg)
		return cfg
	}

	tests := []struct {
		name    string
		config  *Config
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			config:  Default(),
			wantErr: false,
		},
		{
			name:    "missing database path",
			config:  with(func(c *Config) { c.Database.Path = "" }),
			wantErr: true,
			errMsg:  "database.path is required",
		},
		{
			name:    "bad log level",
			config:  with(func(c *Config) { c.Log.Level = "loud" }),
			wantErr: true,
			errMsg:  "log.level",
		},
		{
			name:    "bad log encoding",
			config:  with(func(c *Config) { c.Log.Encoding = "xml" }),
			wantErr: true,
			errMsg:  "log.encoding",
		},
		{
			name:    "bad merge window",
			config:  with(func(c *Config) { c.Import.MergeWindow = "soon" }),
			wantErr: true,
			errMsg:  "import.merge_window",
		},
		{
			name:    "negative merge window",
			config:  with(func(c *Config) { c.Import.MergeWindow = "-1s" }),
			wantErr: true,
			errMsg:  "import.merge_window must not be negative",
		},
		{
			name:    "negative epsilon",
			config:  with(func(c *Config) { c.Matching.Epsilon = -1 }),
			wantErr: true,
			errMsg:  "matching.epsilon",
		},
		{
			name: "unknown broker",
			config: with(func(c *Config) {
				c.Brokers = map[string]BrokerConfig{"sbi": {Strategy: "lifo"}}
			}),
			wantErr: true,
			errMsg:  "brokers.sbi",
		},
		{
			name: "unknown strategy",
			config: with(func(c *Config) {
				c.Brokers = map[string]BrokerConfig{"dmm": {Strategy: "random"}}
			}),
			wantErr: true,
			errMsg:  "brokers.dmm.strategy",
		},
		{
			name: "unknown policy",
			config: with(func(c *Config) {
				c.Brokers = map[string]BrokerConfig{"gmo": {OnUnmatched: "ignore"}}
			}),
			wantErr: true,
			errMsg:  "brokers.gmo.on_unmatched",
		},
		{
			name: "broker overrides",
			config: with(func(c *Config) {
				c.Brokers = map[string]BrokerConfig{
					"dmm": {Strategy: "FIFO", OnUnmatched: "fail", Account: "main"},
					"gmo": {Strategy: "tolerance", OnUnmatched: "skip"},
				}
			}),
			wantErr: false,
		},
		{
			name:    "missing server addr",
			config:  with(func(c *Config) { c.Server.Addr = "" }),
			wantErr: true,
			errMsg:  "server.addr is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		ext  string
	}{
		{"json format", ".json"},
		{"yaml format", ".yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Import.AutoMerge = false
			cfg.Brokers = map[string]BrokerConfig{"dmm": {Account: "dmm-main"}}
			path := filepath.Join(tmpDir, "test"+tt.ext)

			// Save
			err := cfg.SaveToFile(path)
			require.NoError(t, err)

			// Verify file exists
			_, err = os.Stat(path)
			require.NoError(t, err)

			// Load
			loaded, err := LoadFromFile(path)
			require.NoError(t, err)

			// Compare
			assert.Equal(t, cfg, loaded)
			assert.Equal(t, "dmm-main", loaded.Broker("dmm").Account)
		})
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fxledger.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  path: /tmp/x.db\n"), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.db", cfg.Database.Path)
	assert.Equal(t, "1s", cfg.Import.MergeWindow)
	assert.True(t, cfg.Import.AutoMerge)
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("FXLEDGER_DB_PATH", "/data/ledger.db")
	t.Setenv("FXLEDGER_LOG_LEVEL", "debug")
	t.Setenv("FXLEDGER_IMPORT_AUTO_MERGE", "false")
	t.Setenv("FXLEDGER_MATCH_EPSILON", "0.001")
	t.Setenv("FXLEDGER_SERVER_ADDR", ":9090")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/data/ledger.db", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.False(t, cfg.Import.AutoMerge)
	assert.Equal(t, 0.001, cfg.Matching.Epsilon)
	assert.Equal(t, ":9090", cfg.Server.Addr)
}

func TestLoadEnvInvalid(t *testing.T) {
	t.Setenv("FXLEDGER_LOG_LEVEL", "shout")

	_, err := Load("")
	assert.ErrorContains(t, err, "log.level")
}

func TestImportWindow(t *testing.T) {
	tests := []struct {
		window   string
		expected string
		wantErr  bool
	}{
		{"1s", "1s", false},
		{"500ms", "500ms", false},
		{"", "1s", false},
		{"invalid", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.window, func(t *testing.T) {
			ic := ImportConfig{MergeWindow: tt.window}
			d, err := ic.Window()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, d.String())
			}
		})
	}
}

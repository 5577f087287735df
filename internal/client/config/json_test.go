package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/zviewer/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"network":               "testnet",
		"rpc_host":              "node.example:18232",
		"online_check_interval": "15s",
		"s3": map[string]any{
			"bucket":   "zv-backups",
			"endpoint": "http://localhost:9000",
		},
	})

	t.Run("loads from -config", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, models.NetworkTestnet, cfg.Network)
		assert.Equal(t, "node.example:18232", cfg.RPCHost)
		assert.Equal(t, 15*time.Second, cfg.OnlineCheckInterval)
		assert.Equal(t, "zv-backups", cfg.S3.Bucket)
		assert.Equal(t, "http://localhost:9000", cfg.S3.Endpoint)
		// keys absent from the file keep their defaults
		assert.Equal(t, "us-east-1", cfg.S3.Region)
		assert.Equal(t, "zviewer.db", cfg.DatabaseDSN)
	})

	t.Run("short -c form", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", pathFlag, "-log-level", "debug"}

		cfg := &Config{}
		parseJson(cfg)
		assert.Equal(t, "node.example:18232", cfg.RPCHost)
		assert.Empty(t, cfg.LogLevel)
	})

	t.Run("numeric interval is nanoseconds", func(t *testing.T) {
		p := writeTempJSON(t, dir, "num.json", map[string]any{"online_check_interval": 2000000000})
		os.Args = []string{"testbin", "-c", p}

		cfg := &Config{}
		parseJson(cfg)
		assert.Equal(t, 2*time.Second, cfg.OnlineCheckInterval)
	})

	t.Run("no config flag → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{
			RPCHost:             "defaults:1234",
			OnlineCheckInterval: 42 * time.Second,
		}
		parseJson(cfg)

		assert.Equal(t, "defaults:1234", cfg.RPCHost)
		assert.Equal(t, 42*time.Second, cfg.OnlineCheckInterval)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})

	t.Run("missing file → panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", filepath.Join(dir, "nope.json")}
		require.Panics(t, func() { parseJson(&Config{}) })
	})
}

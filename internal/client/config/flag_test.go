package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/dmitrijs2005/zviewer/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "node and interval", args: []string{"cmd", "-rpc-host", "127.0.0.1:18232", "-i", "10", "-network", "testnet"},
			expected: &Config{RPCHost: "127.0.0.1:18232", OnlineCheckInterval: 10 * time.Second, Network: models.NetworkTestnet}},
		{name: "storage and logging", args: []string{"cmd", "-db", "postgres://u@h/zv", "-export-dir", "/tmp/out", "-log-level", "debug"},
			expected: &Config{DatabaseDSN: "postgres://u@h/zv", ExportDir: "/tmp/out", LogLevel: "debug"}},
		{name: "foreign flags ignored", args: []string{"cmd", "-c", "zviewer.json", "-rpc-user", "alice", "-rpc-password", "pw"},
			expected: &Config{RPCUser: "alice", RPCPassword: "pw"}},
		{name: "incorrect check interval", args: []string{"cmd", "-i", "abc"}, expectPanic: true, expected: &Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}

func TestParseFlags_KeepsEarlierValues(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"cmd", "-log-level", "warn"}

	cfg := &Config{}
	cfg.LoadDefaults()
	cfg.RPCUser = "from-json"
	parseFlags(cfg)

	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "from-json", cfg.RPCUser)
	assert.Equal(t, 10*time.Second, cfg.OnlineCheckInterval)
	assert.Equal(t, models.NetworkMainnet, cfg.Network)
}

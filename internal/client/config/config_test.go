package config

import (
	"os"
	"testing"
	"time"

	"github.com/dmitrijs2005/zviewer/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, models.NetworkMainnet, c.Network)
	assert.Equal(t, "zviewer.db", c.DatabaseDSN)
	assert.Equal(t, 10*time.Second, c.OnlineCheckInterval)
	assert.Equal(t, "exports", c.ExportDir)
	assert.Equal(t, "info", c.LogLevel)
	require.NoError(t, c.Validate())
}

func TestRPCAddress(t *testing.T) {
	c := Config{Network: models.NetworkMainnet}
	assert.Equal(t, "127.0.0.1:8232", c.RPCAddress())
	c.Network = models.NetworkRegtest
	assert.Equal(t, "127.0.0.1:18232", c.RPCAddress())
	c.RPCHost = "zebra:9999"
	assert.Equal(t, "zebra:9999", c.RPCAddress())
}

func TestValidate(t *testing.T) {
	c := Config{}
	c.LoadDefaults()

	bad := c
	bad.Network = "moonnet"
	assert.Error(t, bad.Validate())

	bad = c
	bad.DatabaseDSN = ""
	assert.Error(t, bad.Validate())

	bad = c
	bad.OnlineCheckInterval = 0
	assert.Error(t, bad.Validate())
}

func TestParseEnv(t *testing.T) {
	t.Setenv("ZVIEWER_RPC_USER", "envuser")
	t.Setenv("ZVIEWER_NETWORK", "regtest")
	t.Setenv("ZVIEWER_ONLINE_CHECK_INTERVAL", "3s")
	t.Setenv("ZVIEWER_S3_BUCKET", "envbucket")

	c := Config{}
	c.LoadDefaults()
	require.NoError(t, parseEnv(&c))

	assert.Equal(t, "envuser", c.RPCUser)
	assert.Equal(t, models.NetworkRegtest, c.Network)
	assert.Equal(t, 3*time.Second, c.OnlineCheckInterval)
	assert.Equal(t, "envbucket", c.S3.Bucket)
	assert.Equal(t, "zviewer.db", c.DatabaseDSN)

	t.Setenv("ZVIEWER_ONLINE_CHECK_INTERVAL", "soon")
	assert.Error(t, parseEnv(&c))
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{
		"rpc_user":  "jsonuser",
		"rpc_host":  "json:1",
		"log_level": "warn",
	})
	t.Setenv("ZVIEWER_RPC_HOST", "env:2")
	t.Setenv("ZVIEWER_LOG_LEVEL", "error")
	os.Args = []string{"zviewer", "-c", path, "-log-level", "debug"}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "jsonuser", cfg.RPCUser)
	assert.Equal(t, "env:2", cfg.RPCHost)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, models.NetworkMainnet, cfg.Network)
}

func TestLoadConfig_BadNetwork(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"zviewer", "-network", "moonnet"}

	_, err := LoadConfig()
	require.Error(t, err)
}

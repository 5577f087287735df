package config

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/zviewer/internal/models"
)

// S3Config points the backup command at an S3-compatible bucket. An empty
// Bucket disables backups.
type S3Config struct {
	Bucket    string `envconfig:"bucket"`
	Region    string `envconfig:"region"`
	Endpoint  string `envconfig:"endpoint"`
	AccessKey string `envconfig:"access_key"`
	SecretKey string `envconfig:"secret_key"`
}

// Config holds runtime settings for the zviewer CLI.
//
// RPCHost may be empty, in which case the node's default port for Network is
// used on localhost (see RPCAddress).
type Config struct {
	Network             models.Network `envconfig:"network"`
	DatabaseDSN         string         `envconfig:"database_dsn"`
	RPCHost             string         `envconfig:"rpc_host"`
	RPCUser             string         `envconfig:"rpc_user"`
	RPCPassword         string         `envconfig:"rpc_password"`
	OnlineCheckInterval time.Duration  `envconfig:"online_check_interval"`
	ExportDir           string         `envconfig:"export_dir"`
	LogLevel            string         `envconfig:"log_level"`
	S3                  S3Config       `envconfig:"s3"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Network = models.NetworkMainnet
	c.DatabaseDSN = "zviewer.db"
	c.OnlineCheckInterval = 10 * time.Second
	c.ExportDir = "exports"
	c.LogLevel = "info"
	c.S3.Region = "us-east-1"
}

// RPCAddress returns RPCHost, or localhost on the network's default port.
func (c *Config) RPCAddress() string {
	if c.RPCHost != "" {
		return c.RPCHost
	}
	if c.Network == models.NetworkMainnet {
		return "127.0.0.1:8232"
	}
	return "127.0.0.1:18232"
}

// Validate checks values that later stages cannot recover from.
func (c *Config) Validate() error {
	if _, err := models.ParseNetwork(string(c.Network)); err != nil {
		return err
	}
	if c.DatabaseDSN == "" {
		return fmt.Errorf("database dsn is empty")
	}
	if c.OnlineCheckInterval <= 0 {
		return fmt.Errorf("online check interval must be positive, got %s", c.OnlineCheckInterval)
	}
	return nil
}

// LoadConfig builds a Config from defaults, then the JSON file named by -c,
// then ZVIEWER_* environment variables, then command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	parseFlags(cfg)

	network, err := models.ParseNetwork(string(cfg.Network))
	if err != nil {
		return nil, err
	}
	cfg.Network = network
	return cfg, cfg.Validate()
}

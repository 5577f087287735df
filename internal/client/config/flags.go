package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/zviewer/internal/flagx"
	"github.com/dmitrijs2005/zviewer/internal/models"
)

var ownFlags = []string{"-network", "-db", "-rpc-host", "-rpc-user", "-rpc-password", "-i", "-export-dir", "-log-level"}

// parseFlags populates Config fields from command-line flags. Only the flags
// listed in ownFlags are looked at. Panics on malformed values.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], ownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	network := fs.String("network", string(cfg.Network), "mainnet, testnet or regtest")
	fs.StringVar(&cfg.DatabaseDSN, "db", cfg.DatabaseDSN, "sqlite file or postgres:// url")
	fs.StringVar(&cfg.RPCHost, "rpc-host", cfg.RPCHost, "node RPC host:port")
	fs.StringVar(&cfg.RPCUser, "rpc-user", cfg.RPCUser, "node RPC user")
	fs.StringVar(&cfg.RPCPassword, "rpc-password", cfg.RPCPassword, "node RPC password")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.ExportDir, "export-dir", cfg.ExportDir, "directory for exports")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.Network = models.Network(*network)
	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}

// Package config loads runtime configuration for the zviewer CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. ZVIEWER_* environment variables (envconfig).
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-network string       mainnet, testnet or regtest
//	-db string            sqlite file or postgres:// url
//	-rpc-host string      node RPC host:port
//	-rpc-user string      node RPC user
//	-rpc-password string  node RPC password
//	-i int                online status check interval (seconds)
//	-export-dir string    directory for exports
//	-log-level string     debug, info, warn or error
//
// # JSON schema
//
// Intervals use timex.Duration, so "10s" and integer nanoseconds both work:
//
//	{
//	  "network": "testnet",
//	  "database_dsn": "zviewer.db",
//	  "rpc_host": "127.0.0.1:18232",
//	  "online_check_interval": "10s",
//	  "s3": {"bucket": "backups", "endpoint": "http://localhost:9000"}
//	}
//
// # Environment
//
// Every field has a ZVIEWER_ variable, e.g. ZVIEWER_RPC_USER and
// ZVIEWER_S3_BUCKET.
package config

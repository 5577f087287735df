package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/zviewer/internal/flagx"
	"github.com/dmitrijs2005/zviewer/internal/models"
	"github.com/dmitrijs2005/zviewer/internal/timex"
)

// JsonConfig is the file form of Config. Absent keys keep the value already
// in Config.
type JsonConfig struct {
	Network             *string         `json:"network"`
	DatabaseDSN         *string         `json:"database_dsn"`
	RPCHost             *string         `json:"rpc_host"`
	RPCUser             *string         `json:"rpc_user"`
	RPCPassword         *string         `json:"rpc_password"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	ExportDir           *string         `json:"export_dir"`
	LogLevel            *string         `json:"log_level"`
	S3                  *struct {
		Bucket    *string `json:"bucket"`
		Region    *string `json:"region"`
		Endpoint  *string `json:"endpoint"`
		AccessKey *string `json:"access_key"`
		SecretKey *string `json:"secret_key"`
	} `json:"s3"`
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// parseJson overlays Config with the JSON file named by -c or -config.
// Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	path := flagx.ConfigPath(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.Network != nil {
		cfg.Network = models.Network(*jc.Network)
	}
	set(&cfg.DatabaseDSN, jc.DatabaseDSN)
	set(&cfg.RPCHost, jc.RPCHost)
	set(&cfg.RPCUser, jc.RPCUser)
	set(&cfg.RPCPassword, jc.RPCPassword)
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	set(&cfg.ExportDir, jc.ExportDir)
	set(&cfg.LogLevel, jc.LogLevel)
	if s3 := jc.S3; s3 != nil {
		set(&cfg.S3.Bucket, s3.Bucket)
		set(&cfg.S3.Region, s3.Region)
		set(&cfg.S3.Endpoint, s3.Endpoint)
		set(&cfg.S3.AccessKey, s3.AccessKey)
		set(&cfg.S3.SecretKey, s3.SecretKey)
	}
}

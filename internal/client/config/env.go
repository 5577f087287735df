package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "ZVIEWER"

// parseEnv overlays Config with ZVIEWER_* variables. Unset variables leave
// the field as is.
func parseEnv(cfg *Config) error {
	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return fmt.Errorf("env config: %w", err)
	}
	return nil
}

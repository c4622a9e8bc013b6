package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

// processEnv returns the current process environment as a lookup map.
func processEnv() map[string]string {
	return env.ToMap(os.Environ())
}

// parseEnv fills cfg from environ using the env and envPrefix struct tags.
// Unset variables leave their fields zero so later sources can fill them.
func parseEnv(cfg *StructuredConfig, environ map[string]string) error {
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return fmt.Errorf("error reading environment config: %w", err)
	}
	return nil
}

package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Env holds overrides read from the process environment.
type Env struct {
	// ConfigPath points at a config file, bypassing local/global lookup.
	ConfigPath string `envconfig:"LAYERGUARD_CONFIG"`
	LogLevel   string `envconfig:"LAYERGUARD_LOG_LEVEL"`
	Format     string `envconfig:"LAYERGUARD_FORMAT"`
	// Disabled turns every hook invocation into an allow.
	Disabled bool `envconfig:"LAYERGUARD_DISABLED"`
	// NoColor follows the no-color.org convention: any value disables colour.
	NoColor string `envconfig:"NO_COLOR"`
}

// LoadEnv reads overrides from environment variables.
func LoadEnv() (*Env, error) {
	var e Env
	if err := envconfig.Process("", &e); err != nil {
		return nil, fmt.Errorf("cannot read environment: %w", err)
	}
	return &e, nil
}

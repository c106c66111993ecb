// Package cli provides CLI command implementations.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/adrianpk/layerguard/internal/config"
)

// RunInit creates a layerguard configuration file that extends profile.
// The local file goes in the working directory, the global one under
// ~/.config/layerguard.
func RunInit(w io.Writer, local bool, profile string) error {
	if profile == "" {
		profile = config.DefaultProfile
	}
	if _, err := config.Profile(profile); err != nil {
		return err
	}

	configPath := config.GlobalConfigPath()
	if local {
		configPath = config.LocalConfigPath()
	}
	if configPath == "" {
		return fmt.Errorf("cannot resolve config path")
	}

	if _, err := os.Stat(configPath); err == nil {
		fmt.Fprintf(w, "Config already exists: %s\n", configPath)
		return nil
	}

	if !local {
		if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
			return fmt.Errorf("cannot create config directory: %w", err)
		}
	}

	if err := os.WriteFile(configPath, []byte(starterConfig(profile)), 0644); err != nil {
		return fmt.Errorf("cannot write config: %w", err)
	}

	fmt.Fprintf(w, "Created config: %s\n", configPath)
	return nil
}

func starterConfig(profile string) string {
	return fmt.Sprintf(starterTemplate, profile)
}

const starterTemplate = `version: 1

# Built-in table to start from. Entries below are appended to it.
# Run "layerguard rules -profile <name>" to see a profile.
profile: %s

architecture:
  # rules:
  #   - { suffix: _query.rs, layer: application/query }
  whitelist: []

scope:
  exclude: []

# isolation:
#   - name: no-network
#     layers: [domain]
#     forbid: ['\breqwest::']
#     message: network access belongs in infra

commands:
  guards: []
  #   - name: no-chaining
  #     operator: "&&"
  #     reason: run one command at a time

hook:
  # gemini or claude
  format: gemini

log:
  level: warn
`

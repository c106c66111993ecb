// Package config handles loading and merging configuration files.
package config

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed profiles/*.yml
var profilesFS embed.FS

const (
	// DefaultProfile is the built-in rule table used when nothing else is configured.
	DefaultProfile = "rust"
	// NoProfile starts from an empty table.
	NoProfile = "none"

	localConfigName = ".layerguard.yml"
)

// Config represents the layerguard configuration.
type Config struct {
	Version      int                `yaml:"version"`
	Profile      string             `yaml:"profile,omitempty"`
	Architecture ArchitectureConfig `yaml:"architecture"`
	Scope        ScopeConfig        `yaml:"scope"`
	Isolation    []IsolationConfig  `yaml:"isolation,omitempty" validate:"dive"`
	Commands     CommandsConfig     `yaml:"commands"`
	Hook         HookConfig         `yaml:"hook"`
	Log          LogConfig          `yaml:"log"`
}

// ArchitectureConfig is the suffix to layer table.
type ArchitectureConfig struct {
	Extension  string        `yaml:"extension" validate:"required,startswith=."`
	SourceRoot string        `yaml:"source_root" validate:"required"`
	Rules      []LayerRule   `yaml:"rules" validate:"required,min=1,dive"`
	Whitelist  StringOrArray `yaml:"whitelist,omitempty"`
}

// LayerRule maps a filename suffix to the directory segments it must live under.
type LayerRule struct {
	Suffix string `yaml:"suffix" validate:"required"`
	Layer  string `yaml:"layer" validate:"required"`
}

// ScopeConfig exempts paths from the policy.
type ScopeConfig struct {
	Exclude StringOrArray `yaml:"exclude,omitempty"`
}

// IsolationConfig forbids content patterns inside some layers.
type IsolationConfig struct {
	Name    string        `yaml:"name" validate:"required"`
	Layers  StringOrArray `yaml:"layers" validate:"required,min=1"`
	Forbid  StringOrArray `yaml:"forbid" validate:"required,min=1"`
	Message string        `yaml:"message,omitempty"`
}

// CommandsConfig controls shell command guards.
type CommandsConfig struct {
	Guards []GuardConfig `yaml:"guards,omitempty" validate:"dive"`
}

// GuardConfig rejects a command by regex or by shell operator.
type GuardConfig struct {
	Name     string `yaml:"name" validate:"required"`
	Pattern  string `yaml:"pattern,omitempty" validate:"required_without=Operator"`
	Operator string `yaml:"operator,omitempty"`
	Reason   string `yaml:"reason" validate:"required"`
	Message  string `yaml:"message,omitempty"`
}

// HookConfig controls the response envelope.
type HookConfig struct {
	Format string `yaml:"format,omitempty" validate:"omitempty,oneof=gemini claude"`
}

// LogConfig controls diagnostics.
type LogConfig struct {
	Level   string `yaml:"level,omitempty" validate:"omitempty,oneof=trace debug info warn warning error"`
	NoColor bool   `yaml:"no_color,omitempty"`
	File    string `yaml:"file,omitempty"`
}

// StringOrArray accepts either a single string or a list of strings.
type StringOrArray []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Value == "" {
			*s = nil
			return nil
		}
		*s = []string{node.Value}
		return nil
	case yaml.SequenceNode:
		var arr []string
		if err := node.Decode(&arr); err != nil {
			return err
		}
		for i, v := range arr {
			if v == "" {
				return fmt.Errorf("line %d: item %d: empty value not allowed", node.Line, i)
			}
		}
		*s = arr
		return nil
	default:
		return fmt.Errorf("line %d: must be string or list", node.Line)
	}
}

// Default returns the default configuration.
func Default() *Config {
	cfg, err := Profile(DefaultProfile)
	if err != nil {
		panic("config: built-in profile is invalid: " + err.Error())
	}
	return cfg
}

// Profile returns a built-in profile by name.
func Profile(name string) (*Config, error) {
	if name == NoProfile {
		return &Config{Version: 1, Profile: NoProfile}, nil
	}
	data, err := profilesFS.ReadFile("profiles/" + name + ".yml")
	if err != nil {
		return nil, fmt.Errorf("unknown profile %q (available: %s)", name, strings.Join(Profiles(), ", "))
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("profile %s: %w", name, err)
	}
	cfg.Profile = name
	return &cfg, nil
}

// Profiles lists the built-in profile names.
func Profiles() []string {
	entries, err := profilesFS.ReadDir("profiles")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yml"))
	}
	sort.Strings(names)
	return names
}

// Load loads configuration. An explicit path in env wins. Otherwise, if a
// local config exists, it is used exclusively; else the global config is
// used. No merging between files occurs.
func Load(env *Env) (*Config, error) {
	var cfg *Config
	var err error

	switch {
	case env != nil && env.ConfigPath != "":
		cfg, err = LoadFile(env.ConfigPath)
	case fileExists(localConfigPath()):
		cfg, err = LoadFile(localConfigPath())
	case fileExists(globalConfigPath()):
		cfg, err = LoadFile(globalConfigPath())
	default:
		cfg = Default()
	}
	if err != nil {
		return nil, err
	}

	cfg.ApplyEnv(env)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads one config file and merges it over its profile.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML and merges it over the profile it names.
func Parse(data []byte) (*Config, error) {
	var overlay Config
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, err
	}

	name := overlay.Profile
	if name == "" {
		name = DefaultProfile
	}
	base, err := Profile(name)
	if err != nil {
		return nil, err
	}

	base.merge(&overlay)
	return base, nil
}

// ApplyEnv applies environment overrides.
func (c *Config) ApplyEnv(env *Env) {
	if env == nil {
		return
	}
	if env.LogLevel != "" {
		c.Log.Level = env.LogLevel
	}
	if env.Format != "" {
		c.Hook.Format = env.Format
	}
	if env.NoColor != "" {
		c.Log.NoColor = true
	}
}

// merge applies overlay config onto the current config.
// Scalars override when set. Lists are appended, not replaced.
func (c *Config) merge(overlay *Config) {
	if overlay.Version > 0 {
		c.Version = overlay.Version
	}
	if overlay.Architecture.Extension != "" {
		c.Architecture.Extension = overlay.Architecture.Extension
	}
	if overlay.Architecture.SourceRoot != "" {
		c.Architecture.SourceRoot = overlay.Architecture.SourceRoot
	}
	c.Architecture.Rules = appendRulesUnique(c.Architecture.Rules, overlay.Architecture.Rules)
	c.Architecture.Whitelist = appendUnique(c.Architecture.Whitelist, overlay.Architecture.Whitelist)
	c.Scope.Exclude = appendUnique(c.Scope.Exclude, overlay.Scope.Exclude)
	c.Isolation = appendIsolationUnique(c.Isolation, overlay.Isolation)
	c.Commands.Guards = appendGuardsUnique(c.Commands.Guards, overlay.Commands.Guards)
	if overlay.Hook.Format != "" {
		c.Hook.Format = overlay.Hook.Format
	}
	if overlay.Log.Level != "" {
		c.Log.Level = overlay.Log.Level
	}
	if overlay.Log.NoColor {
		c.Log.NoColor = true
	}
	if overlay.Log.File != "" {
		c.Log.File = overlay.Log.File
	}
}

func appendRulesUnique(base, items []LayerRule) []LayerRule {
	seen := make(map[string]bool)
	for _, r := range base {
		seen[r.Suffix] = true
	}
	result := base
	for _, r := range items {
		if !seen[r.Suffix] {
			result = append(result, r)
			seen[r.Suffix] = true
		}
	}
	return result
}

func appendIsolationUnique(base, items []IsolationConfig) []IsolationConfig {
	seen := make(map[string]bool)
	for _, c := range base {
		seen[c.Name] = true
	}
	result := base
	for _, c := range items {
		if !seen[c.Name] {
			result = append(result, c)
			seen[c.Name] = true
		}
	}
	return result
}

func appendGuardsUnique(base, items []GuardConfig) []GuardConfig {
	seen := make(map[string]bool)
	for _, g := range base {
		seen[g.Name] = true
	}
	result := base
	for _, g := range items {
		if !seen[g.Name] {
			result = append(result, g)
			seen[g.Name] = true
		}
	}
	return result
}

func appendUnique(base, items []string) []string {
	seen := make(map[string]bool)
	for _, s := range base {
		seen[s] = true
	}
	result := base
	for _, s := range items {
		if !seen[s] {
			result = append(result, s)
			seen[s] = true
		}
	}
	return result
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

func globalConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "layerguard", "config.yml")
}

// GlobalConfigPath returns the path to the global config file.
func GlobalConfigPath() string {
	return globalConfigPath()
}

func localConfigPath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return filepath.Join(cwd, localConfigName)
}

// LocalConfigPath returns the path of the project config file.
func LocalConfigPath() string {
	return localConfigPath()
}

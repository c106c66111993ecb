package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, DefaultProfile, cfg.Profile)
	assert.Equal(t, ".rs", cfg.Architecture.Extension)
	assert.Equal(t, "src", cfg.Architecture.SourceRoot)
	assert.Len(t, cfg.Architecture.Rules, 9)
	assert.Contains(t, cfg.Architecture.Whitelist, "main.rs")
	assert.Equal(t, "gemini", cfg.Hook.Format)
	require.NoError(t, cfg.Validate())
}

func TestBuiltinProfilesAreValid(t *testing.T) {
	names := Profiles()
	assert.Equal(t, []string{"python", "rust"}, names)

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			cfg, err := Profile(name)
			require.NoError(t, err)
			assert.NoError(t, cfg.Validate())
		})
	}
}

func TestProfileUnknown(t *testing.T) {
	_, err := Profile("cobol")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rust")
}

func TestParseMergesOverProfile(t *testing.T) {
	content := `
version: 1
profile: python
architecture:
  rules:
    - { suffix: _handler.py, layer: presentation }
    - { suffix: _entity.py, layer: elsewhere }
  whitelist: manage.py
scope:
  exclude: ["migrations/**"]
commands:
  guards:
    - name: and-chain
      operator: "&&"
      reason: "&& is not allowed in PowerShell 5.1."
hook:
  format: claude
`
	cfg, err := Parse([]byte(content))
	require.NoError(t, err)

	assert.Equal(t, "python", cfg.Profile)
	assert.Equal(t, ".py", cfg.Architecture.Extension)

	last := cfg.Architecture.Rules[len(cfg.Architecture.Rules)-1]
	assert.Equal(t, LayerRule{Suffix: "_handler.py", Layer: "presentation"}, last)
	for _, r := range cfg.Architecture.Rules {
		if r.Suffix == "_entity.py" {
			assert.Equal(t, "domain", r.Layer, "profile rule must win over a duplicate suffix")
		}
	}

	assert.Contains(t, cfg.Architecture.Whitelist, "manage.py")
	assert.Contains(t, cfg.Architecture.Whitelist, "__init__.py")
	assert.Contains(t, cfg.Scope.Exclude, "migrations/**")
	assert.Len(t, cfg.Commands.Guards, 2)
	assert.Equal(t, "⚠️ Restricted: &&", cfg.Commands.Guards[1].Message, "profile guard must win over a duplicate name")
	assert.Equal(t, "claude", cfg.Hook.Format)
	assert.NoError(t, cfg.Validate())
}

func TestParseProfileNone(t *testing.T) {
	cfg, err := Parse([]byte("profile: none\n"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Architecture.Rules)
	assert.Error(t, cfg.Validate())

	content := `
profile: none
architecture:
  extension: .ts
  source_root: src
  rules:
    - { suffix: .controller.ts, layer: presentation }
    - { suffix: .entity.ts, layer: domain }
`
	cfg, err = Parse([]byte(content))
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())
	assert.Empty(t, cfg.Commands.Guards)
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("architecture: [unclosed"))
	assert.Error(t, err)
}

func TestLoadExplicitPath(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "guard.yml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: info\n"), 0644))

	cfg, err := Load(&Env{ConfigPath: path, LogLevel: "debug", Format: "claude", NoColor: "1"})
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level, "env overrides file")
	assert.Equal(t, "claude", cfg.Hook.Format)
	assert.True(t, cfg.Log.NoColor)
}

func TestLoadMissingExplicitPath(t *testing.T) {
	_, err := Load(&Env{ConfigPath: filepath.Join(t.TempDir(), "missing.yml")})
	assert.Error(t, err)
}

func TestLoadPrefersLocalConfig(t *testing.T) {
	home := t.TempDir()
	project := t.TempDir()
	t.Setenv("HOME", home)
	chdir(t, project)

	globalDir := filepath.Join(home, ".config", "layerguard")
	require.NoError(t, os.MkdirAll(globalDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(globalDir, "config.yml"), []byte("profile: python\n"), 0644))

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "python", cfg.Profile, "global config used when no local config")

	require.NoError(t, os.WriteFile(filepath.Join(project, localConfigName), []byte("profile: rust\n"), 0644))

	cfg, err = Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "rust", cfg.Profile, "local config used exclusively")
}

func TestLoadDefaultsWithoutFiles(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())

	cfg, err := Load(&Env{})
	require.NoError(t, err)
	assert.Equal(t, DefaultProfile, cfg.Profile)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{
			name: "overlapping suffixes",
			mutate: func(c *Config) {
				c.Architecture.Rules = append(c.Architecture.Rules, LayerRule{Suffix: "_impl.rs", Layer: "infra"})
			},
			want: "overlaps",
		},
		{
			name: "duplicate suffix",
			mutate: func(c *Config) {
				c.Architecture.Rules = append(c.Architecture.Rules, LayerRule{Suffix: "_value.rs", Layer: "domain"})
			},
			want: "duplicate suffix",
		},
		{
			name: "suffix without extension",
			mutate: func(c *Config) {
				c.Architecture.Rules = append(c.Architecture.Rules, LayerRule{Suffix: "_dto", Layer: "application"})
			},
			want: "does not end with",
		},
		{
			name: "empty layer",
			mutate: func(c *Config) {
				c.Architecture.Rules = append(c.Architecture.Rules, LayerRule{Suffix: "_dto.rs"})
			},
			want: "architecture.rules[9].layer: is required",
		},
		{
			name:   "extension without dot",
			mutate: func(c *Config) { c.Architecture.Extension = "rs" },
			want:   "architecture.extension: must start with",
		},
		{
			name: "bad forbid regex",
			mutate: func(c *Config) {
				c.Isolation = append(c.Isolation, IsolationConfig{Name: "x", Layers: []string{"domain"}, Forbid: []string{"("}})
			},
			want: "isolation[1].forbid",
		},
		{
			name: "guard without pattern or operator",
			mutate: func(c *Config) {
				c.Commands.Guards = append(c.Commands.Guards, GuardConfig{Name: "empty", Reason: "nope"})
			},
			want: "pattern: is required",
		},
		{
			name: "unknown operator",
			mutate: func(c *Config) {
				c.Commands.Guards = append(c.Commands.Guards, GuardConfig{Name: "op", Operator: "&|", Reason: "nope"})
			},
			want: "operator",
		},
		{
			name:   "unknown format",
			mutate: func(c *Config) { c.Hook.Format = "xml" },
			want:   "hook.format",
		},
		{
			name:   "unknown log level",
			mutate: func(c *Config) { c.Log.Level = "loud" },
			want:   "log.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestStringOrArray(t *testing.T) {
	var v struct {
		One  StringOrArray `yaml:"one"`
		Many StringOrArray `yaml:"many"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("one: main.rs\nmany: [a, b]\n"), &v))
	assert.Equal(t, StringOrArray{"main.rs"}, v.One)
	assert.Equal(t, StringOrArray{"a", "b"}, v.Many)

	assert.Error(t, yaml.Unmarshal([]byte("many: [a, \"\"]\n"), &v))
	assert.Error(t, yaml.Unmarshal([]byte("many: {a: b}\n"), &v))
}

func TestMerge(t *testing.T) {
	base := &Config{
		Version: 1,
		Architecture: ArchitectureConfig{
			Extension: ".rs",
			Whitelist: []string{"main.rs"},
		},
		Log: LogConfig{Level: "warn"},
	}
	overlay := &Config{
		Architecture: ArchitectureConfig{
			Whitelist: []string{"main.rs", "lib.rs"},
		},
		Log: LogConfig{File: "/tmp/layerguard.log"},
	}

	base.merge(overlay)

	assert.Equal(t, ".rs", base.Architecture.Extension)
	assert.Equal(t, []string{"main.rs", "lib.rs"}, []string(base.Architecture.Whitelist))
	assert.Equal(t, "warn", base.Log.Level)
	assert.Equal(t, "/tmp/layerguard.log", base.Log.File)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("LAYERGUARD_CONFIG", "/etc/layerguard.yml")
	t.Setenv("LAYERGUARD_DISABLED", "true")
	t.Setenv("NO_COLOR", "yes")

	env, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, "/etc/layerguard.yml", env.ConfigPath)
	assert.True(t, env.Disabled)
	assert.Equal(t, "yes", env.NoColor)
}

func TestLoadEnvInvalidBool(t *testing.T) {
	t.Setenv("LAYERGUARD_DISABLED", "maybe")
	_, err := LoadEnv()
	assert.Error(t, err)
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

// Package config loads skillcat configuration from defaults, config files,
// and SKILLCAT_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

// Config holds all configuration for skillcat
type Config struct {
	Discovery DiscoveryConfig `mapstructure:"discovery" toml:"discovery"`
	Defaults  DefaultsConfig  `mapstructure:"defaults" toml:"defaults"`
	Bounds    BoundsConfig    `mapstructure:"bounds" toml:"bounds"`
	Tokenizer TokenizerConfig `mapstructure:"tokenizer" toml:"tokenizer"`
}

// DiscoveryConfig controls where skills are searched for
type DiscoveryConfig struct {
	// Roots are the accepted top-level prefixes, relative to the repo root.
	Roots []string `mapstructure:"roots" toml:"roots"`
	// DeployDir is the deployment/output tree excluded from discovery.
	DeployDir string `mapstructure:"deploy_dir" toml:"deploy_dir"`
	// SkillFile is the primary content file name looked for in each skill dir.
	SkillFile string `mapstructure:"skill_file" toml:"skill_file"`
}

// DefaultsConfig supplies values for optional metadata fields left absent
type DefaultsConfig struct {
	Author  string `mapstructure:"author" toml:"author"`
	License string `mapstructure:"license" toml:"license"`
	Version string `mapstructure:"version" toml:"version"`
}

// BoundsConfig holds the numeric plausibility bounds for token counts.
// These are policy, not structural correctness, so they are configuration
// rather than hard-coded constants.
type BoundsConfig struct {
	EntryMin int `mapstructure:"entry_min" toml:"entry_min"`
	EntryMax int `mapstructure:"entry_max" toml:"entry_max"`
	FullMin  int `mapstructure:"full_min" toml:"full_min"`
	FullMax  int `mapstructure:"full_max" toml:"full_max"`
	// DriftPercent is the tolerated relative drift between manifest token
	// counts and freshly derived ones before a warning is raised.
	DriftPercent int `mapstructure:"drift_percent" toml:"drift_percent"`
}

// TokenizerConfig selects the token-counting backend
type TokenizerConfig struct {
	// Encoding names the tiktoken encoding used for exact counts.
	// "heuristic" forces the character heuristic; an encoding whose
	// rank data cannot be loaded falls back to it with a warning.
	Encoding string `mapstructure:"encoding" toml:"encoding"`
}

var defaultConfig = Config{
	Discovery: DiscoveryConfig{
		Roots:     []string{"universal", "toolchains", "examples"},
		DeployDir: ".claude/skills",
		SkillFile: "SKILL.md",
	},
	Defaults: DefaultsConfig{
		Author:  "Skill Foundry Team",
		License: "MIT",
		Version: "1.0.0",
	},
	Bounds: BoundsConfig{
		EntryMin:     10,
		EntryMax:     200,
		FullMin:      100,
		FullMax:      50000,
		DriftPercent: 10,
	},
	Tokenizer: TokenizerConfig{
		Encoding: "cl100k_base",
	},
}

// Default returns a copy of the built-in defaults.
func Default() Config {
	cfg := defaultConfig
	cfg.Discovery.Roots = append([]string(nil), defaultConfig.Discovery.Roots...)
	return cfg
}

// Load reads configuration for the repository rooted at repoRoot.
// Precedence, lowest to highest: built-in defaults, .skillcat.yaml,
// .skillcat.toml, SKILLCAT_* environment variables applied through viper.
func Load(repoRoot string) (*Config, error) {
	v := viper.New()

	v.SetDefault("discovery.roots", defaultConfig.Discovery.Roots)
	v.SetDefault("discovery.deploy_dir", defaultConfig.Discovery.DeployDir)
	v.SetDefault("discovery.skill_file", defaultConfig.Discovery.SkillFile)
	v.SetDefault("defaults.author", defaultConfig.Defaults.Author)
	v.SetDefault("defaults.license", defaultConfig.Defaults.License)
	v.SetDefault("defaults.version", defaultConfig.Defaults.Version)
	v.SetDefault("bounds.entry_min", defaultConfig.Bounds.EntryMin)
	v.SetDefault("bounds.entry_max", defaultConfig.Bounds.EntryMax)
	v.SetDefault("bounds.full_min", defaultConfig.Bounds.FullMin)
	v.SetDefault("bounds.full_max", defaultConfig.Bounds.FullMax)
	v.SetDefault("bounds.drift_percent", defaultConfig.Bounds.DriftPercent)
	v.SetDefault("tokenizer.encoding", defaultConfig.Tokenizer.Encoding)

	v.SetConfigName(".skillcat")
	v.SetConfigType("yaml")
	v.AddConfigPath(repoRoot)

	v.SetEnvPrefix("SKILLCAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file is optional; defaults apply when absent
	_ = v.ReadInConfig()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %v", err)
	}

	if err := applyTOMLOverlay(repoRoot, &cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyTOMLOverlay merges a project-local .skillcat.toml over cfg when present.
func applyTOMLOverlay(repoRoot string, cfg *Config) error {
	path := filepath.Join(repoRoot, ".skillcat.toml")
	data, err := os.ReadFile(path) // #nosec G304 -- fixed name under repo root
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("error reading %s: %v", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("error parsing %s: %v", path, err)
	}
	return nil
}

func (c *Config) validate() error {
	if len(c.Discovery.Roots) == 0 {
		return fmt.Errorf("discovery.roots must not be empty")
	}
	if c.Discovery.SkillFile == "" {
		return fmt.Errorf("discovery.skill_file must not be empty")
	}
	if c.Bounds.EntryMin > c.Bounds.EntryMax {
		return fmt.Errorf("bounds.entry_min %d exceeds bounds.entry_max %d", c.Bounds.EntryMin, c.Bounds.EntryMax)
	}
	if c.Bounds.FullMin > c.Bounds.FullMax {
		return fmt.Errorf("bounds.full_min %d exceeds bounds.full_max %d", c.Bounds.FullMin, c.Bounds.FullMax)
	}
	if c.Bounds.DriftPercent < 0 || c.Bounds.DriftPercent > 100 {
		return fmt.Errorf("bounds.drift_percent %d out of range 0..100", c.Bounds.DriftPercent)
	}
	return nil
}

// Package config holds the runtime settings of a sync run.
package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

// Config is the full set of settings, loaded from flags, MODSYNC_* variables
// and an optional YAML file.
type Config struct {
	Source         string        `mapstructure:"source"`
	Community      string        `mapstructure:"community"`
	IndexBaseURL   string        `mapstructure:"index_base_url"`
	ProfileBaseURL string        `mapstructure:"profile_base_url"`
	Pack           string        `mapstructure:"pack"`
	ManifestName   string        `mapstructure:"manifest_name"`
	ChangelogName  string        `mapstructure:"changelog_name"`
	UserAgent      string        `mapstructure:"user_agent"`
	Timeout        time.Duration `mapstructure:"timeout"`
	Retries        int           `mapstructure:"retries"`
	LogLevel       string        `mapstructure:"log_level"`
	DryRun         bool          `mapstructure:"dry_run"`
}

// Defaults returns the settings used when nothing overrides them.
func Defaults() Config {
	return Config{
		Source:        "thunderstore",
		Community:     "lethal-company",
		Pack:          "WhalesCompany",
		ManifestName:  "manifest.json",
		ChangelogName: "README.md",
		UserAgent:     "modsync/1.0",
		Timeout:       5 * time.Minute,
		Retries:       0,
		LogLevel:      "info",
	}
}

// SetDefaults registers Defaults on v.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("source", d.Source)
	v.SetDefault("community", d.Community)
	v.SetDefault("index_base_url", d.IndexBaseURL)
	v.SetDefault("profile_base_url", d.ProfileBaseURL)
	v.SetDefault("pack", d.Pack)
	v.SetDefault("manifest_name", d.ManifestName)
	v.SetDefault("changelog_name", d.ChangelogName)
	v.SetDefault("user_agent", d.UserAgent)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("retries", d.Retries)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("dry_run", d.DryRun)
}

// Load unmarshals v into a Config and validates it.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.Source == "":
		return fmt.Errorf("source must not be empty")
	case c.Pack == "":
		return fmt.Errorf("pack must not be empty")
	case c.ManifestName == "":
		return fmt.Errorf("manifest_name must not be empty")
	case c.ChangelogName == "":
		return fmt.Errorf("changelog_name must not be empty")
	case c.Retries < 0:
		return fmt.Errorf("retries must not be negative, got %d", c.Retries)
	case c.Timeout < 0:
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// ManifestPath returns the manifest location under baseDir.
func (c Config) ManifestPath(baseDir string) string {
	return filepath.Join(baseDir, c.Pack, c.ManifestName)
}

// ChangelogPath returns the changelog location, next to the manifest.
func (c Config) ChangelogPath(baseDir string) string {
	return filepath.Join(baseDir, c.Pack, c.ChangelogName)
}

// Level returns the parsed log level. Validate has already checked it.
func (c Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

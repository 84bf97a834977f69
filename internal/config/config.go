// Package config loads wikibridge configuration.
//
// Configuration comes from .wikibridge.yaml at the repository root,
// overridable through WIKIBRIDGE_* environment variables. Every key has
// a default matching the conventional Obsidian/GitHub-wiki branch layout,
// so a repository needs no config file at all to work.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// FileName is the repository-relative config file name.
const FileName = ".wikibridge.yaml"

// Config holds every tunable of a sync pass.
type Config struct {
	// VaultBranch is the editing surface for the rich markdown editor.
	VaultBranch string `mapstructure:"vault_branch"`

	// ForwardBranch tracks the vault-to-wiki direction. It is only
	// validated for existence here; the forward tooling owns it.
	ForwardBranch string `mapstructure:"forward_branch"`

	// PublishedBranch is the plain-markdown publish target, mirrored
	// to and from the remote.
	PublishedBranch string `mapstructure:"published_branch"`

	// Remote is the git remote the published branch mirrors.
	Remote string `mapstructure:"remote"`

	// StateFile is the repository-relative path of the sync state record.
	StateFile string `mapstructure:"state_file"`

	// HistoryFile is the repository-relative path of the sync journal.
	HistoryFile string `mapstructure:"history_file"`

	// LogFile, when set, receives watch-mode logs with rotation.
	LogFile string `mapstructure:"log_file"`

	// CommandTimeout bounds every git invocation.
	CommandTimeout time.Duration `mapstructure:"command_timeout"`

	// WatchInterval is the periodic fallback between watch-mode passes.
	WatchInterval time.Duration `mapstructure:"watch_interval"`
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	return &Config{
		VaultBranch:     "obsidian",
		ForwardBranch:   "ob_to_gh",
		PublishedBranch: "master",
		Remote:          "origin",
		StateFile:       ".wikibridge-state.json",
		HistoryFile:     ".wikibridge/history.db",
		CommandTimeout:  5 * time.Minute,
		WatchInterval:   5 * time.Minute,
	}
}

// RequiredBranches returns the branches that must exist before any
// state-changing sync action.
func (c *Config) RequiredBranches() []string {
	return []string{c.VaultBranch, c.ForwardBranch, c.PublishedBranch}
}

// Load reads configuration for the repository at dir. A missing config
// file is not an error; defaults and environment variables still apply.
func Load(dir string) (*Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("vault_branch", def.VaultBranch)
	v.SetDefault("forward_branch", def.ForwardBranch)
	v.SetDefault("published_branch", def.PublishedBranch)
	v.SetDefault("remote", def.Remote)
	v.SetDefault("state_file", def.StateFile)
	v.SetDefault("history_file", def.HistoryFile)
	v.SetDefault("log_file", def.LogFile)
	v.SetDefault("command_timeout", def.CommandTimeout)
	v.SetDefault("watch_interval", def.WatchInterval)

	v.SetConfigName(strings.TrimSuffix(FileName, ".yaml"))
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix("WIKIBRIDGE")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// WriteDefault writes the default config file into dir, for init.
// Returns the written path. Refuses to overwrite an existing file.
func WriteDefault(dir string) (string, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return path, fmt.Errorf("config file already exists: %s", path)
	}

	def := Default()
	// Durations are written as strings ("5m") so the file stays
	// hand-editable; viper parses them back on load.
	data, err := yaml.Marshal(map[string]string{
		"vault_branch":     def.VaultBranch,
		"forward_branch":   def.ForwardBranch,
		"published_branch": def.PublishedBranch,
		"remote":           def.Remote,
		"state_file":       def.StateFile,
		"history_file":     def.HistoryFile,
		"command_timeout":  def.CommandTimeout.String(),
		"watch_interval":   def.WatchInterval.String(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode default config: %w", err)
	}

	header := []byte("# wikibridge configuration\n")
	if err := os.WriteFile(path, append(header, data...), 0644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return path, nil
}

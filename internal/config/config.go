// Package config loads the per-project yati configuration from the root of
// the main checkout. yati.toml is preferred; yati.yaml / yati.yml are read
// when no TOML file exists. A project without a config file gets the zero
// Config.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	yerrors "github.com/simon/yati/internal/errors"
)

// FileNames lists the config files looked up, in order of preference.
var FileNames = []string{"yati.toml", "yati.yaml", "yati.yml"}

type Window struct {
	Name    string `toml:"name" yaml:"name"`
	Command string `toml:"command" yaml:"command"`
}

type TmuxConfig struct {
	Windows []Window `toml:"windows" yaml:"windows"`
}

type Config struct {
	CopyFiles   []string   `toml:"copy_files" yaml:"copy_files"`
	Exclude     []string   `toml:"exclude" yaml:"exclude"`
	PostCreate  []string   `toml:"post_create" yaml:"post_create"`
	PreTeardown []string   `toml:"pre_teardown" yaml:"pre_teardown"`
	Tmux        TmuxConfig `toml:"tmux" yaml:"tmux"`

	// Path is the file the config was read from; empty when none exists.
	Path string `toml:"-" yaml:"-"`
}

// Load reads the config from repoRoot.
// Returns an empty config if no config file exists.
func Load(repoRoot string) (*Config, error) {
	for _, name := range FileNames {
		path := filepath.Join(repoRoot, name)
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, yerrors.ConfigInvalid(path, err)
		}

		cfg, err := parse(name, data)
		if err != nil {
			return nil, yerrors.ConfigInvalid(path, err)
		}
		if err := cfg.Validate(); err != nil {
			return nil, yerrors.ConfigInvalid(path, err)
		}
		cfg.Path = path
		log.Debug("loaded config", "path", path, "windows", len(cfg.Tmux.Windows),
			"post_create", len(cfg.PostCreate), "pre_teardown", len(cfg.PreTeardown))
		return cfg, nil
	}
	return &Config{}, nil
}

func parse(name string, data []byte) (*Config, error) {
	var cfg Config
	var err error
	if filepath.Ext(name) == ".toml" {
		err = toml.Unmarshal(data, &cfg)
	} else {
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that every configured window has a name.
func (c *Config) Validate() error {
	for i, w := range c.Tmux.Windows {
		if w.Name == "" {
			return fmt.Errorf("tmux.windows[%d]: name is required", i)
		}
	}
	return nil
}

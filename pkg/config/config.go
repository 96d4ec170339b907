// Package config loads pis settings from .pis.toml or the [tool.pis] table
// of pyproject.toml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/siyuan-infoblox/py-imports-sort/pkg/errors"
	"github.com/siyuan-infoblox/py-imports-sort/pkg/sorter"
	"github.com/siyuan-infoblox/py-imports-sort/pkg/utils"
)

const (
	// FileName is the dedicated config file name
	FileName = ".pis.toml"
	// PyprojectFileName holds the config under [tool.pis]
	PyprojectFileName = "pyproject.toml"
)

// Config holds the settings that can be set from a file
type Config struct {
	Type        string   `toml:"type"`
	Local       []string `toml:"local"`
	Exclude     []string `toml:"exclude"`
	Jobs        int      `toml:"jobs"`
	ExtraStdlib []string `toml:"extra_stdlib"`

	// Path is the file the config was loaded from, empty for defaults
	Path string `toml:"-"`
}

// Default returns the configuration used when no file is found
func Default() *Config {
	return &Config{Type: sorter.DefaultStrategy.String()}
}

// Strategy returns the parsed sorting strategy
func (c *Config) Strategy() (sorter.Strategy, error) {
	s, err := sorter.ParseStrategy(c.Type)
	if err != nil {
		return 0, errors.Wrap(errors.CodeInvalidStrategy, c.Path, err, errors.ErrMsgInvalidStrategy)
	}
	return s, nil
}

// Validate checks the values loaded from a file
func (c *Config) Validate() error {
	if _, err := c.Strategy(); err != nil {
		return err
	}
	if c.Jobs < 0 {
		return errors.New(errors.CodeInvalidConfig, c.Path, errors.ErrMsgInvalidJobs)
	}
	if _, err := utils.CompileGlobs(c.Exclude); err != nil {
		return errors.Wrap(errors.CodeInvalidConfig, c.Path, err, errors.ErrMsgInvalidExclude)
	}
	return nil
}

// Load reads a config file. A pyproject.toml is read from its [tool.pis]
// table; any other file is read as a whole.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInvalidConfig, path, err, errors.ErrMsgFailedToLoadConfig)
	}

	cfg := Default()
	if filepath.Base(path) == PyprojectFileName {
		var pyproject struct {
			Tool struct {
				Pis Config `toml:"pis"`
			} `toml:"tool"`
		}
		pyproject.Tool.Pis = *cfg
		if _, err := toml.Decode(string(data), &pyproject); err != nil {
			return nil, errors.Wrap(errors.CodeInvalidConfig, path, err, errors.ErrMsgFailedToLoadConfig)
		}
		cfg = &pyproject.Tool.Pis
	} else if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, errors.Wrap(errors.CodeInvalidConfig, path, err, errors.ErrMsgFailedToLoadConfig)
	}

	if cfg.Type == "" {
		cfg.Type = sorter.DefaultStrategy.String()
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Find walks up from start looking for .pis.toml, or a pyproject.toml with
// a [tool.pis] table. The nearest directory wins; within one directory
// .pis.toml wins. It returns "" when nothing is found.
func Find(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errors.ErrMsgFailedToCheckPath, err)
	}
	dir := abs
	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		dir = filepath.Dir(abs)
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		candidate = filepath.Join(dir, PyprojectFileName)
		if hasToolTable(candidate) {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// hasToolTable reports whether path is a pyproject.toml defining [tool.pis]
func hasToolTable(path string) bool {
	var v map[string]any
	md, err := toml.DecodeFile(path, &v)
	if err != nil {
		return false
	}
	return md.IsDefined("tool", "pis")
}

// Discover finds and loads the config that applies to start, falling back
// to Default when there is none.
func Discover(start string) (*Config, error) {
	path, err := Find(start)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const configFile = ".tigress.yaml"

type appConfig struct {
	Verbose      bool   `yaml:"verbose"`
	Typecheck    bool   `yaml:"typecheck"`
	TUI          bool   `yaml:"tui"`
	Jobs         int    `yaml:"jobs"`
	MaxCallDepth int    `yaml:"max_call_depth"`
	MaxArraySize int64  `yaml:"max_array_size"`
	History      string `yaml:"history"`

	Dump bool `yaml:"-"`
}

func defaultConfig() appConfig {
	return appConfig{Jobs: 1}
}

// loadConfig reads path, or the first .tigress.yaml found in the working
// directory or the home directory. A missing default file is not an error.
func loadConfig(path string) (appConfig, error) {
	cfg := defaultConfig()
	explicit := path != ""
	candidates := []string{path}
	if !explicit {
		candidates = []string{configFile}
		if home, err := os.UserHomeDir(); err == nil {
			candidates = append(candidates, filepath.Join(home, configFile))
		}
	}
	for _, p := range candidates {
		f, err := os.Open(p)
		if err != nil {
			if !explicit && os.IsNotExist(err) {
				continue
			}
			return cfg, errors.Wrapf(err, "open %s", p)
		}
		err = decodeConfig(f, &cfg)
		f.Close()
		if err != nil {
			return cfg, errors.Wrapf(err, "decode %s", p)
		}
		break
	}
	if cfg.Jobs < 1 {
		cfg.Jobs = 1
	}
	return cfg, nil
}

func decodeConfig(r io.Reader, cfg *appConfig) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return err
	}
	return nil
}

func (c appConfig) historyPath() string {
	if c.History != "" {
		return c.History
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tigress_history")
}

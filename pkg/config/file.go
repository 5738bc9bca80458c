package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kart-io/feishukit/pkg/errors"
)

// LoadFile reads a YAML configuration file, overlays the environment and
// opts, then validates.
func LoadFile(path string, opts ...Option) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidConfig, "read config file %s", path)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidConfig, "parse config file %s", path)
	}

	ApplyEnvironment(cfg)
	return Build(cfg, opts...)
}

// Parse decodes YAML configuration without applying defaults.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

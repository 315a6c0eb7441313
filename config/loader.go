package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "ERP_"

// Option overrides loaded values, e.g. from command-line flags.
type Option func(*Config)

// Load builds a Config by layering defaults, an optional YAML file, env
// vars and opts, then validates it.
// Order of precedence (low -> high):
//  1. defaults (New)
//  2. file (YAML) at path, when path is not empty
//  3. env (prefix ERP_, "__" separating nested keys)
//  4. opts
func Load(ctx context.Context, path string, opts ...Option) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// ERP_FILTER__LOW_HZ -> filter.low_hz
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := New()
	// Maps merge on unmarshal; a configured mapping replaces the default.
	if k.Exists("epochs.event_id") {
		cfg.Epochs.EventID = nil
	}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrLoadConfig, err)
	}

	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

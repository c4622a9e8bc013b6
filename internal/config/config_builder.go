package config

import (
	"errors"
	"fmt"
	"slices"

	"dario.cat/mergo"
)

// configBuilder collects partial configs in priority order. Source errors
// are accumulated and reported together by build.
type configBuilder struct {
	configs []*StructuredConfig
	err     error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{configs: make([]*StructuredConfig, 0, 3)}
}

func (b *configBuilder) add(cfg *StructuredConfig, err error) *configBuilder {
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}
	b.configs = append(b.configs, cfg)
	return b
}

func (b *configBuilder) build() (*StructuredConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error loading config sources: %w", b.err)
	}

	merged := new(StructuredConfig)
	for _, cfg := range b.configs {
		if err := mergo.Merge(merged, cfg); err != nil {
			return nil, fmt.Errorf("error merging config sources: %w", err)
		}
	}

	merged.applyDefaults()
	if err := merged.validate(); err != nil {
		return nil, err
	}
	return merged, nil
}

func (b *configBuilder) withEnv() *configBuilder {
	cfg := new(StructuredConfig)
	return b.add(cfg, parseEnv(cfg, processEnv()))
}

func (b *configBuilder) withFlags(args []string) *configBuilder {
	return b.add(ParseFlags(args))
}

// withJSON reads the file named by the first source that sets a config path.
func (b *configBuilder) withJSON() *configBuilder {
	i := slices.IndexFunc(b.configs, func(cfg *StructuredConfig) bool {
		return cfg.JSONFilePath != ""
	})
	if i < 0 {
		return b
	}
	return b.add(parseJSON(b.configs[i].JSONFilePath))
}

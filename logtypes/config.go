package logtypes

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseContextConfig decodes a YAML document over DefaultContextConfig and
// validates the result. Keys it does not know end up in Extra.
func ParseContextConfig(data []byte) (ContextConfig, error) {
	cfg := DefaultContextConfig()

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ContextConfig{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return ContextConfig{}, err
	}

	return cfg, nil
}

// ParseRetentionPolicy decodes and validates a YAML retention policy.
func ParseRetentionPolicy(data []byte) (RetentionPolicy, error) {
	var policy RetentionPolicy

	if err := yaml.Unmarshal(data, &policy); err != nil {
		return RetentionPolicy{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if err := policy.Validate(); err != nil {
		return RetentionPolicy{}, err
	}

	return policy, nil
}

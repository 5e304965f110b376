// Package config loads process configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ParseEnvWithPrefix loads configuration from environment variables whose
// names start with prefix, so one struct can be read under several rule-set
// namespaces (for example SWADE_ and HOUSE_).
func ParseEnvWithPrefix(target any, prefix string) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: prefix}); err != nil {
		return fmt.Errorf("parse env with prefix %q: %w", prefix, err)
	}
	return nil
}

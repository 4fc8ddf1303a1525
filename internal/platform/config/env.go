// Package config loads service configuration from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Options controls environment parsing.
type Options struct {
	// Environment replaces the process environment when non-nil.
	Environment map[string]string
	// Prefix is prepended to every env tag.
	Prefix string
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	return ParseEnvWithOptions(target, Options{})
}

// ParseEnvWithOptions loads configuration using opts.
func ParseEnvWithOptions(target any, opts Options) error {
	if err := env.ParseWithOptions(target, env.Options{
		Environment: opts.Environment,
		Prefix:      opts.Prefix,
	}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

package project

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds the environment overrides read at start-up.
type Env struct {
	ConfigPath string `env:"SYMBOLSTUDIO_CONFIG"`
	PresetPath string `env:"SYMBOLSTUDIO_PRESETS"`
	LogLevel   string `env:"SYMBOLSTUDIO_LOG_LEVEL" envDefault:"info"`
	LogJSON    bool   `env:"SYMBOLSTUDIO_LOG_JSON"`
	Family     string `env:"SYMBOLSTUDIO_FAMILY"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadEnv reads Env from the process environment and fills empty paths
// with their defaults.
func LoadEnv() (Env, error) {
	var e Env
	if err := ParseEnv(&e); err != nil {
		return Env{}, err
	}
	return e.withDefaults(), nil
}

// LoadEnvFrom reads Env from the given variables instead of the process
// environment.
func LoadEnvFrom(vars map[string]string) (Env, error) {
	var e Env
	if err := env.ParseWithOptions(&e, env.Options{Environment: vars}); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e.withDefaults(), nil
}

func (e Env) withDefaults() Env {
	if e.ConfigPath == "" {
		e.ConfigPath = DefaultConfigPath()
	}
	if e.PresetPath == "" {
		e.PresetPath = DefaultPresetPath()
	}
	return e
}

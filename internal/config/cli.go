package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// DefaultCLIConfigPath is read when present; a missing file leaves defaults and env in effect.
const DefaultCLIConfigPath = "mafiactl.yml"

// CLI is the configuration of cmd/mafiactl.
type CLI struct {
	DBPath   string `yaml:"db" env:"MAFIACTL_DB" env-default:"mafia.db"`
	LogLevel string `yaml:"log-level" env:"LOG_LEVEL" env-default:"warn"`
}

// LoadCLI reads path as YAML with env overrides, or the environment alone when path does not exist.
func LoadCLI(path string) (CLI, error) {
	var cfg CLI
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, &cfg); err != nil {
				return CLI{}, fmt.Errorf("unable to load config file: %w", err)
			}
			return cfg, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return CLI{}, fmt.Errorf("stat config file: %w", err)
		}
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return CLI{}, fmt.Errorf("read env: %w", err)
	}
	return cfg, nil
}

package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds tool-wide defaults read from an optional TOML file.
// Command line flags override config values; config values override the
// built-in defaults.
type Config struct {
	// AbsTol is the default absolute tolerance for compare.
	AbsTol float64 `toml:"abstol"`

	// DB is the default path of the run history database.
	DB string `toml:"db"`
}

// defaultConfigName is looked up in the user's home directory when no
// --config flag is given.
const defaultConfigName = ".tagcheck.toml"

// defaultDBPath is used when neither flag nor config name a database.
const defaultDBPath = "tagcheck.db"

// LoadConfig reads the TOML config at path. An empty path falls back to
// $HOME/.tagcheck.toml; a missing file is not an error and yields the
// zero config.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	explicit := path != ""
	if !explicit {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(home, defaultConfigName)
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) && !explicit {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	return cfg, nil
}

// DBPath resolves the history database path from flag, config and
// default, in that precedence.
func (c Config) DBPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if c.DB != "" {
		return c.DB
	}
	return defaultDBPath
}

// Tolerance resolves the absolute tolerance from flag, config and
// default, in that precedence. A negative flag value means unset.
func (c Config) Tolerance(flagValue float64) float64 {
	if flagValue >= 0 {
		return flagValue
	}
	if c.AbsTol > 0 {
		return c.AbsTol
	}
	return 1e-10
}

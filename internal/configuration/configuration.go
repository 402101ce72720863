package configuration

import (
	"encoding/json"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"github.com/pkg/errors"

	"github.com/malonaz/deckgpt/internal/file"
)

var defaultConfig = Config{
	OpenaiAPIHost:  "https://api.openai.com/v1",
	RequestTimeout: 60,
	Model:          "gpt-4o",

	Database: &DatabaseConfig{
		Driver: "sqlite",
		Path:   "~/.config/deckgpt/decks.db",
	},

	Editor: &EditorConfig{
		InactivityTimeoutMinutes: 15,
	},
}

// Config holds configuration for the deckgpt tool.
type Config struct {
	OpenaiAPIKey   string `json:"openai_api_key"`
	OpenaiAPIHost  string `json:"openai_api_host"`
	RequestTimeout int    `json:"request_timeout"`
	Model          string `json:"model"`

	Database *DatabaseConfig `json:"database"`
	Editor   *EditorConfig   `json:"editor"`
}

// DatabaseConfig selects where decks persist.
type DatabaseConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver string `json:"driver"`
	// Path of the sqlite database file.
	Path string `json:"path"`
	// DSN of the postgres database, when driver is "postgres".
	DSN string `json:"dsn"`
}

// EditorConfig holds configuration for deckgpt edit.
type EditorConfig struct {
	// The API credential expires after this much user inactivity.
	InactivityTimeoutMinutes int `json:"inactivity_timeout_minutes"`
}

// Parse a configuration file, filling any missing fields with defaults.
func Parse(path string) (*Config, error) {
	path, err := file.ExpandPath(path)
	if err != nil {
		return nil, errors.Wrap(err, "expanding path")
	}

	if err := initializeIfNotPresent(path); err != nil {
		return nil, errors.Wrap(err, "initializing configuration")
	}
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}

	config := &Config{}
	if err = json.Unmarshal(bytes, config); err != nil {
		return nil, errors.Wrap(err, "unmarshaling into config")
	}
	if err := mergo.Merge(config, defaultConfig); err != nil {
		return nil, errors.Wrap(err, "merging defaults")
	}

	expandedDatabasePath, err := file.ExpandPath(config.Database.Path)
	if err != nil {
		return nil, errors.Wrap(err, "expanding database path")
	}
	config.Database.Path = expandedDatabasePath
	return config, nil
}

// save a configuration file.
func (c *Config) save(path string) error {
	bytes, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}

	err = os.WriteFile(path, bytes, 0644)
	if err != nil {
		return errors.Wrap(err, "writing file")
	}

	return nil
}

// initializeIfNotPresent initializes a config if it does not exist.
func initializeIfNotPresent(path string) error {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}

	// Create the directories.
	dir, _ := filepath.Split(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "creating folders")
	}

	if err := defaultConfig.save(path); err != nil {
		return errors.Wrap(err, "saving default config")
	}
	return nil
}

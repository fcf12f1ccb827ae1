// Package config builds the process-wide configuration from the
// environment, an optional env file and command-line overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

const (
	// AppName is the application directory name.
	AppName = "kzone"

	// EnvFile is the optional dotenv file inside the config directory.
	EnvFile = "env"

	// DefaultBaseURL is the KanbanZone integrations API root.
	DefaultBaseURL = "https://integrations.kanbanzone.io/v1"

	// DefaultTimeout bounds a single HTTP request.
	DefaultTimeout = 30 * time.Second
)

// Environment variable names.
const (
	EnvAPIKey  = "KANBANZONE_API_KEY"
	EnvBoardID = "KANBANZONE_BOARD_ID"
	EnvBaseURL = "KANBANZONE_BASE_URL"
)

// Config holds everything a command needs to talk to the API.
// It is built once per invocation and passed down explicitly.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// APIKey is the raw (not yet Base64-encoded) organization key.
	APIKey string

	// Board is the default board public ID.
	Board string

	// BoardExplicit is set when --board was given on the command line.
	BoardExplicit bool

	// BaseURL is the API root, without trailing slash.
	BaseURL string

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// Debug enables debug logging.
	Debug bool

	// Logger receives debug records. Never nil after Load.
	Logger *slog.Logger
}

// Getenv looks up an environment variable; os.Getenv in production.
type Getenv func(key string) string

// Load creates a Config. Values come from getenv first, then from the
// env file in configDir. If configDir is empty, uses DefaultConfigDir.
func Load(configDir string, getenv Getenv) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir(getenv)
	}

	file, err := readEnvFile(filepath.Join(dir, EnvFile))
	if err != nil {
		return nil, err
	}

	lookup := func(key string) string {
		if getenv != nil {
			if v := getenv(key); v != "" {
				return v
			}
		}
		return file[key]
	}

	cfg := &Config{
		Dir:     dir,
		APIKey:  lookup(EnvAPIKey),
		Board:   lookup(EnvBoardID),
		BaseURL: lookup(EnvBaseURL),
		Timeout: DefaultTimeout,
		Logger:  slog.New(slog.DiscardHandler),
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	return cfg, nil
}

// readEnvFile parses a dotenv file without touching the process
// environment. A missing file yields an empty map.
func readEnvFile(path string) (map[string]string, error) {
	vals, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("invalid env file %s: %w", path, err)
	}
	return vals, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir(getenv Getenv) string {
	if getenv != nil {
		if xdg := getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, AppName)
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// OverrideBoard applies the --board flag.
func (c *Config) OverrideBoard(board string) {
	if board == "" {
		return
	}
	c.Board = board
	c.BoardExplicit = true
}

// EnvFilePath returns the path to the optional env file.
func (c *Config) EnvFilePath() string {
	return filepath.Join(c.Dir, EnvFile)
}

// RequireAPIKey reports whether an API key is configured.
func (c *Config) RequireAPIKey() error {
	if c.APIKey == "" {
		return fmt.Errorf("%s environment variable is not set", EnvAPIKey)
	}
	return nil
}

// RequireBoard returns the effective board ID or an error naming both
// ways to provide one.
func (c *Config) RequireBoard() (string, error) {
	if c.Board == "" {
		return "", fmt.Errorf("board ID required: use --board or set %s", EnvBoardID)
	}
	return c.Board, nil
}

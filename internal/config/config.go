package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvQuestions   = "PRACTIZ_QUESTIONS"
	EnvUserDir     = "PRACTIZ_USER_DIR"
	EnvAddr        = "PRACTIZ_ADDR"
	EnvCORSOrigins = "PRACTIZ_CORS_ORIGINS"
)

// Config holds process-wide settings.
type Config struct {
	// QuestionsPath is the question dataset. Empty means the bundled set.
	QuestionsPath string

	// UserDir holds one progress file per user.
	// Default: $XDG_DATA_HOME/practiz/user_data.
	UserDir string

	// Addr is the listen address for `practiz serve`. Default: ":8080".
	Addr string

	// CORSOrigins enables CORS on the web server when non-empty.
	CORSOrigins []string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		UserDir: defaultUserDir(),
		Addr:    ":8080",
	}
}

// LoadDotEnv reads KEY=VALUE pairs from the given files (".env" if none)
// into the environment. Variables already set win. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	if err := godotenv.Load(present...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if p := os.Getenv(EnvQuestions); p != "" {
		cfg.QuestionsPath = p
	}
	if d := os.Getenv(EnvUserDir); d != "" {
		cfg.UserDir = d
	}
	if a := os.Getenv(EnvAddr); a != "" {
		cfg.Addr = a
	}
	if o := os.Getenv(EnvCORSOrigins); o != "" {
		cfg.CORSOrigins = splitList(o)
	}

	return cfg
}

// Validate checks that required values are present and well formed.
func (c Config) Validate() error {
	if c.UserDir == "" {
		return fmt.Errorf("%s is required: cannot determine a progress directory", EnvUserDir)
	}
	if c.Addr != "" {
		if _, _, err := net.SplitHostPort(c.Addr); err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvAddr, c.Addr, err)
		}
	}
	return nil
}

func defaultUserDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "practiz", "user_data")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

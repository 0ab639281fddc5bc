package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/darsihq/darsi/internal/locale"
)

// Config holds client-wide settings resolved from the environment.
type Config struct {
	// APIBaseURL is the platform REST API root, e.g. "https://school.example/api".
	APIBaseURL string

	// Language selects the rendered side of localized text pairs.
	Language locale.Language

	// DBPath is the local SQLite database file (session + activity log).
	DBPath string

	// LogPath is the debug log file. Network failures the learner never
	// sees are written here.
	LogPath string

	// SubjectID scopes the lesson browser. "all" asks the backend for
	// every published lesson the student can see.
	SubjectID string

	// HTTPTimeout bounds a single API request. The lesson flow does not
	// retry; a timed-out action is simply re-triggered by the learner.
	HTTPTimeout time.Duration
}

const (
	defaultBaseURL = "http://localhost:5000/api"
	defaultTimeout = 30 * time.Second
)

// FromEnv builds a Config from environment variables, loading a .env file
// from the working directory first when one exists.
//
//	DARSI_API_BASE_URL  API root (default http://localhost:5000/api)
//	DARSI_LANGUAGE      "ar" or "en" (default "ar")
//	DARSI_DB            SQLite path (default XDG data dir)
//	DARSI_LOG           log file path (default next to the database)
//	DARSI_SUBJECT       subject scope for the lesson browser (default "all")
func FromEnv() (*Config, error) {
	// Missing .env is fine; explicit env vars always win.
	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL:  defaultBaseURL,
		Language:    locale.Arabic,
		SubjectID:   "all",
		HTTPTimeout: defaultTimeout,
	}

	if v := os.Getenv("DARSI_API_BASE_URL"); v != "" {
		cfg.APIBaseURL = v
	}

	if v := os.Getenv("DARSI_SUBJECT"); v != "" {
		cfg.SubjectID = v
	}

	if v := os.Getenv("DARSI_LANGUAGE"); v != "" {
		lang := locale.Language(v)
		if !lang.Valid() {
			return nil, fmt.Errorf("DARSI_LANGUAGE: unsupported language %q", v)
		}
		cfg.Language = lang
	}

	dbPath, err := resolveDBPath()
	if err != nil {
		return nil, err
	}
	cfg.DBPath = dbPath

	if v := os.Getenv("DARSI_LOG"); v != "" {
		cfg.LogPath = v
	} else {
		cfg.LogPath = filepath.Join(filepath.Dir(dbPath), "darsi.log")
	}

	return cfg, nil
}

// resolveDBPath resolves the database file path in priority order:
// 1. DARSI_DB environment variable
// 2. $XDG_DATA_HOME/darsi/darsi.db
// 3. ~/.local/share/darsi/darsi.db
func resolveDBPath() (string, error) {
	if p := os.Getenv("DARSI_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "darsi", "darsi.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir %s: %w", dir, err)
	}
	return nil
}

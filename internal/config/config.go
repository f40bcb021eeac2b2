// Package config resolves analyzer configuration from environment
// variables and CLI flag overrides, per spec.md §6.4.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/codegraph/codegraph/internal/xerrors"
)

const defaultBatchSize = 100

// Config holds every tunable the core and its external collaborators need.
type Config struct {
	LogLevel string
	LogFile  string

	Neo4jURL      string
	Neo4jUser     string
	Neo4jPassword string
	Neo4jDatabase string

	StorageBatchSize int
	TempDir          string
	DefaultDir       string

	Extensions []string
	Ignore     []string
	UpdateSchema bool
	ResetDB      bool
}

// Load reads environment variables (after loading an optional .env file)
// into a Config. It never fails on a missing .env file; it returns a
// ConfigError only for a value that cannot be interpreted at all (there
// are none in the current variable set — STORAGE_BATCH_SIZE degrades to
// the default instead of erroring, matching §6.4's stated fallback).
func Load() (*Config, error) {
	_ = godotenv.Load() // optional; absence is not an error

	c := &Config{
		LogLevel:         envOr("LOG_LEVEL", "info"),
		LogFile:          os.Getenv("LOG_FILE"),
		Neo4jURL:         os.Getenv("NEO4J_URL"),
		Neo4jUser:        os.Getenv("NEO4J_USER"),
		Neo4jPassword:    os.Getenv("NEO4J_PASSWORD"),
		Neo4jDatabase:    envOr("NEO4J_DATABASE", "neo4j"),
		StorageBatchSize: parseBatchSize(os.Getenv("STORAGE_BATCH_SIZE")),
		TempDir:          envOr("TEMP_DIR", os.TempDir()),
		DefaultDir:       os.Getenv("DEFAULT_DIR"),
	}
	return c, nil
}

// Validate checks that a Neo4j target is present whenever writing is
// actually requested; returns a ConfigError otherwise.
func (c *Config) Validate() error {
	if c.Neo4jURL == "" {
		return xerrors.Config("NEO4J_URL is required", nil)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBatchSize(raw string) int {
	if raw == "" {
		return defaultBatchSize
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return defaultBatchSize
	}
	return n
}

// ScopedTempDir creates a unique per-run subdirectory under c.TempDir for
// transient artifacts. The caller must remove it on every exit path
// (§3.6).
func ScopedTempDir(c *Config, prefix string) (string, error) {
	dir, err := os.MkdirTemp(c.TempDir, prefix+"-*")
	if err != nil {
		return "", xerrors.FileSystem(c.TempDir, err)
	}
	return filepath.Clean(dir), nil
}

// Package config loads runtime settings from an optional .env file and the
// process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultAddr     = ":8080"
	DefaultMaxBytes = 1 << 20
)

// Config holds the settings shared by the CLI and the HTTP server.
type Config struct {
	// Addr is the listen address of the HTTP server.
	Addr string
	// HistoryPath is the SQLite file for the conversion log. Empty
	// disables the log.
	HistoryPath string
	// Strict reports block nesting problems as errors.
	Strict bool
	// MaxBytes limits the size of a conversion request body.
	MaxBytes int64
}

// Merge returns c with every non-zero field of override applied.
func (c Config) Merge(override Config) Config {
	result := c
	if addr := strings.TrimSpace(override.Addr); addr != "" {
		result.Addr = addr
	}
	if path := strings.TrimSpace(override.HistoryPath); path != "" {
		result.HistoryPath = path
	}
	if override.Strict {
		result.Strict = true
	}
	if override.MaxBytes > 0 {
		result.MaxBytes = override.MaxBytes
	}
	return result
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.Addr) == "" {
		c.Addr = DefaultAddr
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = DefaultMaxBytes
	}
}

// Load reads the given .env files, or ./.env when none are named, and then
// the PSEINT_* environment variables. Missing .env files are ignored;
// variables already set in the environment win over the files.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	cfg, err := fromEnv()
	if err != nil {
		return Config{}, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func fromEnv() (Config, error) {
	cfg := Config{
		Addr:        strings.TrimSpace(os.Getenv("PSEINT_ADDR")),
		HistoryPath: strings.TrimSpace(os.Getenv("PSEINT_HISTORY")),
	}
	if strict := strings.TrimSpace(os.Getenv("PSEINT_STRICT")); strict != "" {
		v, err := strconv.ParseBool(strict)
		if err != nil {
			return Config{}, fmt.Errorf("parse PSEINT_STRICT: %w", err)
		}
		cfg.Strict = v
	}
	if limit := strings.TrimSpace(os.Getenv("PSEINT_MAX_BYTES")); limit != "" {
		v, err := strconv.ParseInt(limit, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("parse PSEINT_MAX_BYTES: %w", err)
		}
		if v > 0 {
			cfg.MaxBytes = v
		}
	}
	return cfg, nil
}

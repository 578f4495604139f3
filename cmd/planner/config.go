package main

import (
	"os"
	"path/filepath"
	"time"
)

type Config struct {
	CacheDir     string        `env:"PLANNER_CACHE_DIR"`
	ListsDir     string        `env:"PLANNER_LISTS_DIR"`
	LogLevel     string        `env:"LOG_LEVEL,default=info"`
	GeminiAPIKey string        `env:"GEMINI_API_KEY"`
	SyncTimeout  time.Duration `env:"SYNC_TIMEOUT,default=30s"`
	SendTimeout  time.Duration `env:"SEND_TIMEOUT,default=15s"`
}

// applyDefaults fills the directories from the user's home when the
// environment leaves them empty. Tags cannot expand "~".
func (c *Config) applyDefaults() error {
	if c.CacheDir != "" && c.ListsDir != "" {
		return nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	root := filepath.Join(home, ".party_planner")
	if c.CacheDir == "" {
		c.CacheDir = filepath.Join(root, "cache")
	}
	if c.ListsDir == "" {
		c.ListsDir = filepath.Join(root, "lists")
	}
	return nil
}

package main

import (
	"os"
	"path/filepath"

	"github.com/ayusman/neonorb/internal/config"
	"github.com/ayusman/neonorb/internal/store"
)

// dataDir returns ~/.neonorb, or "" when the home directory is unknown.
func dataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".neonorb")
}

func defaultConfigPath() string {
	dir := dataDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// openStore opens the recordings database, defaulting to ~/.neonorb/neonorb.db.
func openStore(cfg config.Config) (*store.Store, error) {
	path := cfg.Store.Path
	if path == "" {
		path = filepath.Join(dataDir(), "neonorb.db")
	}
	return store.New(path)
}

// findWebDir searches for the viewer directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.neonorb/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	dir := dataDir()
	if dir == "" {
		return ""
	}

	homeWebDir := filepath.Join(dir, "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}

package store

import (
	"fmt"
	"os"
)

const (
	// DefaultDBFile matches the default the collector has always used, so
	// existing databases keep working without configuration.
	DefaultDBFile = "wastewater.sqlite"
)

// CheckExists verifies if the datastore exists at the given path.
// Returns true if the store exists, false otherwise.
func CheckExists(dbPath string) (bool, error) {
	info, err := os.Stat(dbPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check store existence: %w", err)
	}
	if info.IsDir() {
		return false, fmt.Errorf("datastore path is a directory, expected file: %s", dbPath)
	}
	return true, nil
}

// ResolveDBPath returns the database path to use, falling back to the
// default file in the working directory when none is configured.
func ResolveDBPath(path string) string {
	if path == "" {
		return DefaultDBFile
	}
	return path
}

// Package storage provides persistent storage for user preferences,
// game statistics and calibration profiles.
package storage

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "eegchess"

// GetDataDir returns the platform-specific data directory for the application.
// - macOS: ~/Library/Application Support/eegchess/
// - Linux: ~/.local/share/eegchess/
// - Windows: %APPDATA%/eegchess/
func GetDataDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "darwin":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		baseDir = filepath.Join(homeDir, "Library", "Application Support")

	case "windows":
		baseDir = os.Getenv("APPDATA")
		if baseDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(homeDir, "AppData", "Roaming")
		}

	default:
		// Linux and other Unix-like: check XDG_DATA_HOME first
		baseDir = os.Getenv("XDG_DATA_HOME")
		if baseDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(homeDir, ".local", "share")
		}
	}

	dataDir := filepath.Join(baseDir, appName)

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	return dataDir, nil
}

// GetDatabaseDir returns the directory for storing the BadgerDB database.
func GetDatabaseDir() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}

	dbDir := filepath.Join(dataDir, "db")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return "", err
	}

	return dbDir, nil
}

// GetRecordingsDir returns the directory for raw EEG session recordings.
// Recordings stay local; this directory is only written when the user
// enables recording.
func GetRecordingsDir() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}

	recDir := filepath.Join(dataDir, "recordings")
	if err := os.MkdirAll(recDir, 0755); err != nil {
		return "", err
	}

	return recDir, nil
}

// GetPieceSetsDir returns the directory users can drop SVG piece sets
// into. Each set is a subdirectory with one file per piece.
func GetPieceSetsDir() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}

	setsDir := filepath.Join(dataDir, "pieces")
	if err := os.MkdirAll(setsDir, 0755); err != nil {
		return "", err
	}

	return setsDir, nil
}

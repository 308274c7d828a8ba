package utils

import (
	"os"
	"path/filepath"
	"runtime"
)

// GetConfigDir returns the appropriate configuration directory for the current operating system
func GetConfigDir() string {
	var appDataDir string

	switch runtime.GOOS {
	case "windows":
		// Windows: %APPDATA%\MacroTool
		appData := os.Getenv("APPDATA")
		if appData != "" {
			appDataDir = filepath.Join(appData, "MacroTool")
		}
	case "darwin":
		// macOS: ~/Library/Application Support/MacroTool
		homeDir, err := os.UserHomeDir()
		if err == nil {
			appDataDir = filepath.Join(homeDir, "Library", "Application Support", "MacroTool")
		}
	}

	if appDataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			appDataDir = filepath.Join(homeDir, ".macrotool")
		} else {
			appDataDir = filepath.Join(".", "configs")
		}
	}

	return appDataDir
}

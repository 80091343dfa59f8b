package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// GetConfigPath determines the configuration file path.
// Priority:
// 1. explicit path (returned as-is so a missing file is reported to the caller)
// 2. TICKETWATCH_CONFIG_PATH environment variable
// 3. config.yaml / config.json in the current working directory
// 4. config.yaml / config.json in the executable's directory
// 5. $XDG_CONFIG_HOME/ticketwatch/config.yaml (or .json)
func GetConfigPath(configFilePathFlag string) string {
	if configFilePathFlag != "" {
		return configFilePathFlag
	}

	envPath := os.Getenv(EnvConfigPath)
	if envPath != "" {
		if fileExists(envPath) {
			return envPath
		}
	}

	cwd, errCwd := os.Getwd()
	exePath, errExe := os.Executable()
	exeDir := ""
	if errExe == nil {
		exeDir = filepath.Dir(exePath)
	}

	defaultFiles := []string{"config.yaml", "config.json"}
	locations := []string{}

	if errCwd == nil {
		locations = append(locations, cwd)
	}
	if exeDir != "" && (errCwd != nil || exeDir != cwd) {
		locations = append(locations, exeDir)
	}

	for _, loc := range locations {
		for _, file := range defaultFiles {
			path := filepath.Join(loc, file)
			if fileExists(path) {
				return path
			}
		}
	}

	for _, file := range defaultFiles {
		if path, err := xdg.SearchConfigFile(filepath.Join(AppName, file)); err == nil {
			return path
		}
	}
	return ""
}

// XDGConfigDir returns the per-user config directory, e.g. ~/.config/ticketwatch on Linux.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) || err != nil {
		return false
	}
	return !info.IsDir()
}

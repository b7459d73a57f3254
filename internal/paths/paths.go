package paths

import (
	"os"
	"path/filepath"
)

// GetHome returns TOOLPROBE_HOME or ~/.toolprobe default
func GetHome() string {
	home := os.Getenv("TOOLPROBE_HOME")
	if home == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ".toolprobe"
		}
		return filepath.Join(homeDir, ".toolprobe")
	}
	return ExpandPath(home)
}

// GetDBPath returns $TOOLPROBE_HOME/history.db
func GetDBPath() string {
	return filepath.Join(GetHome(), "history.db")
}

// GetSettingsPath returns $TOOLPROBE_HOME/settings.json
func GetSettingsPath() string {
	return filepath.Join(GetHome(), "settings.json")
}

// ExpandPath expands ~ to home directory
func ExpandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			if len(path) == 1 {
				return homeDir
			}
			return filepath.Join(homeDir, path[1:])
		}
	}
	return path
}

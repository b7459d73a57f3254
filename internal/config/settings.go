package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/renato0307/toolprobe/internal/paths"
)

// Settings represents the structure of $TOOLPROBE_HOME/settings.json.
// Every field is optional; unset fields fall back to flag defaults.
type Settings struct {
	CleanArgs             StringArray `json:"clean_args,omitempty"`
	CleanupTimeoutSeconds *int        `json:"cleanup_timeout_seconds,omitempty"`
	Debug                 *bool       `json:"debug,omitempty"`
	MaxLogFiles           *int        `json:"max_log_files,omitempty"`
	NoHistory             *bool       `json:"no_history,omitempty"`
	Parallel              *int        `json:"parallel,omitempty"`
	Root                  string      `json:"root,omitempty"`
	TimeoutSeconds        *int        `json:"timeout_seconds,omitempty"`
	Tool                  string      `json:"tool,omitempty"`
}

// StringArray supports both JSON arrays and comma-separated strings
type StringArray []string

// UnmarshalJSON implements custom unmarshaling for StringArray
func (sa *StringArray) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*sa = arr
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*sa = parseCommaSeparated(str)
	return nil
}

// parseCommaSeparated splits comma-separated string and trims whitespace
func parseCommaSeparated(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// LoadSettings loads settings from $TOOLPROBE_HOME/settings.json (or ~/.toolprobe/settings.json if not set)
// Returns empty Settings if file doesn't exist (not an error)
func LoadSettings() (*Settings, error) {
	return LoadSettingsFrom(paths.GetSettingsPath())
}

// LoadSettingsFrom loads settings from an explicit path
func LoadSettingsFrom(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{}, nil
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("invalid settings.json: %w", err)
	}

	if settings.Tool != "" {
		settings.Tool = paths.ExpandPath(settings.Tool)
	}
	if settings.Root != "" {
		settings.Root = paths.ExpandPath(settings.Root)
	}

	return &settings, nil
}

// SaveSettings saves settings to $TOOLPROBE_HOME/settings.json
func SaveSettings(settings *Settings) error {
	path := paths.GetSettingsPath()
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	return nil
}

package util

import (
	"os"
	"path/filepath"
	"strings"
)

// DataDir is where app keeps its database and log.
func DataDir(app string) string {
	return filepath.Join(xdgBase("XDG_DATA_HOME", ".local", "share"), app)
}

// ReportsDir is where generated schedules are written by default.
func ReportsDir(app string) string {
	return filepath.Join(documentsDir(), app, "reports")
}

// xdgBase returns $env, or the home-relative fallback when it is unset.
func xdgBase(env string, fallback ...string) string {
	if base := strings.TrimSpace(os.Getenv(env)); base != "" {
		return base
	}
	return filepath.Join(append([]string{homeDir()}, fallback...)...)
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return home
}

func documentsDir() string {
	if dir := strings.TrimSpace(os.Getenv("XDG_DOCUMENTS_DIR")); dir != "" {
		return expandUserDir(dir)
	}
	data, err := os.ReadFile(filepath.Join(xdgBase("XDG_CONFIG_HOME", ".config"), "user-dirs.dirs"))
	if err == nil {
		if dir := lookupUserDir(string(data), "XDG_DOCUMENTS_DIR"); dir != "" {
			return expandUserDir(dir)
		}
	}
	return filepath.Join(homeDir(), "Documents")
}

// lookupUserDir reads one KEY="value" entry from a user-dirs.dirs file.
func lookupUserDir(data, key string) string {
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") {
			continue
		}
		if value, ok := strings.CutPrefix(line, key+"="); ok {
			return strings.Trim(value, `"`)
		}
	}
	return ""
}

func expandUserDir(dir string) string {
	return os.Expand(dir, func(name string) string {
		if name != "HOME" {
			return os.Getenv(name)
		}
		return homeDir()
	})
}

// Package paths resolves the desktop-aware workspace the application uses
// for logs, cached data and exported reports.
package paths

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/config"
)

func existingDir(candidates []string) string {
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
	}
	return ""
}

// DesktopPath returns the user's Desktop directory, creating a fallback under
// the home directory when none exists. On Windows the OneDrive-redirected
// desktops take precedence.
func DesktopPath(createIfMissing bool) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	var candidates []string
	if runtime.GOOS == "windows" {
		if oneDrive := os.Getenv("OneDrive"); oneDrive != "" {
			candidates = append(candidates, filepath.Join(oneDrive, "Desktop"))
		}
		if oneDriveConsumer := os.Getenv("OneDriveConsumer"); oneDriveConsumer != "" {
			candidates = append(candidates, filepath.Join(oneDriveConsumer, "Desktop"))
		}
		if userProfile := os.Getenv("USERPROFILE"); userProfile != "" {
			candidates = append(candidates, filepath.Join(userProfile, "Desktop"))
		}
	}
	candidates = append(candidates, filepath.Join(home, "Desktop"))

	if desktop := existingDir(candidates); desktop != "" {
		return desktop, nil
	}

	fallback := candidates[len(candidates)-1]
	if createIfMissing {
		if err := os.MkdirAll(fallback, 0755); err != nil {
			return "", err
		}
	}
	return fallback, nil
}

// AppWorkspace returns the application folder on the desktop.
func AppWorkspace(createIfMissing bool) (string, error) {
	desktop, err := DesktopPath(createIfMissing)
	if err != nil {
		return "", err
	}
	folder := filepath.Join(desktop, config.AppFolderName)
	if createIfMissing {
		if err := os.MkdirAll(folder, 0755); err != nil {
			return "", err
		}
	}
	return folder, nil
}

// ReportsPath returns the exported-reports directory inside the workspace.
func ReportsPath(createIfMissing bool) (string, error) {
	workspace, err := AppWorkspace(createIfMissing)
	if err != nil {
		return "", err
	}
	reports := filepath.Join(workspace, "reportes")
	if createIfMissing {
		if err := os.MkdirAll(reports, 0755); err != nil {
			return "", err
		}
	}
	return reports, nil
}

// CachePath returns the local cache directory inside the workspace, used as
// the file fallback when no database is configured.
func CachePath(createIfMissing bool) (string, error) {
	workspace, err := AppWorkspace(createIfMissing)
	if err != nil {
		return "", err
	}
	cache := filepath.Join(workspace, "cache")
	if createIfMissing {
		if err := os.MkdirAll(cache, 0755); err != nil {
			return "", err
		}
	}
	return cache, nil
}

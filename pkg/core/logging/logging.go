// Package logging wires the process-wide logger to the app workspace.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/martinechavarriaurrea-sys/analista-financiero/pkg/core/paths"
)

// Configure sends the standard logger to app.log in the workspace and to
// stderr. When the workspace cannot be created, stderr-only logging is kept
// and the error is returned for the caller to report.
func Configure() error {
	log.SetFlags(log.LstdFlags | log.Lmsgprefix)

	workspace, err := paths.AppWorkspace(true)
	if err != nil {
		return fmt.Errorf("resolve app workspace: %w", err)
	}

	logFile, err := os.OpenFile(filepath.Join(workspace, "app.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	log.SetOutput(io.MultiWriter(logFile, os.Stderr))
	return nil
}

// Package logging persists preview session logs and reads them back.
package logging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

const logExt = ".log"

// PathManager handles log file path construction and directory management.
type PathManager struct {
	baseDir string
}

// NewPathManager creates a new PathManager with the given base directory.
// The base directory is typically ~/.local/share/canvas/logs.
func NewPathManager(baseDir string) *PathManager {
	return &PathManager{baseDir: baseDir}
}

// BaseDir returns the base log directory.
func (p *PathManager) BaseDir() string {
	return p.baseDir
}

// SessionLogPath returns the full path for a session's log file.
// Path format: <baseDir>/<sessionID>.log
func (p *PathManager) SessionLogPath(sessionID string) string {
	return filepath.Join(p.baseDir, sessionID+logExt)
}

// EnsureSessionLog creates the log directory if needed and returns the session's log path.
func (p *PathManager) EnsureSessionLog(sessionID string) (string, error) {
	if err := os.MkdirAll(p.baseDir, 0o750); err != nil {
		return "", fmt.Errorf("create log directory: %w", err)
	}
	return p.SessionLogPath(sessionID), nil
}

// LogExists checks if a log file exists for the given session.
func (p *PathManager) LogExists(sessionID string) bool {
	_, err := os.Stat(p.SessionLogPath(sessionID))
	return err == nil
}

// RemoveSessionLog removes a session's log file if it exists.
func (p *PathManager) RemoveSessionLog(sessionID string) error {
	if err := os.Remove(p.SessionLogPath(sessionID)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session log: %w", err)
	}
	return nil
}

// ListSessionLogs returns the sorted IDs of sessions that have log files.
func (p *PathManager) ListSessionLogs() ([]string, error) {
	entries, err := os.ReadDir(p.baseDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read log directory: %w", err)
	}

	var sessions []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if id, ok := strings.CutSuffix(entry.Name(), logExt); ok {
			sessions = append(sessions, id)
		}
	}
	slices.Sort(sessions)
	return sessions, nil
}

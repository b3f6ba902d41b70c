package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// TeeWriter writes to a primary writer and appends to a log file.
// It implements io.WriteCloser and is safe for concurrent use.
type TeeWriter struct {
	primary io.Writer
	logFile *os.File
	mu      sync.Mutex
	now     func() time.Time
}

// NewTeeWriter opens logPath for appending and returns a writer that copies
// to primary as well. A nil primary makes it a log-only writer.
func NewTeeWriter(primary io.Writer, logPath string) (*TeeWriter, error) {
	//nolint:gosec // G302/G304: logPath comes from PathManager
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	return &TeeWriter{
		primary: primary,
		logFile: logFile,
		now:     time.Now,
	}, nil
}

// Write writes data to the log file first, then to the primary writer.
func (t *TeeWriter) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.write(p)
}

func (t *TeeWriter) write(p []byte) (int, error) {
	if t.logFile != nil {
		if _, err := t.logFile.Write(p); err != nil {
			return 0, fmt.Errorf("write to log file: %w", err)
		}
	}
	if t.primary != nil {
		return t.primary.Write(p)
	}
	return len(p), nil
}

// WriteLine writes one timestamped, newline-terminated log line.
//
//	2025-01-02T03:04:05Z [stdout] VITE v5.4.0 ready in 312 ms
func (t *TeeWriter) WriteLine(stream, line string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry := fmt.Sprintf("%s [%s] %s\n", t.now().UTC().Format(time.RFC3339), stream, line)
	_, err := t.write([]byte(entry))
	return err
}

// Close closes the log file. The primary writer is not closed.
func (t *TeeWriter) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.logFile != nil {
		if err := t.logFile.Close(); err != nil {
			return fmt.Errorf("close log file: %w", err)
		}
		t.logFile = nil
	}
	return nil
}

// Sync flushes the log file to disk.
func (t *TeeWriter) Sync() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.logFile != nil {
		return t.logFile.Sync()
	}
	return nil
}

// LogPath returns the path of the log file, or empty string once closed.
func (t *TeeWriter) LogPath() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.logFile != nil {
		return t.logFile.Name()
	}
	return ""
}

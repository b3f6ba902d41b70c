package logging

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// DefaultTailLines is the default number of lines to read when tailing.
const DefaultTailLines = 100

// Reader reads session log files.
type Reader struct {
	pathMgr *PathManager
}

// NewReader creates a new Reader with the given PathManager.
func NewReader(pathMgr *PathManager) *Reader {
	return &Reader{pathMgr: pathMgr}
}

// ReadAll reads the entire log file for a session.
func (r *Reader) ReadAll(sessionID string) ([]string, error) {
	return readAllLines(r.pathMgr.SessionLogPath(sessionID))
}

// ReadLastN reads the last n lines from a session's log file.
// If n <= 0, uses DefaultTailLines.
func (r *Reader) ReadLastN(sessionID string, n int) ([]string, error) {
	if n <= 0 {
		n = DefaultTailLines
	}
	return readLastNLines(r.pathMgr.SessionLogPath(sessionID), n)
}

// Follow streams lines appended after the call, like `tail -f`.
// It blocks until ctx is cancelled, polling every pollInterval.
func (r *Reader) Follow(ctx context.Context, sessionID string, out io.Writer, pollInterval time.Duration) error {
	file, err := os.Open(r.pathMgr.SessionLogPath(sessionID))
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("seek to end: %w", err)
	}

	reader := bufio.NewReader(file)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := drain(reader, out); err != nil {
				return err
			}
		}
	}
}

// drain copies everything currently readable, including a partial last line.
func drain(reader *bufio.Reader, out io.Writer) error {
	for {
		line, err := reader.ReadBytes('\n')
		if len(line) > 0 {
			if _, werr := out.Write(line); werr != nil {
				return fmt.Errorf("write output: %w", werr)
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read line: %w", err)
		}
	}
}

// FollowWithHistory prints the last n lines and then follows, like `tail -n N -f`.
// A log that does not exist yet has no history.
func (r *Reader) FollowWithHistory(ctx context.Context, sessionID string, out io.Writer, n int, pollInterval time.Duration) error {
	lines, err := r.ReadLastN(sessionID, n)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return fmt.Errorf("write history: %w", err)
		}
	}

	return r.Follow(ctx, sessionID, out, pollInterval)
}

func readAllLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan log file: %w", err)
	}

	return lines, nil
}

// readLastNLines keeps the last n lines in a ring buffer while scanning.
func readLastNLines(path string, n int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	ring := make([]string, n)
	idx, count := 0, 0

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % n
		count++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan log file: %w", err)
	}

	if count < n {
		return ring[:count], nil
	}

	result := make([]string, n)
	for i := range n {
		result[i] = ring[(idx+i)%n]
	}
	return result, nil
}

package logging

import (
	"bytes"
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestLog(t *testing.T, pm *PathManager, sessionID string, lines []string) string {
	t.Helper()
	path, err := pm.EnsureSessionLog(sessionID)
	require.NoError(t, err)

	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// syncBuffer is a bytes.Buffer safe for a writer goroutine and a polling reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestReader_ReadAll(t *testing.T) {
	pm := NewPathManager(t.TempDir())
	lines := []string{"line1", "line2", "line3"}
	createTestLog(t, pm, "s1", lines)

	got, err := NewReader(pm).ReadAll("s1")
	require.NoError(t, err)
	assert.Equal(t, lines, got)

	_, err = NewReader(pm).ReadAll("missing")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReader_ReadLastN(t *testing.T) {
	pm := NewPathManager(t.TempDir())
	var lines []string
	for i := 1; i <= 10; i++ {
		lines = append(lines, "line"+string(rune('0'+i%10)))
	}
	createTestLog(t, pm, "s1", lines)
	createTestLog(t, pm, "empty", nil)
	reader := NewReader(pm)

	tests := []struct {
		name string
		id   string
		n    int
		want []string
	}{
		{name: "last 3", id: "s1", n: 3, want: lines[7:]},
		{name: "exactly all", id: "s1", n: 10, want: lines},
		{name: "more than available", id: "s1", n: 50, want: lines},
		{name: "default when zero", id: "s1", n: 0, want: lines},
		{name: "empty file", id: "empty", n: 5, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reader.ReadLastN(tt.id, tt.n)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReader_Follow(t *testing.T) {
	pm := NewPathManager(t.TempDir())
	path := createTestLog(t, pm, "s1", []string{"old"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() {
		done <- NewReader(pm).Follow(ctx, "s1", out, 5*time.Millisecond)
	}()

	// Give Follow time to seek to the end before appending
	time.Sleep(20 * time.Millisecond)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("new line\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	assert.Eventually(t, func() bool { return out.String() == "new line\n" }, time.Second, 5*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestReader_FollowWithHistory(t *testing.T) {
	pm := NewPathManager(t.TempDir())
	createTestLog(t, pm, "s1", []string{"a", "b", "c"})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	out := &syncBuffer{}
	err := NewReader(pm).FollowWithHistory(ctx, "s1", out, 2, 5*time.Millisecond)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "b\nc\n", out.String())
}

func TestReader_Follow_MissingLog(t *testing.T) {
	pm := NewPathManager(t.TempDir())
	err := NewReader(pm).FollowWithHistory(context.Background(), "nope", &syncBuffer{}, 5, time.Millisecond)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

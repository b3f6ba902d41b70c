package isolate

import (
	"bytes"
	"errors"
	"net"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/jmgilman/canvas/internal/exec"
	"github.com/jmgilman/canvas/internal/logclean"
)

// maxLine bounds buffered output without a newline.
const maxLine = 64 * 1024

// lineWriter splits written bytes into lines and passes each to fn.
type lineWriter struct {
	mu  sync.Mutex
	buf []byte
	fn  func(line string)
}

func newLineWriter(fn func(line string)) *lineWriter {
	return &lineWriter{fn: fn}
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		line := strings.TrimSuffix(string(w.buf[:i]), "\r")
		w.buf = w.buf[i+1:]
		w.fn(line)
	}
	if len(w.buf) >= maxLine {
		w.fn(string(w.buf))
		w.buf = nil
	}
	return len(p), nil
}

// Flush emits a trailing partial line.
func (w *lineWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.buf) > 0 {
		w.fn(string(w.buf))
		w.buf = nil
	}
}

// bannerRe matches the dev server's local address line, e.g.
// "  ➜  Local:   http://localhost:5173/".
var bannerRe = regexp.MustCompile(`(?i)\bLocal:\s+(https?://\S+)`)

// readyURL extracts the dev server URL from a banner line and rewrites it to
// the address published on the host. Returns false for other lines.
func readyURL(line string, hostPort int) (string, bool) {
	m := bannerRe.FindStringSubmatch(logclean.Sanitize(line))
	if m == nil {
		return "", false
	}

	u, err := url.Parse(m[1])
	if err != nil || u.Host == "" {
		return "", false
	}

	port := u.Port()
	if hostPort > 0 {
		port = strconv.Itoa(hostPort)
	}
	if port == "" {
		u.Host = "localhost"
	} else {
		u.Host = net.JoinHostPort("localhost", port)
	}
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String(), true
}

// spawnedProcess flushes partial output lines once the process exits.
// Kill stops the command inside the runtime as well as the local client.
type spawnedProcess struct {
	exec.Process
	once  sync.Once
	flush func()
	stop  func() error
}

func (p *spawnedProcess) Wait() (int, error) {
	code, err := p.Process.Wait()
	p.once.Do(p.flush)
	return code, err
}

func (p *spawnedProcess) Kill() error {
	var stopErr error
	if p.stop != nil {
		stopErr = p.stop()
	}
	return errors.Join(stopErr, p.Process.Kill())
}

// Package logclean strips terminal control sequences and progress noise from
// raw process output so it can be shown as plain log lines.
package logclean

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Passes run after escape sequences are stripped, in this order. Each one
// only removes or shortens text, so repeating them always reaches a fixed
// point.
var passes = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`\r`), ""},
	// Progress bar tails like "building /" or a bare "|" line.
	{regexp.MustCompile(`(?m)(?:^|[ \t]+)[/\\|][ \t]*$`), ""},
	// Braille and circle spinner frames.
	{regexp.MustCompile(`[\x{2800}-\x{28FF}◐◓◑◒]`), ""},
	{regexp.MustCompile(`\n{3,}`), "\n\n"},
}

// Sanitize returns raw without control sequences and spinner residue.
// It is idempotent: Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(raw string) string {
	out := raw
	for {
		next := ansi.Strip(out)
		for _, p := range passes {
			next = p.re.ReplaceAllString(next, p.repl)
		}
		if next == out {
			return out
		}
		out = next
	}
}
// Lines sanitizes raw and returns its lines that contain visible text.
func Lines(raw string) []string {
	clean := Sanitize(raw)
	lines := make([]string, 0, strings.Count(clean, "\n")+1)
	for _, line := range strings.Split(clean, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

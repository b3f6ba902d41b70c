// Package artifact defines generated code artifacts, the results of running
// them, and the normalizer that turns a snippet into a mountable component.
package artifact

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNoFiles is returned when an artifact is created without files.
var ErrNoFiles = errors.New("artifact has no files")

// File is one source file of an artifact.
type File struct {
	Path     string `json:"path"`
	Content  string `json:"content"`
	Language string `json:"language"`
}

// CodeArtifact is a unit of generated code submitted for preview or
// execution. It is not modified after New returns.
type CodeArtifact struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Files     []File    `json:"files"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"createdAt"`
}

// New creates an artifact with a fresh id. The first file is the main file.
func New(title, language string, files ...File) (*CodeArtifact, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	for i, f := range files {
		if strings.TrimSpace(f.Path) == "" {
			return nil, fmt.Errorf("file %d: empty path", i)
		}
	}

	return &CodeArtifact{
		ID:        uuid.New(),
		Title:     title,
		Files:     slices.Clone(files),
		Language:  strings.ToLower(strings.TrimSpace(language)),
		CreatedAt: time.Now().UTC(),
	}, nil
}

// FromCode creates a single-file artifact. The file is named after the
// language, for example main.jsx or main.py.
func FromCode(title, language, code string) (*CodeArtifact, error) {
	lang := strings.ToLower(strings.TrimSpace(language))
	return New(title, lang, File{Path: "main." + extension(lang), Content: code, Language: lang})
}

// Main returns the canonical file.
func (a *CodeArtifact) Main() File {
	return a.Files[0]
}

func extension(lang string) string {
	switch lang {
	case "python", "py":
		return "py"
	case "javascript", "js":
		return "js"
	case "typescript", "ts", "tsx":
		return "tsx"
	case "html":
		return "html"
	case "":
		return "txt"
	default:
		return "jsx"
	}
}

// LogType classifies a console log line.
type LogType string

// Console log types.
const (
	LogTypeLog   LogType = "log"
	LogTypeError LogType = "error"
	LogTypeWarn  LogType = "warn"
	LogTypeInfo  LogType = "info"
)

// ParseLogType maps browser console API names onto a LogType.
// Unknown names such as "debug" or "trace" become LogTypeLog.
func ParseLogType(s string) LogType {
	switch LogType(strings.ToLower(s)) {
	case LogTypeError, "assert":
		return LogTypeError
	case LogTypeWarn, "warning":
		return LogTypeWarn
	case LogTypeInfo:
		return LogTypeInfo
	default:
		return LogTypeLog
	}
}

// ConsoleLog is a single captured log line.
type ConsoleLog struct {
	Type      LogType   `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// ExecutionResult is the outcome of one remote execution.
type ExecutionResult struct {
	Output string       `json:"output"`
	Error  string       `json:"error,omitempty"`
	Logs   []ConsoleLog `json:"logs"`
	Images []string     `json:"images,omitempty"`
}

// Failed builds a result that carries only an error message.
func Failed(msg string) ExecutionResult {
	return ExecutionResult{Error: msg, Logs: []ConsoleLog{}}
}

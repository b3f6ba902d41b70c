package project

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// ErrInvalidPath is returned for tree entries that would escape the target.
var ErrInvalidPath = errors.New("invalid tree entry name")

// FileTree maps entry names to nodes. Its JSON form is
//
//	{"package.json": {"file": {"contents": "..."}}, "src": {"directory": {...}}}
type FileTree map[string]Node

// Node is either a file or a directory.
type Node struct {
	File      *FileContents `json:"file,omitempty"`
	Directory FileTree      `json:"directory,omitempty"`
}

// FileContents holds a file leaf.
type FileContents struct {
	Contents string `json:"contents"`
}

// NewFile returns a file node.
func NewFile(contents string) Node {
	return Node{File: &FileContents{Contents: contents}}
}

// NewDirectory returns a directory node.
func NewDirectory(children FileTree) Node {
	if children == nil {
		children = FileTree{}
	}
	return Node{Directory: children}
}

// IsDir reports whether n is a directory.
func (n Node) IsDir() bool {
	return n.File == nil
}

// Files flattens the tree into slash-separated path to contents.
func (t FileTree) Files() map[string]string {
	out := make(map[string]string)
	t.walk("", func(p string, contents string) {
		out[p] = contents
	})
	return out
}

func (t FileTree) walk(prefix string, fn func(p, contents string)) {
	for _, name := range sortedKeys(t) {
		node := t[name]
		p := path.Join(prefix, name)
		if node.IsDir() {
			node.Directory.walk(p, fn)
			continue
		}
		fn(p, node.File.Contents)
	}
}

// WriteTo materializes the tree under dir, creating directories as needed
// and overwriting existing files. Entries outside the tree are untouched.
func (t FileTree) WriteTo(dir string) error {
	for _, name := range sortedKeys(t) {
		if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
			return fmt.Errorf("%w: %q", ErrInvalidPath, name)
		}

		node := t[name]
		target := filepath.Join(dir, name)
		if node.IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("create directory %s: %w", target, err)
			}
			if err := node.Directory.WriteTo(target); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
		if err := os.WriteFile(target, []byte(node.File.Contents), 0o644); err != nil { //nolint:gosec // project files are world readable
			return fmt.Errorf("write %s: %w", target, err)
		}
	}
	return nil
}

func sortedKeys(t FileTree) []string {
	return slices.Sorted(maps.Keys(t))
}

// Package sandbox confines user-supplied paths to a fixed workspace root.
package sandbox

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutsideWorkspace is returned when a path resolves outside the root.
var ErrOutsideWorkspace = errors.New("path escapes workspace")

// Sandbox resolves relative paths against a canonical workspace root.
type Sandbox struct {
	root string
}

// New canonicalizes root (absolute, symlinks resolved). The root must exist
// and be a directory.
func New(root string) (*Sandbox, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("sandbox: resolve root: %w", err)
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("sandbox: resolve root: %w", err)
	}
	info, err := os.Stat(canonical)
	if err != nil {
		return nil, fmt.Errorf("sandbox: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("sandbox: root %s is not a directory", canonical)
	}
	return &Sandbox{root: canonical}, nil
}

// Root returns the canonical workspace root.
func (s *Sandbox) Root() string {
	return s.root
}

// Resolve joins rel onto the root and returns the canonical absolute path.
// An absolute rel replaces the root. The result must be the root itself or
// lie beneath it, otherwise ErrOutsideWorkspace is returned.
func (s *Sandbox) Resolve(rel string) (string, error) {
	candidate := rel
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(s.root, rel)
	}
	candidate = filepath.Clean(candidate)

	resolved, err := evalExisting(candidate)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", rel, err)
	}

	if !s.contains(resolved) {
		return "", fmt.Errorf("%q: %w", rel, ErrOutsideWorkspace)
	}
	return resolved, nil
}

func (s *Sandbox) contains(path string) bool {
	if path == s.root {
		return true
	}
	prefix := s.root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(path, prefix)
}

// maxLinkHops bounds how many dangling links evalExisting will follow.
const maxLinkHops = 40

// evalExisting resolves symlinks in the longest existing prefix of path and
// appends the non-existent remainder unchanged. A dangling symlink in the
// path is replaced by its target, so a link to a missing file outside the
// root still resolves outside the root.
func evalExisting(path string) (string, error) {
	return evalHops(path, 0)
}

func evalHops(path string, hops int) (string, error) {
	var rest []string
	current := path
	for {
		resolved, err := filepath.EvalSymlinks(current)
		if err == nil {
			parts := append([]string{resolved}, rest...)
			return filepath.Clean(filepath.Join(parts...)), nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}

		if info, lerr := os.Lstat(current); lerr == nil && info.Mode()&os.ModeSymlink != 0 {
			if hops >= maxLinkHops {
				return "", fmt.Errorf("%s: too many levels of symbolic links", path)
			}
			target, err := os.Readlink(current)
			if err != nil {
				return "", err
			}
			if !filepath.IsAbs(target) {
				target = filepath.Join(filepath.Dir(current), target)
			}
			return evalHops(filepath.Join(append([]string{target}, rest...)...), hops+1)
		}

		parent := filepath.Dir(current)
		if parent == current {
			return path, nil
		}
		rest = append([]string{filepath.Base(current)}, rest...)
		current = parent
	}
}

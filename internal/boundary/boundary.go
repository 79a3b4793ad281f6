// Package boundary confines caller-supplied identifiers to a project's
// reserved .skc sub-tree.
//
// Identifiers are validated before they are joined, and rejected outright when
// they could escape: they are never cleaned into a "closest safe" path.
package boundary

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/sk-claudecode/skc/internal/consts"
)

var (
	ErrEmptyPath     = errors.New("path is required")
	ErrPathTraversal = errors.New("path traversal not allowed")
	ErrAbsolutePath  = errors.New("absolute paths not allowed")
)

// PathError records the rejected identifier and the operation that saw it.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// Validate checks that identifier is a relative path which stays inside
// whatever directory it is later joined onto.
func Validate(identifier string) error {
	if strings.TrimSpace(identifier) == "" {
		return &PathError{Op: "validate", Path: identifier, Err: ErrEmptyPath}
	}
	if isAbsoluteLike(identifier) {
		return &PathError{Op: "validate", Path: identifier, Err: ErrAbsolutePath}
	}
	for _, segment := range strings.Split(toSlash(identifier), "/") {
		if segment == ".." {
			return &PathError{Op: "validate", Path: identifier, Err: ErrPathTraversal}
		}
	}
	return nil
}

func isAbsoluteLike(identifier string) bool {
	if strings.HasPrefix(identifier, "/") || strings.HasPrefix(identifier, `\`) {
		return true
	}
	if strings.HasPrefix(identifier, "~") {
		return true
	}
	if filepath.IsAbs(identifier) || filepath.VolumeName(identifier) != "" {
		return true
	}
	// drive letters are rejected on every platform so behavior does not
	// depend on where the identifier is validated
	if len(identifier) >= 2 && identifier[1] == ':' && isASCIILetter(identifier[0]) {
		return true
	}
	return false
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// Root returns the reserved sub-tree of projectRoot.
func Root(projectRoot string) string {
	return filepath.Join(projectRoot, consts.ReservedDirName)
}

// Resolve maps identifier to an absolute location under projectRoot/.skc.
func Resolve(identifier, projectRoot string) (string, error) {
	if err := Validate(identifier); err != nil {
		var pe *PathError
		if errors.As(err, &pe) {
			pe.Op = "resolve"
		}
		return "", err
	}
	root, err := filepath.Abs(Root(projectRoot))
	if err != nil {
		return "", fmt.Errorf("resolve project root: %w", err)
	}
	return filepath.Join(root, filepath.FromSlash(toSlash(identifier))), nil
}

// IsUnderBoundary reports whether candidate is projectRoot/.skc or one of its
// descendants. The comparison is lexical: separators are normalised and
// ".." segments resolved before the prefix test.
func IsUnderBoundary(candidate, projectRoot string) bool {
	return IsWithin(candidate, Root(projectRoot))
}

// IsRealPathUnderBoundary is IsUnderBoundary applied to symlink-resolved
// paths, so a link planted inside .skc cannot vouch for a target outside it.
func IsRealPathUnderBoundary(candidate, projectRoot string) bool {
	return IsWithin(RealPath(candidate), RealPath(Root(projectRoot)))
}

// IsWithin reports whether path equals root or lies below it.
func IsWithin(path, root string) bool {
	p := normalize(path)
	r := normalize(root)
	if p == "" || r == "" {
		return false
	}
	if p == r {
		return true
	}
	if r == "/" {
		return strings.HasPrefix(p, "/")
	}
	return strings.HasPrefix(p, r+"/")
}

// RealPath resolves symlinks in path, falling back to the cleaned nominal
// path when the target does not exist yet.
func RealPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return abs
	}
	return resolved
}

func normalize(p string) string {
	if p == "" {
		return ""
	}
	return path.Clean(toSlash(p))
}

func toSlash(path string) string {
	return strings.ReplaceAll(path, `\`, "/")
}

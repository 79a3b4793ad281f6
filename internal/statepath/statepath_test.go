package statepath

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sk-claudecode/skc/internal/boundary"
)

func TestResolveState(t *testing.T) {
	root := t.TempDir()
	want := filepath.Join(root, ".skc", "state", "ralph-state.json")

	for _, name := range []string{"ralph", "ralph-state"} {
		got, err := ResolveState(name, root)
		if err != nil {
			t.Fatalf("ResolveState(%q): %v", name, err)
		}
		if got != want {
			t.Fatalf("ResolveState(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestResolveStateSwarmRejected(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"swarm", "swarm-state"} {
		_, err := ResolveState(name, root)
		if !errors.Is(err, ErrReservedName) {
			t.Fatalf("ResolveState(%q) = %v, want ErrReservedName", name, err)
		}
		if !strings.Contains(err.Error(), "SQLite") {
			t.Fatalf("error should mention SQLite: %v", err)
		}
	}
}

func TestResolveStateTraversal(t *testing.T) {
	root := t.TempDir()
	if _, err := ResolveState("../../etc/passwd", root); !errors.Is(err, boundary.ErrPathTraversal) {
		t.Fatalf("expected traversal error, got %v", err)
	}
	if _, err := ResolveState("", root); !errors.Is(err, boundary.ErrEmptyPath) {
		t.Fatalf("expected empty path error, got %v", err)
	}
}

func TestHelperPaths(t *testing.T) {
	root := t.TempDir()
	m := New(root)
	skc := filepath.Join(root, ".skc")

	tests := []struct {
		name string
		fn   func() (string, error)
		want string
	}{
		{"plan", func() (string, error) { return m.Plan("my-feature") }, filepath.Join(skc, "plans", "my-feature.md")},
		{"research", func() (string, error) { return m.Research("api-research") }, filepath.Join(skc, "research", "api-research")},
		{"logs", m.Logs, filepath.Join(skc, "logs")},
		{"wisdom", func() (string, error) { return m.Wisdom("my-plan") }, filepath.Join(skc, "notepads", "my-plan")},
		{"draft", func() (string, error) { return m.Draft("idea") }, filepath.Join(skc, "drafts", "idea.md")},
		{"notepad", m.Notepad, filepath.Join(skc, "notepad.md")},
		{"memory", m.ProjectMemory, filepath.Join(skc, "project-memory.json")},
	}
	for _, tt := range tests {
		got, err := tt.fn()
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if got != tt.want {
			t.Fatalf("%s = %q, want %q", tt.name, got, tt.want)
		}
	}
	if m.Root() != skc {
		t.Fatalf("Root = %q, want %q", m.Root(), skc)
	}
}

func TestHelperPathsRejectEscapes(t *testing.T) {
	root := t.TempDir()
	if _, err := ResolvePlan("../state/x", root); !errors.Is(err, boundary.ErrPathTraversal) {
		t.Fatalf("plan escape: %v", err)
	}
	if _, err := ResolveResearch("/etc", root); !errors.Is(err, boundary.ErrAbsolutePath) {
		t.Fatalf("research absolute: %v", err)
	}
	if _, err := ResolveWisdom("~/notes", root); !errors.Is(err, boundary.ErrAbsolutePath) {
		t.Fatalf("wisdom home: %v", err)
	}
}

func TestEnsureDir(t *testing.T) {
	root := t.TempDir()
	dir, err := EnsureDir("state", root)
	if err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	if dir != filepath.Join(root, ".skc", "state") {
		t.Fatalf("EnsureDir = %q", dir)
	}
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		t.Fatalf("expected directory at %s: %v", dir, err)
	}
	if _, err := EnsureDir("../escape", root); !errors.Is(err, boundary.ErrPathTraversal) {
		t.Fatalf("expected traversal error, got %v", err)
	}
}

func TestEnsureAllReservedDirs(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 2; i++ {
		if err := EnsureAllReservedDirs(root); err != nil {
			t.Fatalf("EnsureAllReservedDirs (pass %d): %v", i, err)
		}
	}
	for _, sub := range []string{"state", "plans", "research", "logs", "notepads", "drafts"} {
		if _, err := os.Stat(filepath.Join(root, ".skc", sub)); err != nil {
			t.Fatalf("missing %s: %v", sub, err)
		}
	}
}

func TestDefaultLogFile(t *testing.T) {
	root := t.TempDir()
	got, err := DefaultLogFile(root)
	if err != nil {
		t.Fatalf("DefaultLogFile: %v", err)
	}
	if got != filepath.Join(root, ".skc", "logs", "skc.log") {
		t.Fatalf("DefaultLogFile = %q", got)
	}
}

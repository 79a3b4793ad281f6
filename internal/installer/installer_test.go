package installer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sk-claudecode/skc/internal/claudemd"
)

func TestInstallFreshThenReplace(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()

	rep, err := Install(ctx, Options{ProjectRoot: root, Content: "v1 rules", Version: "v1.0.0"})
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if rep.State != claudemd.StateFresh || !rep.Changed {
		t.Fatalf("report = %+v", rep)
	}
	if _, err := os.Stat(filepath.Join(root, ".skc", "state")); err != nil {
		t.Fatalf("reserved dirs not created: %v", err)
	}

	target := filepath.Join(root, "CLAUDE.md")
	user := "\n\n# Mine\nkeep me\n"
	raw, _ := os.ReadFile(target)
	if err := os.WriteFile(target, append(raw, user...), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	rep, err = Install(ctx, Options{ProjectRoot: root, Content: "v2 rules", Version: "v1.1.0", Backup: true})
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if rep.State != claudemd.StateReplaced || rep.Previous != "v1.0.0" {
		t.Fatalf("report = %+v", rep)
	}
	if rep.BackupPath == "" {
		t.Fatal("expected a backup of the previous document")
	}
	got, _ := os.ReadFile(target)
	if !strings.Contains(string(got), "v2 rules") || !strings.HasSuffix(string(got), user) {
		t.Fatalf("document:\n%s", got)
	}

	rec, err := ReadRecord(root)
	if err != nil || rec == nil {
		t.Fatalf("ReadRecord: %v %v", rec, err)
	}
	if rec.Version != "v1.1.0" || rec.State != "replaced" {
		t.Fatalf("record = %+v", rec)
	}
}

func TestInstallUnchanged(t *testing.T) {
	root := t.TempDir()
	opts := Options{ProjectRoot: root, Content: "same"}
	if _, err := Install(context.Background(), opts); err != nil {
		t.Fatalf("Install: %v", err)
	}
	rep, err := Install(context.Background(), opts)
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if rep.Changed {
		t.Fatal("second identical install must not change the document")
	}
	if rep.Describe() != "already up to date" {
		t.Fatalf("Describe = %q", rep.Describe())
	}
}

func TestInstallDowngrade(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()
	if _, err := Install(ctx, Options{ProjectRoot: root, Content: "new", Version: "v2.0.0"}); err != nil {
		t.Fatalf("Install: %v", err)
	}

	_, err := Install(ctx, Options{ProjectRoot: root, Content: "old", Version: "v1.9.0"})
	if !errors.Is(err, ErrDowngrade) {
		t.Fatalf("expected ErrDowngrade, got %v", err)
	}

	rep, err := Install(ctx, Options{ProjectRoot: root, Content: "old", Version: "v1.9.0", Force: true})
	if err != nil {
		t.Fatalf("forced Install: %v", err)
	}
	if !rep.Changed {
		t.Fatal("forced install should rewrite the region")
	}

	// development builds never block
	if _, err := Install(ctx, Options{ProjectRoot: root, Content: "dev", Version: "n/a"}); err != nil {
		t.Fatalf("dev Install: %v", err)
	}
}

func TestInstallDryRun(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "docs", "AI.md")
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(target, []byte("hand written\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	rep, err := Install(context.Background(), Options{
		ProjectRoot: root,
		Target:      "docs/AI.md",
		Content:     "generated",
		DryRun:      true,
	})
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if rep.State != claudemd.StateNoMarkers || !rep.Changed {
		t.Fatalf("report = %+v", rep)
	}
	if !claudemd.Changed(rep.Diff) {
		t.Fatal("dry run should carry a diff")
	}

	got, _ := os.ReadFile(target)
	if string(got) != "hand written\n" {
		t.Fatalf("dry run modified the target: %q", got)
	}
	if _, err := os.Stat(filepath.Join(root, ".skc")); !os.IsNotExist(err) {
		t.Fatal("dry run must not create the reserved tree")
	}
}

func TestCheckVersion(t *testing.T) {
	tests := []struct {
		installed, current string
		wantErr            bool
	}{
		{"", "v1.0.0", false},
		{"v1.0.0", "", false},
		{"v1.0.0", "n/a", false},
		{"v1.0.0", "v1.0.0", false},
		{"v1.0.0", "v1.2.0", false},
		{"v1.2.0", "v1.0.0", true},
		{"garbage", "v1.0.0", false},
	}
	for _, tt := range tests {
		err := checkVersion(tt.installed, tt.current)
		if (err != nil) != tt.wantErr {
			t.Fatalf("checkVersion(%q, %q) = %v", tt.installed, tt.current, err)
		}
	}
}

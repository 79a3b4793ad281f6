package fsutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.txt")
	if err := WriteFileAtomic(path, []byte("one"), 0o600); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("mode = %v", info.Mode().Perm())
	}

	// existing permissions win over the default
	if err := WriteFileAtomic(path, []byte("two"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}
	raw, _ := os.ReadFile(path)
	if string(raw) != "two" {
		t.Fatalf("content = %q", raw)
	}
	info, _ = os.Stat(path)
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("mode changed to %v", info.Mode().Perm())
	}

	matches, _ := filepath.Glob(path + ".tmp.*")
	if len(matches) != 0 {
		t.Fatalf("temp files left behind: %v", matches)
	}
}

func TestAcquireFileLock(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "x.lock")
	unlock, err := AcquireFileLock(lockPath, time.Second, 0)
	if err != nil {
		t.Fatalf("AcquireFileLock: %v", err)
	}

	if _, err := AcquireFileLock(lockPath, 120*time.Millisecond, 0); err == nil {
		t.Fatal("expected timeout while lock is held")
	}

	unlock()
	unlock2, err := AcquireFileLock(lockPath, time.Second, 0)
	if err != nil {
		t.Fatalf("re-acquire: %v", err)
	}
	unlock2()
}

func TestAcquireFileLockBreaksStale(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "x.lock")
	if err := os.WriteFile(lockPath, []byte("1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(lockPath, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	unlock, err := AcquireFileLock(lockPath, time.Second, time.Minute)
	if err != nil {
		t.Fatalf("stale lock not broken: %v", err)
	}
	unlock()
}

func TestBackupsAndCleanup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "CLAUDE.md")
	if err := os.WriteFile(path, []byte("v1"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	// unrelated siblings are not backups
	_ = os.WriteFile(path+".lock", nil, 0o644)
	_ = os.WriteFile(path+".bak", nil, 0o644)

	for i := 0; i < 7; i++ {
		if _, err := CreateBackup(path); err != nil {
			t.Fatalf("CreateBackup: %v", err)
		}
	}
	if got := len(Backups(path)); got != 7 {
		t.Fatalf("Backups = %d, want 7", got)
	}

	CleanupOldBackups(path, MaxBackupFiles)
	if got := len(Backups(path)); got != MaxBackupFiles {
		t.Fatalf("after cleanup = %d, want %d", got, MaxBackupFiles)
	}
	if _, err := os.Stat(path + ".lock"); err != nil {
		t.Fatalf("cleanup removed unrelated file: %v", err)
	}

	raw, _ := os.ReadFile(Backups(path)[0])
	if string(raw) != "v1" {
		t.Fatalf("backup content = %q", raw)
	}
}

package hook

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestFileStoreRoundTrip(t *testing.T) {
	root := t.TempDir()
	store, err := NewFileStore(root)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	ctx := context.Background()

	dirs, err := store.Load(ctx, "missing")
	if err != nil || dirs != nil {
		t.Fatalf("Load(missing) = %v, %v", dirs, err)
	}

	if err := store.Save(ctx, "s1", []string{"/b", "/a"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	dirs, err = store.Load(ctx, "s1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(dirs) != 2 || dirs[0] != "/a" || dirs[1] != "/b" {
		t.Fatalf("Load = %v", dirs)
	}

	files, _ := filepath.Glob(filepath.Join(root, ".skc", "state", "injected", "*.json"))
	if len(files) != 1 {
		t.Fatalf("expected one record file, got %v", files)
	}

	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete twice: %v", err)
	}
	if dirs, _ := store.Load(ctx, "s1"); dirs != nil {
		t.Fatalf("Load after delete = %v", dirs)
	}
}

func TestFileStoreCorruptRecord(t *testing.T) {
	root := t.TempDir()
	fs, err := newFileStore(filepath.Join(root, "injected"))
	if err != nil {
		t.Fatalf("newFileStore: %v", err)
	}
	if err := os.WriteFile(fs.sessionFile("bad"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := fs.Load(context.Background(), "bad"); err == nil {
		t.Fatal("expected parse error")
	}

	// the cache swallows store errors and starts empty
	cache := NewSessionCache(fs)
	if set := cache.LoadOrCreate(context.Background(), "bad"); set.Len() != 0 {
		t.Fatalf("expected empty set, got %v", set.List())
	}
}

func TestFileStoreGC(t *testing.T) {
	fs, err := newFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("newFileStore: %v", err)
	}
	ctx := context.Background()
	_ = fs.Save(ctx, "old", []string{"/x"})
	_ = fs.Save(ctx, "new", []string{"/y"})

	if n, _ := fs.GC(ctx, time.Now(), 0); n != 0 {
		t.Fatalf("GC with ttl=0 removed %d", n)
	}
	n, err := fs.GC(ctx, time.Now().Add(2*time.Hour), time.Hour)
	if err != nil {
		t.Fatalf("GC: %v", err)
	}
	if n != 2 {
		t.Fatalf("GC removed %d, want 2", n)
	}
	if n, _ := fs.GC(ctx, time.Now(), time.Hour); n != 0 {
		t.Fatalf("second GC removed %d", n)
	}
}

func TestMemoryStoreGC(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	_ = store.Save(ctx, "a", []string{"/x"})
	n, _ := store.GC(ctx, time.Now().Add(time.Minute), time.Second)
	if n != 1 {
		t.Fatalf("GC removed %d, want 1", n)
	}
}

func TestSessionCacheLoadOrCreate(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	_ = store.Save(ctx, "s", []string{"/seed"})

	cache := NewSessionCache(store)
	set := cache.LoadOrCreate(ctx, "s")
	if !set.Has("/seed") {
		t.Fatal("expected set seeded from store")
	}
	if cache.LoadOrCreate(ctx, "s") != set {
		t.Fatal("expected the same set on second access")
	}

	if !set.Add("/new") || set.Add("/new") {
		t.Fatal("Add should report only first insertion")
	}
	if err := cache.Persist(ctx, "s", set); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	dirs, _ := store.Load(ctx, "s")
	if len(dirs) != 2 {
		t.Fatalf("persisted = %v", dirs)
	}

	if err := cache.Invalidate(ctx, "s"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if cache.Sessions() != 0 {
		t.Fatalf("Sessions = %d", cache.Sessions())
	}
	if fresh := cache.LoadOrCreate(ctx, "s"); fresh.Len() != 0 {
		t.Fatalf("expected empty set after invalidate, got %v", fresh.List())
	}
}

func TestSessionCacheConcurrent(t *testing.T) {
	cache := NewSessionCache(nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	sets := make([]*DirSet, 32)
	for i := range sets {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sets[i] = cache.LoadOrCreate(ctx, "shared")
			sets[i].Add("/d")
		}(i)
	}
	wg.Wait()
	for _, s := range sets[1:] {
		if s != sets[0] {
			t.Fatal("concurrent LoadOrCreate returned different sets")
		}
	}
	if sets[0].Len() != 1 {
		t.Fatalf("Len = %d", sets[0].Len())
	}
}

func TestLimitTruncator(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name      string
		tr        LimitTruncator
		in        string
		want      string
		truncated bool
	}{
		{"unlimited", LimitTruncator{}, "a\nb\nc", "a\nb\nc", false},
		{"lines", LimitTruncator{MaxLines: 2}, "a\nb\nc", "a\nb", true},
		{"lines exact with newline", LimitTruncator{MaxLines: 2}, "a\nb\n", "a\nb\n", false},
		{"lines under", LimitTruncator{MaxLines: 5}, "a\nb", "a\nb", false},
		{"bytes on line", LimitTruncator{MaxBytes: 5}, "abc\ndef\n", "abc", true},
		{"bytes mid line", LimitTruncator{MaxBytes: 3}, "abcdef", "abc", true},
		{"bytes rune safe", LimitTruncator{MaxBytes: 2}, "é漢", "é", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, truncated := tt.tr.Truncate(ctx, "s", tt.in)
			if got != tt.want || truncated != tt.truncated {
				t.Fatalf("Truncate = %q, %v; want %q, %v", got, truncated, tt.want, tt.truncated)
			}
		})
	}
}

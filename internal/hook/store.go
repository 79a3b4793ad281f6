package hook

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	"github.com/sk-claudecode/skc/internal/boundary"
	"github.com/sk-claudecode/skc/internal/consts"
	"github.com/sk-claudecode/skc/internal/pkg/fsutil"
)

// Store persists the set of injected directories per session.
type Store interface {
	Load(ctx context.Context, sessionID string) ([]string, error)
	Save(ctx context.Context, sessionID string, dirs []string) error
	Delete(ctx context.Context, sessionID string) error
	// GC removes records not updated within ttl of now.
	GC(ctx context.Context, now time.Time, ttl time.Duration) (int, error)
}

const (
	injectedFormat = "skc-injected-paths"
	injectedSchema = 1
	injectedExt    = ".json"
)

type injectedRecord struct {
	Format    string    `json:"format"`
	Schema    int       `json:"schema"`
	SessionID string    `json:"session_id"`
	Dirs      []string  `json:"injected_paths"`
	UpdatedAt time.Time `json:"updated_at"`
}

type fileStore struct {
	root         string
	sessionLocks sync.Map
}

// NewFileStore keeps one JSON document per session under
// <projectRoot>/.skc/state/injected.
func NewFileStore(projectRoot string) (Store, error) {
	dir, err := boundary.Resolve(consts.StateDirName+"/"+consts.InjectedDirName, projectRoot)
	if err != nil {
		return nil, err
	}
	return newFileStore(dir)
}

func newFileStore(root string) (*fileStore, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage path: %w", err)
	}
	if err := os.MkdirAll(absRoot, 0o755); err != nil {
		return nil, fmt.Errorf("create storage path: %w", err)
	}
	return &fileStore{root: absRoot}, nil
}

func (s *fileStore) Load(ctx context.Context, sessionID string) ([]string, error) {
	_ = ctx
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	raw, err := os.ReadFile(s.sessionFile(sessionID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read injected paths: %w", err)
	}

	var rec injectedRecord
	if err := sonic.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("parse injected paths: %w", err)
	}
	if rec.SessionID != "" && rec.SessionID != sessionID {
		return nil, fmt.Errorf("session id mismatch, want %s got %s", sessionID, rec.SessionID)
	}
	return rec.Dirs, nil
}

func (s *fileStore) Save(ctx context.Context, sessionID string, dirs []string) error {
	_ = ctx
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	sorted := append([]string(nil), dirs...)
	sort.Strings(sorted)
	raw, err := sonic.Marshal(injectedRecord{
		Format:    injectedFormat,
		Schema:    injectedSchema,
		SessionID: sessionID,
		Dirs:      sorted,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("marshal injected paths: %w", err)
	}
	if err := fsutil.WriteFileAtomic(s.sessionFile(sessionID), raw, 0o644); err != nil {
		return fmt.Errorf("write injected paths: %w", err)
	}
	return nil
}

func (s *fileStore) Delete(ctx context.Context, sessionID string) error {
	_ = ctx
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	if err := os.Remove(s.sessionFile(sessionID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete injected paths: %w", err)
	}
	return nil
}

func (s *fileStore) GC(ctx context.Context, now time.Time, ttl time.Duration) (int, error) {
	_ = ctx
	if ttl <= 0 {
		return 0, nil
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return 0, fmt.Errorf("read injected dir: %w", err)
	}

	cutoff := now.Add(-ttl)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != injectedExt {
			continue
		}
		path := filepath.Join(s.root, entry.Name())
		updated, ok := readUpdatedAt(path)
		if !ok || updated.After(cutoff) {
			continue
		}
		if rmErr := os.Remove(path); rmErr == nil || os.IsNotExist(rmErr) {
			removed++
		}
	}
	return removed, nil
}

func readUpdatedAt(path string) (time.Time, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return time.Time{}, false
	}
	var rec injectedRecord
	if err := sonic.Unmarshal(raw, &rec); err != nil {
		// unreadable records fall back to the file time
		info, statErr := os.Stat(path)
		if statErr != nil {
			return time.Time{}, false
		}
		return info.ModTime(), true
	}
	return rec.UpdatedAt, !rec.UpdatedAt.IsZero()
}

func (s *fileStore) sessionLock(sessionID string) *sync.Mutex {
	if existing, ok := s.sessionLocks.Load(sessionID); ok {
		return existing.(*sync.Mutex)
	}
	created := &sync.Mutex{}
	actual, _ := s.sessionLocks.LoadOrStore(sessionID, created)
	return actual.(*sync.Mutex)
}

func (s *fileStore) sessionFile(sessionID string) string {
	sum := sha1.Sum([]byte(sessionID))
	return filepath.Join(s.root, hex.EncodeToString(sum[:])+injectedExt)
}

type memoryRecord struct {
	dirs      []string
	updatedAt time.Time
}

type memoryStore struct {
	mu      sync.Mutex
	records map[string]memoryRecord
}

// NewMemoryStore is a process-local Store.
func NewMemoryStore() Store {
	return &memoryStore{records: make(map[string]memoryRecord)}
}

func (m *memoryStore) Load(_ context.Context, sessionID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[sessionID]
	if !ok {
		return nil, nil
	}
	return append([]string(nil), rec.dirs...), nil
}

func (m *memoryStore) Save(_ context.Context, sessionID string, dirs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[sessionID] = memoryRecord{dirs: append([]string(nil), dirs...), updatedAt: time.Now()}
	return nil
}

func (m *memoryStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, sessionID)
	return nil
}

func (m *memoryStore) GC(_ context.Context, now time.Time, ttl time.Duration) (int, error) {
	if ttl <= 0 {
		return 0, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, rec := range m.records {
		if !rec.updatedAt.After(now.Add(-ttl)) {
			delete(m.records, id)
			removed++
		}
	}
	return removed, nil
}

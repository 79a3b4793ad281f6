package hook

import (
	"context"
	"sort"
	"sync"

	"github.com/bytedance/gg/gmap"

	"github.com/sk-claudecode/skc/internal/pkg/logs"
)

// DirSet is the set of directories already injected into one session.
type DirSet struct {
	mu   sync.Mutex
	dirs map[string]struct{}
}

func newDirSet(dirs []string) *DirSet {
	s := &DirSet{dirs: make(map[string]struct{}, len(dirs))}
	for _, d := range dirs {
		s.dirs[d] = struct{}{}
	}
	return s
}

func (s *DirSet) Has(dir string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.dirs[dir]
	return ok
}

// Add reports whether dir was newly added.
func (s *DirSet) Add(dir string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.dirs[dir]; ok {
		return false
	}
	s.dirs[dir] = struct{}{}
	return true
}

func (s *DirSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.dirs)
}

func (s *DirSet) List() []string {
	s.mu.Lock()
	out := gmap.ToSlice(s.dirs, func(k string, _ struct{}) string { return k })
	s.mu.Unlock()
	sort.Strings(out)
	return out
}

// SessionCache is a memory tier in front of a Store. The store stays the
// source of truth across restarts: a session's set is seeded from it on the
// first access in this process.
type SessionCache struct {
	store Store

	mu   sync.Mutex
	sets map[string]*DirSet
}

func NewSessionCache(store Store) *SessionCache {
	if store == nil {
		store = NewMemoryStore()
	}
	return &SessionCache{
		store: store,
		sets:  make(map[string]*DirSet),
	}
}

func (c *SessionCache) Store() Store {
	return c.store
}

func (c *SessionCache) LoadOrCreate(ctx context.Context, sessionID string) *DirSet {
	c.mu.Lock()
	if set, ok := c.sets[sessionID]; ok {
		c.mu.Unlock()
		return set
	}
	c.mu.Unlock()

	dirs, err := c.store.Load(ctx, sessionID)
	if err != nil {
		logs.CtxWarn(ctx, "[hook] load injected paths failed for session=%s: %v", sessionID, err)
	}
	loaded := newDirSet(dirs)

	c.mu.Lock()
	defer c.mu.Unlock()
	if set, ok := c.sets[sessionID]; ok {
		return set
	}
	c.sets[sessionID] = loaded
	return loaded
}

func (c *SessionCache) Persist(ctx context.Context, sessionID string, set *DirSet) error {
	return c.store.Save(ctx, sessionID, set.List())
}

// Invalidate drops both tiers for the session.
func (c *SessionCache) Invalidate(ctx context.Context, sessionID string) error {
	c.mu.Lock()
	delete(c.sets, sessionID)
	c.mu.Unlock()
	return c.store.Delete(ctx, sessionID)
}

// Loaded reports whether the session has a memory-tier entry.
func (c *SessionCache) Loaded(sessionID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.sets[sessionID]
	return ok
}

func (c *SessionCache) Sessions() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sets)
}

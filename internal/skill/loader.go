package skill

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/sk-claudecode/skc/internal/consts"
	"github.com/sk-claudecode/skc/internal/pkg/logs"
)

var DefaultLazyFolders = []string{"scientific"}

// DefaultCore is the set kept by minimal mode.
var DefaultCore = []string{
	"backend", "frontend-ui-ux", "git-master", "local-skills-setup", "mcp-setup", "memory",
	"orchestrate", "plan", "quality", "security-review", "tdd-workflow",
}

const lazyPlaceholderSuffix = " (lazy-loaded)"

type Options struct {
	Dir         string
	LazyFolders []string
	Mode        InstallMode
	// Core restricts minimal mode to these names; empty means minimal loads
	// the same set as standard.
	Core []string
}

type catalog struct {
	skills []*Skill
	index  map[string]*Skill
}

// Loader owns one skills directory together with its install mode and caches.
type Loader struct {
	dir         string
	lazyFolders []string
	core        map[string]struct{}

	mu      sync.RWMutex
	mode    InstallMode
	catalog *catalog
	lazy    map[string][]*Skill
	gen     uint64

	group singleflight.Group
	// scanned, when set, runs after every directory scan.
	scanned func()
}

func NewLoader(opts Options) *Loader {
	lazy := opts.LazyFolders
	if lazy == nil {
		lazy = DefaultLazyFolders
	}
	mode := opts.Mode
	if !mode.Valid() {
		mode = ModeStandard
	}
	l := &Loader{
		dir:         opts.Dir,
		lazyFolders: append([]string(nil), lazy...),
		mode:        mode,
		lazy:        make(map[string][]*Skill),
	}
	if len(opts.Core) > 0 {
		l.core = make(map[string]struct{}, len(opts.Core))
		for _, name := range opts.Core {
			l.core[strings.ToLower(name)] = struct{}{}
		}
	}
	return l
}

func (l *Loader) Dir() string {
	return l.dir
}

func (l *Loader) Mode() InstallMode {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.mode
}

// SetMode switches the install mode and drops every cached skill.
func (l *Loader) SetMode(mode InstallMode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidInstallMode, mode)
	}
	l.mu.Lock()
	l.mode = mode
	l.resetLocked()
	l.mu.Unlock()
	logs.Info("[skills] install mode set to %s", mode)
	return nil
}

func (l *Loader) ClearCache() {
	l.mu.Lock()
	l.resetLocked()
	l.mu.Unlock()
}

func (l *Loader) resetLocked() {
	l.catalog = nil
	l.lazy = make(map[string][]*Skill)
	// scans started before the reset must not repopulate the cache
	l.gen++
}

// Catalog returns the eagerly loaded skills, scanning the directory on first
// use. An unreadable directory yields an empty catalog.
func (l *Loader) Catalog() []*Skill {
	c := l.loadCatalog()
	return append([]*Skill(nil), c.skills...)
}

func (l *Loader) loadCatalog() *catalog {
	l.mu.RLock()
	c := l.catalog
	l.mu.RUnlock()
	if c != nil {
		return c
	}

	v, _, _ := l.group.Do("catalog", func() (interface{}, error) {
		// a reset during the scan invalidates its result for every waiter,
		// so scan again until the generation holds still
		for {
			l.mu.RLock()
			if l.catalog != nil {
				c := l.catalog
				l.mu.RUnlock()
				return c, nil
			}
			mode, gen := l.mode, l.gen
			l.mu.RUnlock()

			c := l.scanCatalog(mode)
			l.afterScan()

			l.mu.Lock()
			if l.gen == gen {
				l.catalog = c
				l.mu.Unlock()
				return c, nil
			}
			l.mu.Unlock()
		}
	})
	return v.(*catalog)
}

func (l *Loader) afterScan() {
	if l.scanned != nil {
		l.scanned()
	}
}

func (l *Loader) scanCatalog(mode InstallMode) *catalog {
	c := &catalog{index: make(map[string]*Skill)}

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		logs.Debug("[skills] skills directory not readable: %s: %v", l.dir, err)
		return c
	}
	// ReadDir returns entries sorted by file name
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if mode != ModeFull && l.isLazyFolder(entry.Name()) {
			continue
		}
		s := l.readSkill(filepath.Join(l.dir, entry.Name(), consts.SkillFileName), entry.Name())
		if s == nil {
			continue
		}
		key := strings.ToLower(s.Name)
		if mode == ModeMinimal && l.core != nil {
			if _, ok := l.core[key]; !ok {
				continue
			}
		}
		if prev, ok := c.index[key]; ok {
			logs.Warn("[skills] duplicate skill name %q in %s, keeping %s", s.Name, s.Path, prev.Path)
			continue
		}
		c.index[key] = s
		c.skills = append(c.skills, s)
	}
	logs.Debug("[skills] loaded %d skills from %s (mode=%s)", len(c.skills), l.dir, mode)
	return c
}

func (l *Loader) readSkill(path, fallbackName string) *Skill {
	content, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logs.Debug("[skills] failed to read %s: %v", path, err)
		}
		return nil
	}
	s, err := Parse(string(content), fallbackName)
	if err != nil {
		logs.Debug("[skills] failed to parse %s: %v", path, err)
		return nil
	}
	s.Path = path
	return s
}

func (l *Loader) isLazyFolder(name string) bool {
	return l.lazyFolderFor(strings.ToLower(name)) != ""
}

// lazyFolderFor returns the configured lazy folder that owns the lower-cased
// name, or "" when the name is not namespaced by one.
func (l *Loader) lazyFolderFor(name string) string {
	for _, folder := range l.lazyFolders {
		f := strings.ToLower(folder)
		if name == f || strings.HasPrefix(name, f+"/") {
			return folder
		}
	}
	return ""
}

// Lookup finds a skill case-insensitively. Names inside a lazy folder load
// that folder on first use, whatever the install mode.
func (l *Loader) Lookup(name string) (*Skill, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, false
	}

	if folder := l.lazyFolderFor(key); folder != "" {
		for _, s := range l.loadLazy(folder) {
			if strings.ToLower(s.Name) == key {
				return s, true
			}
		}
	}

	s, ok := l.loadCatalog().index[key]
	return s, ok
}

func (l *Loader) Get(name string) (*Skill, error) {
	s, ok := l.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSkillNotFound, name)
	}
	return s, nil
}

// LazySkills returns every skill of one lazy folder, loading it if needed.
func (l *Loader) LazySkills(folder string) []*Skill {
	owner := l.lazyFolderFor(strings.ToLower(folder))
	if owner == "" {
		return nil
	}
	return append([]*Skill(nil), l.loadLazy(owner)...)
}

func (l *Loader) loadLazy(folder string) []*Skill {
	l.mu.RLock()
	skills, ok := l.lazy[folder]
	l.mu.RUnlock()
	if ok {
		return skills
	}

	v, _, _ := l.group.Do("lazy:"+folder, func() (interface{}, error) {
		for {
			l.mu.RLock()
			if skills, ok := l.lazy[folder]; ok {
				l.mu.RUnlock()
				return skills, nil
			}
			gen := l.gen
			l.mu.RUnlock()

			skills := l.scanLazyFolder(folder)
			l.afterScan()

			l.mu.Lock()
			if l.gen == gen {
				l.lazy[folder] = skills
				l.mu.Unlock()
				return skills, nil
			}
			l.mu.Unlock()
		}
	})
	return v.([]*Skill)
}

// scanLazyFolder loads the folder's own SKILL.md under the bare folder name
// and one level of sub-folders under "folder/sub".
func (l *Loader) scanLazyFolder(folder string) []*Skill {
	folderPath := filepath.Join(l.dir, folder)
	if _, err := os.Stat(folderPath); err != nil {
		return nil
	}

	skills := make([]*Skill, 0)
	seen := make(map[string]string)
	add := func(s *Skill) {
		key := strings.ToLower(s.Name)
		if prev, ok := seen[key]; ok {
			logs.Warn("[skills] %v: %q from %s shadows %s, excluded", ErrNamespaceCollision, s.Name, s.Path, prev)
			return
		}
		seen[key] = s.Path
		skills = append(skills, s)
	}

	if s := l.readSkill(filepath.Join(folderPath, consts.SkillFileName), folder); s != nil {
		add(s)
	}

	entries, err := os.ReadDir(folderPath)
	if err != nil {
		logs.Debug("[skills] failed to read lazy folder %s: %v", folderPath, err)
		return skills
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if strings.EqualFold(entry.Name(), folder) {
			logs.Warn("[skills] %v: %s/%s repeats its folder name, excluded", ErrNamespaceCollision, folder, entry.Name())
			continue
		}
		if s := l.readSkill(filepath.Join(folderPath, entry.Name(), consts.SkillFileName), folder+"/"+entry.Name()); s != nil {
			add(s)
		}
	}
	logs.Debug("[skills] lazy folder %s loaded: %d skills", folder, len(skills))
	return skills
}

// ListNames returns catalog names. With includeAll, or in full mode, every
// lazy folder not already represented is listed as "<folder> (lazy-loaded)".
func (l *Loader) ListNames(includeAll bool) []string {
	c := l.loadCatalog()
	names := make([]string, 0, len(c.skills)+len(l.lazyFolders))
	for _, s := range c.skills {
		names = append(names, s.Name)
	}

	if includeAll || l.Mode() == ModeFull {
		for _, folder := range l.lazyFolders {
			prefix := strings.ToLower(folder)
			represented := false
			for _, n := range names {
				if strings.HasPrefix(strings.ToLower(n), prefix) {
					represented = true
					break
				}
			}
			if !represented {
				names = append(names, folder+lazyPlaceholderSuffix)
			}
		}
	}
	return names
}

func (l *Loader) Stats() Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()

	st := Stats{
		LazyFolders: append([]string(nil), l.lazyFolders...),
		LazyLoaded:  make(map[string]int, len(l.lazy)),
		Mode:        l.mode,
	}
	if l.catalog != nil {
		st.Loaded = len(l.catalog.skills)
	}
	for folder, skills := range l.lazy {
		st.LazyLoaded[folder] = len(skills)
	}
	return st
}

// SortByName orders skills case-insensitively, in place.
func SortByName(skills []*Skill) {
	sort.Slice(skills, func(i, j int) bool {
		return strings.ToLower(skills[i].Name) < strings.ToLower(skills[j].Name)
	})
}

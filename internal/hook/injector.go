package hook

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bytedance/gg/gconv"

	"github.com/sk-claudecode/skc/internal/boundary"
	"github.com/sk-claudecode/skc/internal/consts"
	"github.com/sk-claudecode/skc/internal/pkg/logs"
	"github.com/sk-claudecode/skc/internal/pkg/prometheus"
)

const DefaultMaxDepth = 64

var DefaultReadTools = []string{"read"}

type Options struct {
	ProjectRoot string
	// ContextFile is the per-directory document name, AGENTS.md by default.
	ContextFile string
	ReadTools   []string
	MaxDepth    int
	Store       Store
	Truncator   Truncator
}

// Injector appends directory-scoped context documents to the output of file
// read tools, at most once per directory per session.
type Injector struct {
	root        string
	realRoot    string
	contextFile string
	readTools   map[string]struct{}
	maxDepth    int
	truncator   Truncator
	cache       *SessionCache
}

func NewInjector(opts Options) (*Injector, error) {
	if strings.TrimSpace(opts.ProjectRoot) == "" {
		return nil, fmt.Errorf("project root is required")
	}
	root, err := filepath.Abs(opts.ProjectRoot)
	if err != nil {
		return nil, fmt.Errorf("resolve project root: %w", err)
	}

	inj := &Injector{
		root:        root,
		realRoot:    boundary.RealPath(root),
		contextFile: opts.ContextFile,
		readTools:   make(map[string]struct{}),
		maxDepth:    opts.MaxDepth,
		truncator:   opts.Truncator,
		cache:       NewSessionCache(opts.Store),
	}
	if inj.contextFile == "" {
		inj.contextFile = consts.ContextFileName
	}
	if inj.maxDepth <= 0 {
		inj.maxDepth = DefaultMaxDepth
	}
	if inj.truncator == nil {
		inj.truncator = LimitTruncator{}
	}
	tools := opts.ReadTools
	if len(tools) == 0 {
		tools = DefaultReadTools
	}
	for _, t := range tools {
		inj.readTools[strings.ToLower(t)] = struct{}{}
	}
	return inj, nil
}

func (i *Injector) ProjectRoot() string {
	return i.root
}

func (i *Injector) Cache() *SessionCache {
	return i.cache
}

// BeforeToolExecute is part of the host contract and changes nothing.
func (i *Injector) BeforeToolExecute(ctx context.Context, in ToolInput, out *BeforeOutput) {
	_, _, _ = ctx, in, out
}

// AfterToolExecute extends out.Output with the context documents between the
// read file and the project root. Failures are logged and leave out as is.
func (i *Injector) AfterToolExecute(ctx context.Context, in ToolInput, out *ToolOutput) {
	if out == nil {
		return
	}
	tool := strings.ToLower(in.Tool)
	if _, ok := i.readTools[tool]; !ok {
		return
	}
	ctx = logs.WithSessionID(ctx, in.SessionID)

	resolved := i.resolveFilePath(out.Title)
	if resolved == "" {
		return
	}

	set := i.cache.LoadOrCreate(ctx, in.SessionID)
	changed := false
	for _, docPath := range i.FindContextDocs(filepath.Dir(resolved)) {
		docDir := filepath.Dir(docPath)
		if set.Has(docDir) {
			prometheus.HookCacheSkips.Inc()
			continue
		}

		raw, err := os.ReadFile(docPath)
		if err != nil {
			logs.CtxDebug(ctx, "[hook] read %s failed: %v", docPath, err)
			prometheus.HookErrors.WithLabelValues("read").Inc()
			continue
		}
		content, truncated := i.truncator.Truncate(ctx, in.SessionID, string(raw))
		out.Output += formatInjection(docPath, content, truncated)
		if truncated {
			prometheus.HookTruncations.Inc()
		}
		prometheus.HookInjectedDocs.WithLabelValues(tool).Inc()
		if set.Add(docDir) {
			changed = true
		}
		logs.CtxDebug(ctx, "[hook] injected %s (truncated=%v)", docPath, truncated)
	}

	if !changed {
		return
	}
	if err := i.cache.Persist(ctx, in.SessionID, set); err != nil {
		logs.CtxWarn(ctx, "[hook] persist injected paths failed: %v", err)
		prometheus.HookErrors.WithLabelValues("persist").Inc()
	}
}

func formatInjection(docPath, content string, truncated bool) string {
	notice := ""
	if truncated {
		notice = "\n\n[Note: Content was truncated to save context window space. For full context, please read the file directly: " + docPath + "]"
	}
	return "\n\n[Directory Context: " + docPath + "]\n" + content + notice
}

// OnEvent drops a session's cache on deletion or compaction.
func (i *Injector) OnEvent(ctx context.Context, ev Event) {
	var sessionID string
	switch ev.Type {
	case EventSessionDeleted:
		sessionID = infoID(ev.Properties)
	case EventSessionCompacted:
		sessionID = gconv.To[string](ev.Properties["sessionID"])
		if sessionID == "" {
			sessionID = infoID(ev.Properties)
		}
	default:
		return
	}
	if sessionID == "" {
		return
	}

	ctx = logs.WithSessionID(ctx, sessionID)
	if err := i.cache.Invalidate(ctx, sessionID); err != nil {
		logs.CtxWarn(ctx, "[hook] clear injected paths failed: %v", err)
		prometheus.HookErrors.WithLabelValues("invalidate").Inc()
		return
	}
	prometheus.HookInvalidations.WithLabelValues(ev.Type).Inc()
	logs.CtxDebug(ctx, "[hook] session cache cleared on %s", ev.Type)
}

func infoID(props map[string]interface{}) string {
	info, ok := props["info"].(map[string]interface{})
	if !ok {
		return ""
	}
	return gconv.To[string](info["id"])
}

// GC removes persisted caches idle for longer than ttl.
func (i *Injector) GC(ctx context.Context, now time.Time, ttl time.Duration) (int, error) {
	removed, err := i.cache.Store().GC(ctx, now, ttl)
	if removed > 0 {
		prometheus.StoreGCRemoved.Add(float64(removed))
	}
	return removed, err
}

func (i *Injector) resolveFilePath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(i.root, path)
}

// FindContextDocs walks from startDir up to, but excluding, the project root
// and returns the context documents found, outermost first. A start outside
// the project yields nothing.
func (i *Injector) FindContextDocs(startDir string) []string {
	current := filepath.Clean(startDir)
	if !i.within(current) {
		return nil
	}

	var found []string
	for depth := 0; depth < i.maxDepth; depth++ {
		if current == i.root {
			break
		}
		docPath := filepath.Join(current, i.contextFile)
		if info, err := os.Stat(docPath); err == nil && !info.IsDir() {
			found = append(found, docPath)
		}

		parent := filepath.Dir(current)
		if parent == current || !i.within(parent) {
			break
		}
		current = parent
	}

	for l, r := 0, len(found)-1; l < r; l, r = l+1, r-1 {
		found[l], found[r] = found[r], found[l]
	}
	return found
}

// within checks containment both lexically and after resolving symlinks.
func (i *Injector) within(dir string) bool {
	if !boundary.IsWithin(dir, i.root) {
		return false
	}
	return boundary.IsWithin(boundary.RealPath(dir), i.realRoot)
}

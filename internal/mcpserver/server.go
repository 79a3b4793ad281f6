// Package mcpserver exposes the skill catalog and the reserved state tree as
// MCP tools over stdio.
package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sk-claudecode/skc"
	"github.com/sk-claudecode/skc/internal/pkg/logs"
	"github.com/sk-claudecode/skc/internal/pkg/prometheus"
	"github.com/sk-claudecode/skc/internal/skill"
	"github.com/sk-claudecode/skc/internal/statepath"
)

const (
	ServerName = "skc"
	toolPrefix = "mcp__" + ServerName + "__"
)

const (
	ToolListSkills       = "list_skills"
	ToolLoadSkill        = "load_skill"
	ToolResolveStatePath = "resolve_state_path"
	ToolEnsureDirs       = "ensure_dirs"
)

var toolNames = []string{ToolListSkills, ToolLoadSkill, ToolResolveStatePath, ToolEnsureDirs}

// ToolNames returns every registered tool in the mcp__skc__<name> form hosts
// use in allow lists.
func ToolNames() []string {
	out := make([]string, 0, len(toolNames))
	for _, n := range toolNames {
		out = append(out, toolPrefix+n)
	}
	return out
}

type ListSkillsInput struct {
	IncludeAll bool `json:"include_all,omitempty" jsonschema:"also list lazy-loaded folders"`
}

type ListSkillsOutput struct {
	Mode  string   `json:"mode"`
	Names []string `json:"names"`
}

type LoadSkillInput struct {
	Name string `json:"name" jsonschema:"skill name, case-insensitive; lazy skills as folder/name"`
}

type LoadSkillOutput struct {
	Skill *skill.Skill `json:"skill"`
}

type ResolveStatePathInput struct {
	Name string `json:"name" jsonschema:"logical state name, e.g. ralph or ralph-state"`
}

type PathOutput struct {
	Path string `json:"path"`
}

type EnsureDirsInput struct{}

type EnsureDirsOutput struct {
	Root string `json:"root"`
}

type Handlers struct {
	ProjectRoot string
	Loader      *skill.Loader
}

func (h *Handlers) ListSkills(ctx context.Context, _ *mcp.CallToolRequest, in ListSkillsInput) (*mcp.CallToolResult, ListSkillsOutput, error) {
	return nil, ListSkillsOutput{
		Mode:  h.Loader.Mode().String(),
		Names: h.Loader.ListNames(in.IncludeAll),
	}, nil
}

func (h *Handlers) LoadSkill(ctx context.Context, _ *mcp.CallToolRequest, in LoadSkillInput) (*mcp.CallToolResult, LoadSkillOutput, error) {
	sk, err := h.Loader.Get(in.Name)
	if err != nil {
		prometheus.SkillLookups.WithLabelValues("miss").Inc()
		return nil, LoadSkillOutput{}, err
	}
	prometheus.SkillLookups.WithLabelValues("hit").Inc()
	res := &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: skill.BuildPrompt([]*skill.Skill{sk})}},
	}
	return res, LoadSkillOutput{Skill: sk}, nil
}

func (h *Handlers) ResolveStatePath(ctx context.Context, _ *mcp.CallToolRequest, in ResolveStatePathInput) (*mcp.CallToolResult, PathOutput, error) {
	path, err := statepath.ResolveState(in.Name, h.ProjectRoot)
	if err != nil {
		return nil, PathOutput{}, err
	}
	return nil, PathOutput{Path: path}, nil
}

func (h *Handlers) EnsureDirs(ctx context.Context, _ *mcp.CallToolRequest, _ EnsureDirsInput) (*mcp.CallToolResult, EnsureDirsOutput, error) {
	if err := statepath.EnsureAllReservedDirs(h.ProjectRoot); err != nil {
		return nil, EnsureDirsOutput{}, fmt.Errorf("ensure reserved dirs: %w", err)
	}
	return nil, EnsureDirsOutput{Root: statepath.New(h.ProjectRoot).Root()}, nil
}

// New registers every tool on a fresh server.
func New(h *Handlers) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: ServerName, Version: skc.VERSION}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolListSkills,
		Description: "List the skills available in the current install mode.",
	}, h.ListSkills)
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolLoadSkill,
		Description: "Load one skill's instructions by name.",
	}, h.LoadSkill)
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolResolveStatePath,
		Description: "Resolve a logical state name to its JSON file under the project's .skc/state directory.",
	}, h.ResolveStatePath)
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolEnsureDirs,
		Description: "Create the project's reserved .skc directory tree.",
	}, h.EnsureDirs)
	return server
}

// Run serves h over stdio until ctx is done or the client disconnects.
func Run(ctx context.Context, h *Handlers) error {
	logs.CtxInfo(ctx, "[mcp] serving %d tools on stdio", len(toolNames))
	if err := New(h).Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

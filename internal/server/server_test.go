package server

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/hertz/pkg/common/ut"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sk-claudecode/skc/internal/hook"
	"github.com/sk-claudecode/skc/internal/skill"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	root := t.TempDir()
	write(t, filepath.Join(root, "src", "AGENTS.md"), "src rules")
	write(t, filepath.Join(root, "src", "main.go"), "package main")

	skills := t.TempDir()
	write(t, filepath.Join(skills, "plan", "SKILL.md"), "---\nname: plan\ndescription: Write a plan\n---\nSteps.")
	write(t, filepath.Join(skills, "scientific", "biology", "SKILL.md"), "---\ndescription: Bio\n---\nCells.")

	inj, err := hook.NewInjector(hook.Options{ProjectRoot: root, Store: hook.NewMemoryStore()})
	require.NoError(t, err)
	loader := skill.NewLoader(skill.Options{Dir: skills, LazyFolders: []string{"scientific"}})

	s, err := New(Options{Registry: prom.NewRegistry(), Injector: inj, Loader: loader})
	require.NoError(t, err)
	return s, root
}

func post(s *Server, path string, body interface{}) *ut.ResponseRecorder {
	raw, _ := sonic.Marshal(body)
	return ut.PerformRequest(s.httpServer.Engine, "POST", path,
		&ut.Body{Body: bytes.NewReader(raw), Len: len(raw)},
		ut.Header{Key: "Content-Type", Value: "application/json"})
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t)
	w := ut.PerformRequest(s.httpServer.Engine, "GET", "/healthz", nil)
	assert.Equal(t, 200, w.Result().StatusCode())
	assert.Contains(t, string(w.Result().Body()), "ok")
}

func TestToolAfterInjects(t *testing.T) {
	s, root := newTestServer(t)

	req := toolAfterRequest{
		Input:  hook.ToolInput{Tool: "read", SessionID: "s1", CallID: "c1"},
		Output: hook.ToolOutput{Title: filepath.Join(root, "src", "main.go"), Output: "package main"},
	}
	w := post(s, "/v1/hook/tool/after", req)
	require.Equal(t, 200, w.Result().StatusCode())

	var out hook.ToolOutput
	require.NoError(t, sonic.Unmarshal(w.Result().Body(), &out))
	assert.True(t, strings.HasPrefix(out.Output, "package main\n\n[Directory Context: "))
	assert.Contains(t, out.Output, "src rules")

	// same session, same directory: nothing appended twice
	w = post(s, "/v1/hook/tool/after", req)
	require.NoError(t, sonic.Unmarshal(w.Result().Body(), &out))
	assert.Equal(t, "package main", out.Output)

	ev := hook.Event{Type: hook.EventSessionCompacted, Properties: map[string]interface{}{"sessionID": "s1"}}
	w = post(s, "/v1/hook/event", ev)
	require.Equal(t, 200, w.Result().StatusCode())

	w = post(s, "/v1/hook/tool/after", req)
	require.NoError(t, sonic.Unmarshal(w.Result().Body(), &out))
	assert.Contains(t, out.Output, "src rules")
}

func TestToolAfterIgnoresOtherTools(t *testing.T) {
	s, root := newTestServer(t)
	w := post(s, "/v1/hook/tool/after", toolAfterRequest{
		Input:  hook.ToolInput{Tool: "bash", SessionID: "s1"},
		Output: hook.ToolOutput{Title: filepath.Join(root, "src", "main.go"), Output: "ran"},
	})
	require.Equal(t, 200, w.Result().StatusCode())
	var out hook.ToolOutput
	require.NoError(t, sonic.Unmarshal(w.Result().Body(), &out))
	assert.Equal(t, "ran", out.Output)
}

func TestBadBody(t *testing.T) {
	s, _ := newTestServer(t)
	raw := []byte("{nope")
	w := ut.PerformRequest(s.httpServer.Engine, "POST", "/v1/hook/tool/after",
		&ut.Body{Body: bytes.NewReader(raw), Len: len(raw)})
	assert.Equal(t, 400, w.Result().StatusCode())
}

func TestSkillsEndpoints(t *testing.T) {
	s, _ := newTestServer(t)

	w := ut.PerformRequest(s.httpServer.Engine, "GET", "/v1/skills?all=true", nil)
	require.Equal(t, 200, w.Result().StatusCode())
	var list skillListResponse
	require.NoError(t, sonic.Unmarshal(w.Result().Body(), &list))
	assert.Equal(t, "standard", list.Mode)
	assert.Contains(t, list.Names, "plan")
	assert.Contains(t, list.Names, "scientific (lazy-loaded)")

	w = ut.PerformRequest(s.httpServer.Engine, "GET", "/v1/skills/PLAN", nil)
	require.Equal(t, 200, w.Result().StatusCode())
	var sk skill.Skill
	require.NoError(t, sonic.Unmarshal(w.Result().Body(), &sk))
	assert.Equal(t, "plan", sk.Name)
	assert.Equal(t, "Steps.", sk.Template)

	w = ut.PerformRequest(s.httpServer.Engine, "GET", "/v1/skills/scientific/biology", nil)
	require.Equal(t, 200, w.Result().StatusCode())
	require.NoError(t, sonic.Unmarshal(w.Result().Body(), &sk))
	assert.Equal(t, "scientific/biology", sk.Name)

	w = ut.PerformRequest(s.httpServer.Engine, "GET", "/v1/skills/missing", nil)
	assert.Equal(t, 404, w.Result().StatusCode())
}

func TestNewRequiresDeps(t *testing.T) {
	_, err := New(Options{Registry: prom.NewRegistry()})
	assert.Error(t, err)
}

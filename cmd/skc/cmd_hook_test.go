package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sk-claudecode/skc/internal/config"
	"github.com/sk-claudecode/skc/internal/pkg/logs"
)

func newTestEnv(t *testing.T) *env {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "pkg"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "pkg", "AGENTS.md"), []byte("pkg rules"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return &env{root: root, cfg: config.Default()}
}

func TestHookHandleAfter(t *testing.T) {
	e := newTestEnv(t)
	var out bytes.Buffer
	r := &HookRunner{out: &out}

	in := `{"hook":"tool.execute.after","input":{"tool":"read","sessionID":"s1"},"output":{"title":"pkg/a.go","output":"code"}}`
	r.handle(context.Background(), e, []byte(in))

	if !strings.Contains(out.String(), "pkg rules") {
		t.Fatalf("output = %s", out.String())
	}
	if _, err := os.Stat(filepath.Join(e.root, ".skc", "state", "injected")); err != nil {
		t.Fatalf("injected cache not persisted: %v", err)
	}
}

func TestHookHandleEchoesOnError(t *testing.T) {
	e := newTestEnv(t)

	var out bytes.Buffer
	r := &HookRunner{out: &out}
	r.handle(context.Background(), e, []byte("not json"))
	if strings.TrimSpace(out.String()) != "not json" {
		t.Fatalf("raw input not echoed: %q", out.String())
	}

	out.Reset()
	r.handle(context.Background(), e, []byte(`{"hook":"bogus","output":{"title":"x","output":"keep"}}`))
	if !strings.Contains(out.String(), `"keep"`) {
		t.Fatalf("output not echoed: %q", out.String())
	}
}

func TestHookInitLoggerFailureIsLogged(t *testing.T) {
	e := newTestEnv(t)
	blocker := filepath.Join(e.root, "not-a-dir")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	e.cfg.Logging.Output = "file"
	e.cfg.Logging.File = filepath.Join(blocker, "skc.log")

	prev := logs.DefaultLogger()
	t.Cleanup(func() { logs.SetLogger(prev) })
	var buf bytes.Buffer
	logs.SetLogger(logs.NewWriterLogger(&buf, "debug"))

	(&HookRunner{}).initLogger(context.Background(), e)

	if !strings.Contains(buf.String(), "[hook] init logger") {
		t.Fatalf("logger init failure not reported: %q", buf.String())
	}
}

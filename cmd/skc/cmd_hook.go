package main

import (
	"context"
	"io"
	"os"

	"github.com/bytedance/sonic"
	"github.com/urfave/cli/v3"

	"github.com/sk-claudecode/skc/internal/hook"
	"github.com/sk-claudecode/skc/internal/pkg/logs"
)

var hookHwd = &HookRunner{in: os.Stdin, out: os.Stdout}

// HookRunner adapts one host callback read from stdin. It never fails: when
// anything goes wrong the host gets its own data back.
type HookRunner struct {
	in  io.Reader
	out io.Writer
}

func (r *HookRunner) cmd() *cli.Command {
	return &cli.Command{
		Name:   "hook",
		Usage:  "Handle one host hook event (JSON on stdin, JSON on stdout)",
		Action: r.run,
	}
}

func (r *HookRunner) run(ctx context.Context, cmd *cli.Command) error {
	raw, err := io.ReadAll(r.in)
	if err != nil {
		logs.CtxWarn(ctx, "[hook] read stdin: %v", err)
		return nil
	}

	e, err := loadEnv(cmd)
	if err != nil {
		logs.CtxWarn(ctx, "[hook] %v", err)
		r.write(raw)
		return nil
	}
	r.initLogger(ctx, e)
	r.handle(ctx, e, raw)
	return nil
}

// initLogger keeps the default stderr logger when the configured one cannot
// be opened.
func (r *HookRunner) initLogger(ctx context.Context, e *env) {
	if err := e.initLogger(false); err != nil {
		logs.CtxWarn(ctx, "[hook] init logger, keeping stderr: %v", err)
	}
}

func (r *HookRunner) handle(ctx context.Context, e *env, raw []byte) {
	req, err := hook.DecodeRequest(raw)
	if err != nil {
		logs.CtxWarn(ctx, "[hook] %v", err)
		r.write(raw)
		return
	}
	inj, err := e.newInjector()
	if err != nil {
		logs.CtxWarn(ctx, "[hook] init injector: %v", err)
		r.encode(req.Echo())
		return
	}
	resp, err := inj.Dispatch(ctx, req)
	if err != nil {
		logs.CtxWarn(ctx, "[hook] %v", err)
		resp = req.Echo()
	}
	r.encode(resp)
}

func (r *HookRunner) encode(resp *hook.Response) {
	raw, err := sonic.Marshal(resp)
	if err != nil {
		logs.Warn("[hook] encode response: %v", err)
		return
	}
	r.write(raw)
}

func (r *HookRunner) write(raw []byte) {
	_, _ = r.out.Write(raw)
	_, _ = io.WriteString(r.out, "\n")
}

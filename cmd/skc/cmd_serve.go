package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/urfave/cli/v3"

	"github.com/sk-claudecode/skc/internal/pkg/logs"
	"github.com/sk-claudecode/skc/internal/server"
)

var serveHwd = &ServeRunner{}

type ServeRunner struct{}

func (r *ServeRunner) cmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the long-lived hook server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Usage: "Listen address (default from config)"},
		},
		Action: r.run,
	}
}

func (r *ServeRunner) run(ctx context.Context, cmd *cli.Command) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	if err = e.initLogger(true); err != nil {
		return fmt.Errorf("init logger error: %w", err)
	}
	hlog.SetLogger(logs.NewHlogLogger(logs.DefaultLogger()))

	inj, err := e.newInjector()
	if err != nil {
		return fmt.Errorf("init injector: %w", err)
	}
	bind := cmd.String("bind")
	if bind == "" {
		bind = e.cfg.Server.Bind
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv, err := server.New(server.Options{
		Bind:        bind,
		MetricsBind: e.cfg.Server.MetricsBind,
		GCCron:      e.cfg.Server.GCCron,
		CacheTTL:    e.cfg.CacheTTL(),
		Injector:    inj,
		Loader:      e.newLoader(),
	})
	if err != nil {
		return err
	}
	if err = srv.Start(ctx); err != nil {
		_ = srv.Stop(context.Background())
		return fmt.Errorf("start server: %w", err)
	}
	logs.CtxInfo(ctx, "[server] listening on %s for project %s", bind, e.root)

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signalCh)

	select {
	case sig := <-signalCh:
		logs.CtxInfo(ctx, "Received shutdown signal (%s). Stopping...", sig.String())
	case <-ctx.Done():
	}

	if err = srv.Stop(context.Background()); err != nil {
		logs.CtxError(ctx, "stop server error: %v", err)
	}
	return nil
}

package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/sk-claudecode/skc/internal/consts"
	"github.com/sk-claudecode/skc/internal/statepath"
)

var initHwd = &InitRunner{}

type InitRunner struct{}

func (r *InitRunner) cmd() *cli.Command {
	return &cli.Command{
		Name:   "init",
		Usage:  "Create the project's reserved .skc directory tree",
		Action: r.run,
	}
}

func (r *InitRunner) run(ctx context.Context, cmd *cli.Command) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	m := statepath.New(e.root)
	if err := m.EnsureAll(); err != nil {
		return fmt.Errorf("create reserved dirs: %w", err)
	}

	cSuccess.Printf("Initialized %s\n", m.Root())
	for _, sub := range consts.ReservedSubdirs {
		cDim.Printf("  %s/\n", sub)
	}
	return nil
}

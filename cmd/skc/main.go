package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/sk-claudecode/skc"
	"github.com/sk-claudecode/skc/internal/pkg/logs"
)

func main() {
	cmd := &cli.Command{
		Name:    "skc",
		Usage:   "Project-local skills, state paths and managed CLAUDE.md for AI coding agents",
		Version: skc.VERSION,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "project",
				Aliases: []string{"C"},
				Usage:   "Project root (defaults to the current directory)",
			},
		},
		Commands: []*cli.Command{
			initHwd.cmd(),
			pathHwd.cmd(),
			skillsHwd.cmd(),
			modeHwd.cmd(),
			installHwd.cmd(),
			hookHwd.cmd(),
			serveHwd.cmd(),
			mcpHwd.cmd(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		logs.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

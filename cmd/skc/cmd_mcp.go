package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/sk-claudecode/skc/internal/mcpserver"
)

var mcpHwd = &MCPRunner{}

type MCPRunner struct{}

func (r *MCPRunner) cmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve skill and state tools over MCP stdio",
		Commands: []*cli.Command{
			{
				Name:   "tools",
				Usage:  "Print the tool names to allow in the host",
				Action: r.tools,
			},
		},
		Action: r.run,
	}
}

func (r *MCPRunner) run(ctx context.Context, cmd *cli.Command) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	if err := e.initLogger(false); err != nil {
		return fmt.Errorf("init logger error: %w", err)
	}
	return mcpserver.Run(ctx, &mcpserver.Handlers{ProjectRoot: e.root, Loader: e.newLoader()})
}

func (r *MCPRunner) tools(ctx context.Context, cmd *cli.Command) error {
	for _, name := range mcpserver.ToolNames() {
		fmt.Println(name)
	}
	return nil
}

package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/sk-claudecode/skc/internal/statepath"
)

var pathHwd = &PathRunner{}

type PathRunner struct{}

type pathKind struct {
	name    string
	usage   string
	argName string
	resolve func(m statepath.Mapper, arg string) (string, error)
}

var pathKinds = []pathKind{
	{"state", "JSON state file for a logical state name", "name", statepath.Mapper.State},
	{"plan", "Plan document", "name", statepath.Mapper.Plan},
	{"research", "Research folder for a topic", "topic", statepath.Mapper.Research},
	{"wisdom", "Notepad folder for a plan", "plan", statepath.Mapper.Wisdom},
	{"draft", "Draft document", "name", statepath.Mapper.Draft},
	{"logs", "Logs folder", "", func(m statepath.Mapper, _ string) (string, error) { return m.Logs() }},
	{"notepad", "Project notepad", "", func(m statepath.Mapper, _ string) (string, error) { return m.Notepad() }},
	{"memory", "Project memory file", "", func(m statepath.Mapper, _ string) (string, error) { return m.ProjectMemory() }},
}

func (r *PathRunner) cmd() *cli.Command {
	sub := make([]*cli.Command, 0, len(pathKinds))
	for _, k := range pathKinds {
		sub = append(sub, r.kindCmd(k))
	}
	return &cli.Command{
		Name:     "path",
		Usage:    "Print the location of a file or folder in the reserved tree",
		Commands: sub,
	}
}

func (r *PathRunner) kindCmd(k pathKind) *cli.Command {
	c := &cli.Command{
		Name:  k.name,
		Usage: k.usage,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			arg := cmd.Args().First()
			if k.argName != "" && arg == "" {
				return fmt.Errorf("%s is required", k.argName)
			}
			path, err := k.resolve(statepath.New(e.root), arg)
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}
	if k.argName != "" {
		c.ArgsUsage = "<" + k.argName + ">"
	}
	return c
}

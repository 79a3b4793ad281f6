package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/urfave/cli/v3"

	"github.com/sk-claudecode/skc/internal/pkg/utils"
	"github.com/sk-claudecode/skc/internal/skill"
)

var skillsHwd = &SkillsRunner{}

type SkillsRunner struct{}

func (r *SkillsRunner) cmd() *cli.Command {
	return &cli.Command{
		Name:  "skills",
		Usage: "Inspect the skill catalog",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List skills loaded in the current install mode",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "all", Usage: "Also list lazy-loaded folders"},
				},
				Action: r.list,
			},
			{
				Name:      "show",
				Usage:     "Print one skill",
				ArgsUsage: "<name>",
				Action:    r.show,
			},
			{
				Name:   "stats",
				Usage:  "Print loader statistics as JSON",
				Action: r.stats,
			},
		},
	}
}

func (r *SkillsRunner) list(ctx context.Context, cmd *cli.Command) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	loader := e.newLoader()

	descs := make(map[string]string)
	for _, s := range loader.Catalog() {
		descs[s.Name] = s.Description
	}

	cTitle.Printf("Skills (%s mode, %s)\n", loader.Mode(), loader.Dir())
	names := loader.ListNames(cmd.Bool("all"))
	if len(names) == 0 {
		cWarn.Println("  no skills found")
		return nil
	}
	for _, name := range names {
		desc := descs[name]
		if desc == "" {
			fmt.Printf("  %s\n", name)
			continue
		}
		fmt.Printf("  %-28s ", name)
		cDim.Println(utils.Truncate80(utils.FirstLine(desc)))
	}
	return nil
}

func (r *SkillsRunner) show(ctx context.Context, cmd *cli.Command) error {
	name := strings.TrimSpace(cmd.Args().First())
	if name == "" {
		return fmt.Errorf("skill name is required")
	}
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	s, err := e.newLoader().Get(name)
	if err != nil {
		return err
	}
	fmt.Print(skill.BuildPrompt([]*skill.Skill{s}))
	cDim.Printf("\n%s\n", s.Path)
	return nil
}

func (r *SkillsRunner) stats(ctx context.Context, cmd *cli.Command) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	loader := e.newLoader()
	loader.Catalog()
	raw, err := sonic.ConfigStd.MarshalIndent(loader.Stats(), "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(raw))
	return nil
}

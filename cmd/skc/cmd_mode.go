package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/sk-claudecode/skc/internal/config"
)

var modeHwd = &ModeRunner{}

type ModeRunner struct{}

func (r *ModeRunner) cmd() *cli.Command {
	return &cli.Command{
		Name:      "mode",
		Usage:     "Show or persist the skill install mode (minimal, standard, full)",
		ArgsUsage: "[mode]",
		Action:    r.run,
	}
}

func (r *ModeRunner) run(ctx context.Context, cmd *cli.Command) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	mode := cmd.Args().First()
	if mode == "" {
		fmt.Println(e.cfg.Skills.InstallMode)
		return nil
	}

	ins := config.NewInstanceManager()
	if _, err := config.LoadProjectWith(ins, e.root); err != nil {
		return err
	}
	if err := ins.Apply("skills.install_mode", mode); err != nil {
		return err
	}
	if err := ins.Save(); err != nil {
		return err
	}
	cfg, _ := ins.Get()
	cSuccess.Printf("Install mode set to %s\n", cfg.Skills.InstallMode)
	cDim.Printf("  %s\n", ins.Path())
	return nil
}

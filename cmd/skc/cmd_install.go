package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"github.com/sk-claudecode/skc"
	"github.com/sk-claudecode/skc/internal/claudemd"
	"github.com/sk-claudecode/skc/internal/installer"
)

var installHwd = &InstallRunner{}

type InstallRunner struct{}

func (r *InstallRunner) cmd() *cli.Command {
	return &cli.Command{
		Name:  "install",
		Usage: "Merge the generated instructions into the project's CLAUDE.md, preserving user edits",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "target", Usage: "Document to update (default from config, CLAUDE.md)"},
			&cli.StringFlag{Name: "content-file", Usage: "Generated content to inject (default: built-in)"},
			&cli.BoolFlag{Name: "dry-run", Usage: "Print the diff without writing"},
			&cli.BoolFlag{Name: "force", Usage: "Install even when a newer version was installed"},
		},
		Action: r.run,
	}
}

func (r *InstallRunner) run(ctx context.Context, cmd *cli.Command) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	if err := e.initLogger(true); err != nil {
		return fmt.Errorf("init logger error: %w", err)
	}

	var content string
	if path := cmd.String("content-file"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read content file: %w", err)
		}
		content = string(raw)
	}
	target := cmd.String("target")
	if target == "" {
		target = e.cfg.InstallTarget(e.root)
	}

	report, err := installer.Install(ctx, installer.Options{
		ProjectRoot: e.root,
		Target:      target,
		Content:     content,
		Version:     skc.VERSION,
		DryRun:      cmd.Bool("dry-run"),
		Force:       cmd.Bool("force"),
		Backup:      e.cfg.BackupEnabled(),
		MaxBackups:  e.cfg.Install.MaxBackups,
	})
	if err != nil {
		return err
	}

	if cmd.Bool("dry-run") {
		cTitle.Printf("%s (dry run: %s)\n", report.Path, report.Describe())
		if !report.Changed {
			return nil
		}
		fmt.Print(claudemd.FormatDiff(report.Diff, 3, !color.NoColor))
		cDim.Println(claudemd.DiffSummary(report.Diff))
		return nil
	}

	if !report.Changed {
		cDim.Printf("%s: %s\n", report.Path, report.Describe())
		return nil
	}
	if report.State == claudemd.StateCorrupted {
		cWarn.Printf("%s: %s\n", report.Path, report.Describe())
	} else {
		cSuccess.Printf("%s: %s\n", report.Path, report.Describe())
	}
	if report.BackupPath != "" {
		cDim.Printf("  backup: %s\n", report.BackupPath)
	}
	return nil
}

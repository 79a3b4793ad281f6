package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"github.com/sk-claudecode/skc/internal/config"
	"github.com/sk-claudecode/skc/internal/hook"
	"github.com/sk-claudecode/skc/internal/pkg/logs"
	"github.com/sk-claudecode/skc/internal/skill"
)

var (
	cTitle   = color.New(color.FgCyan, color.Bold)
	cSuccess = color.New(color.FgGreen)
	cWarn    = color.New(color.FgYellow)
	cDim     = color.New(color.FgHiBlack)
)

// env is what every command needs: where the project is and how it is
// configured.
type env struct {
	root string
	cfg  *config.Config
}

func loadEnv(cmd *cli.Command) (*env, error) {
	root := cmd.String("project")
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		root = wd
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve project root: %w", err)
	}

	cfg, err := config.LoadProject(root)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &env{root: root, cfg: cfg}, nil
}

// initLogger applies the logging section. Commands that speak a protocol on
// stdout pass keepStdout=false so logs never interleave with it.
func (e *env) initLogger(keepStdout bool) error {
	opts := e.cfg.LogOptions(e.root)
	if !keepStdout {
		switch opts.Output {
		case "stdout":
			opts.Output = "stderr"
		case "both":
			opts.Output = "file"
		}
	}
	return logs.Init(opts)
}

func (e *env) newLoader() *skill.Loader {
	mode, _ := skill.ParseInstallMode(e.cfg.Skills.InstallMode)
	return skill.NewLoader(skill.Options{
		Dir:         e.cfg.SkillsDir(e.root),
		LazyFolders: e.cfg.Skills.LazyFolders,
		Mode:        mode,
		Core:        e.cfg.Skills.Core,
	})
}

func (e *env) newInjector() (*hook.Injector, error) {
	store, err := hook.NewFileStore(e.root)
	if err != nil {
		logs.Warn("[hook] persisted cache unavailable, using memory only: %v", err)
		store = hook.NewMemoryStore()
	}
	return hook.NewInjector(hook.Options{
		ProjectRoot: e.root,
		ContextFile: e.cfg.Hook.ContextFile,
		ReadTools:   e.cfg.Hook.ReadTools,
		MaxDepth:    e.cfg.Hook.MaxDepth,
		Store:       store,
		Truncator:   hook.LimitTruncator{MaxBytes: e.cfg.Hook.MaxBytes, MaxLines: e.cfg.Hook.MaxLines},
	})
}

// Package installer merges the generated instructions document into a
// project and records which version did it.
package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/bytedance/sonic"

	"github.com/sk-claudecode/skc/internal/claudemd"
	"github.com/sk-claudecode/skc/internal/consts"
	"github.com/sk-claudecode/skc/internal/pkg/fsutil"
	"github.com/sk-claudecode/skc/internal/pkg/logs"
	"github.com/sk-claudecode/skc/internal/statepath"
)

var ErrDowngrade = errors.New("installed version is newer")

type Options struct {
	ProjectRoot string
	// Target is the document path; relative paths are taken from ProjectRoot.
	Target string
	// Content is the generated document. Empty uses the embedded default.
	Content string
	// Version of the installing binary. "n/a" and "" skip the downgrade check.
	Version string
	DryRun  bool
	// Force allows installing over a newer recorded version.
	Force      bool
	Backup     bool
	MaxBackups int
}

type Report struct {
	Path    string
	State   claudemd.MergeState
	Changed bool
	// Diff is set for dry runs.
	Diff       []claudemd.DiffLine
	BackupPath string
	// Previous is the version recorded by the last install, if any.
	Previous string
}

// Describe summarises what the install did to the target.
func (r *Report) Describe() string {
	if !r.Changed {
		return "already up to date"
	}
	return r.State.Describe()
}

// Record is persisted as state/install-state.json.
type Record struct {
	Version     string    `json:"version"`
	Target      string    `json:"target"`
	State       string    `json:"state"`
	InstalledAt time.Time `json:"installed_at"`
}

func Install(ctx context.Context, opts Options) (*Report, error) {
	if opts.ProjectRoot == "" {
		return nil, fmt.Errorf("project root is required")
	}
	target := opts.Target
	if target == "" {
		target = consts.InstallTargetName
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(opts.ProjectRoot, target)
	}
	content := opts.Content
	if content == "" {
		content = consts.DefaultManagedContent
	}

	prev, err := ReadRecord(opts.ProjectRoot)
	if err != nil {
		logs.CtxWarn(ctx, "[install] ignore unreadable install record: %v", err)
	}
	report := &Report{Path: target}
	if prev != nil {
		report.Previous = prev.Version
		if err := checkVersion(prev.Version, opts.Version); err != nil && !opts.Force {
			return nil, err
		}
	}

	if !opts.DryRun {
		if err := statepath.EnsureAllReservedDirs(opts.ProjectRoot); err != nil {
			return nil, fmt.Errorf("prepare reserved dirs: %w", err)
		}
	}

	res, err := claudemd.MergeFile(target, content, claudemd.FileOptions{
		Backup:     opts.Backup,
		MaxBackups: opts.MaxBackups,
		DryRun:     opts.DryRun,
	})
	if err != nil {
		return nil, err
	}
	report.State = res.State
	report.Changed = res.Changed
	report.BackupPath = res.BackupPath
	if opts.DryRun {
		report.Diff = res.DiffPrevious()
		return report, nil
	}

	rec := &Record{
		Version:     opts.Version,
		Target:      target,
		State:       res.State.String(),
		InstalledAt: time.Now().UTC(),
	}
	if err := WriteRecord(opts.ProjectRoot, rec); err != nil {
		return nil, err
	}
	logs.CtxInfo(ctx, "[install] %s (%s)", target, report.Describe())
	return report, nil
}

// checkVersion fails when installed is a newer semver than current.
// Unparseable versions never block.
func checkVersion(installed, current string) error {
	if installed == "" || current == "" || current == "n/a" {
		return nil
	}
	have, err := semver.NewVersion(installed)
	if err != nil {
		return nil
	}
	want, err := semver.NewVersion(current)
	if err != nil {
		return nil
	}
	if have.GreaterThan(want) {
		return fmt.Errorf("%w: %s installed, running %s (use --force to override)", ErrDowngrade, have, want)
	}
	return nil
}

func recordPath(projectRoot string) (string, error) {
	return statepath.ResolveState(consts.InstallStateName, projectRoot)
}

// ReadRecord returns nil when nothing was installed yet.
func ReadRecord(projectRoot string) (*Record, error) {
	path, err := recordPath(projectRoot)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read install record: %w", err)
	}
	var rec Record
	if err := sonic.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode install record: %w", err)
	}
	return &rec, nil
}

func WriteRecord(projectRoot string, rec *Record) error {
	path, err := recordPath(projectRoot)
	if err != nil {
		return err
	}
	raw, err := sonic.ConfigStd.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode install record: %w", err)
	}
	if err := fsutil.WriteFileAtomic(path, append(raw, '\n'), 0o644); err != nil {
		return fmt.Errorf("write install record: %w", err)
	}
	return nil
}

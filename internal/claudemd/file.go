package claudemd

import (
	"fmt"
	"os"

	"github.com/sk-claudecode/skc/internal/pkg/fsutil"
	"github.com/sk-claudecode/skc/internal/pkg/logs"
)

type FileOptions struct {
	// Backup copies the previous document to a timestamped sibling before
	// it is replaced.
	Backup bool
	// MaxBackups bounds retained backups; 0 uses fsutil.MaxBackupFiles.
	MaxBackups int
	// DryRun computes the result without touching the file.
	DryRun bool
}

type FileResult struct {
	MergeResult
	Path       string
	Previous   *string
	Changed    bool
	BackupPath string
}

// ReadDocument returns nil when path does not exist.
func ReadDocument(path string) (*string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	doc := string(raw)
	return &doc, nil
}

// MergeFile merges generated into the document at path and writes the result
// atomically. An unchanged document is not rewritten.
func MergeFile(path, generated string, opts FileOptions) (*FileResult, error) {
	prev, err := ReadDocument(path)
	if err != nil {
		return nil, err
	}

	res := &FileResult{
		MergeResult: MergeDocument(prev, generated),
		Path:        path,
		Previous:    prev,
	}
	res.Changed = prev == nil || *prev != res.Content
	if !res.Changed || opts.DryRun {
		return res, nil
	}

	unlock, err := fsutil.AcquireFileLock(path+".lock", fsutil.LockAcquireTimeout, fsutil.LockStaleAfter)
	if err != nil {
		return nil, fmt.Errorf("acquire document lock: %w", err)
	}
	defer unlock()

	if prev != nil && opts.Backup {
		backup, err := fsutil.CreateBackup(path)
		if err != nil {
			return nil, err
		}
		res.BackupPath = backup
		keep := opts.MaxBackups
		if keep <= 0 {
			keep = fsutil.MaxBackupFiles
		}
		fsutil.CleanupOldBackups(path, keep)
	}

	if err := fsutil.WriteFileAtomic(path, []byte(res.Content), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	logs.Info("[merge] %s: %s", path, res.State.Describe())
	return res, nil
}

// DiffPrevious diffs the previous document (empty when absent) against the
// merged content.
func (r *FileResult) DiffPrevious() []DiffLine {
	before := ""
	if r.Previous != nil {
		before = *r.Previous
	}
	return Diff(before, r.Content)
}

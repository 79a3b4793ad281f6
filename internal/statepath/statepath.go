// Package statepath maps logical names (state files, plans, research topics,
// notepads) onto the reserved .skc layout of a project.
package statepath

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sk-claudecode/skc/internal/boundary"
	"github.com/sk-claudecode/skc/internal/consts"
)

// ErrReservedName is returned for state names owned by a subsystem that does
// not use JSON state files.
var ErrReservedName = errors.New("reserved state name")

const swarmStateName = "swarm"

// Mapper binds the package functions to one project root.
type Mapper struct {
	ProjectRoot string
}

func New(projectRoot string) Mapper {
	return Mapper{ProjectRoot: projectRoot}
}

func (m Mapper) Root() string                          { return boundary.Root(m.ProjectRoot) }
func (m Mapper) State(name string) (string, error)     { return ResolveState(name, m.ProjectRoot) }
func (m Mapper) Plan(name string) (string, error)      { return ResolvePlan(name, m.ProjectRoot) }
func (m Mapper) Research(topic string) (string, error) { return ResolveResearch(topic, m.ProjectRoot) }
func (m Mapper) Logs() (string, error)                 { return ResolveLogs(m.ProjectRoot) }
func (m Mapper) Wisdom(plan string) (string, error)    { return ResolveWisdom(plan, m.ProjectRoot) }
func (m Mapper) Draft(name string) (string, error)     { return ResolveDraft(name, m.ProjectRoot) }
func (m Mapper) Notepad() (string, error)              { return NotepadPath(m.ProjectRoot) }
func (m Mapper) ProjectMemory() (string, error)        { return ProjectMemoryPath(m.ProjectRoot) }
func (m Mapper) EnsureDir(sub string) (string, error)  { return EnsureDir(sub, m.ProjectRoot) }
func (m Mapper) EnsureAll() error                      { return EnsureAllReservedDirs(m.ProjectRoot) }

// StateFileName normalises name to "<name>-state.json", appending the suffix
// only when it is not already present.
func StateFileName(name string) string {
	base := strings.TrimSuffix(name, consts.StateFileSuffix)
	return base + consts.StateFileSuffix + consts.StateFileExt
}

// ResolveState returns .skc/state/<name>-state.json.
func ResolveState(name, projectRoot string) (string, error) {
	name = strings.TrimSpace(name)
	if strings.TrimSuffix(name, consts.StateFileSuffix) == swarmStateName {
		return "", fmt.Errorf("%w: %s state is stored in SQLite, not JSON", ErrReservedName, swarmStateName)
	}
	if name == "" {
		return "", &boundary.PathError{Op: "resolve", Path: name, Err: boundary.ErrEmptyPath}
	}
	return boundary.Resolve(consts.StateDirName+"/"+StateFileName(name), projectRoot)
}

func ResolvePlan(name, projectRoot string) (string, error) {
	return resolveIn(consts.PlansDirName, name, ".md", projectRoot)
}

func ResolveResearch(topic, projectRoot string) (string, error) {
	return resolveIn(consts.ResearchDirName, topic, "", projectRoot)
}

func ResolveLogs(projectRoot string) (string, error) {
	return boundary.Resolve(consts.LogsDirName, projectRoot)
}

func ResolveWisdom(plan, projectRoot string) (string, error) {
	return resolveIn(consts.NotepadsDirName, plan, "", projectRoot)
}

func ResolveDraft(name, projectRoot string) (string, error) {
	return resolveIn(consts.DraftsDirName, name, ".md", projectRoot)
}

func NotepadPath(projectRoot string) (string, error) {
	return boundary.Resolve(consts.NotepadFileName, projectRoot)
}

func ProjectMemoryPath(projectRoot string) (string, error) {
	return boundary.Resolve(consts.ProjectMemoryName, projectRoot)
}

// resolveIn validates name on its own before joining it to dir, so that a
// name like "../state/x" cannot hop into a sibling reserved folder.
func resolveIn(dir, name, ext, projectRoot string) (string, error) {
	if err := boundary.Validate(name); err != nil {
		return "", err
	}
	return boundary.Resolve(dir+"/"+name+ext, projectRoot)
}

// EnsureDir creates .skc/<sub> if needed and returns its path.
func EnsureDir(sub, projectRoot string) (string, error) {
	dir, err := boundary.Resolve(sub, projectRoot)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	return dir, nil
}

// EnsureAllReservedDirs creates .skc and every reserved sub-folder.
func EnsureAllReservedDirs(projectRoot string) error {
	for _, sub := range consts.ReservedSubdirs {
		if _, err := EnsureDir(sub, projectRoot); err != nil {
			return err
		}
	}
	return nil
}

// DefaultLogFile is the rotating log file inside the reserved logs folder.
func DefaultLogFile(projectRoot string) (string, error) {
	dir, err := ResolveLogs(projectRoot)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, consts.LogFileName), nil
}

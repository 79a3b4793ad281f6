package consts

import (
	"os"
	"path/filepath"
)

const (
	ReservedDirName   = ".skc"
	ConfigFileName    = "config.yaml"
	SkillsDirName     = "skills"
	SkillFileName     = "SKILL.md"
	ContextFileName   = "AGENTS.md"
	InstallTargetName = "CLAUDE.md"
	LogFileName       = "skc.log"
)

// Reserved sub-folders under ReservedDirName.
const (
	StateDirName    = "state"
	PlansDirName    = "plans"
	ResearchDirName = "research"
	LogsDirName     = "logs"
	NotepadsDirName = "notepads"
	DraftsDirName   = "drafts"
)

var ReservedSubdirs = []string{
	StateDirName,
	PlansDirName,
	ResearchDirName,
	LogsDirName,
	NotepadsDirName,
	DraftsDirName,
}

const (
	StateFileSuffix   = "-state"
	StateFileExt      = ".json"
	NotepadFileName   = "notepad.md"
	ProjectMemoryName = "project-memory.json"
	InstallStateName  = "install"
	InjectedDirName   = "injected"
)

func UserHomeDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ReservedDirName)
}

func UserConfigPath() string {
	return filepath.Join(UserHomeDir(), ConfigFileName)
}

func ProjectConfigPath(projectRoot string) string {
	return filepath.Join(projectRoot, ReservedDirName, ConfigFileName)
}

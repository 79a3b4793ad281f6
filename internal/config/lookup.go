package config

import (
	"os"

	"github.com/sk-claudecode/skc/internal/consts"
)

// Locate returns the config file for projectRoot: the project file when it
// exists, else the user file when it exists, else the project file path so
// that a later Save creates it there.
func Locate(projectRoot string) string {
	project := consts.ProjectConfigPath(projectRoot)
	if fileExists(project) {
		return project
	}
	if user := consts.UserConfigPath(); fileExists(user) {
		return user
	}
	return project
}

// LoadProject loads the config that applies to projectRoot through the
// default manager. A missing file yields defaults.
func LoadProject(projectRoot string) (*Config, error) {
	return defaultManager.LoadOrDefault(Locate(projectRoot))
}

// LoadProjectWith is LoadProject on an explicit manager.
func LoadProjectWith(ins *InstanceManager, projectRoot string) (*Config, error) {
	return ins.LoadOrDefault(Locate(projectRoot))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/sk-claudecode/skc/internal/consts"
	"github.com/sk-claudecode/skc/internal/pkg/logs"
	"github.com/sk-claudecode/skc/internal/statepath"
)

type (
	Config struct {
		Skills  SkillsConfig  `yaml:"skills"`
		Hook    HookConfig    `yaml:"hook"`
		Server  ServerConfig  `yaml:"server"`
		Logging LoggingConfig `yaml:"logging"`
		Install InstallConfig `yaml:"install"`
	}

	SkillsConfig struct {
		Dir         string   `yaml:"dir"`
		InstallMode string   `yaml:"install_mode"` // minimal, standard, full
		LazyFolders []string `yaml:"lazy_folders"`
		Core        []string `yaml:"core"`
	}

	HookConfig struct {
		ContextFile string   `yaml:"context_file"`
		ReadTools   []string `yaml:"read_tools"`
		MaxBytes    int      `yaml:"max_bytes"`
		MaxLines    int      `yaml:"max_lines"`
		MaxDepth    int      `yaml:"max_depth"`
		CacheTTL    string   `yaml:"cache_ttl"`
	}

	ServerConfig struct {
		Bind        string `yaml:"bind"`
		MetricsBind string `yaml:"metrics_bind"`
		GCCron      string `yaml:"gc_cron"`
	}

	LoggingConfig struct {
		Level      string `yaml:"level"`  // debug, info, warn, error
		Format     string `yaml:"format"` // json, text
		Output     string `yaml:"output"` // stdout, stderr, file, both
		File       string `yaml:"file"`
		MaxSize    int    `yaml:"max_size"` // MB
		MaxBackups int    `yaml:"max_backups"`
		MaxAge     int    `yaml:"max_age"` // days
		Compress   bool   `yaml:"compress"`
	}

	InstallConfig struct {
		Target     string `yaml:"target"`
		Backup     *bool  `yaml:"backup"`
		MaxBackups int    `yaml:"max_backups"`
	}
)

// Default returns a validated config with every default applied.
func Default() *Config {
	cfg := &Config{}
	_ = cfg.Validate()
	return cfg
}

// UpdateByName replaces one section, or the install mode when name is
// "skills.install_mode".
func (c *Config) UpdateByName(name string, value any) error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}

	normalizedName := strings.ToLower(strings.TrimSpace(name))
	if normalizedName == "" {
		return fmt.Errorf("name is required")
	}

	switch normalizedName {
	case "config":
		typed, ok := value.(*Config)
		if !ok || typed == nil {
			return fmt.Errorf("name 'config' requires *Config")
		}
		*c = *typed
	case "skills":
		typed, ok := value.(*SkillsConfig)
		if !ok || typed == nil {
			return fmt.Errorf("name 'skills' requires *SkillsConfig")
		}
		c.Skills = *typed
	case "skills.install_mode":
		typed, ok := value.(string)
		if !ok {
			return fmt.Errorf("name 'skills.install_mode' requires string")
		}
		c.Skills.InstallMode = typed
	case "hook":
		typed, ok := value.(*HookConfig)
		if !ok || typed == nil {
			return fmt.Errorf("name 'hook' requires *HookConfig")
		}
		c.Hook = *typed
	case "server":
		typed, ok := value.(*ServerConfig)
		if !ok || typed == nil {
			return fmt.Errorf("name 'server' requires *ServerConfig")
		}
		c.Server = *typed
	case "logging":
		typed, ok := value.(*LoggingConfig)
		if !ok || typed == nil {
			return fmt.Errorf("name 'logging' requires *LoggingConfig")
		}
		c.Logging = *typed
	case "install":
		typed, ok := value.(*InstallConfig)
		if !ok || typed == nil {
			return fmt.Errorf("name 'install' requires *InstallConfig")
		}
		c.Install = *typed
	default:
		return fmt.Errorf("unsupported config name: %s", name)
	}

	return nil
}

// Clone .
func (c *Config) Clone() (*Config, error) {
	if c == nil {
		return nil, fmt.Errorf("config is nil")
	}

	raw, err := sonic.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	var cloned Config
	if err := sonic.Unmarshal(raw, &cloned); err != nil {
		return nil, fmt.Errorf("unmarshal config clone: %w", err)
	}

	return &cloned, nil
}

// Hash .
func (c *Config) Hash() string {
	json := sonic.Config{SortMapKeys: true, UseNumber: true}.Froze()
	raw, _ := json.Marshal(c)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// SkillsDir resolves skills.dir; relative values are taken from projectRoot.
func (c *Config) SkillsDir(projectRoot string) string {
	dir := c.Skills.Dir
	if dir == "" {
		return filepath.Join(consts.UserHomeDir(), consts.SkillsDirName)
	}
	if strings.HasPrefix(dir, "~/") {
		return filepath.Join(filepath.Dir(consts.UserHomeDir()), dir[2:])
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(projectRoot, dir)
}

// InstallTarget resolves install.target against projectRoot.
func (c *Config) InstallTarget(projectRoot string) string {
	if filepath.IsAbs(c.Install.Target) {
		return c.Install.Target
	}
	return filepath.Join(projectRoot, c.Install.Target)
}

func (c *Config) CacheTTL() time.Duration {
	d, err := time.ParseDuration(c.Hook.CacheTTL)
	if err != nil {
		return 0
	}
	return d
}

func (c *Config) BackupEnabled() bool {
	return c.Install.Backup == nil || *c.Install.Backup
}

// LogOptions maps the logging section onto logs.Options. A file output
// without an explicit file logs into the project's reserved logs folder.
func (c *Config) LogOptions(projectRoot string) logs.Options {
	opts := logs.Options{
		Level:      c.Logging.Level,
		Format:     c.Logging.Format,
		Output:     c.Logging.Output,
		File:       c.Logging.File,
		MaxSize:    c.Logging.MaxSize,
		MaxBackups: c.Logging.MaxBackups,
		MaxAge:     c.Logging.MaxAge,
		Compress:   c.Logging.Compress,
	}
	if opts.File == "" {
		if file, err := statepath.DefaultLogFile(projectRoot); err == nil {
			opts.File = file
		}
	}
	return opts
}

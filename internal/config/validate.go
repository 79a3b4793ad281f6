package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/gg/gslice"
	"github.com/robfig/cron/v3"

	"github.com/sk-claudecode/skc/internal/consts"
	"github.com/sk-claudecode/skc/internal/skill"
)

const (
	defaultBind        = "127.0.0.1:18790"
	defaultMetricsBind = "127.0.0.1:18791"
	defaultGCCron      = "*/10 * * * *"
	defaultCacheTTL    = "168h"
	defaultMaxDepth    = 64
	defaultLogMaxSize  = 100
)

var (
	logFormats = []string{"text", "json"}
	logOutputs = []string{"stdout", "stderr", "file", "both"}
)

// Validate fills defaults in place and rejects values no component can use.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config cannot be nil")
	}

	mode, err := skill.ParseInstallMode(c.Skills.InstallMode)
	if err != nil {
		return fmt.Errorf("skills.install_mode: %w", err)
	}
	c.Skills.InstallMode = string(mode)
	c.Skills.Dir = strings.TrimSpace(c.Skills.Dir)
	if c.Skills.LazyFolders == nil {
		c.Skills.LazyFolders = append([]string(nil), skill.DefaultLazyFolders...)
	}
	c.Skills.LazyFolders = normalizeList(c.Skills.LazyFolders)
	for _, folder := range c.Skills.LazyFolders {
		if strings.ContainsAny(folder, `/\`) || folder == "." || folder == ".." {
			return fmt.Errorf("skills.lazy_folders: invalid folder %q", folder)
		}
	}
	if c.Skills.Core == nil {
		c.Skills.Core = append([]string(nil), skill.DefaultCore...)
	}
	c.Skills.Core = normalizeList(c.Skills.Core)

	c.Hook.ContextFile = strings.TrimSpace(c.Hook.ContextFile)
	if c.Hook.ContextFile == "" {
		c.Hook.ContextFile = consts.ContextFileName
	}
	if strings.ContainsAny(c.Hook.ContextFile, `/\`) {
		return fmt.Errorf("hook.context_file must be a file name, got %q", c.Hook.ContextFile)
	}
	if len(c.Hook.ReadTools) == 0 {
		c.Hook.ReadTools = []string{"read"}
	}
	for i, t := range c.Hook.ReadTools {
		c.Hook.ReadTools[i] = strings.ToLower(strings.TrimSpace(t))
	}
	c.Hook.ReadTools = normalizeList(c.Hook.ReadTools)
	if c.Hook.MaxBytes < 0 || c.Hook.MaxLines < 0 {
		return errors.New("hook.max_bytes and hook.max_lines must not be negative")
	}
	if c.Hook.MaxDepth <= 0 {
		c.Hook.MaxDepth = defaultMaxDepth
	}
	c.Hook.CacheTTL = strings.TrimSpace(c.Hook.CacheTTL)
	if c.Hook.CacheTTL == "" {
		c.Hook.CacheTTL = defaultCacheTTL
	}
	if ttl, err := time.ParseDuration(c.Hook.CacheTTL); err != nil || ttl < 0 {
		return fmt.Errorf("invalid hook.cache_ttl: %q", c.Hook.CacheTTL)
	}

	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultBind
	}
	c.Server.MetricsBind = strings.TrimSpace(c.Server.MetricsBind)
	if c.Server.MetricsBind == "" {
		c.Server.MetricsBind = defaultMetricsBind
	}
	c.Server.GCCron = strings.TrimSpace(c.Server.GCCron)
	if c.Server.GCCron == "" {
		c.Server.GCCron = defaultGCCron
	}
	if _, err := cron.ParseStandard(c.Server.GCCron); err != nil {
		return fmt.Errorf("invalid server.gc_cron: %w", err)
	}

	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Output = strings.ToLower(strings.TrimSpace(c.Logging.Output))
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stderr"
	}
	if !gslice.Contains(logFormats, c.Logging.Format) {
		return fmt.Errorf("invalid logging.format: %s", c.Logging.Format)
	}
	if !gslice.Contains(logOutputs, c.Logging.Output) {
		return fmt.Errorf("invalid logging.output: %s", c.Logging.Output)
	}
	if c.Logging.MaxSize <= 0 {
		c.Logging.MaxSize = defaultLogMaxSize
	}

	c.Install.Target = strings.TrimSpace(c.Install.Target)
	if c.Install.Target == "" {
		c.Install.Target = consts.InstallTargetName
	}
	if c.Install.Backup == nil {
		backup := true
		c.Install.Backup = &backup
	}
	return nil
}

func normalizeList(in []string) []string {
	uniq := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, one := range in {
		one = strings.TrimSpace(one)
		if one == "" {
			continue
		}
		if _, ok := uniq[one]; ok {
			continue
		}
		uniq[one] = struct{}{}
		out = append(out, one)
	}
	return out
}

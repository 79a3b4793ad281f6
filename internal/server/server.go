// Package server keeps one Injector alive across host calls so the in-memory
// cache tier stays warm, and exposes the skill catalog over HTTP.
package server

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	hzServer "github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	monitor "github.com/hertz-contrib/monitor-prometheus"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"

	"github.com/sk-claudecode/skc/internal/hook"
	"github.com/sk-claudecode/skc/internal/pkg/logs"
	"github.com/sk-claudecode/skc/internal/pkg/prometheus"
	"github.com/sk-claudecode/skc/internal/skill"
)

const (
	defaultBind    = "127.0.0.1:18790"
	requestTimeout = 30 * time.Second
	metricsPath    = "/metrics"
)

type Options struct {
	Bind string
	// MetricsBind serves Registry on /metrics; empty disables the listener.
	MetricsBind string
	// Registry receives the request metrics. Nil uses the process registry.
	Registry *prom.Registry
	// GCCron schedules removal of persisted caches idle for longer than
	// CacheTTL. Empty, or a zero TTL, disables it.
	GCCron   string
	CacheTTL time.Duration

	Injector *hook.Injector
	Loader   *skill.Loader
}

type Server struct {
	httpServer *hzServer.Hertz
	injector   *hook.Injector
	loader     *skill.Loader
	cron       *cron.Cron
	gcSpec     string
	cacheTTL   time.Duration
}

func New(opts Options) (*Server, error) {
	if opts.Injector == nil || opts.Loader == nil {
		return nil, fmt.Errorf("injector and loader are required")
	}
	bind := opts.Bind
	if bind == "" {
		bind = defaultBind
	}
	registry := opts.Registry
	if registry == nil {
		registry = prometheus.GetRegistry()
	}

	tracer := monitor.NewServerTracer(opts.MetricsBind, metricsPath,
		monitor.WithRegistry(registry),
		monitor.WithDisableServer(opts.MetricsBind == ""),
	)
	hzSvr := hzServer.Default(
		hzServer.WithHostPorts(bind),
		hzServer.WithReadTimeout(requestTimeout),
		hzServer.WithWriteTimeout(requestTimeout),
		hzServer.WithExitWaitTime(3*time.Second),
		hzServer.WithTracer(tracer),
	)

	s := &Server{
		httpServer: hzSvr,
		injector:   opts.Injector,
		loader:     opts.Loader,
		gcSpec:     opts.GCCron,
		cacheTTL:   opts.CacheTTL,
	}
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.httpServer.GET("/healthz", func(ctx context.Context, c *app.RequestContext) {
		c.JSON(consts.StatusOK, utils.H{"status": "ok"})
	})

	v1 := s.httpServer.Group("/v1")
	v1.POST("/hook/tool/before", s.handleToolBefore)
	v1.POST("/hook/tool/after", s.handleToolAfter)
	v1.POST("/hook/event", s.handleEvent)
	v1.GET("/skills", s.handleListSkills)
	v1.GET("/skills/*name", s.handleGetSkill)
	v1.GET("/stats", s.handleStats)
}

// Start schedules cache GC and starts serving in the background.
func (s *Server) Start(ctx context.Context) error {
	if s.gcSpec != "" && s.cacheTTL > 0 {
		s.cron = cron.New()
		if _, err := s.cron.AddFunc(s.gcSpec, func() { s.runGC(ctx) }); err != nil {
			return fmt.Errorf("schedule cache gc: %w", err)
		}
		s.cron.Start()
		logs.CtxInfo(ctx, "[server] cache gc scheduled (%s, ttl=%s)", s.gcSpec, s.cacheTTL)
	}

	go s.httpServer.Spin()
	logs.CtxInfo(ctx, "[server] hook server started")
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		logs.CtxWarn(ctx, "[server] shutdown http server error: %v", err)
		return err
	}
	logs.CtxInfo(ctx, "[server] stopped")
	return nil
}

func (s *Server) runGC(ctx context.Context) {
	removed, err := s.injector.GC(ctx, time.Now(), s.cacheTTL)
	if err != nil {
		logs.CtxWarn(ctx, "[server] cache gc error: %v", err)
	}
	if removed > 0 {
		logs.CtxInfo(ctx, "[server] cache gc removed %d session(s)", removed)
	}
}

package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "skc"

var (
	registry = prometheus.NewRegistry()

	HookInjectedDocs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "hook",
		Name:      "injected_documents_total",
		Help:      "Context documents appended to tool output.",
	}, []string{"tool"})

	HookCacheSkips = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "hook",
		Name:      "cache_skips_total",
		Help:      "Context documents skipped because their directory was already injected in the session.",
	})

	HookTruncations = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "hook",
		Name:      "truncations_total",
		Help:      "Context documents truncated before injection.",
	})

	HookInvalidations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "hook",
		Name:      "cache_invalidations_total",
		Help:      "Session injection caches dropped by lifecycle events.",
	}, []string{"event"})

	HookErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "hook",
		Name:      "errors_total",
		Help:      "Swallowed hook failures by stage.",
	}, []string{"stage"})

	SkillLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "skills",
		Name:      "lookups_total",
		Help:      "Skill lookups by result.",
	}, []string{"result"})

	StoreGCRemoved = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "store",
		Name:      "gc_removed_total",
		Help:      "Persisted session caches removed by GC.",
	})
)

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		HookInjectedDocs,
		HookCacheSkips,
		HookTruncations,
		HookInvalidations,
		HookErrors,
		SkillLookups,
		StoreGCRemoved,
	)
}

func GetRegistry() *prometheus.Registry {
	return registry
}

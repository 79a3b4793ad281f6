package prometheus

import (
	"strings"
	"testing"
)

func TestRegistryGathersHookMetrics(t *testing.T) {
	HookInjectedDocs.WithLabelValues("read").Inc()
	SkillLookups.WithLabelValues("hit").Inc()

	families, err := GetRegistry().Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	seen := make(map[string]bool)
	for _, f := range families {
		if strings.HasPrefix(f.GetName(), namespace+"_") {
			seen[f.GetName()] = true
		}
	}
	for _, want := range []string{"skc_hook_injected_documents_total", "skc_skills_lookups_total"} {
		if !seen[want] {
			t.Fatalf("metric %s not gathered; have %v", want, seen)
		}
	}
}

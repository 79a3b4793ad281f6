package logs

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestWriterLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf, "warn")

	l.Info("hidden %d", 1)
	l.Warn("shown %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "WARNING") || !strings.Contains(out, "shown 2") {
		t.Fatalf("expected warn line, got %q", out)
	}
}

func TestCtxLoggerCarriesIDs(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf, "debug")

	ctx := l.SetLogID(context.Background(), "log-123")
	ctx = WithSessionID(ctx, "ses_abc")
	l.CtxInfo(ctx, "[hook] injected %s", "AGENTS.md")

	out := buf.String()
	for _, want := range []string{"log-123", "sess=ses_abc", "[hook] injected AGENTS.md"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
	if got := l.GetLogID(ctx); got != "log-123" {
		t.Fatalf("GetLogID = %q", got)
	}
}

func TestParseLogLevel(t *testing.T) {
	l := NewWriterLogger(&bytes.Buffer{}, "error")
	if l.GetLevel() != ErrorLevel {
		t.Fatalf("expected error level, got %s", l.GetLevel())
	}
	l.SetLevel(DebugLevel)
	if l.GetLevel() != DebugLevel {
		t.Fatalf("expected debug level, got %s", l.GetLevel())
	}
}

func TestBuildWriterRejectsUnknownOutput(t *testing.T) {
	if _, err := buildWriter(Options{}, "syslog"); err == nil {
		t.Fatal("expected error for unsupported output")
	}
	if _, err := buildWriter(Options{}, "file"); err == nil {
		t.Fatal("expected error when file output has no file")
	}
}

func TestHlogAdapterPrefixesHertzLines(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf, "debug")
	h := NewHlogLogger(l)

	h.Info("listening on ", "127.0.0.1:18790")
	h.Warn("100% busy")
	h.Errorf("shutdown: %v", "timeout")
	h.CtxInfof(WithSessionID(context.Background(), "ses_1"), "conn %d closed", 7)

	out := buf.String()
	for _, want := range []string{
		"[hertz] listening on 127.0.0.1:18790",
		"[hertz] 100% busy",
		"[hertz] shutdown: timeout",
		"sess=ses_1 [hertz] conn 7 closed",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
}

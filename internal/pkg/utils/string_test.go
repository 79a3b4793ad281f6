package utils

import (
	"testing"
	"time"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"a longer sentence", 8, "a longer..."},
		{"héllo", 2, "h..."},
		{"anything", 0, "anything"},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.max); got != tt.want {
			t.Fatalf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestFirstLine(t *testing.T) {
	if got := FirstLine("\n  \n  first  \nsecond"); got != "first" {
		t.Fatalf("FirstLine = %q", got)
	}
	if got := FirstLine(""); got != "" {
		t.Fatalf("FirstLine(empty) = %q", got)
	}
}

func TestJitter(t *testing.T) {
	d := 100 * time.Millisecond
	for i := 0; i < 50; i++ {
		got := Jitter(d)
		if got < d || got >= d+d/2 {
			t.Fatalf("Jitter(%s) = %s out of range", d, got)
		}
	}
	if Jitter(0) != 0 {
		t.Fatal("Jitter(0) should be 0")
	}
}

package utils

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bytedance/gopkg/lang/fastrand"
)

// Truncate cuts content to at most maxLen bytes on a rune boundary and marks
// the cut with "...".
func Truncate(content string, maxLen int) string {
	if maxLen <= 0 || len(content) <= maxLen {
		return content
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(content[cut]) {
		cut--
	}
	return content[:cut] + "..."
}

func Truncate80(content string) string {
	return Truncate(content, 80)
}

// FirstLine returns the first non-blank line of s, trimmed.
func FirstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

// Jitter returns d plus up to d/2 of random delay, so that processes polling
// the same lock do not retry in lockstep.
func Jitter(d time.Duration) time.Duration {
	if d <= 0 {
		return d
	}
	half := uint32(d / 2)
	if half == 0 {
		return d
	}
	return d + time.Duration(fastrand.Uint32n(half))
}

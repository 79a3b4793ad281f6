package hook

import (
	"context"
	"strings"
	"unicode/utf8"
)

// Truncator bounds the size of an injected document.
type Truncator interface {
	Truncate(ctx context.Context, sessionID, content string) (string, bool)
}

// LimitTruncator cuts content to MaxLines lines and MaxBytes bytes, on line
// boundaries where possible. Zero disables a limit.
type LimitTruncator struct {
	MaxBytes int
	MaxLines int
}

func (t LimitTruncator) Truncate(_ context.Context, _ string, content string) (string, bool) {
	out := content
	truncated := false

	if t.MaxLines > 0 {
		idx := -1
		for n := 0; n < t.MaxLines; n++ {
			next := strings.IndexByte(out[idx+1:], '\n')
			if next == -1 {
				idx = -1
				break
			}
			idx += next + 1
		}
		if idx != -1 && idx < len(out)-1 {
			out = out[:idx]
			truncated = true
		}
	}

	if t.MaxBytes > 0 && len(out) > t.MaxBytes {
		cut := strings.LastIndexByte(out[:t.MaxBytes], '\n')
		if cut <= 0 {
			cut = t.MaxBytes
			for cut > 0 && !utf8.RuneStart(out[cut]) {
				cut--
			}
		}
		out = out[:cut]
		truncated = true
	}
	return out, truncated
}

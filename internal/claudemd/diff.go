package claudemd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

type DiffOp string

const (
	DiffContext DiffOp = "context"
	DiffAdded   DiffOp = "added"
	DiffRemoved DiffOp = "removed"
)

type DiffLine struct {
	Op      DiffOp `json:"op"`
	Text    string `json:"text"`
	OldLine int    `json:"old_line,omitempty"`
	NewLine int    `json:"new_line,omitempty"`
}

// Diff is a line-level diff of before and after.
func Diff(before, after string) []DiffLine {
	dmp := diffmatchpatch.New()
	beforeChars, afterChars, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffMain(beforeChars, afterChars, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var lines []DiffLine
	oldLine, newLine := 1, 1
	for _, d := range diffs {
		chunk := strings.Split(d.Text, "\n")
		if len(chunk) > 0 && chunk[len(chunk)-1] == "" {
			chunk = chunk[:len(chunk)-1]
		}
		for _, text := range chunk {
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				lines = append(lines, DiffLine{Op: DiffContext, Text: text, OldLine: oldLine, NewLine: newLine})
				oldLine++
				newLine++
			case diffmatchpatch.DiffDelete:
				lines = append(lines, DiffLine{Op: DiffRemoved, Text: text, OldLine: oldLine})
				oldLine++
			case diffmatchpatch.DiffInsert:
				lines = append(lines, DiffLine{Op: DiffAdded, Text: text, NewLine: newLine})
				newLine++
			}
		}
	}
	return lines
}

// Changed reports whether the diff has any added or removed line.
func Changed(lines []DiffLine) bool {
	for _, l := range lines {
		if l.Op != DiffContext {
			return true
		}
	}
	return false
}

// FormatDiff renders lines in unified style. Unchanged lines further than
// contextLines from a change are elided; a negative value keeps all of them.
func FormatDiff(lines []DiffLine, contextLines int, colored bool) string {
	keep := make([]bool, len(lines))
	for i, l := range lines {
		if l.Op == DiffContext && contextLines >= 0 {
			continue
		}
		keep[i] = true
		if l.Op == DiffContext {
			continue
		}
		for j := i - contextLines; j <= i+contextLines; j++ {
			if j >= 0 && j < len(lines) {
				keep[j] = true
			}
		}
	}

	add := color.New(color.FgGreen).SprintFunc()
	del := color.New(color.FgRed).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	var sb strings.Builder
	skipped := false
	for i, l := range lines {
		if !keep[i] {
			skipped = true
			continue
		}
		if skipped {
			sb.WriteString(paint(colored, dim, "@@ ... @@") + "\n")
			skipped = false
		}
		switch l.Op {
		case DiffAdded:
			sb.WriteString(paint(colored, add, "+"+l.Text) + "\n")
		case DiffRemoved:
			sb.WriteString(paint(colored, del, "-"+l.Text) + "\n")
		default:
			sb.WriteString(" " + l.Text + "\n")
		}
	}
	if skipped {
		sb.WriteString(paint(colored, dim, "@@ ... @@") + "\n")
	}
	return sb.String()
}

func paint(colored bool, fn func(a ...interface{}) string, s string) string {
	if !colored {
		return s
	}
	return fn(s)
}

// DiffSummary counts added and removed lines.
func DiffSummary(lines []DiffLine) string {
	added, removed := 0, 0
	for _, l := range lines {
		switch l.Op {
		case DiffAdded:
			added++
		case DiffRemoved:
			removed++
		}
	}
	return fmt.Sprintf("+%d -%d", added, removed)
}

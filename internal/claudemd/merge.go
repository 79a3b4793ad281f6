// Package claudemd maintains the system-owned region of a user-edited
// markdown document.
//
// The region is delimited by StartMarker/EndMarker. Everything outside the
// first valid marker pair belongs to the user and is preserved byte for byte.
package claudemd

import (
	"strings"

	"github.com/sk-claudecode/skc/internal/consts"
)

const (
	StartMarker = consts.ManagedStartMarker
	EndMarker   = consts.ManagedEndMarker

	UserCustomizationsHeader      = "<!-- User customizations -->"
	RecoveredCustomizationsHeader = "<!-- User customizations (recovered from corrupted markers) -->"
)

// MergeState names the region of the document a merge touched.
type MergeState int

const (
	// StateFresh: there was no document; a new one was created.
	StateFresh MergeState = iota
	// StateReplaced: the managed region of a valid marker pair was replaced.
	StateReplaced
	// StateNoMarkers: the document had no markers; it was wrapped below a new
	// managed region.
	StateNoMarkers
	// StateCorrupted: markers were present but unusable; the whole previous
	// document was preserved below a new managed region.
	StateCorrupted
)

func (s MergeState) String() string {
	switch s {
	case StateFresh:
		return "fresh"
	case StateReplaced:
		return "replaced"
	case StateNoMarkers:
		return "no-markers"
	case StateCorrupted:
		return "corrupted"
	}
	return "unknown"
}

// Describe is a human readable account of the affected region.
func (s MergeState) Describe() string {
	switch s {
	case StateFresh:
		return "created new document with managed region"
	case StateReplaced:
		return "replaced managed region"
	case StateNoMarkers:
		return "added managed region above existing content"
	case StateCorrupted:
		return "recovered from corrupted markers; previous content preserved below managed region"
	}
	return "unknown"
}

type MergeResult struct {
	Content string
	State   MergeState
}

// Merge injects generated into existing. A nil existing means the document
// does not exist yet.
func Merge(existing *string, generated string) string {
	return MergeDocument(existing, generated).Content
}

func MergeDocument(existing *string, generated string) MergeResult {
	// generated content that already carries a marker pair contributes only
	// its inner text, so markers are never nested
	if inner, ok := ExtractManaged(generated); ok {
		generated = strings.TrimSpace(inner)
	}

	if existing == nil {
		return MergeResult{Content: wrap(generated) + "\n", State: StateFresh}
	}
	doc := *existing

	start, end, ok := locatePair(doc)
	if ok {
		content := doc[:start] + wrap(generated) + doc[end+len(EndMarker):]
		return MergeResult{Content: content, State: StateReplaced}
	}

	header, state := UserCustomizationsHeader, StateNoMarkers
	if strings.Contains(doc, StartMarker) || strings.Contains(doc, EndMarker) {
		header, state = RecoveredCustomizationsHeader, StateCorrupted
	}
	return MergeResult{
		Content: wrap(generated) + "\n\n" + header + "\n" + doc,
		State:   state,
	}
}

// ExtractManaged returns the text between the first valid marker pair, minus
// the single newline that Merge writes after StartMarker and before EndMarker.
// For marker-free x, ExtractManaged(Merge(nil, x)) yields x.
func ExtractManaged(doc string) (string, bool) {
	start, end, ok := locatePair(doc)
	if !ok {
		return "", false
	}
	inner := doc[start+len(StartMarker) : end]
	// a region opened with CRLF belongs to a CRLF document and is closed
	// the same way; otherwise only the LF that wrap writes is removed
	nl := "\n"
	if strings.HasPrefix(inner, "\r\n") {
		nl = "\r\n"
	}
	inner = strings.TrimPrefix(inner, nl)
	inner = strings.TrimSuffix(inner, nl)
	return inner, true
}

// HasManagedRegion reports whether doc carries a valid marker pair.
func HasManagedRegion(doc string) bool {
	_, _, ok := locatePair(doc)
	return ok
}

// locatePair finds the first StartMarker and the first EndMarker after it.
func locatePair(doc string) (start, end int, ok bool) {
	start = strings.Index(doc, StartMarker)
	if start == -1 {
		return 0, 0, false
	}
	rel := strings.Index(doc[start+len(StartMarker):], EndMarker)
	if rel == -1 {
		return 0, 0, false
	}
	return start, start + len(StartMarker) + rel, true
}

func wrap(generated string) string {
	return StartMarker + "\n" + generated + "\n" + EndMarker
}

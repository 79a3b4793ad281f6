package consts

import _ "embed"

// DefaultManagedContent is the generated document merged into the install
// target when no explicit content file is given.
//
//go:embed tpl/CLAUDE.md
var DefaultManagedContent string

// Managed region sentinels of the install target.
const (
	ManagedStartMarker = "<!-- SKC:START -->"
	ManagedEndMarker   = "<!-- SKC:END -->"
)

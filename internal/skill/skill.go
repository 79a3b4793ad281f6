package skill

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSkillNotFound      = errors.New("skill not found")
	ErrInvalidInstallMode = errors.New("invalid install mode")
	ErrInvalidSkillName   = errors.New("invalid skill name")
	ErrNamespaceCollision = errors.New("skill namespace collision")
)

type Skill struct {
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Template     string            `json:"template"`
	Model        string            `json:"model,omitempty"`
	Agent        string            `json:"agent,omitempty"`
	ArgumentHint string            `json:"argument_hint,omitempty"`
	Extra        map[string]string `json:"extra,omitempty"`
	Path         string            `json:"path"`
}

// InstallMode gates which skills are loaded eagerly.
type InstallMode string

const (
	ModeMinimal  InstallMode = "minimal"
	ModeStandard InstallMode = "standard"
	ModeFull     InstallMode = "full"
)

func (m InstallMode) String() string { return string(m) }

func (m InstallMode) Valid() bool {
	switch m {
	case ModeMinimal, ModeStandard, ModeFull:
		return true
	}
	return false
}

func ParseInstallMode(s string) (InstallMode, error) {
	mode := InstallMode(strings.ToLower(strings.TrimSpace(s)))
	if mode == "" {
		return ModeStandard, nil
	}
	if !mode.Valid() {
		return "", fmt.Errorf("%w: %q (want minimal, standard or full)", ErrInvalidInstallMode, s)
	}
	return mode, nil
}

type Stats struct {
	Loaded      int            `json:"loaded"`
	LazyFolders []string       `json:"lazy_folders"`
	LazyLoaded  map[string]int `json:"lazy_loaded"`
	Mode        InstallMode    `json:"mode"`
}

// BuildPrompt renders skills as one markdown document.
func BuildPrompt(skills []*Skill) string {
	if len(skills) == 0 {
		return ""
	}

	parts := make([]string, 0, len(skills)*4+1)
	parts = append(parts, "# Available Skills\n")
	for i, oneSkill := range skills {
		parts = append(parts, fmt.Sprintf("## Skill: %s\n", oneSkill.Name))
		if oneSkill.Description != "" {
			parts = append(parts, fmt.Sprintf("**Description**: %s\n", oneSkill.Description))
		}
		if oneSkill.ArgumentHint != "" {
			parts = append(parts, fmt.Sprintf("**Arguments**: %s\n", oneSkill.ArgumentHint))
		}
		if oneSkill.Template != "" {
			parts = append(parts, oneSkill.Template)
		}
		if i < len(skills)-1 {
			parts = append(parts, "\n\n---\n\n")
		}
	}

	return strings.Join(parts, "\n")
}

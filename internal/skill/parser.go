package skill

import (
	"fmt"
	"regexp"
	"strings"
)

var frontmatterRe = regexp.MustCompile(`^---\r?\n([\s\S]*?)\r?\n---\r?\n?([\s\S]*)$`)

// Parse reads a SKILL.md document. The header is a flat "key: value" list,
// not YAML: only the first colon splits, and one pair of matching quotes is
// stripped from the value.
func Parse(content, fallbackName string) (*Skill, error) {
	data, body := parseFrontmatter(content)

	s := &Skill{
		Name:         data["name"],
		Description:  data["description"],
		Template:     strings.TrimSpace(body),
		Model:        data["model"],
		Agent:        data["agent"],
		ArgumentHint: data["argument-hint"],
	}
	if s.Name == "" {
		s.Name = fallbackName
	}
	if err := validateName(s.Name); err != nil {
		return nil, err
	}

	for k, v := range data {
		switch k {
		case "name", "description", "model", "agent", "argument-hint":
			continue
		}
		if s.Extra == nil {
			s.Extra = make(map[string]string)
		}
		s.Extra[k] = v
	}
	return s, nil
}

func parseFrontmatter(content string) (map[string]string, string) {
	match := frontmatterRe.FindStringSubmatch(content)
	if match == nil {
		return map[string]string{}, content
	}

	data := make(map[string]string)
	for _, line := range strings.Split(match[1], "\n") {
		idx := strings.Index(line, ":")
		if idx == -1 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		data[key] = unquote(value)
	}
	return data, match[2]
}

func unquote(v string) string {
	if len(v) < 2 {
		return v
	}
	if (v[0] == '"' && v[len(v)-1] == '"') || (v[0] == '\'' && v[len(v)-1] == '\'') {
		return v[1 : len(v)-1]
	}
	return v
}

// validateName accepts plain names and the single-level "folder/sub" form
// used for lazily loaded skills.
func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidSkillName)
	}
	if strings.ContainsRune(name, '\\') {
		return fmt.Errorf("%w: %q", ErrInvalidSkillName, name)
	}
	parts := strings.Split(name, "/")
	if len(parts) > 2 {
		return fmt.Errorf("%w: %q", ErrInvalidSkillName, name)
	}
	for _, p := range parts {
		if p == "" || p == "." || p == ".." {
			return fmt.Errorf("%w: %q", ErrInvalidSkillName, name)
		}
	}
	return nil
}

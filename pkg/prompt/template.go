package prompt

import (
	"fmt"
	"strings"
)

// MissingPolicy controls what happens when a template references a field
// the note does not have.
type MissingPolicy int

const (
	// MissingError fails the fill, naming the first missing field.
	MissingError MissingPolicy = iota
	// MissingKeep leaves the unmatched placeholder in the output as-is.
	MissingKeep
)

// ParseMissingPolicy parses a policy name from configuration.
func ParseMissingPolicy(s string) (MissingPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "error":
		return MissingError, nil
	case "keep":
		return MissingKeep, nil
	default:
		return MissingError, fmt.Errorf("unknown missing-field policy: %q", s)
	}
}

func (p MissingPolicy) String() string {
	if p == MissingKeep {
		return "keep"
	}
	return "error"
}

// MissingFieldError reports a placeholder with no matching note field.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing field {%s}", e.Field)
}

// Fill replaces each {Field Name} token in template with the matching value
// from fields, in a single left-to-right pass. Replacement text is never
// rescanned, so filling is idempotent with respect to its own source
// template. Unmatched placeholders follow the policy; they are never
// silently dropped.
func Fill(template string, fields map[string]string, policy MissingPolicy) (string, error) {
	var b strings.Builder
	b.Grow(len(template))

	for i := 0; i < len(template); {
		if template[i] != '{' {
			b.WriteByte(template[i])
			i++
			continue
		}

		// scan for the closing brace; a second opening brace before it
		// means the first one was literal text
		j := i + 1
		for j < len(template) && template[j] != '{' && template[j] != '}' {
			j++
		}
		if j >= len(template) || template[j] == '{' {
			b.WriteString(template[i:j])
			i = j
			continue
		}

		name := template[i+1 : j]
		if name == "" {
			b.WriteString("{}")
			i = j + 1
			continue
		}

		if value, ok := fields[name]; ok {
			b.WriteString(value)
		} else {
			if policy == MissingError {
				return "", &MissingFieldError{Field: name}
			}
			b.WriteString(template[i : j+1])
		}
		i = j + 1
	}

	return b.String(), nil
}

// Placeholders returns the distinct placeholder names in template, in order
// of first appearance.
func Placeholders(template string) []string {
	var names []string
	seen := make(map[string]struct{})

	for i := 0; i < len(template); {
		if template[i] != '{' {
			i++
			continue
		}
		j := i + 1
		for j < len(template) && template[j] != '{' && template[j] != '}' {
			j++
		}
		if j >= len(template) || template[j] == '{' {
			i = j
			continue
		}
		if name := template[i+1 : j]; name != "" {
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				names = append(names, name)
			}
		}
		i = j + 1
	}

	return names
}

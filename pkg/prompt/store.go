package prompt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/duke-git/lancet/v2/maputil"
	"github.com/duke-git/lancet/v2/slice"
)

const (
	templatesFilename = "prompts.txt"

	blockPrefix = "[[["
	blockSuffix = "]]]"
)

// Store persists named prompt templates as a plain-text file with
// [[[Name]]] block delimiters, plus a sibling JSON file for per-template
// settings.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. The directory is created on the
// first write.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the directory holding the store's files.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) templatesPath() string {
	return filepath.Join(s.dir, templatesFilename)
}

// Templates loads all templates. A missing file is an empty store.
func (s *Store) Templates() (map[string]string, error) {
	data, err := os.ReadFile(s.templatesPath())
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read templates: %w", err)
	}
	return parseTemplates(string(data)), nil
}

// Names returns the template names, sorted.
func (s *Store) Names() ([]string, error) {
	templates, err := s.Templates()
	if err != nil {
		return nil, err
	}
	names := maputil.Keys(templates)
	slice.Sort(names)
	return names, nil
}

// Get returns a single template body.
func (s *Store) Get(name string) (string, error) {
	templates, err := s.Templates()
	if err != nil {
		return "", err
	}
	body, ok := templates[name]
	if !ok {
		return "", fmt.Errorf("no template named %q", name)
	}
	return body, nil
}

// Put creates or replaces a template.
func (s *Store) Put(name, body string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("template name must not be empty")
	}
	templates, err := s.Templates()
	if err != nil {
		return err
	}
	templates[name] = body
	return s.write(templates)
}

// Delete removes a template and its settings.
func (s *Store) Delete(name string) error {
	templates, err := s.Templates()
	if err != nil {
		return err
	}
	if _, ok := templates[name]; !ok {
		return fmt.Errorf("no template named %q", name)
	}
	delete(templates, name)
	if err := s.write(templates); err != nil {
		return err
	}
	return s.deleteSettings(name)
}

// Rename moves a template, carrying its settings along.
func (s *Store) Rename(oldName, newName string) error {
	if strings.TrimSpace(newName) == "" {
		return fmt.Errorf("template name must not be empty")
	}
	templates, err := s.Templates()
	if err != nil {
		return err
	}
	body, ok := templates[oldName]
	if !ok {
		return fmt.Errorf("no template named %q", oldName)
	}
	if _, exists := templates[newName]; exists {
		return fmt.Errorf("template %q already exists", newName)
	}
	delete(templates, oldName)
	templates[newName] = body
	if err := s.write(templates); err != nil {
		return err
	}
	return s.renameSettings(oldName, newName)
}

func (s *Store) write(templates map[string]string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", s.dir, err)
	}

	names := maputil.Keys(templates)
	slice.Sort(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString(blockPrefix)
		b.WriteString(name)
		b.WriteString(blockSuffix)
		b.WriteString("\n")
		b.WriteString(templates[name])
		b.WriteString("\n\n")
	}

	if err := os.WriteFile(s.templatesPath(), []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write templates: %w", err)
	}
	return nil
}

// parseTemplates splits [[[Name]]]-delimited blocks. Bodies are trimmed of
// trailing newlines so a load/save round trip is stable.
func parseTemplates(data string) map[string]string {
	templates := make(map[string]string)

	var (
		current string
		lines   []string
		open    bool
	)

	flush := func() {
		if open {
			templates[current] = strings.TrimRight(strings.Join(lines, "\n"), "\n")
		}
	}

	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.HasPrefix(line, blockPrefix) && strings.HasSuffix(line, blockSuffix) {
			flush()
			current = strings.TrimSpace(line[len(blockPrefix) : len(line)-len(blockSuffix)])
			lines = lines[:0]
			open = true
			continue
		}
		if open {
			lines = append(lines, line)
		}
	}
	flush()

	return templates
}

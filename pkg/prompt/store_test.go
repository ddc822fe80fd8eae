package prompt

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestStoreRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())

	if err := store.Put("Grammar", "Explain the grammar of {Front}."); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	if err := store.Put("Translate", "Translate {Front}\ninto {Language}."); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	templates, err := store.Templates()
	if err != nil {
		t.Fatalf("Templates returned error: %v", err)
	}

	expected := map[string]string{
		"Grammar":   "Explain the grammar of {Front}.",
		"Translate": "Translate {Front}\ninto {Language}.",
	}
	if !reflect.DeepEqual(templates, expected) {
		t.Errorf("Expected %v, got %v", expected, templates)
	}

	// saving again must not grow the bodies
	if err := store.Put("Grammar", templates["Grammar"]); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	again, err := store.Get("Grammar")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if again != expected["Grammar"] {
		t.Errorf("Round trip changed body: %q vs %q", expected["Grammar"], again)
	}
}

func TestStoreFileFormat(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	if err := store.Put("B", "second"); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	if err := store.Put("A", "first"); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, templatesFilename))
	if err != nil {
		t.Fatalf("ReadFile returned error: %v", err)
	}

	expected := "[[[A]]]\nfirst\n\n[[[B]]]\nsecond\n\n"
	if string(data) != expected {
		t.Errorf("Expected file content %q, got %q", expected, string(data))
	}
}

func TestParseTemplates(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected map[string]string
	}{
		{
			name:     "Empty",
			input:    "",
			expected: map[string]string{},
		},
		{
			name:     "Single block",
			input:    "[[[One]]]\nbody\n\n",
			expected: map[string]string{"One": "body"},
		},
		{
			name:  "Multiline body",
			input: "[[[One]]]\nline 1\nline 2\n\n",
			expected: map[string]string{
				"One": "line 1\nline 2",
			},
		},
		{
			name:  "Name whitespace trimmed",
			input: "[[[ Padded ]]]\nbody\n",
			expected: map[string]string{
				"Padded": "body",
			},
		},
		{
			name:     "Text before first header ignored",
			input:    "stray\n[[[One]]]\nbody\n",
			expected: map[string]string{"One": "body"},
		},
		{
			name:  "Body may contain brackets mid-line",
			input: "[[[One]]]\nuse [[[not a header in here\n",
			expected: map[string]string{
				"One": "use [[[not a header in here",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := parseTemplates(tc.input)
			if !reflect.DeepEqual(result, tc.expected) {
				t.Errorf("Expected %v, got %v", tc.expected, result)
			}
		})
	}
}

func TestStoreDeleteAndRename(t *testing.T) {
	store := NewStore(t.TempDir())

	if err := store.Put("Old", "body"); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	if err := store.PutSettings("Old", Settings{OutputField: "Back"}); err != nil {
		t.Fatalf("PutSettings returned error: %v", err)
	}

	if err := store.Rename("Old", "New"); err != nil {
		t.Fatalf("Rename returned error: %v", err)
	}

	if _, err := store.Get("Old"); err == nil {
		t.Error("Expected error getting renamed template by old name")
	}
	body, err := store.Get("New")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if body != "body" {
		t.Errorf("Expected body %q, got %q", "body", body)
	}

	settings, err := store.SettingsFor("New")
	if err != nil {
		t.Fatalf("SettingsFor returned error: %v", err)
	}
	if settings.OutputField != "Back" {
		t.Errorf("Expected settings to follow rename, got %+v", settings)
	}

	if err := store.Delete("New"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	names, err := store.Names()
	if err != nil {
		t.Fatalf("Names returned error: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("Expected empty store, got %v", names)
	}

	all, err := store.AllSettings()
	if err != nil {
		t.Fatalf("AllSettings returned error: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("Expected settings removed with template, got %v", all)
	}
}

func TestStoreDeleteMissing(t *testing.T) {
	store := NewStore(t.TempDir())
	err := store.Delete("nope")
	if err == nil || !strings.Contains(err.Error(), "no template named") {
		t.Errorf("Expected no-template error, got %v", err)
	}
}

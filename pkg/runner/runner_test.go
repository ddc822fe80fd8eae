package runner

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/promptdeck/promptdeck/pkg/anki"
	"github.com/promptdeck/promptdeck/pkg/llm"
	"github.com/promptdeck/promptdeck/pkg/prompt"
)

type fakeGenerator struct {
	// errs are consumed before replies, one per call.
	errs    []error
	replies []string
	calls   int
	prompts []string
}

func (g *fakeGenerator) String() string    { return "fake" }
func (g *fakeGenerator) IsAvailable() bool { return true }

func (g *fakeGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	g.prompts = append(g.prompts, userPrompt)
	call := g.calls
	g.calls++
	if call < len(g.errs) && g.errs[call] != nil {
		return "", g.errs[call]
	}
	if len(g.replies) == 0 {
		return "generated", nil
	}
	return g.replies[min(call, len(g.replies)-1)], nil
}

type fakeWriter struct {
	updates map[int64]map[string]string
	err     error
}

func (w *fakeWriter) UpdateNoteFields(ctx context.Context, id int64, fields map[string]string) error {
	if w.err != nil {
		return w.err
	}
	if w.updates == nil {
		w.updates = make(map[int64]map[string]string)
	}
	w.updates[id] = fields
	return nil
}

func basicNote(id int64, front, back string) anki.Note {
	return anki.Note{
		ID:         id,
		ModelName:  "Basic",
		FieldOrder: []string{"Front", "Back"},
		Fields:     map[string]string{"Front": front, "Back": back},
	}
}

func TestRunReplacesOutputField(t *testing.T) {
	gen := &fakeGenerator{replies: []string{"the dog"}}
	writer := &fakeWriter{}
	notes := []anki.Note{basicNote(1, "der Hund", "old")}

	result, err := Run(context.Background(), gen, writer, notes, Options{
		Template:    "Translate {Front}.",
		OutputField: "Back",
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if result.Processed != 1 || result.Succeeded != 1 || result.Errors != 0 {
		t.Errorf("Unexpected result: %+v", result)
	}
	if gen.prompts[0] != "Translate der Hund." {
		t.Errorf("Expected filled prompt, got %q", gen.prompts[0])
	}
	if got := writer.updates[1]["Back"]; got != "the dog" {
		t.Errorf("Expected field replaced with %q, got %q", "the dog", got)
	}
}

func TestRunAppendsWithSeparator(t *testing.T) {
	testCases := []struct {
		name     string
		existing string
		expected string
	}{
		{
			name:     "Existing text gets separator",
			existing: "old",
			expected: "old" + AppendSeparator + "generated",
		},
		{
			name:     "Empty field gets no separator",
			existing: "",
			expected: "generated",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gen := &fakeGenerator{}
			writer := &fakeWriter{}
			notes := []anki.Note{basicNote(1, "x", tc.existing)}

			_, err := Run(context.Background(), gen, writer, notes, Options{
				Template:    "{Front}",
				OutputField: "Back",
				Append:      true,
			})
			if err != nil {
				t.Fatalf("Run returned error: %v", err)
			}
			if got := writer.updates[1]["Back"]; got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestRunSkipsNoteWithMissingPlaceholder(t *testing.T) {
	gen := &fakeGenerator{}
	writer := &fakeWriter{}
	notes := []anki.Note{
		basicNote(1, "x", ""),
		{
			ID:     2,
			Fields: map[string]string{"Back": ""}, // no Front
		},
		basicNote(3, "y", ""),
	}

	var failed []int64
	result, err := Run(context.Background(), gen, writer, notes, Options{
		Template:    "{Front}",
		OutputField: "Back",
		Policy:      prompt.MissingError,
		OnProgress: func(p Progress) {
			if p.Err != nil {
				failed = append(failed, p.NoteID)
			}
		},
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if result.Processed != 3 || result.Succeeded != 2 || result.Errors != 1 {
		t.Errorf("Unexpected result: %+v", result)
	}
	if len(failed) != 1 || failed[0] != 2 {
		t.Errorf("Expected note 2 to fail, got %v", failed)
	}
	if _, ok := writer.updates[2]; ok {
		t.Error("Failed note must be left unmodified")
	}
}

func TestRunProviderErrorLeavesNoteUnmodified(t *testing.T) {
	gen := &fakeGenerator{errs: []error{errors.New("boom"), nil}}
	writer := &fakeWriter{}
	notes := []anki.Note{basicNote(1, "x", ""), basicNote(2, "y", "")}

	result, err := Run(context.Background(), gen, writer, notes, Options{
		Template:    "{Front}",
		OutputField: "Back",
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if result.Errors != 1 || result.Succeeded != 1 {
		t.Errorf("Unexpected result: %+v", result)
	}
	if _, ok := writer.updates[1]; ok {
		t.Error("Note with provider error must be left unmodified")
	}
	if _, ok := writer.updates[2]; !ok {
		t.Error("Batch must continue after a provider error")
	}
}

func TestRunAbortsOnAuthError(t *testing.T) {
	authErr := fmt.Errorf("key rejected: %w", llm.ErrAuth)
	gen := &fakeGenerator{errs: []error{authErr, nil, nil}}
	writer := &fakeWriter{}
	notes := []anki.Note{basicNote(1, "a", ""), basicNote(2, "b", ""), basicNote(3, "c", "")}

	result, err := Run(context.Background(), gen, writer, notes, Options{
		Template:    "{Front}",
		OutputField: "Back",
	})
	if !errors.Is(err, llm.ErrAuth) {
		t.Fatalf("Expected auth error, got %v", err)
	}

	if !result.Aborted {
		t.Error("Expected aborted result")
	}
	if result.Processed != 1 {
		t.Errorf("Expected batch to stop after the first note, processed %d", result.Processed)
	}
	if len(writer.updates) != 0 {
		t.Errorf("Expected no updates, got %v", writer.updates)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	gen := &fakeGenerator{}
	writer := &fakeWriter{}
	notes := []anki.Note{basicNote(1, "a", ""), basicNote(2, "b", "")}

	result, err := Run(ctx, gen, writer, notes, Options{
		Template:    "{Front}",
		OutputField: "Back",
		OnProgress: func(p Progress) {
			// cancel after the first note; the second must not start
			cancel()
		},
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}

	if !result.Aborted {
		t.Error("Expected aborted result")
	}
	if result.Processed != 1 {
		t.Errorf("Expected 1 note processed, got %d", result.Processed)
	}
	if gen.calls != 1 {
		t.Errorf("Expected 1 provider call, got %d", gen.calls)
	}
}

func TestRunRetriesTimeouts(t *testing.T) {
	gen := &fakeGenerator{errs: []error{context.DeadlineExceeded, nil}}
	writer := &fakeWriter{}
	notes := []anki.Note{basicNote(1, "x", "")}

	result, err := Run(context.Background(), gen, writer, notes, Options{
		Template:    "{Front}",
		OutputField: "Back",
		MaxAttempts: 2,
		Backoff:     time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if gen.calls != 2 {
		t.Errorf("Expected 2 attempts, got %d", gen.calls)
	}
	if result.Succeeded != 1 {
		t.Errorf("Expected retry to succeed, got %+v", result)
	}
}

func TestRunMissingOutputField(t *testing.T) {
	gen := &fakeGenerator{}
	writer := &fakeWriter{}
	notes := []anki.Note{basicNote(1, "x", "")}

	result, err := Run(context.Background(), gen, writer, notes, Options{
		Template:    "{Front}",
		OutputField: "Extra",
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if result.Errors != 1 {
		t.Errorf("Expected 1 error, got %+v", result)
	}
	if gen.calls != 0 {
		t.Errorf("Expected no provider calls, got %d", gen.calls)
	}
}

// Package runner drives the batch generation loop: one note at a time, one
// outbound request per note.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/promptdeck/promptdeck/pkg/anki"
	"github.com/promptdeck/promptdeck/pkg/llm"
	"github.com/promptdeck/promptdeck/pkg/prompt"
)

// AppendSeparator goes between the existing field text and appended output.
const AppendSeparator = "\n\n"

const (
	defaultMaxAttempts = 3
	backoffStep        = 2 * time.Second
)

// NoteWriter is the slice of the Anki client the runner needs.
type NoteWriter interface {
	UpdateNoteFields(ctx context.Context, id int64, fields map[string]string) error
}

// Compile-time proof of interface implementation.
var _ NoteWriter = (*anki.Client)(nil)

// Progress reports the outcome for one note.
type Progress struct {
	Index  int
	Total  int
	NoteID int64
	// Err is nil when the note was filled and written.
	Err error
}

// Result summarizes a batch.
type Result struct {
	Processed int
	Succeeded int
	Errors    int
	// Aborted is set when the batch stopped early (cancellation or an
	// authentication failure).
	Aborted bool
}

// Options configures one batch run.
type Options struct {
	Template    string
	OutputField string
	// Append adds generated text after the existing field value instead of
	// replacing it.
	Append bool
	Policy prompt.MissingPolicy

	// Timeout bounds each provider call. Zero means no per-call bound
	// beyond ctx.
	Timeout time.Duration
	// Delay is the pause between consecutive notes, respecting provider
	// rate limits.
	Delay time.Duration
	// MaxAttempts caps timeout retries per note. Zero means 3.
	MaxAttempts int
	// Backoff is the base pause between retries, scaled linearly by the
	// attempt number. Zero means 2s.
	Backoff time.Duration

	// OnProgress, when set, is called once per processed note.
	OnProgress func(Progress)

	Logger zerolog.Logger
}

// Run processes notes sequentially: fill the template from the note's
// fields, call the provider, write the output field. A note that fails is
// left unmodified and counted; an authentication failure aborts the rest of
// the batch.
func Run(ctx context.Context, g llm.Generator, w NoteWriter, notes []anki.Note, opts Options) (Result, error) {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.Backoff <= 0 {
		opts.Backoff = backoffStep
	}

	var result Result
	total := len(notes)

	for i, note := range notes {
		if i > 0 && opts.Delay > 0 {
			if err := sleepCtx(ctx, opts.Delay); err != nil {
				result.Aborted = true
				return result, err
			}
		}
		if err := ctx.Err(); err != nil {
			result.Aborted = true
			return result, err
		}

		err := processNote(ctx, g, w, note, opts)
		result.Processed++
		if err != nil {
			result.Errors++
			opts.Logger.Error().Int64("note", note.ID).Err(err).Msg("note failed")
		} else {
			result.Succeeded++
			opts.Logger.Info().Int64("note", note.ID).Str("field", opts.OutputField).Msg("note updated")
		}

		if opts.OnProgress != nil {
			opts.OnProgress(Progress{Index: i, Total: total, NoteID: note.ID, Err: err})
		}

		if llm.IsAuthError(err) {
			result.Aborted = true
			return result, err
		}
	}

	return result, nil
}

func processNote(ctx context.Context, g llm.Generator, w NoteWriter, note anki.Note, opts Options) error {
	if !note.HasField(opts.OutputField) {
		return fmt.Errorf("note %d has no field %q", note.ID, opts.OutputField)
	}

	filled, err := prompt.Fill(opts.Template, note.Fields, opts.Policy)
	if err != nil {
		return fmt.Errorf("note %d: %w", note.ID, err)
	}

	text, err := generateWithRetry(ctx, g, filled, opts)
	if err != nil {
		return err
	}

	value := text
	if opts.Append {
		if existing := note.Fields[opts.OutputField]; existing != "" {
			value = existing + AppendSeparator + text
		}
	}

	if err := w.UpdateNoteFields(ctx, note.ID, map[string]string{opts.OutputField: value}); err != nil {
		return err
	}

	return nil
}

// generateWithRetry retries timed-out calls with a linear backoff. Other
// failures are final.
func generateWithRetry(ctx context.Context, g llm.Generator, filled string, opts Options) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		callCtx := ctx
		cancel := func() {}
		if opts.Timeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		}

		text, err := llm.GenerateFieldContent(callCtx, g, filled)
		cancel()
		if err == nil {
			return text, nil
		}
		lastErr = err

		if err := ctx.Err(); err != nil {
			return "", lastErr
		}
		if !llm.IsTimeoutError(lastErr) {
			return "", lastErr
		}
		if attempt < opts.MaxAttempts {
			opts.Logger.Warn().Err(lastErr).Int("attempt", attempt).Msg("provider call timed out, retrying")
			if err := sleepCtx(ctx, opts.Backoff*time.Duration(attempt)); err != nil {
				return "", lastErr
			}
		}
	}

	return "", lastErr
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/duke-git/lancet/v2/slice"
	"github.com/orochaa/go-clack/prompts"
	"github.com/orochaa/go-clack/third_party/picocolors"
	"github.com/spf13/cobra"

	"github.com/promptdeck/promptdeck/internal/config"
	"github.com/promptdeck/promptdeck/pkg/anki"
	"github.com/promptdeck/promptdeck/pkg/prompt"
	"github.com/promptdeck/promptdeck/pkg/runner"
	"github.com/promptdeck/promptdeck/pkg/termio"
)

var fillCmd = &cobra.Command{
	Use: "fill [query]",
	Aliases: []string{
		"f",
		"update",
	},
	Short:       "Fill note fields with AI-generated content",
	Long:        `Finds notes matching an Anki search query (e.g. "deck:Spanish tag:verbs"), fills the selected prompt template from each note's fields, and writes the generated text into the output field.`,
	Annotations: map[string]string{"group": "main"},
	Args:        cobra.MaximumNArgs(1),
	RunE:        runFillE,
}

var fillFlags = fillOptions{
	Provider: OpenAIProvider,
}

type fillOptions struct {
	Prompt   string
	Field    string
	Append   bool
	Provider ProviderType
	Model    string
	Delay    float64
	Timeout  float64
	Missing  string
	Yes      bool
}

func fillAddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&fillFlags.Prompt, "prompt", "", "Name of the saved prompt template to use")
	cmd.Flags().StringVarP(&fillFlags.Field, "field", "f", "", "Note field to write the generated text into")
	cmd.Flags().BoolVarP(&fillFlags.Append, "append", "a", false, "Append to the output field instead of replacing it")
	addCommonLLMFlags(cmd, &fillFlags.Provider, &fillFlags.Model)
	cmd.Flags().Float64Var(&fillFlags.Delay, "delay", -1, "Seconds to wait between API calls (default from config)")
	cmd.Flags().Float64Var(&fillFlags.Timeout, "timeout", -1, "Per-call timeout in seconds (default from config)")
	cmd.Flags().StringVar(&fillFlags.Missing, "missing", "", "Unmatched placeholder policy: error or keep (default from config)")
	cmd.Flags().BoolVarP(&fillFlags.Yes, "yes", "y", false, "Run non-interactively, using flags and saved defaults")
}

func init() {
	fillAddFlags(fillCmd)

	rootCmd.AddCommand(fillCmd)
}

func runFillE(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	interactive := !fillFlags.Yes && !isNotTerminal
	if interactive {
		termio.ClearStdinBuffer()
		prompts.Intro(picocolors.BgCyan(picocolors.Black(fmt.Sprintf(" %s ", AppName))))
		// in order to show custom error
		injectIntoCommandContextWithKey(cmd, ctxKeyClackPromptStarted{}, true)
	}

	ctx := cmd.Context()
	client := anki.NewClient(cfg.AnkiConnectURL)

	query, err := fillResolveQuery(args, interactive)
	if err != nil {
		return err
	}

	notes, err := fillFetchNotes(cmd, client, query, interactive)
	if err != nil {
		return err
	}

	store := openStore()
	templateName, templateBody, err := fillResolveTemplate(store, interactive)
	if err != nil {
		return err
	}

	settings, err := store.SettingsFor(templateName)
	if err != nil {
		return err
	}

	outputField, err := fillResolveOutputField(cmd, client, cfg, notes, settings, interactive)
	if err != nil {
		return err
	}

	appendOutput := cfg.AppendOutput
	if settings.Append != nil {
		appendOutput = *settings.Append
	}
	if cmd.Flags().Changed("append") {
		appendOutput = fillFlags.Append
	}

	policy, err := prompt.ParseMissingPolicy(firstNonEmpty(fillFlags.Missing, cfg.MissingField))
	if err != nil {
		return err
	}

	generator, err := initializeLLMProvider(cfg, cmd.Flags().Changed("provider"), fillFlags.Provider, fillFlags.Model)
	if err != nil {
		return err
	}

	// remember the template's output field for next time
	if templateName != "" && outputField != settings.OutputField {
		settings.OutputField = outputField
		store.PutSettings(templateName, settings) //nolint:errcheck
	}

	delay := cfg.DelaySeconds
	if fillFlags.Delay >= 0 {
		delay = fillFlags.Delay
	}
	timeout := cfg.TimeoutSeconds
	if fillFlags.Timeout >= 0 {
		timeout = fillFlags.Timeout
	}

	opts := runner.Options{
		Template:    templateBody,
		OutputField: outputField,
		Append:      appendOutput,
		Policy:      policy,
		Timeout:     time.Duration(timeout * float64(time.Second)),
		Delay:       time.Duration(delay * float64(time.Second)),
		Logger:      logger,
	}

	var processingSpinner *prompts.SpinnerController
	if interactive {
		processingSpinner = prompts.Spinner(prompts.SpinnerOptions{})
		processingSpinner.Start(fmt.Sprintf("Generating with %s", generator.String()))
		opts.OnProgress = func(p runner.Progress) {
			status := "ok"
			if p.Err != nil {
				status = "failed"
			}
			processingSpinner.Message(fmt.Sprintf("Note %d/%d (%s)", p.Index+1, p.Total, status))
		}
	} else {
		opts.OnProgress = func(p runner.Progress) {
			if p.Err != nil {
				fmt.Printf("note %d: %v\n", p.NoteID, p.Err)
			}
		}
	}

	result, runErr := runner.Run(ctx, generator, client, notes, opts)

	summary := fmt.Sprintf("Processed %d/%d notes with %d errors", result.Processed, len(notes), result.Errors)
	if interactive && processingSpinner != nil {
		code := 0
		if runErr != nil || result.Errors > 0 {
			code = 1
		}
		processingSpinner.Stop(summary, code)
	} else {
		fmt.Println(summary)
	}

	if runErr != nil {
		if interactive && errors.Is(runErr, ctx.Err()) {
			prompts.Outro("Cancelled")
			return nil
		}
		return runErr
	}

	if interactive {
		prompts.Outro(fmt.Sprintf("%s Done", picocolors.Green("✔")))
	}

	return nil
}

func fillResolveQuery(args []string, interactive bool) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if !interactive {
		return "", errors.New("an Anki search query is required (e.g. \"deck:Spanish\")")
	}

	return prompts.Text(prompts.TextParams{
		Message:     "Anki search query",
		Placeholder: "deck:Spanish tag:verbs",
		Validate: func(value string) error {
			if value == "" {
				return errors.New("please enter a query")
			}
			return nil
		},
	})
}

func fillFetchNotes(cmd *cobra.Command, client *anki.Client, query string, interactive bool) ([]anki.Note, error) {
	var findSpinner *prompts.SpinnerController
	if interactive {
		findSpinner = prompts.Spinner(prompts.SpinnerOptions{})
		findSpinner.Start("Finding notes")
	}

	ctx := cmd.Context()

	ids, err := client.FindNotes(ctx, query)
	if err == nil && len(ids) == 0 {
		err = fmt.Errorf("no notes matched query %q", query)
	}

	var notes []anki.Note
	if err == nil {
		notes, err = client.NotesInfo(ctx, ids)
	}

	if interactive && findSpinner != nil {
		if err != nil {
			findSpinner.Stop("Error finding notes", 1)
		} else {
			findSpinner.Stop(fmt.Sprintf("Found %d note(s)", len(notes)), 0)
		}
	}
	if err != nil {
		return nil, err
	}

	return notes, nil
}

func fillResolveTemplate(store *prompt.Store, interactive bool) (string, string, error) {
	if fillFlags.Prompt != "" {
		body, err := store.Get(fillFlags.Prompt)
		if err != nil {
			return "", "", err
		}
		return fillFlags.Prompt, body, nil
	}

	names, err := store.Names()
	if err != nil {
		return "", "", err
	}
	if len(names) == 0 {
		return "", "", fmt.Errorf("no saved prompt templates; create one with '%s prompt save'", AppName)
	}

	if !interactive {
		return "", "", errors.New("--prompt is required in non-interactive mode")
	}

	name, err := prompts.Select(prompts.SelectParams[string]{
		Message: "Pick a prompt template",
		Options: slice.Map(names, func(_ int, name string) *prompts.SelectOption[string] {
			return &prompts.SelectOption[string]{Label: name, Value: name}
		}),
	})
	if err != nil {
		return "", "", err
	}

	body, err := store.Get(name)
	if err != nil {
		return "", "", err
	}
	return name, body, nil
}

func fillResolveOutputField(
	cmd *cobra.Command,
	client *anki.Client,
	cfg *config.Config,
	notes []anki.Note,
	settings prompt.Settings,
	interactive bool,
) (string, error) {
	if fillFlags.Field != "" {
		return fillFlags.Field, nil
	}

	preferred := firstNonEmpty(settings.OutputField, cfg.OutputField)

	if !interactive {
		if preferred == "" {
			return "", errors.New("--field is required in non-interactive mode")
		}
		return preferred, nil
	}

	fields, err := client.ModelFieldNames(cmd.Context(), notes[0].ModelName)
	if err != nil || len(fields) == 0 {
		fields = notes[0].FieldOrder
	}

	return prompts.Select(prompts.SelectParams[string]{
		Message:      "Output field",
		InitialValue: preferred,
		Options: slice.Map(fields, func(_ int, name string) *prompts.SelectOption[string] {
			return &prompts.SelectOption[string]{Label: name, Value: name}
		}),
	})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

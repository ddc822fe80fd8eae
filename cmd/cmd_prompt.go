package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/orochaa/go-clack/prompts"
	"github.com/spf13/cobra"

	"github.com/promptdeck/promptdeck/pkg/prompt"
)

var promptCmd = &cobra.Command{
	Use:     "prompt",
	Aliases: []string{"prompts"},
	Short:   "Manage saved prompt templates",
	Long:    `Manage the saved prompt templates used by the fill command. Template bodies may reference note fields as {Field Name} placeholders.`,
}

var promptListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved prompt templates",
	Args:  cobra.NoArgs,
	RunE:  runPromptListE,
}

var promptShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a prompt template",
	Args:  cobra.ExactArgs(1),
	RunE:  runPromptShowE,
}

var promptSaveFlags = struct {
	File  string
	Field string
}{}

var promptSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Create or replace a prompt template",
	Long:  `Create or replace a prompt template. The body is read from --file, from piped stdin, or from an interactive prompt.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runPromptSaveE,
}

var promptDeleteFlags = struct {
	Yes bool
}{}

var promptDeleteCmd = &cobra.Command{
	Use:     "delete <name>",
	Aliases: []string{"rm"},
	Short:   "Delete a prompt template",
	Args:    cobra.ExactArgs(1),
	RunE:    runPromptDeleteE,
}

var promptRenameCmd = &cobra.Command{
	Use:   "rename <old> <new>",
	Short: "Rename a prompt template",
	Args:  cobra.ExactArgs(2),
	RunE:  runPromptRenameE,
}

func init() {
	promptSaveCmd.Flags().StringVar(&promptSaveFlags.File, "file", "", "Read the template body from a file")
	promptSaveCmd.Flags().StringVarP(&promptSaveFlags.Field, "field", "f", "", "Default output field for this template")
	promptDeleteCmd.Flags().BoolVarP(&promptDeleteFlags.Yes, "yes", "y", false, "Do not ask for confirmation")

	promptCmd.AddCommand(promptListCmd)
	promptCmd.AddCommand(promptShowCmd)
	promptCmd.AddCommand(promptSaveCmd)
	promptCmd.AddCommand(promptDeleteCmd)
	promptCmd.AddCommand(promptRenameCmd)

	rootCmd.AddCommand(promptCmd)
}

func runPromptListE(cmd *cobra.Command, args []string) error {
	store := openStore()

	names, err := store.Names()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Printf("No saved prompt templates. Create one with '%s prompt save'.\n", AppName)
		return nil
	}

	allSettings, err := store.AllSettings()
	if err != nil {
		return err
	}

	for _, name := range names {
		if field := allSettings[name].OutputField; field != "" {
			fmt.Printf("%s\t-> %s\n", name, field)
		} else {
			fmt.Println(name)
		}
	}
	return nil
}

func runPromptShowE(cmd *cobra.Command, args []string) error {
	store := openStore()

	body, err := store.Get(args[0])
	if err != nil {
		return err
	}
	fmt.Println(body)

	if placeholders := prompt.Placeholders(body); len(placeholders) > 0 && rootFlags.Verbose {
		fmt.Printf("\nPlaceholders: {%s}\n", strings.Join(placeholders, "}, {"))
	}
	return nil
}

func runPromptSaveE(cmd *cobra.Command, args []string) error {
	name := args[0]
	store := openStore()

	body, err := readTemplateBody(cmd)
	if err != nil {
		return err
	}
	if strings.TrimSpace(body) == "" {
		return errors.New("template body must not be empty")
	}

	if err := store.Put(name, strings.TrimRight(body, "\n")); err != nil {
		return err
	}

	if promptSaveFlags.Field != "" {
		settings, err := store.SettingsFor(name)
		if err != nil {
			return err
		}
		settings.OutputField = promptSaveFlags.Field
		if err := store.PutSettings(name, settings); err != nil {
			return err
		}
	}

	fmt.Printf("Saved prompt %q.\n", name)
	return nil
}

func readTemplateBody(cmd *cobra.Command) (string, error) {
	if promptSaveFlags.File != "" {
		data, err := os.ReadFile(promptSaveFlags.File)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	// piped body wins over the interactive prompt
	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	if isNotTerminal {
		return "", errors.New("provide the template body via --file or stdin")
	}

	injectIntoCommandContextWithKey(cmd, ctxKeyClackPromptStarted{}, true)
	return prompts.Text(prompts.TextParams{
		Message:     "Template body",
		Placeholder: "Explain the grammar of {Front}.",
		Validate: func(value string) error {
			if value == "" {
				return errors.New("please enter a template body")
			}
			return nil
		},
	})
}

func runPromptDeleteE(cmd *cobra.Command, args []string) error {
	name := args[0]
	store := openStore()

	if _, err := store.Get(name); err != nil {
		return err
	}

	if !promptDeleteFlags.Yes && !isNotTerminal {
		injectIntoCommandContextWithKey(cmd, ctxKeyClackPromptStarted{}, true)
		confirmed, err := prompts.Confirm(prompts.ConfirmParams{
			Message: fmt.Sprintf("Delete prompt %q?", name),
		})
		if err != nil {
			return err
		}
		if !confirmed {
			return nil
		}
	}

	if err := store.Delete(name); err != nil {
		return err
	}
	fmt.Printf("Deleted prompt %q.\n", name)
	return nil
}

func runPromptRenameE(cmd *cobra.Command, args []string) error {
	store := openStore()

	if err := store.Rename(args[0], args[1]); err != nil {
		return err
	}
	fmt.Printf("Renamed prompt %q to %q.\n", args[0], args[1])
	return nil
}

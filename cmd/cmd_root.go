package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/orochaa/go-clack/prompts"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/promptdeck/promptdeck/internal/buildinfo"
	"github.com/promptdeck/promptdeck/internal/config"
	"github.com/promptdeck/promptdeck/internal/logging"
	"github.com/promptdeck/promptdeck/pkg/versioninfo"
)

// AppName - the name of the application.
const AppName = "promptdeck"

var rootFlags = struct {
	Verbose bool
}{}

// logger is shared by all commands, configured in PersistentPreRun.
var logger = zerolog.Nop()

var rootCmd = &cobra.Command{
	Use:   AppName,
	Short: "Generate Anki note fields using AI",
	Long: `Generate Anki note field content through AI providers, driven by
prompt templates with {Field Name} placeholders. Notes are read and written
through AnkiConnect, so Anki must be running.`,
	Version: versioninfo.Info{
		Version: buildinfo.Version,
		Commit:  buildinfo.GitCommit,
		BuiltBy: buildinfo.BuiltBy,
	}.String(),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ctx, _ := signal.NotifyContext(context.Background(), os.Interrupt)
		cmd.SetContext(ctx)

		// API keys may live in a local .env
		godotenv.Load() //nolint:errcheck

		logger = logging.Setup(config.GetDataDir(), rootFlags.Verbose)
	},
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&rootFlags.Verbose, "verbose", "v", false, "Also log to the console")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if cmd, err := rootCmd.ExecuteC(); err != nil {
		if strings.Contains(err.Error(), "arg(s)") || strings.Contains(err.Error(), "usage") {
			cmd.Usage() //nolint:errcheck
		}

		val, ok := cmd.Context().Value(ctxKeyClackPromptStarted{}).(bool)
		if ok && val {
			prompts.ExitOnError(err)
		} else {
			cobra.CheckErr(err)
		}
	}
}

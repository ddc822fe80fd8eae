package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/promptdeck/promptdeck/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and initialize configuration",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file location",
	Args:  cobra.NoArgs,
	RunE:  runConfigPathE,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration with API keys masked",
	Args:  cobra.NoArgs,
	RunE:  runConfigShowE,
}

var configInitFlags = struct {
	Force bool
}{}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Args:  cobra.NoArgs,
	RunE:  runConfigInitE,
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitFlags.Force, "force", false, "Overwrite an existing configuration file")

	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(configCmd)
}

func runConfigPathE(cmd *cobra.Command, args []string) error {
	if path, ok := config.GetPath(); ok {
		fmt.Println(path)
		return nil
	}
	fmt.Printf("no configuration file found; defaults apply (would be created at %s)\n", config.GetDefaultPath())
	return nil
}

func runConfigShowE(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// mask keys before printing
	masked := *cfg
	masked.Providers = make(map[string]config.ProviderConfig, len(cfg.Providers))
	for name, p := range cfg.Providers {
		if p.APIKey != "" {
			p.APIKey = "***"
		}
		masked.Providers[name] = p
	}

	data, err := json.MarshalIndent(&masked, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func runConfigInitE(cmd *cobra.Command, args []string) error {
	path := config.GetDefaultPath()

	if _, err := os.Stat(path); err == nil && !configInitFlags.Force {
		return fmt.Errorf("configuration already exists at %s (use --force to overwrite)", path)
	}

	if err := config.Save(config.NewDefault(), path); err != nil {
		return err
	}
	fmt.Printf("Wrote default configuration to %s\n", path)
	return nil
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luna1998-nun/QA-assistant-backend/internal/cli/config"
	"github.com/luna1998-nun/QA-assistant-backend/internal/cli/ui"
)

// configCmd groups CLI configuration subcommands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "manage CLI configuration",
	Long:  `Manage the local CLI configuration stored in ~/.qactl/config.json.`,
	Example: `  # Point the CLI at a backend
  $ qactl config set-server http://10.0.0.5:8123

  # Show the current configuration
  $ qactl config show`,
}

var configSetServerCmd = &cobra.Command{
	Use:   "set-server <url>",
	Short: "set the backend server address",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigSetServer,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "show the current configuration",
	RunE:  runConfigShow,
}

func init() {
	configCmd.AddCommand(configSetServerCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.SilenceUsage = true
	configSetServerCmd.SilenceUsage = true
	configShowCmd.SilenceUsage = true

	rootCmd.AddCommand(configCmd)
}

func runConfigSetServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		ui.PrintError("failed to load config: %v", err)
		return fmt.Errorf("config load failed")
	}

	cfg.Server = args[0]
	if err := cfg.Save(); err != nil {
		ui.PrintError("failed to save config: %v", err)
		return fmt.Errorf("config save failed")
	}

	ui.PrintSuccess("Server set to %s", cfg.Server)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		ui.PrintError("failed to load config: %v", err)
		return fmt.Errorf("config load failed")
	}

	path, err := config.GetConfigPath()
	if err != nil {
		return err
	}

	fmt.Printf("server: %s\n", cfg.Server)
	fmt.Printf("file:   %s\n", path)
	return nil
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luna1998-nun/QA-assistant-backend/internal/cli/config"
	"github.com/luna1998-nun/QA-assistant-backend/internal/cli/ui"
)

const version = "0.1.0"

var serverFlag string

// rootCmd is the root command
var rootCmd = &cobra.Command{
	Use:     "qactl",
	Short:   "Dispatch summary assistant CLI",
	Version: version,
	Long: `A command-line tool for the dispatch log summary assistant.
Streams LLM-generated handover shift summaries from the backend,
and manages stored conversation history.`,
	Example: `  # Start interactive chat
  $ qactl chat

  # Generate a handover summary for one day
  $ qactl summary --date 2025-10-19

  # List stored conversations
  $ qactl history list

  # Get help on a specific command
  $ qactl summary --help`,
}

// Execute executes the root command
func Execute() error {
	rootCmd.SetVersionTemplate(formatVersion())
	return rootCmd.Execute()
}

func init() {
	// Disable default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVarP(&serverFlag, "server", "s", "", "backend server address (overrides config)")

	// Add subcommands
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(historyCmd)

	// Set custom template with bold uppercase headers
	rootCmd.SetUsageTemplate(usageTemplate())
	rootCmd.SetHelpTemplate(usageTemplate())
}

// resolveServer returns the effective server address: flag first, then config file
func resolveServer() (string, error) {
	if serverFlag != "" {
		return serverFlag, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return "", err
	}
	return cfg.Server, nil
}

func usageTemplate() string {
	return `{{if .Long}}{{.Long}}

{{end}}` + ui.Styles.Bold.Render("USAGE") + `
  {{.UseLine}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}

{{if .HasExample}}` + ui.Styles.Bold.Render("EXAMPLES") + `
{{.Example}}

{{end}}{{if .HasAvailableSubCommands}}` + ui.Styles.Bold.Render("COMMANDS") + `{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}

{{end}}{{if .HasAvailableLocalFlags}}` + ui.Styles.Bold.Render("OPTIONS") + `
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}

{{end}}{{if .HasAvailableSubCommands}}Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`
}

// formatVersion formats the version output
func formatVersion() string {
	return fmt.Sprintf("qactl version %s\n", version)
}

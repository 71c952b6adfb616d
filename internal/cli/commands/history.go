package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/luna1998-nun/QA-assistant-backend/internal/cli/client"
	"github.com/luna1998-nun/QA-assistant-backend/internal/cli/ui"
)

var historyDeleteForce bool

// historyCmd groups conversation history subcommands
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "manage stored conversations",
	Long: `Manage conversations stored on the backend.

Every chat and summary run is persisted server-side and can be listed,
inspected, or deleted here.`,
	Example: `  # List stored conversations, newest first
  $ qactl history list

  # Show the full transcript of one conversation
  $ qactl history show prefetch-2025-10-19

  # Delete a conversation
  $ qactl history delete prefetch-2025-10-19`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "list stored conversations",
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <chat-id>",
	Short: "show the full transcript of a conversation",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <chat-id>",
	Short: "delete a conversation",
	Long: `Delete a stored conversation.

By default, you will be prompted to confirm the deletion. Use --force to skip confirmation.`,
	Args: cobra.ExactArgs(1),
	RunE: runHistoryDelete,
}

func init() {
	historyDeleteCmd.Flags().BoolVarP(&historyDeleteForce, "force", "f", false, "Skip confirmation prompt")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)

	historyCmd.SilenceUsage = true
	historyListCmd.SilenceUsage = true
	historyShowCmd.SilenceUsage = true
	historyDeleteCmd.SilenceUsage = true
}

func newHistoryClient() (*client.APIClient, error) {
	server, err := resolveServer()
	if err != nil {
		ui.PrintError("failed to load config: %v", err)
		return nil, fmt.Errorf("config load failed")
	}

	apiClient, err := client.NewAPIClient(server)
	if err != nil {
		ui.PrintError("failed to create client: %v", err)
		return nil, fmt.Errorf("client creation failed")
	}
	return apiClient, nil
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	apiClient, err := newHistoryClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	items, err := apiClient.ListHistory(ctx)
	if err != nil {
		ui.PrintError("failed to list conversations: %v", err)
		return fmt.Errorf("list operation failed")
	}

	fmt.Println()
	fmt.Println(ui.RenderHistoryTable(items))
	fmt.Println(ui.RenderHistorySummary(len(items)))
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	chatID := args[0]

	apiClient, err := newHistoryClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	messages, err := apiClient.HistoryDetail(ctx, chatID)
	if err != nil {
		ui.PrintError("failed to fetch conversation: %v", err)
		return fmt.Errorf("show operation failed")
	}

	fmt.Println()
	fmt.Println(ui.RenderTranscript(messages))
	return nil
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	chatID := args[0]

	apiClient, err := newHistoryClient()
	if err != nil {
		return err
	}

	// Confirm deletion unless --force
	if !historyDeleteForce {
		confirm := false
		prompt := &survey.Confirm{
			Message: fmt.Sprintf("Delete conversation '%s'?", chatID),
		}
		if err := survey.AskOne(prompt, &confirm); err != nil {
			return fmt.Errorf("confirmation prompt failed: %w", err)
		}

		if !confirm {
			ui.PrintInfo("Deletion cancelled")
			return nil
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiClient.DeleteHistory(ctx, chatID); err != nil {
		ui.PrintError("failed to delete: %v", err)
		return fmt.Errorf("deletion failed")
	}

	ui.PrintSuccess("Successfully deleted conversation '%s'", chatID)
	return nil
}

package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/luna1998-nun/QA-assistant-backend/internal/cli/client"
	"github.com/luna1998-nun/QA-assistant-backend/internal/cli/ui"
)

var (
	summaryDate   string
	summaryChatID string
)

// summaryCmd is the summary command
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "generate a handover summary for one day's dispatch log",
	Long: `Generate a 交接班总结 (handover shift summary) from the dispatch log of one day.

The backend reads the log file named {date}.txt, feeds it to the LLM
and streams the summary back. Output is printed as it arrives.`,
	Example: `  # Summarize the log of one day
  $ qactl summary --date 2025-10-19

  # Keep the result in a named conversation
  $ qactl summary --date 2025-10-19 --chat-id morning-shift`,
	RunE: runSummary,
}

func init() {
	summaryCmd.Flags().StringVarP(&summaryDate, "date", "d", "", "log date, YYYY-MM-DD (required)")
	summaryCmd.Flags().StringVar(&summaryChatID, "chat-id", "", "conversation id to store the summary under")
	summaryCmd.MarkFlagRequired("date")
	summaryCmd.SilenceUsage = true
}

func runSummary(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		ui.PrintError("unexpected argument: %s", args[0])
		fmt.Printf("\nRun '%s --help' for usage.\n", cmd.CommandPath())
		return fmt.Errorf("invalid arguments")
	}

	server, err := resolveServer()
	if err != nil {
		ui.PrintError("failed to load config: %v", err)
		return fmt.Errorf("config load failed")
	}

	apiClient, err := client.NewAPIClient(server)
	if err != nil {
		ui.PrintError("failed to create client: %v", err)
		return fmt.Errorf("client creation failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	ui.PrintInfo("Generating summary for %s...", summaryDate)
	fmt.Println()

	eventCh, errCh, err := apiClient.SummaryStreaming(ctx, summaryChatID, summaryDate)
	if err != nil {
		ui.PrintError("failed to start stream: %v", err)
		return fmt.Errorf("summary failed")
	}

	// 错误以 data 帧内联到达，前缀 错误：
	failed := false
	for eventCh != nil || errCh != nil {
		select {
		case ev, ok := <-eventCh:
			if !ok {
				eventCh = nil
				continue
			}
			if strings.HasPrefix(ev.Data, "错误：") {
				fmt.Println()
				ui.PrintError("%s", strings.TrimPrefix(ev.Data, "错误："))
				failed = true
				continue
			}
			fmt.Print(ev.Data)
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			if err != nil {
				fmt.Println()
				ui.PrintError("stream interrupted: %v", err)
				return fmt.Errorf("summary failed")
			}
		}
	}

	if failed {
		return fmt.Errorf("summary failed")
	}

	fmt.Println()
	fmt.Println()
	ui.PrintSuccess("Summary complete")
	return nil
}

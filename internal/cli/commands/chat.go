package commands

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/luna1998-nun/QA-assistant-backend/internal/cli/client"
	"github.com/luna1998-nun/QA-assistant-backend/internal/cli/tui"
	"github.com/luna1998-nun/QA-assistant-backend/internal/cli/ui"
)

var chatResume string

// chatCmd is the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "start interactive chat with the dispatch assistant",
	Long: `Start an interactive chat session with the dispatch summary assistant.

Features:
  • 实时流式输出，思考过程单独展示
  • 多轮对话上下文保存在服务端
  • 终端 TUI，贴近 Claude Code 体验`,
	Example: `  # Start interactive chat
  $ qactl chat

  # Continue an existing conversation
  $ qactl chat --chat-id prefetch-2025-10-19

  # Keyboard controls:
  • 输入消息按 Enter 发送
  • Esc 退出会话`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatResume, "chat-id", "", "conversation id to continue (default: new conversation)")
	chatCmd.SilenceUsage = true
}

func runChat(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		ui.PrintError("unexpected argument: %s", args[0])
		fmt.Println("\nRun 'qactl chat' to start interactive session.")
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

	chatID := chatResume
	if chatID == "" {
		chatID = "cli-" + uuid.New().String()
	}

	program := tui.NewChatProgram(apiClient, chatID)
	if err := program.Run(); err != nil {
		return fmt.Errorf("failed to run chat TUI: %w", err)
	}

	return nil
}

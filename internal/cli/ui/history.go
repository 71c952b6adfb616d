package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/luna1998-nun/QA-assistant-backend/internal/cli/types"
)

var (
	// Table styles
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true) // Cyan
	idStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))            // Blue
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))           // Gray
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("229"))           // Yellow

	roleUserStyle      = lipgloss.NewStyle().Bold(true)
	roleAssistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)

	// Summary line style
	summaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			MarginTop(1)
)

const titleColumnWidth = 40

// RenderHistoryTable renders the conversation list as an aligned table.
// Column widths are computed with runewidth so CJK titles line up.
func RenderHistoryTable(items []types.HistoryItem) string {
	if len(items) == 0 {
		return keyStyle.Render("No conversations found")
	}

	idWidth := runewidth.StringWidth("ID")
	for _, item := range items {
		if w := runewidth.StringWidth(item.ID); w > idWidth {
			idWidth = w
		}
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(padCell("ID", idWidth)))
	b.WriteString("  ")
	b.WriteString(headerStyle.Render(padCell("TITLE", titleColumnWidth)))
	b.WriteString("  ")
	b.WriteString(headerStyle.Render(padCell("TIME", 19)))
	b.WriteString("  ")
	b.WriteString(headerStyle.Render("MSGS"))
	b.WriteString("\n")

	for _, item := range items {
		b.WriteString(idStyle.Render(padCell(item.ID, idWidth)))
		b.WriteString("  ")
		b.WriteString(padCell(truncateCell(item.Title, titleColumnWidth), titleColumnWidth))
		b.WriteString("  ")
		b.WriteString(valueStyle.Render(padCell(item.Time, 19)))
		b.WriteString("  ")
		b.WriteString(fmt.Sprintf("%d", item.MessageCount))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// RenderHistorySummary renders a count line shown below the table
func RenderHistorySummary(count int) string {
	return summaryStyle.Render(fmt.Sprintf("%d conversation(s)", count))
}

// RenderTranscript renders the full messages of one conversation
func RenderTranscript(messages []types.ChatMessage) string {
	if len(messages) == 0 {
		return keyStyle.Render("Empty conversation")
	}

	var b strings.Builder
	for i, msg := range messages {
		if i > 0 {
			b.WriteString("\n")
		}
		switch msg.Role {
		case "user":
			b.WriteString(roleUserStyle.Render("You"))
		case "assistant":
			b.WriteString(roleAssistantStyle.Render("Assistant"))
		default:
			b.WriteString(keyStyle.Render("System"))
		}
		b.WriteString("\n")
		b.WriteString(msg.Content)
		b.WriteString("\n")
	}

	return b.String()
}

// padCell pads a cell to the target display width, CJK aware
func padCell(s string, width int) string {
	gap := width - runewidth.StringWidth(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}

// truncateCell trims a cell to the target display width with an ellipsis
func truncateCell(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/luna1998-nun/QA-assistant-backend/internal/cli/commands"
	"github.com/luna1998-nun/QA-assistant-backend/internal/cli/ui"
)

func main() {
	if err := commands.Execute(); err != nil {
		// Handle unknown command errors specially
		errMsg := err.Error()
		if strings.Contains(errMsg, "unknown command") {
			ui.PrintError("%s", errMsg)
			fmt.Println("\nRun 'qactl --help' for usage.")
		}
		os.Exit(1)
	}
}

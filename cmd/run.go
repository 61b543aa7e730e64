package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/practiz/internal/app"
)

// runApp builds the practice service and launches the TUI. A non-empty
// username skips the login screen.
func runApp(cmd *cobra.Command, username string) error {
	svc, _, err := openService(cmd)
	if err != nil {
		return err
	}
	return app.Run(app.Options{
		Service:  svc,
		Username: username,
	})
}

package cmd

import (
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start the practice TUI, optionally logged in as --user",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")
		return runApp(cmd, user)
	},
}

func init() {
	playCmd.Flags().String("user", "", "Log in as this user and skip the login screen")
}

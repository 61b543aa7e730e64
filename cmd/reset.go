package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete a user's progress file",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")
		yes, _ := cmd.Flags().GetBool("yes")

		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		_, st, err := openStore(cfg)
		if err != nil {
			return err
		}
		path, err := st.Path(user)
		if err != nil {
			return err
		}

		if !yes {
			fmt.Fprintf(cmd.OutOrStdout(), "Delete all progress in %s? [y/N] ", path)
			answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
		}

		if err := st.Delete(user); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Progress for %s reset.\n", strings.TrimSpace(user))
		return nil
	},
}

func init() {
	resetCmd.Flags().String("user", "", "Username whose progress to delete")
	resetCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	_ = resetCmd.MarkFlagRequired("user")
}

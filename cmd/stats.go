package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/practiz/internal/practice"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show a user's progress per system",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")

		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		bank, st, err := openStore(cfg)
		if err != nil {
			return err
		}
		p, err := st.Load(user)
		if err != nil {
			return err
		}

		printOverview(cmd.OutOrStdout(), practice.BuildOverview(bank, p))
		return nil
	},
}

func init() {
	statsCmd.Flags().String("user", "", "Username whose progress to show")
	_ = statsCmd.MarkFlagRequired("user")
}

func printOverview(w io.Writer, ov *practice.Overview) {
	row := func(s practice.SystemStats) {
		acc := "-"
		if s.Attempted > 0 {
			acc = fmt.Sprintf("%.0f%%", s.Accuracy()*100)
		}
		fmt.Fprintf(w, "%-24s  %9s  %6d  %7d  %9d  %6d  %8s\n",
			s.System, fmt.Sprintf("%d/%d", s.Attempted, s.Total),
			s.Unused(), s.Correct, s.Incorrect, s.Marked, acc)
	}

	fmt.Fprintf(w, "%-24s  %9s  %6s  %7s  %9s  %6s  %8s\n",
		"System", "Attempted", "Unused", "Correct", "Incorrect", "Marked", "Accuracy")
	fmt.Fprintln(w, strings.Repeat("─", 83))
	for _, s := range ov.Systems {
		row(s)
	}
	fmt.Fprintln(w, strings.Repeat("─", 83))
	row(ov.All)
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Validate the question dataset and list its systems",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		bank, _, err := openStore(cfg)
		if err != nil {
			return err
		}

		source := cfg.QuestionsPath
		if source == "" {
			source = "bundled dataset"
		}

		out := cmd.OutOrStdout()
		counts := bank.CountBySystem()
		fmt.Fprintf(out, "%-24s  %s\n", "System", "Questions")
		for _, sys := range bank.Systems() {
			fmt.Fprintf(out, "%-24s  %9d\n", sys, counts[sys])
		}
		fmt.Fprintf(out, "\n%d questions from %s\n", bank.Len(), source)
		return nil
	},
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/practiz/internal/config"
	"github.com/abhisek/practiz/internal/practice"
	"github.com/abhisek/practiz/internal/progress"
	"github.com/abhisek/practiz/internal/questions"
)

var rootCmd = &cobra.Command{
	Use:   "practiz",
	Short: "Question bank practice in the terminal",
	Long:  "Practiz: timed and untimed multiple-choice practice sessions with per-user progress tracking.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, "")
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("questions", "", "Path to the question dataset (overrides PRACTIZ_QUESTIONS; default: bundled set)")
	rootCmd.PersistentFlags().String("user-dir", "", "Directory for per-user progress files (overrides PRACTIZ_USER_DIR)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(questionsCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveConfig layers .env, environment variables and flags, in that order
// of increasing priority.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return config.Config{}, err
	}
	cfg := config.ConfigFromEnv()

	if p := flagString(cmd, "questions"); p != "" {
		cfg.QuestionsPath = p
	}
	if d := flagString(cmd, "user-dir"); d != "" {
		cfg.UserDir = d
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// flagString returns a local or inherited flag's value, "" if undefined.
func flagString(cmd *cobra.Command, name string) string {
	if f := cmd.Flag(name); f != nil {
		return f.Value.String()
	}
	return ""
}

// openStore loads the question bank and opens the progress directory.
func openStore(cfg config.Config) (*questions.Bank, *progress.Store, error) {
	bank, err := questions.Load(cfg.QuestionsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load questions: %w", err)
	}
	st, err := progress.NewStore(cfg.UserDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open progress store: %w", err)
	}
	return bank, st, nil
}

// openService resolves config and builds the practice service.
func openService(cmd *cobra.Command) (*practice.Service, config.Config, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, config.Config{}, err
	}
	bank, st, err := openStore(cfg)
	if err != nil {
		return nil, config.Config{}, err
	}
	return practice.NewService(bank, st, practice.Options{}), cfg, nil
}

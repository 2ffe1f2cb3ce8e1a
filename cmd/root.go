package cmd

import (
	"github.com/spf13/cobra"

	"github.com/aeriel/clai/internal/config"
	"github.com/aeriel/clai/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "clai",
	Short: "AI micro-course builder and player",
	Long:  "Clai generates short courses with an LLM so you can edit their slides and play them in the terminal.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")
		if envFile == "" {
			return config.LoadDotEnv()
		}
		return config.LoadDotEnv(envFile)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlayer(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "SQLite path or postgres:// URL (overrides CLAI_DB env var)")
	rootCmd.PersistentFlags().String("env-file", "", "Load environment variables from this file instead of .env")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(courseCmd)
	rootCmd.AddCommand(lessonCmd)
	rootCmd.AddCommand(slideCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database location using --db flag (highest
// priority), then CLAI_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

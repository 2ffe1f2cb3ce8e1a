package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aeriel/clai/internal/app"
	"github.com/aeriel/clai/internal/store"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Browse courses and play lessons in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlayer(cmd)
	},
}

// runPlayer launches the TUI. Logs go to a file next to the default
// database so they do not draw over the screen.
func runPlayer(cmd *cobra.Command) error {
	logPath, _ := cmd.Flags().GetString("log-file")
	if logPath == "" {
		if p, err := store.DefaultDBPath(); err == nil && store.DialectFor(p) == store.SQLite {
			logPath = filepath.Join(filepath.Dir(p), "clai.log")
		}
	}

	env, err := openEnv(cmd, envOptions{logPath: logPath})
	if err != nil {
		return err
	}
	defer env.Close()

	return app.Run(env.svc)
}

func init() {
	rootCmd.PersistentFlags().String("log-file", "", "Write player logs to this file")
}

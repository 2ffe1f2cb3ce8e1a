package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aeriel/clai/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the authoring API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv(cmd, envOptions{})
		if err != nil {
			return err
		}
		defer env.Close()

		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = env.cfg.HTTPAddr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv := api.NewServer(api.RouterConfig{
			Handler:     api.NewHandler(env.svc, env.log),
			Log:         env.log,
			CORSOrigins: env.cfg.CORSOrigins,
			Ping:        env.st.Ping,
		})
		return srv.Run(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides CLAI_HTTP_ADDR, default :8080)")
}

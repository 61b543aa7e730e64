package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/practiz/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the practice desk as a web UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cfg, err := openService(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}

		srv, err := web.NewServer(svc, web.Options{CORSOrigins: cfg.CORSOrigins})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.Run(ctx, cfg.Addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides PRACTIZ_ADDR; default :8080)")
}

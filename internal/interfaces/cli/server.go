package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/table-booker/internal/infrastructure/logging"
	"github.com/example/table-booker/internal/interfaces/web"
	"github.com/spf13/cobra"
)

func NewServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Serve the booking JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.cfg.RequireSessionKeys(); err != nil {
				return err
			}
			sessions := web.NewSessionManager(a.cfg.SessionHashKey, a.cfg.SessionBlockKey)
			srv := web.New(a.cfg.HTTPAddr, sessions, a.engine, web.Options{
				CORSOrigins:      a.cfg.CORSOrigins,
				AllowCredentials: a.cfg.CORSAllowCredentials,
				BookingRate:      a.cfg.BookingRate,
				BookingBurst:     a.cfg.BookingBurst,
				Log:              logging.Component(a.log, "http"),
			})
			return srv.ListenAndServe(ctx)
		},
	}
}

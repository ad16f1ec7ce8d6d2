package commands

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/lendbook-dev/lendbook/internal/notify"
	"github.com/lendbook-dev/lendbook/internal/report"
	"github.com/lendbook-dev/lendbook/internal/server"
)

func newServeCommand() *cobra.Command {
	var dir string
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the ledger over an HTTP JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cfg, err := newService(dir)
			if err != nil {
				return err
			}

			logger := logrus.New()
			logger.SetFormatter(&logrus.JSONFormatter{})
			if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
				logger.SetLevel(level)
			} else {
				logger.SetLevel(logrus.InfoLevel)
			}

			var cache report.Cache
			if cfg.Serve.RedisAddr != "" {
				cache = report.NewRedisCache(cfg.Serve.RedisAddr)
			} else {
				cache = report.NewMemoryCache()
			}

			srv := server.New(svc, logger, cache)

			if cfg.Serve.RefreshSchedule != "" {
				sender := notify.NewSender(cfg.Notify, logger)
				c, err := srv.StartRefresher(cfg.Serve.RefreshSchedule, sender)
				if err != nil {
					return err
				}
				defer c.Stop()
			}

			if !cmd.Flags().Changed("addr") && cfg.Serve.Addr != "" {
				addr = cfg.Serve.Addr
			}
			return srv.Run(addr)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "ledger directory")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	return cmd
}

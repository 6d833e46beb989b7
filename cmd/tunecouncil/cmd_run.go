package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lexcodex/tunecouncil/config"
	"github.com/lexcodex/tunecouncil/session"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run one interactive recommendation session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flagConfig)
			if err != nil {
				return err
			}
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			runner, err := session.New(cfg, logger)
			if err != nil {
				return err
			}
			defer runner.Close()

			// Ctrl-C cancels in-flight provider calls cooperatively.
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runner.Run(ctx)
		},
	}
}

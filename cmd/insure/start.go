package main

import (
	"github.com/spf13/cobra"

	"github.com/sandevgo/insurebot/internal/config"
	"github.com/sandevgo/insurebot/internal/transport/telegram"
	"github.com/sandevgo/insurebot/pkg/log"
	"github.com/sandevgo/insurebot/pkg/srv"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Serve the chat over Telegram",
	Long:  `Starts the Telegram bot for the configured owner and runs until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appCfg, err := loadAppConfig()
		if err != nil {
			return err
		}

		ctx, flushLog := setupLogger(cmd.Context(), nil)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting insurebot")

		a, err := newApp(ctx, appCfg)
		if err != nil {
			return err
		}

		tgCfg := config.NewTelegramConfig(ctx)
		s := a.newSession()
		logger.Info().Str("session_id", s.ID()).Msg("conversation started")

		bot, err := telegram.NewBot(log.WithComponent(ctx, "telegram"), tgCfg, s)
		if err != nil {
			a.close()
			return err
		}

		services := append([]srv.Service{bot}, a.cleanups()...)
		if err := srv.Run(ctx, services...); err != nil {
			return err
		}

		logger.Info().Msg("insurebot has been shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}

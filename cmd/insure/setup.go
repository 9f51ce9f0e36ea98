package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sandevgo/insurebot/internal/config"
	"github.com/sandevgo/insurebot/internal/service/installer"
	"github.com/sandevgo/insurebot/pkg/log"
)

var setupCmd = &cobra.Command{
	Use:     "setup",
	Aliases: []string{"install"},
	Short:   "Configure providers and the knowledge base",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context(), nil)
		defer flushLog()

		logger := log.FromCtx(ctx)

		if _, err := installer.RunWizard(); err != nil {
			return err
		}

		logger.Info().Msgf("initialized runtime directory at: %s", config.GetRuntimePath())
		logger.Info().Msgf("assistant instructions are in %s; rewording them can widen what the assistant answers beyond insurance",
			filepath.Join(config.GetRuntimePath(), "SYSTEM.md"))
		logger.Info().Msg("Setup complete! Run 'insure' to start chatting.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

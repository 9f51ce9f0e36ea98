package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sandevgo/insurebot/internal/transport/cli"
	"github.com/sandevgo/insurebot/internal/transport/tui"
	"github.com/sandevgo/insurebot/pkg/log"
)

var plain bool

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the interactive chat",
	RunE:  runChat,
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, chatCmd} {
		c.Flags().BoolVar(&plain, "plain", false, "line-by-line prompt instead of the full-screen chat")
	}
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	appCfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	// The screen belongs to the TUI, so logs go to a file.
	logPath := appCfg.GetLogPath()
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return err
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()

	ctx, flushLog := setupLogger(cmd.Context(), logFile)
	defer flushLog()

	a, err := newApp(ctx, appCfg)
	if err != nil {
		return err
	}
	defer a.close()

	s := a.newSession()
	log.FromCtx(ctx).Info().Str("session_id", s.ID()).Msg("chat started")

	if plain {
		rl, err := cli.NewReadLine(s, filepath.Join(appCfg.GetRuntimePath(), "input_history"))
		if err != nil {
			return err
		}
		defer rl.Close()
		return rl.Run(ctx)
	}
	return tui.Run(ctx, s)
}

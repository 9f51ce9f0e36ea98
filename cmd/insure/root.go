package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/sandevgo/insurebot/internal/config"
	"github.com/sandevgo/insurebot/internal/core"
	"github.com/sandevgo/insurebot/pkg/log"
)

var (
	debug bool
)

var rootCmd = &cobra.Command{
	Use:   "insure",
	Short: core.AppName + " - insurance questions answered from your policy documents",
	Long:  core.AppTagline + ".",
	// Plain `insure` opens the chat.
	RunE:         runChat,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", config.IsDebug(), "enable debug logging")
}

func setupLogger(ctx context.Context, out io.Writer) (context.Context, func()) {
	isDebug := debug || config.IsDebug()
	if out == nil {
		return log.NewContextWithLogger(ctx, isDebug)
	}
	return log.NewContext(ctx, log.Options{Debug: isDebug, Out: out})
}

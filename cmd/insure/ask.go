package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandevgo/insurebot/internal/transport/cli"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a single question and exit",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appCfg, err := loadAppConfig()
		if err != nil {
			return err
		}

		ctx, flushLog := setupLogger(cmd.Context(), os.Stderr)
		defer flushLog()

		a, err := newApp(ctx, appCfg)
		if err != nil {
			return err
		}
		defer a.close()

		res, err := a.newSession().Turn(ctx, strings.Join(args, " "))
		if res != nil {
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatReply(res.Reply))
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}

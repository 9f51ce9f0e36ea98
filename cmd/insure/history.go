package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/sandevgo/insurebot/internal/core"
	"github.com/sandevgo/insurebot/internal/service/ui"
	"github.com/sandevgo/insurebot/internal/storage/sqlite"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [session-id]",
	Short: "List archived conversations or print one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appCfg, err := loadAppConfig()
		if err != nil {
			return err
		}

		ctx, flushLog := setupLogger(cmd.Context(), os.Stderr)
		defer flushLog()

		db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
		if err != nil {
			return err
		}
		defer db.Close()

		repo := sqlite.NewTranscriptRepo(db)
		out := cmd.OutOrStdout()

		if len(args) == 1 {
			msgs, err := repo.GetTranscript(ctx, args[0])
			if err != nil {
				return err
			}
			if len(msgs) == 0 {
				return fmt.Errorf("no conversation %q", args[0])
			}
			for _, m := range msgs {
				label := ui.UsageStyle.Render("You")
				if m.Role != core.RoleUser {
					label = ui.TitleStyle.UnsetMarginBottom().Render(core.AppName)
				}
				content := m.Content
				if m.Notice {
					content = ui.ErrorStyle.Render(content)
				}
				fmt.Fprintf(out, "%s %s\n%s\n\n", label, ui.DescStyle.Render(m.CreatedAt.Format("2006-01-02 15:04")), content)
			}
			return nil
		}

		sessions, err := repo.ListSessions(ctx, historyLimit)
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			fmt.Fprintln(out, "No archived conversations yet.")
			return nil
		}

		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(ui.DescStyle).
			Headers("SESSION", "MESSAGES", "STARTED")
		for _, s := range sessions {
			t.Row(s.SessionID, strconv.Itoa(s.Messages), s.StartedAt)
		}
		fmt.Fprintln(out, t.Render())
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of conversations to list")
	rootCmd.AddCommand(historyCmd)
}

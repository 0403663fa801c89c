package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"prospectsheet/internal/audit"
)

func newAuditCmd(app *App) *cobra.Command {
	var (
		follow bool
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show the local journal of edits, creations, removals and dispatches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := app.Config.AuditPath
			if path == "" {
				return errors.New("audit journal is disabled (empty --audit-path)")
			}
			out := cmd.OutOrStdout()
			entries, err := audit.ReadAll(path)
			if err != nil {
				return err
			}
			if limit > 0 && len(entries) > limit {
				entries = entries[len(entries)-limit:]
			}
			for _, e := range entries {
				printEntry(out, e)
			}
			if !follow {
				return nil
			}
			ch, errs := audit.Follow(cmd.Context(), path)
			for e := range ch {
				printEntry(out, e)
			}
			if err, ok := <-errs; ok && err != nil {
				return err
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "keep printing new entries")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show only the last N entries")
	return cmd
}

func printEntry(w io.Writer, e audit.Entry) {
	status := "ok"
	if !e.OK() {
		status = "error: " + e.Error
	}
	target := e.SpreadsheetID
	if e.Key != "" {
		target = fmt.Sprintf("%s=%q", e.Key, e.Value)
	}
	id := e.RecordID
	if id == "" {
		id = e.RowID
	}
	fmt.Fprintf(w, "%s  %-8s  %-10s  %s  %s\n", e.Time.Local().Format(time.DateTime), e.Kind, id, target, status)
}

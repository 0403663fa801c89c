package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"prospectsheet/internal/audit"
	"prospectsheet/internal/dispatch"
	"prospectsheet/internal/filter"
	"prospectsheet/internal/util/logx"
)

func newDispatchCmd(app *App) *cobra.Command {
	var (
		ids   []string
		query string
		expr  string
	)
	cmd := &cobra.Command{
		Use:   "dispatch",
		Short: "Trigger the manual-start webhook for spreadsheets, one at a time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(ids) == 0 && query == "" && expr == "" {
				return errors.New("pass --id or --query/--where")
			}
			if strings.TrimSpace(app.Config.WebhookURL) == "" {
				return errors.New("webhook url is required (PROSPECT_WEBHOOK_URL)")
			}
			var items []dispatch.Item
			for _, id := range ids {
				if id = strings.TrimSpace(id); id != "" {
					items = append(items, dispatch.Item{SpreadsheetID: id})
				}
			}
			if query != "" || expr != "" {
				if err := app.Config.Validate(true); err != nil {
					return err
				}
				rows, err := app.loadRows(cmd.Context(), filter.Criteria{Query: query, Expr: expr})
				if err != nil {
					return err
				}
				for _, r := range rows {
					if r.SpreadsheetID == "" {
						continue
					}
					items = append(items, dispatch.Item{RowID: r.ID, SpreadsheetID: r.SpreadsheetID})
				}
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to dispatch")
				return nil
			}

			j := app.journal()
			out := cmd.OutOrStdout()
			failed := 0
			err := app.dispatcher().Run(cmd.Context(), items, func(r dispatch.Result) {
				e := audit.Entry{Kind: audit.KindDispatch, RowID: r.Item.RowID, SpreadsheetID: r.Item.SpreadsheetID}
				if r.Err != nil {
					failed++
					e.Error = r.Err.Error()
				}
				if err := j.Append(e); err != nil {
					logx.Warnf("audit: %v", err)
				}
				fmt.Fprintf(out, "[%d/%d] %s\n", r.Index+1, r.Total, r.Message())
			})
			if err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d dispatches failed", failed, len(items))
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&ids, "id", nil, "spreadsheet id to trigger (repeatable)")
	cmd.Flags().StringVar(&query, "query", "", "trigger every row whose sdr, país or spreadsheet id contain this text")
	cmd.Flags().StringVar(&expr, "where", "", "trigger every row matching this filter expression")
	return cmd
}

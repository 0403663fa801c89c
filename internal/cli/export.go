package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"prospectsheet/internal/export"
	"prospectsheet/internal/filter"
	"prospectsheet/internal/model"
)

func newExportCmd(app *App) *cobra.Command {
	var (
		format string
		out    string
		query  string
		expr   string
		sortBy string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the records to CSV, XLSX or NDJSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(strings.TrimSpace(format))
			if out == "" {
				out = defaultExportPath(format)
			}
			if out == "" {
				return fmt.Errorf("unknown format %q (csv|xlsx|json)", format)
			}
			d, err := filter.ParseDirective(sortBy)
			if err != nil {
				return err
			}
			if err := app.Config.Validate(false); err != nil {
				return err
			}
			rows, err := app.loadRows(cmd.Context(), filter.Criteria{Query: query, Expr: expr})
			if err != nil {
				return err
			}
			rows = filter.Sort(rows, d)
			switch format {
			case "csv":
				err = export.ToCSV(out, rows)
			case "xlsx":
				err = export.ToXLSX(out, rows)
			case "json":
				err = export.ToNDJSON(out, rows)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d rows to %s\n", len(rows), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "csv", "output format (csv|xlsx|json)")
	cmd.Flags().StringVar(&out, "out", "", "output path (default datos.<ext>)")
	cmd.Flags().StringVar(&query, "query", "", "keep rows whose sdr, país or spreadsheet id contain this text")
	cmd.Flags().StringVar(&expr, "where", "", `filter expression, e.g. 'activo && pais == "AR"'`)
	cmd.Flags().StringVar(&sortBy, "sort", "", "sort directive key[:asc|desc]")
	return cmd
}

func defaultExportPath(format string) string {
	switch format {
	case "csv":
		return export.DefaultCSVName
	case "xlsx":
		return "datos.xlsx"
	case "json":
		return "datos.ndjson"
	}
	return ""
}

// loadRows fetches every record and applies c.
func (a *App) loadRows(ctx context.Context, c filter.Criteria) ([]model.Row, error) {
	ev, err := filter.NewEvaluator(c)
	if err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}
	recs, err := a.client().List(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]model.Row, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, model.MapRemoteToRow(rec))
	}
	return ev.Apply(rows), nil
}

package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"prospectsheet/internal/audit"
	"prospectsheet/internal/config"
	"prospectsheet/internal/dispatch"
	"prospectsheet/internal/nocodb"
	"prospectsheet/internal/ui"
	"prospectsheet/internal/util/logx"
	"prospectsheet/internal/version"
)

type App struct {
	Config *config.Config
}

func NewRootCmd() *cobra.Command {
	app := &App{Config: config.Load()}

	cmd := &cobra.Command{
		Use:          "prospectsheet",
		Short:        "Campaign record sheet for a NocoDB prospección table",
		SilenceUsage: true,
		Version:      version.String(),
		Example: strings.TrimSpace(`
  # Start the interactive grid
  prospectsheet

  # Export every record
  prospectsheet export --format xlsx --out datos.xlsx

  # Trigger the automation for two spreadsheets
  prospectsheet dispatch --id 1AbC --id 2DeF
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		logx.SetLevelFromEnv()
		return nil
	}

	app.Config.BindFlags(cmd.PersistentFlags())

	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newDispatchCmd(app))
	cmd.AddCommand(newAuditCmd(app))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func runTUI(cmd *cobra.Command, app *App) error {
	if err := app.Config.Validate(false); err != nil {
		return err
	}
	logx.Infof("starting prospectsheet %s: %s", version.String(), app.Config.String())
	opt := ui.Options{
		Remote:  app.client(),
		Journal: app.journal(),
		Dark:    app.Config.Theme == config.ThemeDark,
	}
	// A nil *Dispatcher would not compare equal to a nil interface
	if d := app.dispatcher(); d != nil {
		opt.Dispatcher = d
	}
	return ui.Run(cmd.Context(), opt)
}

func (a *App) client() *nocodb.Client {
	return nocodb.NewClient(nocodb.Options{
		BaseURL:  a.Config.BaseURL,
		Token:    a.Config.Token,
		PageSize: a.Config.PageSize,
		MaxPages: a.Config.MaxPages,
		Timeout:  a.Config.Timeout(),
		Logger:   logx.L().Named("nocodb"),
	})
}

// dispatcher is nil when no webhook is configured.
func (a *App) dispatcher() *dispatch.Dispatcher {
	if strings.TrimSpace(a.Config.WebhookURL) == "" {
		return nil
	}
	wh := dispatch.NewWebhook(a.Config.WebhookURL, nil, logx.L().Named("webhook"))
	return dispatch.New(wh, dispatch.RealClock{}, a.Config.Interval)
}

func (a *App) journal() *audit.Journal {
	return audit.Open(a.Config.AuditPath)
}

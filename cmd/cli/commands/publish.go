package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/shift-roster/pkg/core/services"
)

// PublishCmd creates the publish command
func PublishCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "publish",
		Short: "Publish the adopted rosters to Google Sheets",
		Long:  "Publish the adopted day and night rosters to the roster sheet, one tab per period. An existing tab for the period is overwritten.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Debug("publish command", zap.String("period", app.PeriodKey))

			store, err := app.Store()
			if err != nil {
				return err
			}
			sheets, err := app.SheetsClient()
			if err != nil {
				return err
			}

			published, err := services.PublishRoster(app.Ctx, store, sheets, app.Cfg, app.Logger, app.PeriodKey)
			if err != nil {
				return err
			}

			short := 0
			for _, row := range published.Rows {
				if row.Day.Present && len(row.Day.Names) < row.Day.Required {
					short++
				}
				if row.Night.Present && len(row.Night.Names) < row.Night.Required {
					short++
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n✅ Roster Published Successfully\n\n")
			fmt.Fprintf(out, "Tab:          %s\n", published.Title)
			fmt.Fprintf(out, "Dates:        %d\n", len(published.Rows))
			fmt.Fprintf(out, "Short shifts: %d\n", short)
			fmt.Fprintf(out, "Sheet ID:     %s\n\n", app.Cfg.RosterSheetID)

			return nil
		},
	}
}

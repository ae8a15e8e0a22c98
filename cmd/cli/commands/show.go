package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jakechorley/shift-roster/pkg/core/planning"
	"github.com/jakechorley/shift-roster/pkg/core/roster"
	"github.com/jakechorley/shift-roster/pkg/core/services"
)

// ShowCmd creates the show command
func ShowCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the adopted day and night rosters side by side",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			onlyUnderstaffed, _ := cmd.Flags().GetBool("only-understaffed")

			store, err := app.Store()
			if err != nil {
				return err
			}

			view, err := services.ViewAdopted(app.Ctx, store, app.Cfg, app.Logger, app.PeriodKey)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printAdoptedView(out, view, onlyUnderstaffed)
			return nil
		},
	}

	cmd.Flags().Bool("only-understaffed", false, "Only show dates with an understaffed shift")

	return cmd
}

func printAdoptedView(w io.Writer, view *services.AdoptedView, onlyUnderstaffed bool) {
	fmt.Fprintf(w, "\nAdopted roster for %s\n\n", view.Period.Title())

	for _, category := range roster.Categories {
		adopted := view.Get(category)
		if adopted == nil {
			fmt.Fprintf(w, "%-6s %snot adopted%s\n", category, colorDim, colorReset)
			continue
		}
		fmt.Fprintf(w, "%-6s %s  adopted %s  min satisfaction %.2f\n",
			category, adopted.Record.Fingerprint, adopted.Record.AdoptedAt.Format("2006-01-02 15:04"), adopted.Record.MinSatisfaction)
		if adopted.Stale {
			fmt.Fprintf(w, "       %s⚠️  headcounts have changed since adoption%s\n", colorYellow, colorReset)
		}
		for _, v := range adopted.Violations {
			fmt.Fprintf(w, "       %s✗ %s%s\n", colorRed, v, colorReset)
		}
	}
	fmt.Fprintln(w)

	rows := view.Rows
	if onlyUnderstaffed {
		rows = planning.ShortRows(rows)
		if len(rows) == 0 {
			fmt.Fprintf(w, "%sEvery adopted shift is fully staffed%s\n\n", colorGreen, colorReset)
			return
		}
	}
	printCalendar(w, rows)
	fmt.Fprintln(w)
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/shift-roster/pkg/core/roster"
	"github.com/jakechorley/shift-roster/pkg/core/services"
)

// SlotsCmd creates the slots command
func SlotsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "slots",
		Short: "Show the day and night headcounts for the period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := services.LoadPlan(app.Cfg, app.PeriodKey)
			if err != nil {
				return err
			}

			day, err := plan.Slots(roster.Day)
			if err != nil {
				return err
			}
			night, err := plan.Slots(roster.Night)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\nSlots for %s (%s)\n\n", plan.Period.Title(), plan.Period.Key())
			printSlots(out, day, night)
			fmt.Fprintf(out, "\nMembers: %d\n\n", len(plan.Members))

			return nil
		},
	}
}

// categoryFlag registers the --category flag
func categoryFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("category", "c", "day", "Shift category (day or night)")
}

func getCategory(cmd *cobra.Command) (roster.Category, error) {
	value, _ := cmd.Flags().GetString("category")
	category, err := roster.ParseCategory(value)
	if err != nil {
		return "", fmt.Errorf("invalid --category: %w", err)
	}
	return category, nil
}

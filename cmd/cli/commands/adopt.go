package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/shift-roster/pkg/core/services"
)

// AdoptCmd creates the adopt command
func AdoptCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "adopt <candidate>",
		Short: "Adopt a generated candidate as the period's roster",
		Long: `Adopt a generated candidate as the period's roster for one category.

The candidate is a number from the generate listing, a fingerprint (or a
prefix of at least 4 characters), or a full signature. Run with the same
--category and --paired flags that were used to generate it. Adopting
replaces any earlier adoption for the period and category.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := generateRequest(cmd, app)
			if err != nil {
				return err
			}

			app.Logger.Debug("adopt command", zap.String("category", string(req.Category)), zap.String("selector", args[0]))

			store, err := app.Store()
			if err != nil {
				return err
			}

			adopted, err := services.AdoptRoster(app.Ctx, store, app.Cache(), app.Recorder, app.Cfg, app.Logger, services.AdoptRequest{
				GenerateRequest: req,
				Selector:        args[0],
			})
			if err != nil {
				return err
			}
			app.WriteMetrics()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n✓ Adopted %s roster for %s\n\n", adopted.Category, adopted.PeriodKey)
			fmt.Fprintf(out, "Fingerprint:      %s\n", adopted.Fingerprint)
			fmt.Fprintf(out, "Score:            %.3f\n", adopted.Score)
			fmt.Fprintf(out, "Min satisfaction: %.2f\n\n", adopted.MinSatisfaction)

			return nil
		},
	}

	generateFlags(cmd)

	return cmd
}

// UnadoptCmd creates the unadopt command
func UnadoptCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unadopt",
		Short: "Remove the adopted roster for one category of the period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := getCategory(cmd)
			if err != nil {
				return err
			}

			store, err := app.Store()
			if err != nil {
				return err
			}

			if err := services.UnadoptRoster(app.Ctx, store, app.Cfg, app.Logger, app.PeriodKey, category); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Removed the adopted %s roster\n\n", category)
			return nil
		},
	}

	categoryFlag(cmd)

	return cmd
}

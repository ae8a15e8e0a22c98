package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/shift-roster/pkg/core/services"
	"github.com/jakechorley/shift-roster/pkg/db"
)

// GenerateCmd creates the generate command
func GenerateCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate ranked candidate rosters for one shift category",
		Long: `Generate ranked candidate rosters for one shift category.

With --paired the roster is coupled to the other category: members holding
a shift on the same date in its adopted roster (or, when none is adopted,
in freshly generated candidates) are favoured, and their shifts count
toward consecutive-day limits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := generateRequest(cmd, app)
			if err != nil {
				return err
			}
			onlyUnderstaffed, _ := cmd.Flags().GetBool("only-understaffed")

			app.Logger.Debug("generate command",
				zap.String("category", string(req.Category)),
				zap.Bool("paired", req.Paired),
				zap.Bool("only_understaffed", onlyUnderstaffed))

			var store db.RosterStore
			if req.Paired {
				if store, err = app.OptionalStore(); err != nil {
					return err
				}
			}

			result, err := services.GenerateRoster(app.Ctx, store, app.Cache(), app.Recorder, app.Cfg, app.Logger, req)
			if err != nil {
				return err
			}
			app.WriteMetrics()

			printGenerateResult(cmd.OutOrStdout(), result, onlyUnderstaffed)
			return nil
		},
	}

	generateFlags(cmd)
	cmd.Flags().Bool("only-understaffed", false, "Only show slots with fewer members than required")

	return cmd
}

func generateFlags(cmd *cobra.Command) {
	categoryFlag(cmd)
	cmd.Flags().Bool("paired", false, "Pair with the other category's adopted roster or candidates")
	cmd.Flags().Int("workers", 0, "Concurrent generation workers (overrides config)")
}

func generateRequest(cmd *cobra.Command, app *AppContext) (services.GenerateRequest, error) {
	category, err := getCategory(cmd)
	if err != nil {
		return services.GenerateRequest{}, err
	}
	paired, _ := cmd.Flags().GetBool("paired")
	workers, _ := cmd.Flags().GetInt("workers")

	return services.GenerateRequest{
		PeriodKey: app.PeriodKey,
		Category:  category,
		Paired:    paired,
		Workers:   workers,
	}, nil
}

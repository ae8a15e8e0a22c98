package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/shift-roster/pkg/core/services"
)

// NotifyCmd creates the notify command
func NotifyCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Email each member their adopted shifts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			app.Logger.Debug("notify command", zap.Bool("dry_run", dryRun))

			store, err := app.Store()
			if err != nil {
				return err
			}

			var mailer services.Mailer
			if !dryRun {
				gmail, err := app.GmailClient()
				if err != nil {
					return err
				}
				mailer = gmail
			}

			result, err := services.NotifyMembers(app.Ctx, store, mailer, app.Cfg, app.Logger, app.PeriodKey, dryRun)
			if err != nil {
				return err
			}

			printNotifyResult(cmd, result)
			return nil
		},
	}

	cmd.Flags().Bool("dry-run", false, "Print the emails instead of sending them")

	return cmd
}

func printNotifyResult(cmd *cobra.Command, result *services.NotifyResult) {
	out := cmd.OutOrStdout()

	if result.DryRun {
		fmt.Fprintf(out, "\nDRY RUN: %d emails prepared, nothing sent\n", len(result.Sent))
		for _, n := range result.Sent {
			fmt.Fprintf(out, "\nTo: %s <%s>\nSubject: %s\n\n%s", n.Member, n.Email, n.Subject, n.Body)
		}
	} else if len(result.Sent) > 0 {
		fmt.Fprintf(out, "\n✓ Emails sent to %d members:\n", len(result.Sent))
		for _, n := range result.Sent {
			fmt.Fprintf(out, "  ✓ %s (%s): %d shifts\n", n.Member, n.Email, len(n.Shifts))
		}
	}

	if len(result.Skipped) > 0 {
		fmt.Fprintf(out, "\n%sSkipped %d members without an email address:%s\n", colorDim, len(result.Skipped), colorReset)
		for _, name := range result.Skipped {
			fmt.Fprintf(out, "  - %s\n", name)
		}
	}

	if len(result.Failures) > 0 {
		fmt.Fprintf(out, "\n⚠️  Failed to send %d emails:\n", len(result.Failures))
		for _, f := range result.Failures {
			fmt.Fprintf(out, "  ✗ %s: %v\n", f.Member, f.Err)
		}
	}
	fmt.Fprintln(out)
}

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/pitchlog/internal/config"
	"github.com/terraincognita07/pitchlog/internal/reminders"
)

var errNoSharedCenter = errors.New("reminder commands need REDIS_URL: the in-memory center only lives inside the server process")

// NewRemindersCommand creates the reminders command group.
func NewRemindersCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "Inspect and repair pending activity reminders",
	}

	var asJSON bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List pending reminders in trigger order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withReminders(cmd, rootOpts, func(rt *appRuntime) error {
				pending, err := rt.scheduler.ListPending(commandContext(cmd))
				if err != nil {
					return err
				}
				return writeReminders(cmd.OutOrStdout(), pending, asJSON)
			})
		},
	}
	list.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	cancel := &cobra.Command{
		Use:   "cancel <activity-id>",
		Short: "Cancel the reminder of an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withReminders(cmd, rootOpts, func(rt *appRuntime) error {
				if err := rt.scheduler.Cancel(commandContext(cmd), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "reminder for %s cancelled\n", args[0])
				return nil
			})
		},
	}

	reconcile := &cobra.Command{
		Use:   "reconcile",
		Short: "Cancel reminders whose activity is gone or moved earlier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withReminders(cmd, rootOpts, func(rt *appRuntime) error {
				report, err := rt.scheduler.Reconcile(commandContext(cmd))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "checked %d, cancelled %d\n", report.Checked, report.Cancelled)
				return nil
			})
		},
	}

	cmd.AddCommand(list, cancel, reconcile)
	return cmd
}

func withReminders(cmd *cobra.Command, opts *RootOptions, run func(rt *appRuntime) error) error {
	return withRuntime(cmd, opts, run, func(cfg config.Config) error {
		if cfg.RedisURL == "" {
			return errNoSharedCenter
		}
		return nil
	})
}

func writeReminders(out io.Writer, pending []reminders.Reminder, asJSON bool) error {
	if asJSON {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(pending)
	}
	if len(pending) == 0 {
		_, err := fmt.Fprintln(out, "no pending reminders")
		return err
	}

	writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "ACTIVITY\tTRIGGER\tTITLE")
	for _, reminder := range pending {
		fmt.Fprintf(writer, "%s\t%s\t%s\n", reminder.ActivityID, reminder.TriggerAt.Format(time.RFC3339), reminder.Title)
	}
	return writer.Flush()
}

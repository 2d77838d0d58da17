package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/pitchlog/internal/calendar"
	"github.com/terraincognita07/pitchlog/internal/journal"
	"github.com/terraincognita07/pitchlog/internal/models"
	"github.com/terraincognita07/pitchlog/internal/services"
)

const importDateLayout = "2006-01-02"

type importOptions struct {
	From     string
	To       string
	Kind     string
	Location string
	DryRun   bool
}

type importReport struct {
	Imported   int
	Duplicates int
	Skipped    int
}

// NewImportICSCommand creates the import-ics command.
func NewImportICSCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &importOptions{}

	cmd := &cobra.Command{
		Use:   "import-ics <file>",
		Short: "Create activities from an iCalendar file",
		Long: `Create one activity per calendar event in the date range.

Events that read like fixtures become matches, everything else a practice
with the summary as its focus. Events already in the journal at the same
time, kind and location are skipped, so importing twice is safe.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, rootOpts, func(rt *appRuntime) error {
				return runImportICS(cmd, rt, args[0], opts)
			})
		},
	}

	now := time.Now()
	cmd.Flags().StringVar(&opts.From, "from", now.AddDate(-1, 0, 0).Format(importDateLayout), "first day to import (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.To, "to", now.AddDate(1, 0, 0).Format(importDateLayout), "last day to import (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "force every event to match or practice")
	cmd.Flags().StringVar(&opts.Location, "location", "", "location for events that have none")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "show what would be imported without writing")

	return cmd
}

func runImportICS(cmd *cobra.Command, rt *appRuntime, path string, opts *importOptions) error {
	location := rt.cfg.Location()
	from, err := time.ParseInLocation(importDateLayout, opts.From, location)
	if err != nil {
		return fmt.Errorf("invalid --from: %w", err)
	}
	to, err := time.ParseInLocation(importDateLayout, opts.To, location)
	if err != nil {
		return fmt.Errorf("invalid --to: %w", err)
	}
	if opts.Kind != "" && !models.IsKnownKind(opts.Kind) {
		return fmt.Errorf("invalid --kind %q: must be match or practice", opts.Kind)
	}

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	events, err := calendar.ReadEvents(file, from, to.AddDate(0, 0, 1))
	if err != nil {
		return err
	}

	report, err := importEvents(commandContext(cmd), rt, events, calendar.ImportOptions{Kind: opts.Kind, DefaultLocation: opts.Location}, opts.DryRun, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d, duplicates %d, skipped %d\n", report.Imported, report.Duplicates, report.Skipped)
	return nil
}

func importEvents(ctx context.Context, rt *appRuntime, events []calendar.Event, opts calendar.ImportOptions, dryRun bool, out io.Writer) (importReport, error) {
	report := importReport{}
	for _, event := range events {
		draft, err := calendar.Plan(event, opts)
		if err != nil {
			report.Skipped++
			fmt.Fprintf(out, "skip %q: %v\n", event.Summary, err)
			continue
		}

		duplicate, err := alreadyJournaled(ctx, rt.store, draft.Activity)
		if err != nil {
			return report, err
		}
		if duplicate {
			report.Duplicates++
			continue
		}
		if dryRun {
			report.Imported++
			fmt.Fprintf(out, "would import %s %s at %s\n", draft.Activity.Kind, draft.Activity.Date.Format(time.RFC3339), draft.Activity.Location)
			continue
		}

		mutation, err := journal.CreateActivity(draft.Activity, nil, draft.Practice)
		if err != nil {
			var validation *services.ValidationError
			if errors.As(err, &validation) {
				report.Skipped++
				fmt.Fprintf(out, "skip %q: %v\n", event.Summary, err)
				continue
			}
			return report, err
		}
		if _, err := rt.journal.Submit(ctx, mutation); err != nil {
			return report, err
		}
		report.Imported++
	}
	return report, nil
}

func alreadyJournaled(ctx context.Context, store *services.EntityStore, input services.ActivityInput) (bool, error) {
	normalized, err := services.NormalizeActivityInput(input)
	if err != nil {
		// Let CreateActivity report the validation problem.
		return false, nil
	}
	from := normalized.Date
	to := from.Add(time.Second)
	existing, err := services.Collect(store.FetchActivities(ctx, services.ActivityQuery{
		Kind:  normalized.Kind,
		From:  &from,
		To:    &to,
		Limit: 1,
		Where: func(activity models.Activity) bool {
			return activity.Location == normalized.Location
		},
	}))
	if err != nil {
		return false, err
	}
	return len(existing) > 0, nil
}

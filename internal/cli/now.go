package cli

import (
	"fmt"
	"io"
	"time"

	"quarters/internal/duration"
	"quarters/internal/quarter"
	"quarters/internal/service"

	"github.com/spf13/cobra"
)

func newNowCommand(opts *rootOptions) *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "now",
		Short: "Print progress through the quarter containing an instant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			zone, err := opts.zone()
			if err != nil {
				return err
			}
			instant := opts.app.Now()
			if at != "" {
				instant, err = time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("--at must be RFC 3339: %w", err)
				}
			}
			progress, err := progressAt(instant, zone)
			if err != nil {
				return err
			}
			writeProgress(cmd.OutOrStdout(), progress)
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "instant to report on, RFC 3339 (default now)")
	return cmd
}

func newQuartersCommand(opts *rootOptions) *cobra.Command {
	var year int
	cmd := &cobra.Command{
		Use:   "quarters",
		Short: "List the four quarters of a year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			zone, err := opts.zone()
			if err != nil {
				return err
			}
			if year == 0 {
				year = opts.app.Now().In(zone).Year()
			}
			if year < 1 || year > 9999 {
				return fmt.Errorf("--year must be between 1 and 9999, got %d", year)
			}
			quarters, err := quarter.Resolve(year, zone)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Quarters of %d in %s\n", year, zone)
			for _, q := range quarters {
				length, err := duration.FormatDuration(q.Duration())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s  %s  ->  %s  (%s)\n",
					q, q.Start.Format(timeLayout), q.End.Format(timeLayout), length)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "calendar year (default current year in the zone)")
	return cmd
}

const timeLayout = "2006-01-02 15:04:05 MST"

func progressAt(instant time.Time, zone *time.Location) (service.Progress, error) {
	current, err := quarter.FindContaining(instant, zone)
	if err != nil {
		return service.Progress{}, err
	}
	return service.BuildProgress(current)
}

func writeProgress(out io.Writer, p service.Progress) {
	fmt.Fprintf(out, "Timestamp:  %s\n", p.TimestampText)
	fmt.Fprintf(out, "Timezone:   %s\n", p.Timezone)
	fmt.Fprintf(out, "Quarter:    %s\n", p.Name)
	fmt.Fprintf(out, "Progress:   %.2f%%\n", p.Percentage)
	fmt.Fprintf(out, "Elapsed:    %s\n", p.ElapsedText)
	fmt.Fprintf(out, "Remaining:  %s\n", p.RemainingText)
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/username/timeclock-report/internal/config"
	"github.com/username/timeclock-report/internal/report"
	"github.com/username/timeclock-report/internal/timesheet"
	"github.com/username/timeclock-report/internal/watcher"
	"go.uber.org/zap"
)

type runOverrides struct {
	input  string
	output string
}

func (o runOverrides) apply(cfg *config.Config) {
	if o.input != "" {
		cfg.Input.Dir = o.input
	}
	if o.output != "" {
		cfg.Output.Dir = ""
		cfg.Output.File = o.output
	}
}

func convertCmd() *cobra.Command {
	var overrides runOverrides

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert every export of the input directory into the consolidated workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			overrides.apply(cfg)

			return convert(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&overrides.input, "input", "i", "", "Input directory (overrides input.dir)")
	cmd.Flags().StringVarP(&overrides.output, "output", "o", "", "Output workbook path (overrides output.dir/output.file)")

	return cmd
}

func convert(ctx context.Context, cfg *config.Config, out io.Writer) error {
	proc, err := initializeProcessor(cfg)
	if err != nil {
		return err
	}

	result, err := proc.Run(ctx, cfg.Input.Dir)
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	if len(result.Months) == 0 {
		return fmt.Errorf("no month could be processed from %s", cfg.Input.Dir)
	}

	path := cfg.Output.OutputPath()
	if err := report.NewWriter(logger).WriteWorkbook(path, result); err != nil {
		return err
	}

	fmt.Fprintf(out, "Workbook written to %s (%d month(s))\n\n", path, len(result.Months))
	if err := report.PrintConsolidated(out, report.ConsolidatedEntries(result)); err != nil {
		return err
	}

	if len(result.Skipped) > 0 {
		fmt.Fprintf(out, "\nSkipped %d file(s):\n", len(result.Skipped))
		for _, s := range result.Skipped {
			fmt.Fprintf(out, "  %s: %v\n", s.Source, s.Err)
		}
	}

	return nil
}

func watchCmd() *cobra.Command {
	var overrides runOverrides

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate the workbook whenever an export is added or changed",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			overrides.apply(cfg)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w := watcher.New(cfg.Input.Dir, cfg.Input.GetPattern(), cfg.Watch.GetDebounce(),
				func(ctx context.Context) error {
					// Reload overlays on every pass
					return convert(ctx, cfg, cmd.OutOrStdout())
				}, logger)

			return w.Start(ctx)
		},
	}

	cmd.Flags().StringVarP(&overrides.input, "input", "i", "", "Input directory (overrides input.dir)")
	cmd.Flags().StringVarP(&overrides.output, "output", "o", "", "Output workbook path (overrides output.dir/output.file)")

	return cmd
}

func holidaysCmd() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "List the holidays of a year",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			holidays, err := initializeCalendar(cfg).HolidaysForYear(year)
			if err != nil {
				return fmt.Errorf("failed to get holidays: %w", err)
			}

			out := cmd.OutOrStdout()
			for _, h := range holidays.Sorted() {
				fmt.Fprintf(out, "%s  %-13s  %s\n",
					h.Date.Format("02/01/2006"),
					timesheet.WeekdayName(h.Date.Weekday()),
					h.Name)
			}

			logger.Info("Holidays listed",
				zap.Int("year", year),
				zap.Int("count", len(holidays)))

			return nil
		},
	}

	cmd.Flags().IntVarP(&year, "year", "y", time.Now().Year(), "Year to list")

	return cmd
}

func totalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "totals <workbook.xlsx>",
		Short: "Print the consolidated totals of a generated workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := report.ReadConsolidated(args[0])
			if err != nil {
				return err
			}
			return report.PrintConsolidated(cmd.OutOrStdout(), entries)
		},
	}
}

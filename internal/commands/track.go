package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/targetdigest/ietrack/internal/ie"
	"github.com/targetdigest/ietrack/internal/runlog"
)

// errDegraded is returned under --strict when any fetch failed.
var errDegraded = errors.New("one or more IE pages could not be fetched")

type runFlags struct {
	now  string
	only []string
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.now, "now", "", "reference time for the run (RFC3339 or YYYY-MM-DD HH:MM:SS)")
	cmd.Flags().StringArrayVar(&f.only, "only", nil, "track only the named entity (repeatable)")
}

// execute loads the session and tracks the selected entities in a single Run.
func (f *runFlags) execute(cmd *cobra.Command) (*ie.Run, []ie.Result, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	sess, err := loadSession(ctx, cmd)
	if err != nil {
		return nil, nil, err
	}
	now, err := resolveNow(f.now, sess.loc)
	if err != nil {
		return nil, nil, err
	}
	entities, err := selectEntities(sess.entities, f.only)
	if err != nil {
		return nil, nil, err
	}

	run := ie.NewRun(now)
	return run, trackEntities(ctx, sess, run, entities), nil
}

func newTrackCommand() *cobra.Command {
	var flags runFlags
	var outPath string
	var logDir string
	var strict bool

	cmd := &cobra.Command{
		Use:   "track",
		Short: "Fetch IE filings and print alerts for the last day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			run, results, err := flags.execute(cmd)
			if err != nil {
				return err
			}
			stderr := cmd.ErrOrStderr()

			var blocks []string
			var errs []error
			degraded := false
			for _, r := range results {
				if r.Err != nil {
					errs = append(errs, r.Err)
					continue
				}
				for _, ff := range r.FetchFailures {
					degraded = true
					fmt.Fprintf(stderr, "warning: %s: could not fetch %s: %v\n", r.Entity.Name, ff.URL, ff.Err)
				}
				if r.HasAlert {
					blocks = append(blocks, r.Alert)
				}
			}

			if err := writeAlerts(cmd.OutOrStdout(), outPath, blocks); err != nil {
				return err
			}
			fmt.Fprintf(stderr, "Tracked %d entities: %d with new filings, %d failed\n",
				len(results), len(blocks), len(errs))

			if logDir != "" {
				entries := make([]runlog.Entry, len(results))
				for i, r := range results {
					entries[i] = logEntry(run, r)
				}
				if err := runlog.Append(logDir, entries); err != nil {
					return fmt.Errorf("writing run log: %w", err)
				}
			}

			if strict && degraded {
				errs = append(errs, errDegraded)
			}
			return errors.Join(errs...)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write alerts to this file instead of stdout")
	cmd.Flags().StringVar(&logDir, "log-dir", "", "append a row per entity to <dir>/"+runlog.FileName)
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any IE page could not be fetched")

	return cmd
}

// writeAlerts writes the alert blocks separated by blank lines, to path if
// set or w otherwise. An empty run writes nothing.
func writeAlerts(w io.Writer, path string, blocks []string) error {
	if len(blocks) == 0 {
		return nil
	}
	text := strings.Join(blocks, "\n\n") + "\n"
	if path == "" {
		_, err := io.WriteString(w, text)
		return err
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("writing alerts: %w", err)
	}
	return nil
}

func newTotalsCommand() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "totals",
		Short: "Print season-to-date Team Us / Team Them totals per district",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, results, err := flags.execute(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var errs []error
			for _, r := range results {
				if r.Err != nil {
					errs = append(errs, r.Err)
					continue
				}
				if r.CachedTotals {
					continue
				}
				t := r.Totals
				fmt.Fprintf(out, "%s (%s): Team Us $%s | Team Them $%s\n",
					r.Entity.District, r.Entity.Name, humanize.Comma(t.TeamUs), humanize.Comma(t.TeamThem))
			}
			return errors.Join(errs...)
		},
	}

	flags.register(cmd)

	return cmd
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/targetdigest/ietrack/internal/source"
)

func newParseCommand() *cobra.Command {
	var baseURL string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a saved IE page or CSV export and print its filings as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := source.NewFile(source.DefaultRegistry(baseURL))
			filings, err := src.Fetch(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := source.WriteFilings(cmd.OutOrStdout(), filings); err != nil {
				return fmt.Errorf("writing filings: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "https://cal-access.sos.ca.gov", "base URL for relative filing links")

	return cmd
}

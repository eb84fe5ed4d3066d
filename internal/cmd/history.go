package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/crucible/internal/display"
	"github.com/harrison/crucible/internal/store"
)

// NewHistoryCommand creates the "history" subcommand.
func NewHistoryCommand() *cobra.Command {
	var (
		storePath string
		limit     int
		counts    bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent evaluation results",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store.NewStore(storePath)
			if err != nil {
				return err
			}
			defer s.Close()

			if counts {
				byStatus, err := s.CountByStatus(cmd.Context())
				if err != nil {
					return err
				}
				for status, n := range byStatus {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", status, n)
				}
				return nil
			}

			records, err := s.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			display.NewRenderer(cmd.OutOrStdout()).History(records)
			return nil
		},
	}

	cmd.Flags().StringVar(&storePath, "store", ".crucible/results.db", "results database path")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of records to show (0 for all)")
	cmd.Flags().BoolVar(&counts, "counts", false, "show aggregate counts by status instead")

	return cmd
}

package commands

import (
	"github.com/spf13/cobra"

	"github.com/sycobuny/errtracker/internal/collector"
	"github.com/sycobuny/errtracker/internal/output"
)

// NewReportsCmd creates the reports command with subcommands for inspecting
// what the collector has stored.
func NewReportsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Inspect stored error reports",
	}

	cmd.AddCommand(newReportsListCmd())
	cmd.AddCommand(newReportsCountCmd())

	return cmd
}

func newReportsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored errors, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			return withStore(func(store *collector.Store) error {
				errs, err := store.ListErrors(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if errs == nil {
					errs = []collector.StoredError{}
				}

				type resp struct {
					Count  int                     `json:"count"`
					Errors []collector.StoredError `json:"errors"`
				}
				return output.PrintSuccess(resp{Count: len(errs), Errors: errs})
			})
		},
	}

	cmd.Flags().Int("limit", 50, "Maximum number of errors to list")

	return cmd
}

func newReportsCountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Count stored reports and errors",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store *collector.Store) error {
				reports, err := store.CountReports(cmd.Context())
				if err != nil {
					return err
				}
				errs, err := store.CountErrors(cmd.Context())
				if err != nil {
					return err
				}

				type resp struct {
					Reports int `json:"reports"`
					Errors  int `json:"errors"`
				}
				return output.PrintSuccess(resp{Reports: reports, Errors: errs})
			})
		},
	}
}

package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/spec-kit/grievance-service/internal/aggregate"
	"github.com/spec-kit/grievance-service/internal/domain"
)

func (c *cli) reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print complaint counts by sector, status and priority",
		Long: `Loads every stored complaint and prints the dashboard rollup: counts per
sector, status and priority followed by the largest clusters.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, release, err := c.openStore(cmd.Context(), c.logger)
			if err != nil {
				return err
			}
			defer release()

			complaints, err := store.Complaints.ListAll(cmd.Context())
			if err != nil {
				return fmt.Errorf("load complaints: %w", err)
			}
			return writeReport(cmd.OutOrStdout(), aggregate.Summarize(complaints))
		},
	}
}

func writeReport(out io.Writer, s aggregate.Summary) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Total complaints:\t%d\n\n", s.Total)

	fmt.Fprintln(w, "SECTOR\tCOUNT")
	for _, sector := range domain.Sectors() {
		if n := s.BySector[sector]; n > 0 {
			fmt.Fprintf(w, "%s\t%d\n", sector, n)
		}
	}

	fmt.Fprintln(w, "\nSTATUS\tCOUNT")
	for _, status := range domain.Statuses() {
		fmt.Fprintf(w, "%s\t%d\n", status, s.ByStatus[status])
	}

	fmt.Fprintln(w, "\nPRIORITY\tCOUNT")
	for _, p := range domain.Priorities() {
		fmt.Fprintf(w, "%s\t%d\n", p, s.ByPriority[p])
	}

	if len(s.TopClusters) > 0 {
		fmt.Fprintln(w, "\nCLUSTER\tTOTAL\tIN PROGRESS\tRESOLVED")
		for _, cl := range s.TopClusters {
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", cl.Topic, cl.Total, cl.Processing, cl.Resolved)
		}
	}
	return w.Flush()
}

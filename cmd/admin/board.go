package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	domainsvcs "github.com/mindflow/backend/services/task/domain/services"
)

// errNotDense makes `board verify` exit non-zero when a column needs compaction.
var errNotDense = errors.New("board has gaps or duplicate positions; run `board compact`")

func boardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Inspect and repair board ordering",
	}

	var owner string
	cmd.PersistentFlags().StringVar(&owner, "owner", "", "owner ID whose board to operate on")
	_ = cmd.MarkPersistentFlagRequired("owner")

	cmd.AddCommand(&cobra.Command{
		Use:   "verify",
		Short: "Report columns whose positions are not 0..N-1",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ownerID, err := parseOwner(owner)
			if err != nil {
				return err
			}
			env, cleanup, err := newAdminEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			reports, err := env.svcs.Board.Verify(cmd.Context(), ownerID)
			if err != nil {
				return err
			}
			if !printReports(cmd.OutOrStdout(), reports) {
				return errNotDense
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "compact",
		Short: "Renumber every column of the board, keeping relative order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ownerID, err := parseOwner(owner)
			if err != nil {
				return err
			}
			env, cleanup, err := newAdminEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := env.svcs.Board.Compact(cmd.Context(), ownerID)
			if err != nil {
				return err
			}
			env.log.InfoContext(cmd.Context(), "board compacted",
				"owner_id", ownerID, "partitions", result.Partitions, "moved", result.Moved)
			fmt.Fprintf(cmd.OutOrStdout(), "compacted %d columns, moved %d tasks\n", result.Partitions, result.Moved)
			return nil
		},
	})

	return cmd
}

func parseOwner(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid --owner %q: %w", s, err)
	}
	return id, nil
}

// printReports writes one row per column and reports whether all are dense.
func printReports(w io.Writer, reports []domainsvcs.PartitionReport) bool {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COLUMN\tTASKS\tMISSING\tDUPLICATES\tOK")

	dense := true
	for _, r := range reports {
		ok := r.Dense()
		dense = dense && ok
		fmt.Fprintf(tw, "%s\t%d\t%v\t%v\t%t\n", r.Partition.Column, r.Count, r.Missing, r.Duplicates, ok)
	}
	_ = tw.Flush()
	return dense
}

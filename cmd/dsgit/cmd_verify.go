package main

import (
	"fmt"

	"github.com/odvcencio/dsgit/pkg/object"
	"github.com/spf13/cobra"
)

func newVerifyCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check object integrity and ref reachability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.openRepo()
			if err != nil {
				return err
			}
			report, err := r.Verify()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !report.OK() {
				for _, h := range report.Missing {
					fmt.Fprintf(out, "missing %s\n", h)
				}
				return fmt.Errorf("verify: %d reachable objects missing: %w", len(report.Missing), object.ErrNotFound)
			}
			fmt.Fprintf(out, "ok: verified %d objects (%d reachable, %d unreachable) from %d refs\n",
				report.Objects, report.Reachable, report.Unreachable, report.Refs)
			return nil
		},
	}
}

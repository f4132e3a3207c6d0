package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSwitchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "switch <rev>",
		Short: "Restore a branch or commit into the working directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.openRepo()
			if err != nil {
				return err
			}
			ignore, err := r.IgnoreChecker()
			if err != nil {
				return err
			}
			if err := r.Switch(args[0], ignore); err != nil {
				return err
			}

			branch, err := r.CurrentBranch()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if branch != "" {
				fmt.Fprintf(out, "switched to branch %s\n", branch)
				return nil
			}
			head, err := r.HeadHash()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "HEAD is now detached at %s\n", head.Short())
			return nil
		},
	}
}

func newResetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset <rev>",
		Short: "Detach HEAD at a commit without touching the working directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.openRepo()
			if err != nil {
				return err
			}
			h, err := r.ResolveName(args[0])
			if err != nil {
				return err
			}
			if err := r.Reset(h); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "HEAD is now at %s\n", h.Short())
			return nil
		},
	}
}

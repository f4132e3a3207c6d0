package main

import (
	"fmt"

	"github.com/odvcencio/dsgit/pkg/object"
	"github.com/spf13/cobra"
)

func newWriteTreeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "write-tree",
		Short: "Record the working directory as a tree object",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.openRepo()
			if err != nil {
				return err
			}
			ignore, err := r.IgnoreChecker()
			if err != nil {
				return err
			}
			h, err := r.Snapshot(r.RootDir, ignore)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}
}

func newReadTreeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "read-tree <tree>",
		Short: "Replace the working directory with a tree or commit",
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

			// A commit stands for its tree.
			objType, _, err := r.Store.Read(h)
			if err != nil {
				return err
			}
			if objType == object.TypeCommit {
				c, err := r.ReadCommit(h)
				if err != nil {
					return err
				}
				h = c.TreeHash
			}

			ignore, err := r.IgnoreChecker()
			if err != nil {
				return err
			}
			if err := r.Restore(h, ignore); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "restored tree %s\n", h.Short())
			return nil
		},
	}
}

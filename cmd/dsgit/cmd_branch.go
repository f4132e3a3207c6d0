package main

import (
	"errors"
	"fmt"

	"github.com/odvcencio/dsgit/pkg/object"
	"github.com/odvcencio/dsgit/pkg/repo"
	"github.com/spf13/cobra"
)

var errNoCommits = errors.New("no commits yet")

// targetCommit resolves the optional start point of a new branch or tag,
// defaulting to HEAD.
func targetCommit(r *repo.Repo, args []string) (object.Hash, error) {
	if len(args) == 2 {
		return r.ResolveName(args[1])
	}
	h, err := r.HeadHash()
	if err != nil {
		return "", err
	}
	if h == "" {
		return "", errNoCommits
	}
	return h, nil
}

func newBranchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "branch [name [rev]]",
		Short: "List branches, or create one at a commit",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.openRepo()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				branches, err := r.ListBranches()
				if err != nil {
					return err
				}
				current, err := r.CurrentBranch()
				if err != nil {
					return err
				}
				for _, b := range branches {
					if b == current {
						fmt.Fprintf(out, "* %s\n", branchColor(b))
					} else {
						fmt.Fprintf(out, "  %s\n", b)
					}
				}
				return nil
			}

			target, err := targetCommit(r, args)
			if err != nil {
				return fmt.Errorf("branch %s: %w", args[0], err)
			}
			if err := r.CreateBranch(args[0], target); err != nil {
				return err
			}
			fmt.Fprintf(out, "branch %s at %s\n", args[0], target.Short())
			return nil
		},
	}
}

func newTagCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tag [name [rev]]",
		Short: "List tags, or create one at a commit",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.openRepo()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				tags, err := r.ListTags()
				if err != nil {
					return err
				}
				for _, t := range tags {
					fmt.Fprintln(out, t)
				}
				return nil
			}

			target, err := targetCommit(r, args)
			if err != nil {
				return fmt.Errorf("tag %s: %w", args[0], err)
			}
			if err := r.CreateTag(args[0], target); err != nil {
				return err
			}
			fmt.Fprintf(out, "tag %s at %s\n", args[0], target.Short())
			return nil
		},
	}
}

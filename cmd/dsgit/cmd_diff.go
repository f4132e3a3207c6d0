package main

import (
	"fmt"
	"io"

	"github.com/odvcencio/dsgit/pkg/diff"
	"github.com/odvcencio/dsgit/pkg/object"
	"github.com/spf13/cobra"
)

func newDiffCmd(opts *rootOptions) *cobra.Command {
	var nameStatus bool

	cmd := &cobra.Command{
		Use:   "diff [from] [to]",
		Short: "Show changes between commits or against the working directory",
		Long: `Show changes between commits or against the working directory.

With no arguments HEAD is compared with the working directory. With one
argument that commit is compared with the working directory. With two the
commits are compared with each other.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.openRepo()
			if err != nil {
				return err
			}

			var from object.Hash
			if len(args) > 0 {
				from, err = resolveCommit(r, args[0])
			} else {
				from, err = r.HeadHash()
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(args) == 2 {
				to, err := resolveCommit(r, args[1])
				if err != nil {
					return err
				}
				changes, err := r.DiffCommits(from, to)
				if err != nil {
					return err
				}
				if nameStatus {
					writeNameStatus(out, changes)
					return nil
				}
				return writeTreeDiff(out, changes, storedContent(r), storedContent(r))
			}

			ignore, err := r.IgnoreChecker()
			if err != nil {
				return err
			}
			changes, err := r.DiffWorkingTree(from, ignore)
			if err != nil {
				return err
			}
			if nameStatus {
				writeNameStatus(out, changes)
				return nil
			}
			return writeTreeDiff(out, changes, storedContent(r), workingContent(r))
		},
	}

	cmd.Flags().BoolVar(&nameStatus, "name-status", false, "list changed paths with a status letter instead of a patch")
	return cmd
}

func changeLetter(t diff.ChangeType) string {
	switch t {
	case diff.Created:
		return "A"
	case diff.Removed:
		return "D"
	}
	return "M"
}

func writeNameStatus(out io.Writer, d *diff.TreeDiff) {
	for _, c := range d.All() {
		fmt.Fprintln(out, changeColor(c.Type)(changeLetter(c.Type)+"\t"+c.Path))
	}
}

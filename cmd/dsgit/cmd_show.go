package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/odvcencio/dsgit/pkg/object"
	"github.com/odvcencio/dsgit/pkg/repo"
	"github.com/spf13/cobra"
)

func newShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show [rev] [path]",
		Short: "Show a commit and its changes, or a file at a commit",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.openRepo()
			if err != nil {
				return err
			}

			target := "HEAD"
			if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
				target = strings.TrimSpace(args[0])
			}
			h, err := resolveCommit(r, target)
			if err != nil {
				return err
			}
			commit, err := r.ReadCommit(h)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(args) == 2 {
				return showFile(out, r, commit.TreeHash, args[1])
			}

			fmt.Fprintln(out, hashColor("commit "+string(h)))
			if commit.HasParent() {
				fmt.Fprintf(out, "Parent: %s\n", commit.Parent)
			}
			fmt.Fprintf(out, "Tree:   %s\n", commit.TreeHash)
			fmt.Fprintln(out)
			writeMessage(out, commit.Message)
			fmt.Fprintln(out)

			changes, err := r.DiffCommits(commit.Parent, h)
			if err != nil {
				return err
			}
			return writeTreeDiff(out, changes, storedContent(r), storedContent(r))
		},
	}
}

func showFile(out io.Writer, r *repo.Repo, tree object.Hash, path string) error {
	entry, ok, err := r.LookupPath(tree, path)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("show: %q: %w", path, object.ErrNotFound)
	}
	data, err := r.ReadContent(entry.Hash)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

// writeMessage indents each line of a commit message.
func writeMessage(out io.Writer, message string) {
	for _, line := range strings.Split(strings.TrimRight(message, "\n"), "\n") {
		fmt.Fprintf(out, "    %s\n", line)
	}
}

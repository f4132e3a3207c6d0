package main

import (
	"fmt"
	"strings"

	"github.com/odvcencio/dsgit/pkg/object"
	"github.com/spf13/cobra"
)

func newLogCmd(opts *rootOptions) *cobra.Command {
	var oneline bool
	var limit int

	cmd := &cobra.Command{
		Use:   "log [rev]",
		Short: "Show commit history",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.openRepo()
			if err != nil {
				return err
			}

			var start object.Hash
			if len(args) == 1 {
				start, err = resolveCommit(r, args[0])
			} else {
				start, err = r.HeadHash()
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			entries, err := r.Log(start, limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "no commits yet")
				return nil
			}

			decor, err := decorations(r)
			if err != nil {
				return err
			}

			for _, e := range entries {
				decoration := decor[e.Hash]
				if oneline {
					subject, _, _ := strings.Cut(e.Commit.Message, "\n")
					if decoration != "" {
						fmt.Fprintf(out, "%s %s %s\n", hashColor(e.Hash.Short()), decoration, subject)
					} else {
						fmt.Fprintf(out, "%s %s\n", hashColor(e.Hash.Short()), subject)
					}
					continue
				}

				if decoration != "" {
					fmt.Fprintf(out, "%s %s\n", hashColor("commit "+string(e.Hash)), decoration)
				} else {
					fmt.Fprintln(out, hashColor("commit "+string(e.Hash)))
				}
				if e.Commit.HasParent() {
					fmt.Fprintf(out, "Parent: %s\n", e.Commit.Parent)
				}
				fmt.Fprintln(out)
				writeMessage(out, e.Commit.Message)
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&oneline, "oneline", false, "compact one-line format")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of commits to show (0 for all)")

	return cmd
}

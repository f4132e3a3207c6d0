package main

import (
	"fmt"

	"github.com/odvcencio/dsgit/pkg/diff"
	"github.com/spf13/cobra"
)

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show working tree status",
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
			st, err := r.Status(ignore)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case st.Branch != "" && st.Head == "":
				fmt.Fprintf(out, "on %s (no commits yet)\n", st.Branch)
			case st.Branch != "":
				fmt.Fprintf(out, "on %s\n", st.Branch)
			default:
				fmt.Fprintf(out, "HEAD detached at %s\n", st.Head.Short())
			}

			if st.Clean() {
				fmt.Fprintln(out, "nothing to commit, working tree clean")
				return nil
			}

			sections := []struct {
				title   string
				marker  string
				changes []diff.Change
			}{
				{"modified:", "~", st.Changes.Modified},
				{"created:", "+", st.Changes.Created},
				{"removed:", "-", st.Changes.Removed},
			}
			for _, s := range sections {
				if len(s.changes) == 0 {
					continue
				}
				fmt.Fprintln(out)
				fmt.Fprintln(out, s.title)
				for _, c := range s.changes {
					fmt.Fprintln(out, changeColor(c.Type)(fmt.Sprintf("  %s %s", s.marker, c.Path)))
				}
			}
			return nil
		},
	}
}

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newCommitCmd(opts *rootOptions) *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Record the working directory as a new commit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(message) == "" {
				return errors.New("commit message is required (use -m)")
			}

			r, err := opts.openRepo()
			if err != nil {
				return err
			}
			ignore, err := r.IgnoreChecker()
			if err != nil {
				return err
			}
			h, err := r.Commit(message, ignore)
			if err != nil {
				return err
			}

			branch, err := r.CurrentBranch()
			if err != nil {
				return err
			}
			if branch == "" {
				branch = "detached HEAD"
			}
			subject, _, _ := strings.Cut(message, "\n")
			fmt.Fprintf(cmd.OutOrStdout(), "[%s %s] %s\n", branch, h.Short(), subject)
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")
	return cmd
}

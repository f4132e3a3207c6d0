package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/odvcencio/dsgit/pkg/repo"
	"github.com/spf13/cobra"
)

func newInitCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Create an empty dsgit repository",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			abs, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}
			if err := os.MkdirAll(abs, 0o755); err != nil {
				return fmt.Errorf("create directory: %w", err)
			}

			logger, err := opts.logger("")
			if err != nil {
				return err
			}
			r, err := repo.Init(abs, repo.WithLogger(logger))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "initialized empty dsgit repository in %s\n", r.DsgitDir+string(filepath.Separator))
			return nil
		},
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/odvcencio/dsgit/pkg/object"
	"github.com/spf13/cobra"
)

func newHashObjectCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "hash-object <file>",
		Short: "Store a file as a blob and print its id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.openRepo()
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("hash-object: %w: %w", object.ErrIO, err)
			}
			h, err := r.Store.WriteBlob(&object.Blob{Data: data})
			if err != nil {
				return fmt.Errorf("hash-object: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}
}

func newCatObjectCmd(opts *rootOptions) *cobra.Command {
	var kind string
	var showType bool

	cmd := &cobra.Command{
		Use:   "cat-object <object>",
		Short: "Print the content of a stored object",
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

			objType, data, err := r.Store.Read(h)
			if err != nil {
				return err
			}
			if kind != "" && objType != object.ObjectType(kind) {
				return fmt.Errorf("cat-object %s: %w: got %q, want %q", h, object.ErrTypeMismatch, objType, kind)
			}

			out := cmd.OutOrStdout()
			if showType {
				fmt.Fprintln(out, objType)
				return nil
			}
			_, err = out.Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&kind, "type", "t", "", "fail unless the object has this kind (blob, tree, commit)")
	cmd.Flags().BoolVar(&showType, "show-type", false, "print the object kind instead of its content")
	return cmd
}

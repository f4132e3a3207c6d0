package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/odvcencio/dsgit/internal/logging"
	"github.com/odvcencio/dsgit/pkg/repo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const version = "0.1.0-dev"

// rootOptions holds the global flags shared by every subcommand.
type rootOptions struct {
	logLevel string
	noColor  bool

	// log is the logger built for the running command, if any.
	log *zap.Logger
}

func main() {
	opts := &rootOptions{}
	err := newRootCmd(opts).Execute()
	// Flush before os.Exit.
	opts.syncLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, "dsgit:", err)
		os.Exit(1)
	}
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	root := &cobra.Command{
		Use:           "dsgit",
		Short:         "Version management for datasets",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.noColor {
				color.NoColor = true
			}
			if opts.logLevel != "" {
				if _, err := logging.ParseLevel(opts.logLevel); err != nil {
					return err
				}
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error); defaults to the repository config")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(opts))
	root.AddCommand(newHashObjectCmd(opts))
	root.AddCommand(newCatObjectCmd(opts))
	root.AddCommand(newWriteTreeCmd(opts))
	root.AddCommand(newReadTreeCmd(opts))
	root.AddCommand(newCommitCmd(opts))
	root.AddCommand(newLogCmd(opts))
	root.AddCommand(newShowCmd(opts))
	root.AddCommand(newDiffCmd(opts))
	root.AddCommand(newStatusCmd(opts))
	root.AddCommand(newSwitchCmd(opts))
	root.AddCommand(newResetCmd(opts))
	root.AddCommand(newBranchCmd(opts))
	root.AddCommand(newTagCmd(opts))
	root.AddCommand(newRefsCmd(opts))
	root.AddCommand(newVerifyCmd(opts))

	return root
}

// logger builds the command logger. The --log-level flag wins over the
// level configured in the repository.
func (o *rootOptions) logger(configured string) (*zap.Logger, error) {
	level := o.logLevel
	if level == "" {
		level = configured
	}
	logger, err := logging.New(level)
	if err != nil {
		return nil, err
	}
	o.log = logger
	return logger, nil
}

// syncLogger flushes the command logger. The error is dropped since Sync on
// a terminal stderr reports EINVAL.
func (o *rootOptions) syncLogger() {
	if o.log != nil {
		_ = o.log.Sync()
	}
}

// openRepo opens the repository containing the working directory with a
// logger at the effective level.
func (o *rootOptions) openRepo() (*repo.Repo, error) {
	return repo.Open(".", repo.WithLoggerFunc(func(cfg *repo.Config) (*zap.Logger, error) {
		return o.logger(cfg.Log.Level)
	}))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dsgit %s\n", version)
		},
	}
}

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/feral-file/ff-floor-indexer/internal/floorask"
	"github.com/feral-file/ff-floor-indexer/internal/messaging"
	"github.com/feral-file/ff-floor-indexer/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigFile string
	EnvPath    string
	Format     string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// Need selects which backends a command connects to.
type Need int

const (
	NeedQueue Need = 1 << iota
	NeedStore
)

// Services are the backends a command runs against. Only the ones requested are set.
type Services struct {
	Queue  messaging.JobQueue
	Failed messaging.FailedJobs
	Store  store.Store
	Worker floorask.Worker
	Close  func()
}

// ServicesFactory connects the backends a command needs.
type ServicesFactory func(ctx context.Context, opts *RootOptions, need Need) (*Services, error)

// NewRootCommand creates the root command for floor-ask-cli.
func NewRootCommand(factory ServicesFactory) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "floor-ask-cli",
		Short: "Operate the collection floor ask pipeline",
		Long:  "Enqueue floor ask jobs, recompute collections in-process and manage jobs parked in the failed set.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "path to configuration file")
	cmd.PersistentFlags().StringVar(&opts.EnvPath, "env", "config/", "path to environment files")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewEnqueueCommand(opts, factory))
	cmd.AddCommand(NewRecomputeCommand(opts, factory))
	cmd.AddCommand(NewFailedCommand(opts, factory))
	cmd.AddCommand(NewEventsCommand(opts, factory))

	return cmd
}

// withServices connects the requested backends and closes them after run returns.
func withServices(cmd *cobra.Command, opts *RootOptions, factory ServicesFactory, need Need, run func(*Services) error) error {
	svc, err := factory(cmd.Context(), opts, need)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to connect", err)
	}
	if svc.Close != nil {
		defer svc.Close()
	}
	return run(svc)
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

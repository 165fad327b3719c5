package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

// FailedListOptions holds flags for the failed list command.
type FailedListOptions struct {
	*RootOptions
	Limit int
}

// NewFailedCommand creates the failed command group.
func NewFailedCommand(rootOpts *RootOptions, factory ServicesFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "failed",
		Short: "Inspect and retry jobs parked in the failed set",
	}

	cmd.AddCommand(newFailedListCommand(rootOpts, factory))
	cmd.AddCommand(newFailedRetryCommand(rootOpts, factory))

	return cmd
}

func newFailedListCommand(rootOpts *RootOptions, factory ServicesFactory) *cobra.Command {
	opts := &FailedListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List parked jobs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, opts.RootOptions, factory, NeedQueue, func(svc *Services) error {
				jobs, err := svc.Failed.ListFailed(cmd.Context(), opts.Limit)
				if err != nil {
					return err
				}

				return output(cmd.OutOrStdout(), opts.Format, jobs, func(tw *tabwriter.Writer) {
					fmt.Fprintln(tw, "SEQ\tNAME\tKIND\tATTEMPTS\tFAILED AT\tERROR")
					for _, job := range jobs {
						fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\n",
							job.Sequence, job.Name, job.Payload.Kind, job.Attempts,
							job.FailedAt.Format(time.RFC3339), job.Error)
					}
				})
			})
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 100, "maximum number of jobs to list")

	return cmd
}

func newFailedRetryCommand(rootOpts *RootOptions, factory ServicesFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "retry <seq>",
		Short: "Re-enqueue a parked job and remove it from the failed set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seq, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil || seq == 0 {
				return WrapExitError(ExitCommandError, fmt.Sprintf("invalid sequence %q", args[0]), err)
			}

			return withServices(cmd, rootOpts, factory, NeedQueue, func(svc *Services) error {
				job, err := svc.Failed.RetryFailed(cmd.Context(), seq)
				if err != nil {
					return err
				}

				return output(cmd.OutOrStdout(), rootOpts.Format, job, func(tw *tabwriter.Writer) {
					fmt.Fprintf(tw, "Re-enqueued %s (failed set sequence %d)\n", job.Name, job.Sequence)
				})
			})
		},
	}
}

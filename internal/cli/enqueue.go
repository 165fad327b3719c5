package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/feral-file/ff-floor-indexer/internal/domain"
)

// EnqueueOptions holds flags for the enqueue command.
type EnqueueOptions struct {
	*RootOptions
	Kind        string
	Contract    string
	TokenIDs    []string
	TxHash      string
	TxTimestamp int64
}

// NewEnqueueCommand creates the enqueue command.
func NewEnqueueCommand(rootOpts *RootOptions, factory ServicesFactory) *cobra.Command {
	opts := &EnqueueOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "enqueue",
		Short: "Enqueue floor ask jobs for one or more tokens of a contract",
		Long: `Enqueue floor ask jobs for one or more tokens of a contract.

Example:
  floor-ask-cli enqueue --kind revalidation --contract 0xabc... --token-id 1 --token-id 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, err := opts.jobs(cmd)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid job", err)
			}

			return withServices(cmd, opts.RootOptions, factory, NeedQueue, func(svc *Services) error {
				if err := svc.Queue.Enqueue(cmd.Context(), jobs); err != nil {
					return err
				}

				names := make([]string, 0, len(jobs))
				for i := range jobs {
					names = append(names, jobs[i].Name())
				}

				return output(cmd.OutOrStdout(), opts.Format, map[string]interface{}{
					"enqueued": len(jobs),
					"names":    names,
				}, func(tw *tabwriter.Writer) {
					fmt.Fprintf(tw, "Enqueued %d job(s)\n", len(jobs))
					for _, name := range names {
						fmt.Fprintf(tw, "  %s\n", name)
					}
				})
			})
		},
	}

	cmd.Flags().StringVar(&opts.Kind, "kind", string(domain.FloorAskEventKindRevalidation), "event kind")
	cmd.Flags().StringVar(&opts.Contract, "contract", "", "lowercase 0x-prefixed contract address")
	cmd.Flags().StringSliceVar(&opts.TokenIDs, "token-id", nil, "decimal token id (repeatable)")
	cmd.Flags().StringVar(&opts.TxHash, "tx-hash", "", "triggering transaction hash")
	cmd.Flags().Int64Var(&opts.TxTimestamp, "tx-timestamp", 0, "triggering transaction timestamp in unix seconds")
	_ = cmd.MarkFlagRequired("contract")
	_ = cmd.MarkFlagRequired("token-id")

	return cmd
}

// jobs validates the flags the same way the queue boundary validates payloads
func (o *EnqueueOptions) jobs(cmd *cobra.Command) ([]domain.FloorAskJob, error) {
	jobs := make([]domain.FloorAskJob, 0, len(o.TokenIDs))
	for _, tokenID := range o.TokenIDs {
		payload := domain.FloorAskJobPayload{
			Kind:     o.Kind,
			Contract: o.Contract,
			TokenID:  tokenID,
		}
		if o.TxHash != "" {
			hash := o.TxHash
			payload.TxHash = &hash
		}
		if cmd.Flags().Changed("tx-timestamp") {
			ts := o.TxTimestamp
			payload.TxTimestamp = &ts
		}

		job, err := payload.Parse()
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, nil
}

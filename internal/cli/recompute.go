package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/feral-file/ff-floor-indexer/internal/domain"
)

// RecomputeOptions holds flags for the recompute command.
type RecomputeOptions struct {
	*RootOptions
	Kind string
}

type recomputeOutput struct {
	CollectionID string  `json:"collection_id"`
	Transitions  int     `json:"transitions"`
	OrderID      *string `json:"order_id"`
	Value        *string `json:"value"`
}

// NewRecomputeCommand creates the recompute command.
func NewRecomputeCommand(rootOpts *RootOptions, factory ServicesFactory) *cobra.Command {
	opts := &RecomputeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "recompute <collection-id>",
		Short: "Recompute a collection's floor ask in-process",
		Long: `Recompute a collection's floor ask in-process, bypassing the queue.

The kind only annotates the audit row written if the aggregate changes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := domain.ParseFloorAskEventKind(opts.Kind)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid kind", err)
			}

			return withServices(cmd, opts.RootOptions, factory, NeedStore, func(svc *Services) error {
				result, err := svc.Worker.Recompute(cmd.Context(), args[0], domain.FloorAskTrigger{Kind: kind})
				if err != nil {
					return err
				}

				out := recomputeOutput{
					CollectionID: result.CollectionID,
					Transitions:  result.Transitions,
					OrderID:      result.FloorAsk.OrderID,
				}
				if result.FloorAsk.Value.Valid {
					value := result.FloorAsk.Value.Decimal.String()
					out.Value = &value
				}

				return output(cmd.OutOrStdout(), opts.Format, out, func(tw *tabwriter.Writer) {
					fmt.Fprintf(tw, "collection\t%s\n", out.CollectionID)
					fmt.Fprintf(tw, "transitions\t%d\n", out.Transitions)
					fmt.Fprintf(tw, "order\t%s\n", orDash(out.OrderID))
					fmt.Fprintf(tw, "value\t%s\n", orDash(out.Value))
				})
			})
		},
	}

	cmd.Flags().StringVar(&opts.Kind, "kind", string(domain.FloorAskEventKindRevalidation), "event kind recorded on the audit row")

	return cmd
}

package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

// EventsOptions holds flags for the events command.
type EventsOptions struct {
	*RootOptions
	Limit int
}

// NewEventsCommand creates the events command.
func NewEventsCommand(rootOpts *RootOptions, factory ServicesFactory) *cobra.Command {
	opts := &EventsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "events <collection-id>",
		Short: "Show the latest floor ask transitions of a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, opts.RootOptions, factory, NeedStore, func(svc *Services) error {
				events, err := svc.Store.GetCollectionFloorAskEvents(cmd.Context(), args[0], opts.Limit)
				if err != nil {
					return err
				}

				return output(cmd.OutOrStdout(), opts.Format, events, func(tw *tabwriter.Writer) {
					fmt.Fprintln(tw, "VERSION\tKIND\tORDER\tPRICE\tPREVIOUS\tTOKEN\tCREATED AT")
					for _, e := range events {
						token := "-"
						if e.Contract != nil && e.TokenID != nil {
							token = *e.Contract + ":" + *e.TokenID
						}
						fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
							e.Version, e.Kind, orDash(e.OrderID),
							nullDecimal(e.Price.Valid, e.Price.Decimal.String()),
							nullDecimal(e.PreviousPrice.Valid, e.PreviousPrice.Decimal.String()),
							token, e.CreatedAt.Format(time.RFC3339))
					}
				})
			})
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of events to show")

	return cmd
}

func nullDecimal(valid bool, s string) string {
	if !valid {
		return "-"
	}
	return s
}

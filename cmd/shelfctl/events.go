package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ghuser/shelfaware/services/inventory/domain/models"
)

type feedEvent struct {
	ID        int64    `json:"id"`
	ItemID    int64    `json:"item_id"`
	Type      string   `json:"type"`
	Timestamp int64    `json:"timestamp"`
	Weight    *float64 `json:"weight"`
	Plate     *int32   `json:"plate"`
	Row       *int32   `json:"row"`
	Col       *int32   `json:"col"`
	ImageID   *int64   `json:"image_id"`
}

func newEventsCommand(opts *rootOptions) *cobra.Command {
	var (
		after int64
		limit int
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Page through the event log by id",
		Long: `Print events with id greater than --after, ascending by id.

Examples:
  shelfctl events
  shelfctl events --after 120 --limit 50 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, opts, func(e *env) error {
				evts, err := e.svcs.Feed.Since(cmd.Context(), after, limit)
				if err != nil {
					return err
				}

				out := make([]feedEvent, 0, len(evts))
				for _, ev := range evts {
					out = append(out, feedEvent{
						ID:        ev.ID,
						ItemID:    ev.ItemID,
						Type:      string(ev.Type),
						Timestamp: models.ToMillis(ev.Timestamp),
						Weight:    ev.Weight,
						Plate:     ev.Position.Plate,
						Row:       ev.Position.Row,
						Col:       ev.Position.Col,
						ImageID:   ev.ImageID,
					})
				}
				if opts.format == "json" {
					return writeJSON(cmd.OutOrStdout(), out)
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tITEM\tTYPE\tTIMESTAMP\tWEIGHT\tPOSITION")
				for _, ev := range out {
					fmt.Fprintf(tw, "%d\t%d\t%s\t%d\t%s\t%s\n",
						ev.ID, ev.ItemID, ev.Type, ev.Timestamp, fmtWeight(ev.Weight), fmtPosition(ev.Plate, ev.Row, ev.Col))
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().Int64Var(&after, "after", 0, "only events with a greater id")
	cmd.Flags().IntVar(&limit, "limit", 0, "page size (default 100, max 500)")
	return cmd
}

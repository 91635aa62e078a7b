package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"hl-fill-alerts/internal/alerting"
)

// Show prints recent fill events, newest first.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot show fill events")
	}
	if closeStore != nil {
		defer closeStore()
	}

	events, err := store.ListRecentFillEvents(ctx, opts.Limit)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Fprintln(os.Stdout, "no fill events found")
		return nil
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Time (UTC+8)\tAddress\tToken\tAction\tSize\tLeverage\tPrice")

	for _, event := range events {
		rec := event.Record
		fmt.Fprintf(
			writer,
			"%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			alerting.FormatLocalTime(rec.TimestampMs),
			event.Address,
			rec.Token,
			alerting.SideLabel(rec.Side),
			rec.Size.StringFixed(4),
			rec.Leverage.StringFixed(2),
			rec.EntryPrice.StringFixed(4),
		)
	}

	writer.Flush()
	return nil
}

package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"hl-fill-alerts/internal/monitor"
)

// Backfill fetches the current fill history for one address and persists it.
// Inserts are idempotent, so running it repeatedly is safe.
func (a *App) Backfill(ctx context.Context, opts BackfillOptions) error {
	address := strings.TrimSpace(opts.Address)
	if address == "" {
		return errors.New("--address is required")
	}
	if !common.IsHexAddress(address) {
		return fmt.Errorf("invalid address: %s", address)
	}
	address = common.HexToAddress(address).Hex()

	fills, err := a.newFetcher().FetchFills(ctx, address)
	if err != nil {
		return fmt.Errorf("fetch fills: %w", err)
	}

	records := monitor.RecordsFromFills(fills)
	if len(records) == 0 {
		a.Logger.Info().Str("address", address).Msg("no fills to backfill")
		return nil
	}

	if opts.DryRun {
		a.Logger.Info().
			Str("address", address).
			Int("fills", len(records)).
			Msg("dry run; nothing persisted")
		return nil
	}

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot backfill")
	}
	if closeStore != nil {
		defer closeStore()
	}

	if err := store.InsertFillEvents(ctx, address, records); err != nil {
		return err
	}

	total, err := store.CountFillEvents(ctx)
	if err != nil {
		return err
	}

	a.Logger.Info().
		Str("address", address).
		Int("fills", len(records)).
		Int64("stored_total", total).
		Msg("backfill completed")
	return nil
}

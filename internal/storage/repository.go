package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"hl-fill-alerts/internal/journal"
)

// ErrNotConfigured indicates the storage pool was not initialised.
var ErrNotConfigured = errors.New("storage: pool not configured")

const (
	createFillEventsSQL = `CREATE TABLE IF NOT EXISTS fill_events (
        address     TEXT        NOT NULL,
        fill_id     TEXT        NOT NULL,
        ts_ms       BIGINT      NOT NULL,
        token       TEXT        NOT NULL,
        side        TEXT        NOT NULL,
        size        NUMERIC     NOT NULL,
        leverage    NUMERIC     NOT NULL,
        entry_price NUMERIC     NOT NULL,
        created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
        PRIMARY KEY (address, fill_id)
    );`

	createFillEventsIndexSQL = `CREATE INDEX IF NOT EXISTS idx_fill_events_ts ON fill_events (ts_ms);`

	insertFillEventSQL = `INSERT INTO fill_events (
        address, fill_id, ts_ms, token, side, size, leverage, entry_price
    ) VALUES (
        $1,$2,$3,$4,$5,$6,$7,$8
    )
    ON CONFLICT (address, fill_id) DO NOTHING;`

	listRecentFillEventsSQL = `SELECT
        address, fill_id, ts_ms, token, side, size, leverage, entry_price, created_at
    FROM fill_events
    ORDER BY ts_ms DESC
    LIMIT $1;`

	listFillEventsBetweenSQL = `SELECT
        address, fill_id, ts_ms, token, side, size, leverage, entry_price, created_at
    FROM fill_events
    WHERE ts_ms >= $1
      AND ts_ms < $2
    ORDER BY ts_ms;`

	countFillEventsSQL = `SELECT COUNT(*) FROM fill_events;`
)

// FillEvent is a persisted transaction record together with its account.
type FillEvent struct {
	Address   string
	Record    journal.Record
	CreatedAt time.Time
}

// FillEventStore defines persistence operations for classified fills.
type FillEventStore interface {
	InsertFillEvents(ctx context.Context, address string, records []journal.Record) error
	ListRecentFillEvents(ctx context.Context, limit int) ([]FillEvent, error)
	ListFillEventsBetween(ctx context.Context, fromMs, toMs int64) ([]FillEvent, error)
	CountFillEvents(ctx context.Context) (int64, error)
}

// Store provides PostgreSQL-backed fill event persistence.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wires a pgx pool into a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

func (s *Store) getPool() (*pgxpool.Pool, error) {
	if s == nil || s.pool == nil {
		return nil, ErrNotConfigured
	}
	return s.pool, nil
}

// EnsureSchema creates the fill_events table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}
	for _, stmt := range []string{createFillEventsSQL, createFillEventsIndexSQL} {
		if _, execErr := pool.Exec(ctx, stmt); execErr != nil {
			return fmt.Errorf("ensure schema: %w", execErr)
		}
	}
	return nil
}

// InsertFillEvents persists a batch of records. Duplicate (address, fill_id)
// pairs are ignored, so re-submission after a restart is harmless.
func (s *Store) InsertFillEvents(ctx context.Context, address string, records []journal.Record) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}

	addr := strings.ToLower(address)
	for _, rec := range records {
		if _, execErr := pool.Exec(ctx, insertFillEventSQL,
			addr,
			rec.FillID,
			rec.TimestampMs,
			rec.Token,
			rec.Side,
			rec.Size.String(),
			rec.Leverage.String(),
			rec.EntryPrice.String(),
		); execErr != nil {
			return fmt.Errorf("insert fill event: %w", execErr)
		}
	}
	return nil
}

// ListRecentFillEvents lists the most recent events ordered newest first.
func (s *Store) ListRecentFillEvents(ctx context.Context, limit int) ([]FillEvent, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listRecentFillEventsSQL, limit)
	if queryErr != nil {
		return nil, fmt.Errorf("list recent fill events: %w", queryErr)
	}
	defer rows.Close()

	return collectFillEvents(rows, limit)
}

// ListFillEventsBetween lists events within a millisecond time window.
func (s *Store) ListFillEventsBetween(ctx context.Context, fromMs, toMs int64) ([]FillEvent, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listFillEventsBetweenSQL, fromMs, toMs)
	if queryErr != nil {
		return nil, fmt.Errorf("list fill events between: %w", queryErr)
	}
	defer rows.Close()

	return collectFillEvents(rows, 0)
}

// CountFillEvents counts stored events.
func (s *Store) CountFillEvents(ctx context.Context) (int64, error) {
	pool, err := s.getPool()
	if err != nil {
		return 0, err
	}
	var count int64
	if scanErr := pool.QueryRow(ctx, countFillEventsSQL).Scan(&count); scanErr != nil {
		return 0, fmt.Errorf("count fill events: %w", scanErr)
	}
	return count, nil
}

func collectFillEvents(rows pgx.Rows, sizeHint int) ([]FillEvent, error) {
	events := make([]FillEvent, 0, sizeHint)
	for rows.Next() {
		event, scanErr := scanFillEvent(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		events = append(events, event)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return events, nil
}

func scanFillEvent(rows pgx.Rows) (FillEvent, error) {
	var (
		address     string
		fillID      string
		tsMs        int64
		token       string
		side        string
		sizeStr     string
		leverageStr string
		priceStr    string
		createdAt   time.Time
	)

	if err := rows.Scan(
		&address,
		&fillID,
		&tsMs,
		&token,
		&side,
		&sizeStr,
		&leverageStr,
		&priceStr,
		&createdAt,
	); err != nil {
		return FillEvent{}, err
	}

	size, err := decimal.NewFromString(sizeStr)
	if err != nil {
		return FillEvent{}, fmt.Errorf("parse size: %w", err)
	}
	leverage, err := decimal.NewFromString(leverageStr)
	if err != nil {
		return FillEvent{}, fmt.Errorf("parse leverage: %w", err)
	}
	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return FillEvent{}, fmt.Errorf("parse entry price: %w", err)
	}

	return FillEvent{
		Address: address,
		Record: journal.Record{
			TimestampMs: tsMs,
			Token:       token,
			Side:        side,
			Size:        size,
			Leverage:    leverage,
			EntryPrice:  price,
			FillID:      fillID,
		},
		CreatedAt: createdAt,
	}, nil
}

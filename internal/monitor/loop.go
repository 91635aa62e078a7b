package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"hl-fill-alerts/internal/alerting"
	"hl-fill-alerts/internal/fetcher"
	"hl-fill-alerts/internal/journal"
	"hl-fill-alerts/internal/scheduler"
)

// Sink receives formatted notifications for new fills.
type Sink interface {
	Enabled() bool
	Send(ctx context.Context, title, body string)
}

// Store persists classified records. Implementations must tolerate
// duplicate submissions (idempotent insert).
type Store interface {
	InsertFillEvents(ctx context.Context, address string, records []journal.Record) error
}

// Options tune a monitor loop.
type Options struct {
	Interval       time.Duration
	BackfillWindow time.Duration
}

// Loop polls one address for new fills: a bootstrap fetch seeds the tracker
// and backfills recent history without alerting, then the polling phase
// repeats at a fixed cadence until the context is cancelled.
type Loop struct {
	spec    Spec
	opts    Options
	fills   fetcher.FillFetcher
	journal *journal.Journal
	sink    Sink
	store   Store
	tracker *Tracker
	logger  zerolog.Logger
	now     func() time.Time
}

// NewLoop constructs a monitor loop for one spec.
func NewLoop(spec Spec, opts Options, fills fetcher.FillFetcher, jnl *journal.Journal, sink Sink, store Store, logger zerolog.Logger) *Loop {
	if opts.Interval <= 0 {
		opts.Interval = 10 * time.Second
	}
	if opts.BackfillWindow <= 0 {
		opts.BackfillWindow = time.Hour
	}

	return &Loop{
		spec:    spec,
		opts:    opts,
		fills:   fills,
		journal: jnl,
		sink:    sink,
		store:   store,
		logger:  logger.With().Str("component", "monitor").Str("address", spec.Address).Logger(),
		now:     time.Now,
	}
}

// Run blocks until ctx is cancelled. Fetch failures never terminate the
// loop; the next tick retries.
func (l *Loop) Run(ctx context.Context) error {
	l.bootstrap(ctx)

	sched := scheduler.New(scheduler.Options{Interval: l.opts.Interval}, l.logger)
	return sched.Run(ctx, l.poll)
}

func (l *Loop) bootstrap(ctx context.Context) {
	cutoff := l.now().UnixMilli()
	l.tracker = NewTracker(cutoff)

	fills, err := l.fills.FetchFills(ctx, l.spec.Address)
	if err != nil {
		// The cutoff still guards against replaying history as live alerts.
		l.logger.Warn().Err(err).Msg("bootstrap fetch failed; starting with empty history")
		return
	}

	records := RecordsFromFills(l.tracker.Seed(fills, l.opts.BackfillWindow))
	l.journal.Append(records)
	l.persist(ctx, records)

	l.logger.Info().
		Int("seen", l.tracker.SeenCount()).
		Int("backfilled", len(records)).
		Msg("monitor initialized")
}

func (l *Loop) poll(ctx context.Context) error {
	fills, err := l.fills.FetchFills(ctx, l.spec.Address)
	if err != nil {
		return fmt.Errorf("fetch fills: %w", err)
	}

	fresh := l.tracker.Classify(fills)
	if len(fresh) == 0 {
		return nil
	}

	records := RecordsFromFills(fresh)

	if l.sink != nil && l.sink.Enabled() {
		for _, rec := range records {
			title, body := alerting.FillMessage(l.spec.Address, rec)
			l.sink.Send(ctx, title, body)
		}
	}

	// One critical section per tick, after notification I/O.
	l.journal.Append(records)
	l.persist(ctx, records)

	l.logger.Info().Int("new", len(records)).Msg("new fills recorded")
	return nil
}

var leverageOne = decimal.NewFromInt(1)

// RecordsFromFills converts fetched fills into journal records.
func RecordsFromFills(fills []fetcher.Fill) []journal.Record {
	records := make([]journal.Record, 0, len(fills))
	for _, f := range fills {
		records = append(records, journal.Record{
			TimestampMs: f.Time,
			Token:       f.Coin,
			Side:        f.Side,
			Size:        f.Size(),
			Leverage:    leverageOne, // not reported per fill by the info endpoint
			EntryPrice:  f.Price(),
			FillID:      f.ID(),
		})
	}
	return records
}

func (l *Loop) persist(ctx context.Context, records []journal.Record) {
	if l.store == nil || len(records) == 0 {
		return
	}
	if err := l.store.InsertFillEvents(ctx, l.spec.Address, records); err != nil {
		l.logger.Error().Err(err).Msg("failed to persist fill events")
	}
}

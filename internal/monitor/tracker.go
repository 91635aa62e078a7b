package monitor

import (
	"time"

	"hl-fill-alerts/internal/fetcher"
)

// Tracker holds the per-monitor de-duplication state: every fill id ever
// observed plus the notification cutoff. Owned exclusively by one loop;
// never shared.
type Tracker struct {
	seen     map[string]struct{}
	cutoffMs int64
}

// NewTracker constructs a tracker whose cutoff is the loop's start time in
// milliseconds. Fills at or before the cutoff are never notified.
func NewTracker(cutoffMs int64) *Tracker {
	return &Tracker{seen: make(map[string]struct{}), cutoffMs: cutoffMs}
}

// Seed marks every fetched fill as seen without qualifying any of them for
// notification. It returns, in fetch order, the fills inside the trailing
// backfill window (cutoff-window < t <= cutoff) so callers can surface
// recent history in the journal.
func (t *Tracker) Seed(fills []fetcher.Fill, window time.Duration) []fetcher.Fill {
	floor := t.cutoffMs - window.Milliseconds()

	var backfill []fetcher.Fill
	for _, f := range fills {
		t.seen[f.ID()] = struct{}{}
		if f.Time > floor && f.Time <= t.cutoffMs {
			backfill = append(backfill, f)
		}
	}
	return backfill
}

// Classify returns, in fetch order, the fills that are genuinely new: never
// seen before and strictly after the cutoff. Every fetched id is remembered
// regardless, so out-of-window fills are not re-evaluated on later ticks.
func (t *Tracker) Classify(fills []fetcher.Fill) []fetcher.Fill {
	var fresh []fetcher.Fill
	for _, f := range fills {
		id := f.ID()
		if _, ok := t.seen[id]; !ok && f.Time > t.cutoffMs {
			fresh = append(fresh, f)
		}
		t.seen[id] = struct{}{}
	}
	return fresh
}

// SeenCount reports how many distinct fill ids have been observed.
func (t *Tracker) SeenCount() int {
	return len(t.seen)
}

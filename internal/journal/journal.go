package journal

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Record is one observed account transaction built from a classified fill.
// Leverage is a constant 1 for now: the info endpoint does not report
// per-fill leverage, so the field is carried but unverified.
type Record struct {
	TimestampMs int64
	Token       string
	Side        string
	Size        decimal.Decimal
	Leverage    decimal.Decimal
	EntryPrice  decimal.Decimal
	FillID      string
}

// Journal is the shared append-only observation log. Monitor loops append
// batches under the lock and readers take snapshot copies; notification and
// store I/O must never happen while the lock is held.
type Journal struct {
	mu      sync.Mutex
	records []Record
}

// New constructs an empty journal.
func New() *Journal {
	return &Journal{}
}

// Append adds a batch of records in a single critical section.
func (j *Journal) Append(batch []Record) {
	if len(batch) == 0 {
		return
	}
	j.mu.Lock()
	j.records = append(j.records, batch...)
	j.mu.Unlock()
}

// Snapshot returns a copy of all records, oldest first. Consumers render
// newest-first by reversing.
func (j *Journal) Snapshot() []Record {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := make([]Record, len(j.records))
	copy(out, j.records)
	return out
}

// Len reports the number of records held.
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.records)
}

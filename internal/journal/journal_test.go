package journal

import (
	"testing"

	"github.com/shopspring/decimal"
)

func record(id string, ts int64) Record {
	return Record{
		TimestampMs: ts,
		Token:       "BTC",
		Side:        "buy",
		Size:        decimal.NewFromInt(1),
		Leverage:    decimal.NewFromInt(1),
		EntryPrice:  decimal.NewFromInt(100),
		FillID:      id,
	}
}

func TestJournalAppendPreservesOrder(t *testing.T) {
	j := New()
	j.Append([]Record{record("a", 1), record("b", 2)})
	j.Append(nil)
	j.Append([]Record{record("c", 3)})

	snap := j.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("期望 3 条记录, 实际 %d", len(snap))
	}
	for i, want := range []string{"a", "b", "c"} {
		if snap[i].FillID != want {
			t.Fatalf("记录 %d 应为 %s, 实际 %s", i, want, snap[i].FillID)
		}
	}
}

func TestJournalSnapshotIsCopy(t *testing.T) {
	j := New()
	j.Append([]Record{record("a", 1)})

	snap := j.Snapshot()
	snap[0].FillID = "mutated"

	if j.Snapshot()[0].FillID != "a" {
		t.Fatal("snapshot mutation must not leak into the journal")
	}
	if j.Len() != 1 {
		t.Fatalf("Len 应为 1, 实际 %d", j.Len())
	}
}

package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestRunStopsOnCancel(t *testing.T) {
	s := New(Options{Interval: time.Millisecond}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	ticks := 0
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx, func(context.Context) error {
			ticks++
			if ticks >= 3 {
				cancel()
			}
			return nil
		})
	}()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("取消后应返回 context.Canceled, 实际 %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after cancellation")
	}

	if ticks < 3 {
		t.Fatalf("期望至少 3 次 tick, 实际 %d", ticks)
	}
}

func TestRunSwallowsTickErrors(t *testing.T) {
	s := New(Options{Interval: time.Millisecond}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	ticks := 0
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx, func(context.Context) error {
			ticks++
			if ticks >= 2 {
				cancel()
			}
			return errors.New("fetch failed")
		})
	}()

	<-done
	if ticks < 2 {
		t.Fatal("tick 报错后循环应继续")
	}
}

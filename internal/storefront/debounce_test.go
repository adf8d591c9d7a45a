package storefront

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerRunsLastCallOnly(t *testing.T) {
	d := newDebouncer(20 * time.Millisecond)
	var calls, last atomic.Int32
	for i := 1; i <= 5; i++ {
		value := int32(i)
		d.Trigger(func() {
			calls.Add(1)
			last.Store(value)
		})
	}
	time.Sleep(80 * time.Millisecond)
	if calls.Load() != 1 {
		t.Fatalf("expected a single call, got %d", calls.Load())
	}
	if last.Load() != 5 {
		t.Fatalf("expected the last trigger to win, got %d", last.Load())
	}
}

func TestDebouncerStopCancelsPendingCall(t *testing.T) {
	d := newDebouncer(20 * time.Millisecond)
	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })
	d.Stop()
	time.Sleep(50 * time.Millisecond)
	if calls.Load() != 0 {
		t.Fatalf("expected no call after stop, got %d", calls.Load())
	}
}

func TestDebouncerZeroDelayRunsInline(t *testing.T) {
	d := newDebouncer(0)
	ran := false
	d.Trigger(func() { ran = true })
	if !ran {
		t.Fatalf("expected inline execution")
	}
}

package guard

import (
	"testing"
	"time"
)

// fakeClock drives the breaker's view of time in tests
type fakeClock struct {
	current time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.current
}

func (c *fakeClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func newTestBreaker(threshold int, recovery time.Duration) (*CircuitBreaker, *fakeClock) {
	clock := &fakeClock{current: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	cb := NewCircuitBreaker(threshold, recovery)
	cb.now = clock.Now
	return cb, clock
}

func TestBreakerStartsClosed(t *testing.T) {
	cb, _ := newTestBreaker(5, time.Minute)

	if cb.State() != StateClosed {
		t.Errorf("Expected CLOSED, got %s", cb.State())
	}
	if !cb.Allow() {
		t.Error("Closed breaker should allow requests")
	}
	if cb.IsOpen() {
		t.Error("New breaker should not be open")
	}
}

func TestBreakerOpensAtThreshold(t *testing.T) {
	cb, _ := newTestBreaker(5, time.Minute)

	for i := 0; i < 4; i++ {
		cb.RecordFailure()
		if cb.IsOpen() {
			t.Fatalf("Breaker opened after %d failures, threshold is 5", i+1)
		}
	}

	cb.RecordFailure()
	if !cb.IsOpen() {
		t.Error("Breaker should open after exactly 5 consecutive failures")
	}
	if cb.Allow() {
		t.Error("Open breaker should reject requests before recovery")
	}
}

func TestBreakerSuccessResetsFailures(t *testing.T) {
	cb, _ := newTestBreaker(3, time.Minute)

	cb.RecordFailure()
	cb.RecordFailure()
	cb.RecordSuccess()

	if cb.FailureCount() != 0 {
		t.Errorf("Expected failure count 0 after success, got %d", cb.FailureCount())
	}

	cb.RecordFailure()
	cb.RecordFailure()
	if cb.IsOpen() {
		t.Error("Non-consecutive failures should not open the breaker")
	}
}

func TestBreakerHalfOpenProbe(t *testing.T) {
	cb, clock := newTestBreaker(2, time.Minute)

	cb.RecordFailure()
	cb.RecordFailure()
	if !cb.IsOpen() {
		t.Fatal("Breaker should be open")
	}

	// Before recovery elapses, still rejecting.
	clock.Advance(30 * time.Second)
	if cb.Allow() {
		t.Error("Breaker should stay open before the recovery interval")
	}

	// After recovery: one probe allowed, a second concurrent request rejected.
	clock.Advance(31 * time.Second)
	if !cb.Allow() {
		t.Fatal("Breaker should permit one probe after recovery")
	}
	if cb.State() != StateHalfOpen {
		t.Errorf("Expected HALF_OPEN, got %s", cb.State())
	}
	if cb.Allow() {
		t.Error("Half-open breaker should reject a second request while probing")
	}
}

func TestBreakerHalfOpenSuccessCloses(t *testing.T) {
	cb, clock := newTestBreaker(2, time.Minute)

	cb.RecordFailure()
	cb.RecordFailure()
	clock.Advance(2 * time.Minute)

	if !cb.Allow() {
		t.Fatal("Expected probe to be admitted")
	}
	cb.RecordSuccess()

	if cb.State() != StateClosed {
		t.Errorf("Expected CLOSED after probe success, got %s", cb.State())
	}
	if !cb.Allow() {
		t.Error("Closed breaker should allow requests")
	}
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	cb, clock := newTestBreaker(5, time.Minute)

	for i := 0; i < 5; i++ {
		cb.RecordFailure()
	}
	clock.Advance(2 * time.Minute)

	if !cb.Allow() {
		t.Fatal("Expected probe to be admitted")
	}
	cb.RecordFailure()

	if cb.State() != StateOpen {
		t.Errorf("Failed probe should reopen the breaker, got %s", cb.State())
	}
	if cb.Allow() {
		t.Error("Reopened breaker should reject requests")
	}
}

func TestBreakerDefaults(t *testing.T) {
	cb := NewCircuitBreaker(0, 0)

	if cb.threshold != 5 {
		t.Errorf("Expected default threshold 5, got %d", cb.threshold)
	}
	if cb.recovery != 60*time.Second {
		t.Errorf("Expected default recovery 60s, got %s", cb.recovery)
	}
}

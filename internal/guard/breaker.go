// Package guard protects the parsing pipeline: a timeout-bounded parse
// wrapper with a circuit breaker, and a resource gate that caps
// concurrency and memory.
package guard

import (
	"sync"
	"time"
)

// BreakerState is the circuit breaker's current position
type BreakerState string

const (
	// StateClosed allows all requests through
	StateClosed BreakerState = "CLOSED"
	// StateOpen rejects requests until the recovery interval elapses
	StateOpen BreakerState = "OPEN"
	// StateHalfOpen permits a single probe request
	StateHalfOpen BreakerState = "HALF_OPEN"
)

// CircuitBreaker tracks consecutive parse failures and trips open when
// they reach the threshold. All methods are safe for concurrent use.
type CircuitBreaker struct {
	mu sync.Mutex

	threshold   int
	recovery    time.Duration
	failures    int
	state       BreakerState
	lastFailure time.Time
	probing     bool

	// now is replaceable in tests
	now func() time.Time
}

// NewCircuitBreaker creates a closed breaker that opens after
// threshold consecutive failures and probes again after recovery
func NewCircuitBreaker(threshold int, recovery time.Duration) *CircuitBreaker {
	if threshold <= 0 {
		threshold = 5
	}
	if recovery <= 0 {
		recovery = 60 * time.Second
	}
	return &CircuitBreaker{
		threshold: threshold,
		recovery:  recovery,
		state:     StateClosed,
		now:       time.Now,
	}
}

// Allow reports whether a request may proceed. When the breaker is
// open and the recovery interval has elapsed, it transitions to
// half-open and admits exactly one probe.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return true
	case StateOpen:
		if cb.now().Sub(cb.lastFailure) >= cb.recovery {
			cb.state = StateHalfOpen
			cb.probing = true
			return true
		}
		return false
	case StateHalfOpen:
		// one probe at a time
		if cb.probing {
			return false
		}
		cb.probing = true
		return true
	}
	return false
}

// RecordSuccess closes the breaker and resets the failure count
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.state = StateClosed
	cb.failures = 0
	cb.probing = false
}

// RecordFailure counts a failure. A failed half-open probe reopens the
// breaker immediately; in the closed state the breaker opens once the
// consecutive-failure threshold is reached.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures++
	cb.lastFailure = cb.now()
	cb.probing = false

	if cb.state == StateHalfOpen || cb.failures >= cb.threshold {
		cb.state = StateOpen
	}
}

// ReleaseProbe returns the half-open probe slot without recording an
// outcome, for attempts that resolved as a caller fault (malformed
// input) and say nothing about parser health. State and failure count
// are untouched; the next Allow may probe again.
func (cb *CircuitBreaker) ReleaseProbe() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.probing = false
}

// IsOpen reports whether the breaker currently rejects requests
func (cb *CircuitBreaker) IsOpen() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state == StateOpen
}

// State returns the current breaker state
func (cb *CircuitBreaker) State() BreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// FailureCount returns the consecutive failure count
func (cb *CircuitBreaker) FailureCount() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.failures
}

package guard

import (
	"fmt"
	"sync"

	"github.com/hivetools/hive/domain"
)

// ResourceGate caps concurrent analyses and the total bytes of source
// held in flight. Every successful Acquire returns a release function
// that must run exactly once; callers defer it immediately.
type ResourceGate struct {
	mu sync.Mutex

	maxConcurrent  int
	maxSourceBytes int64
	maxTotalBytes  int64

	active     int
	totalBytes int64
}

// NewResourceGate creates a gate with the given ceilings. Zero or
// negative values fall back to defaults.
func NewResourceGate(maxConcurrent int, maxSourceBytes, maxTotalBytes int64) *ResourceGate {
	if maxConcurrent <= 0 {
		maxConcurrent = 8
	}
	if maxSourceBytes <= 0 {
		maxSourceBytes = 1 << 20
	}
	if maxTotalBytes <= 0 {
		maxTotalBytes = 64 << 20
	}
	return &ResourceGate{
		maxConcurrent:  maxConcurrent,
		maxSourceBytes: maxSourceBytes,
		maxTotalBytes:  maxTotalBytes,
	}
}

// Acquire admits one analysis of size bytes. On rejection it returns a
// resource-exceeded violation and a nil release. On success the
// returned release decrements both the active count and the byte
// budget; it is idempotent so a deferred call after an explicit one is
// harmless.
func (rg *ResourceGate) Acquire(filename string, size int64) (func(), *domain.Violation) {
	rg.mu.Lock()
	defer rg.mu.Unlock()

	if size > rg.maxSourceBytes {
		return nil, &domain.Violation{
			Kind:     domain.ViolationResourceExceeded,
			Line:     0,
			Severity: domain.SeverityCritical,
			Message:  fmt.Sprintf("%s is %d bytes, over the per-file limit of %d", filename, size, rg.maxSourceBytes),
		}
	}
	if rg.active >= rg.maxConcurrent {
		return nil, &domain.Violation{
			Kind:     domain.ViolationResourceExceeded,
			Line:     0,
			Severity: domain.SeverityCritical,
			Message:  fmt.Sprintf("concurrent analysis limit of %d reached", rg.maxConcurrent),
		}
	}
	if rg.totalBytes+size > rg.maxTotalBytes {
		return nil, &domain.Violation{
			Kind:     domain.ViolationResourceExceeded,
			Line:     0,
			Severity: domain.SeverityCritical,
			Message:  fmt.Sprintf("in-flight source budget of %d bytes exhausted", rg.maxTotalBytes),
		}
	}

	rg.active++
	rg.totalBytes += size

	var once sync.Once
	release := func() {
		once.Do(func() {
			rg.mu.Lock()
			defer rg.mu.Unlock()
			rg.active--
			rg.totalBytes -= size
		})
	}
	return release, nil
}

// Active returns the number of analyses currently admitted
func (rg *ResourceGate) Active() int {
	rg.mu.Lock()
	defer rg.mu.Unlock()
	return rg.active
}

// TotalBytes returns the bytes of source currently in flight
func (rg *ResourceGate) TotalBytes() int64 {
	rg.mu.Lock()
	defer rg.mu.Unlock()
	return rg.totalBytes
}

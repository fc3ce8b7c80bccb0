package guard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hivetools/hive/domain"
	"github.com/hivetools/hive/internal/parser"
)

// ParseFunc is the parse operation the guard wraps
type ParseFunc func(ctx context.Context, filename string, source []byte) (*parser.Node, error)

// ParseGuard bounds parse latency with a timeout and shields the
// pipeline from repeated parser failures with a circuit breaker.
// Construct one guard per parser health domain; the breaker state is
// scoped to the guard instance.
type ParseGuard struct {
	timeout time.Duration
	breaker *CircuitBreaker
	parseFn ParseFunc
}

// NewParseGuard creates a guard around the language-dispatching parser
func NewParseGuard(timeout time.Duration, breaker *CircuitBreaker) *ParseGuard {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if breaker == nil {
		breaker = NewCircuitBreaker(5, 60*time.Second)
	}
	return &ParseGuard{
		timeout: timeout,
		breaker: breaker,
		parseFn: parser.ParseForLanguage,
	}
}

// Breaker exposes the guard's circuit breaker for status reporting
func (g *ParseGuard) Breaker() *CircuitBreaker {
	return g.breaker
}

type parseResult struct {
	ast *parser.Node
	err error
}

// Parse runs the guarded parse. On failure it returns a violation
// describing why: syntax-error for malformed input (which never counts
// against the breaker), parse-timeout when the deadline passes,
// parse-error for parser crashes, and circuit-open when the breaker
// rejects the request without attempting to parse.
func (g *ParseGuard) Parse(ctx context.Context, filename string, source []byte) (*parser.Node, *domain.Violation) {
	return g.ParseWithTimeout(ctx, filename, source, g.timeout)
}

// ParseWithTimeout is Parse with a per-call deadline overriding the
// guard's configured one. Non-positive timeouts fall back to it.
func (g *ParseGuard) ParseWithTimeout(ctx context.Context, filename string, source []byte, timeout time.Duration) (*parser.Node, *domain.Violation) {
	if timeout <= 0 {
		timeout = g.timeout
	}
	if !g.breaker.Allow() {
		return nil, &domain.Violation{
			Kind:     domain.ViolationCircuitOpen,
			Line:     0,
			Severity: domain.SeverityCritical,
			Message:  fmt.Sprintf("parser circuit breaker is open (%d consecutive failures); skipping %s", g.breaker.FailureCount(), filename),
		}
	}

	resultCh := make(chan parseResult, 1)
	parseCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				resultCh <- parseResult{err: fmt.Errorf("parser panicked: %v", r)}
			}
		}()
		ast, err := g.parseFn(parseCtx, filename, source)
		resultCh <- parseResult{ast: ast, err: err}
	}()

	select {
	case res := <-resultCh:
		return g.classify(filename, res)
	case <-parseCtx.Done():
		// The worker keeps running until the parser notices the
		// cancelled context; its result is discarded. Under sustained
		// timeouts this leaks workers until their parses finish.

		// A cancelled caller context is not parser degradation; only
		// the guard's own deadline counts toward the breaker.
		if ctx.Err() != nil {
			g.breaker.ReleaseProbe()
			return nil, &domain.Violation{
				Kind:     domain.ViolationParseError,
				Line:     0,
				Severity: domain.SeverityCritical,
				Message:  fmt.Sprintf("parsing %s abandoned: %v", filename, ctx.Err()),
			}
		}

		g.breaker.RecordFailure()
		return nil, &domain.Violation{
			Kind:     domain.ViolationParseTimeout,
			Line:     0,
			Severity: domain.SeverityCritical,
			Message:  fmt.Sprintf("parsing %s exceeded %s", filename, timeout),
		}
	}
}

func (g *ParseGuard) classify(filename string, res parseResult) (*parser.Node, *domain.Violation) {
	if res.err == nil {
		g.breaker.RecordSuccess()
		return res.ast, nil
	}

	// Malformed input is the caller's problem, not the parser's; it
	// never counts toward the breaker. A half-open probe slot held by
	// this attempt is returned so the next request may probe.
	var syntaxErr *parser.SyntaxError
	if errors.As(res.err, &syntaxErr) {
		g.breaker.ReleaseProbe()
		return nil, &domain.Violation{
			Kind:     domain.ViolationSyntaxError,
			Line:     syntaxErr.Line,
			Severity: domain.SeverityCritical,
			Message:  res.err.Error(),
		}
	}

	g.breaker.RecordFailure()
	return nil, &domain.Violation{
		Kind:     domain.ViolationParseError,
		Line:     0,
		Severity: domain.SeverityCritical,
		Message:  fmt.Sprintf("parser failed on %s: %v", filename, res.err),
	}
}

package domain

// ViolationKind identifies the detector or failure mode that produced a violation
type ViolationKind string

const (
	// ViolationLoggingCall flags leftover debug-output calls (console.log and friends)
	ViolationLoggingCall ViolationKind = "logging-call"

	// ViolationLongFunction flags functions whose body exceeds the statement limit
	ViolationLongFunction ViolationKind = "long-function"

	// ViolationDeepNesting flags functions exceeding the nesting-depth ceiling
	ViolationDeepNesting ViolationKind = "deep-nesting"

	// ViolationUntypedAnnotation flags annotations that resolve to "any"
	ViolationUntypedAnnotation ViolationKind = "untyped-annotation"

	// ViolationSyntaxError means the source text is not valid JavaScript/TypeScript
	ViolationSyntaxError ViolationKind = "syntax-error"

	// ViolationParseTimeout means parsing exceeded the configured timeout
	ViolationParseTimeout ViolationKind = "parse-timeout"

	// ViolationParseError means the parser failed in an unexpected way
	ViolationParseError ViolationKind = "parse-error"

	// ViolationCircuitOpen means the circuit breaker refused the parse attempt
	ViolationCircuitOpen ViolationKind = "circuit-open"

	// ViolationResourceExceeded means the resource gate rejected the request
	ViolationResourceExceeded ViolationKind = "resource-exceeded"
)

// Severity represents the severity of a single violation
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Violation represents one detected code-quality issue.
// Line is 1-based; 0 means the violation is not tied to a specific line.
type Violation struct {
	Kind     ViolationKind `json:"kind" yaml:"kind"`
	Line     int           `json:"line" yaml:"line"`
	Severity Severity      `json:"severity" yaml:"severity"`
	Message  string        `json:"message" yaml:"message"`
}

// HasCritical reports whether any violation in the list is critical
func HasCritical(violations []Violation) bool {
	for _, v := range violations {
		if v.Severity == SeverityCritical {
			return true
		}
	}
	return false
}

// CountBySeverity returns the number of violations per severity level
func CountBySeverity(violations []Violation) map[Severity]int {
	counts := make(map[Severity]int)
	for _, v := range violations {
		counts[v.Severity]++
	}
	return counts
}

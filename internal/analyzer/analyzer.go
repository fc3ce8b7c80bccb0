// Package analyzer implements the single-pass violation detectors and
// the PAIN/AGRO scoring rules.
package analyzer

import (
	"fmt"
	"sort"

	"github.com/hivetools/hive/domain"
	"github.com/hivetools/hive/internal/parser"
)

// Config holds the tunable detector thresholds
type Config struct {
	MaxFunctionLines int
	MaxNestingDepth  int
}

// DefaultConfig returns the standard detector thresholds
func DefaultConfig() Config {
	return Config{
		MaxFunctionLines: 50,
		MaxNestingDepth:  4,
	}
}

// Metrics summarizes detector hit counts for a single file
type Metrics struct {
	LoggingCalls       int
	LongFunctions      int
	DeepNestings       int
	UntypedAnnotations int
}

// Analyzer runs all detectors over an AST in a single traversal
type Analyzer struct {
	config Config

	// disabled tracks detectors knocked out by a panic; the remaining
	// detectors keep running for the rest of the file.
	disabled map[string]bool
}

// NewAnalyzer creates an analyzer with the given thresholds
func NewAnalyzer(config Config) *Analyzer {
	if config.MaxFunctionLines <= 0 {
		config.MaxFunctionLines = 50
	}
	if config.MaxNestingDepth <= 0 {
		config.MaxNestingDepth = 4
	}
	return &Analyzer{
		config:   config,
		disabled: make(map[string]bool),
	}
}

// loggingObjects are the receiver names that mark a call as a logging call
var loggingObjects = map[string]bool{
	"console": true,
	"logger":  true,
}

// loggingMethods are the method names that mark a call as a logging call
var loggingMethods = map[string]bool{
	"log":   true,
	"warn":  true,
	"error": true,
	"info":  true,
	"debug": true,
	"trace": true,
}

// Analyze walks the AST once and collects all violations. Violations
// are returned sorted by line, then kind, so output is deterministic
// regardless of traversal order.
func (a *Analyzer) Analyze(root *parser.Node) ([]domain.Violation, Metrics) {
	var violations []domain.Violation
	var metrics Metrics

	if root == nil {
		return violations, metrics
	}

	root.Walk(func(n *parser.Node) bool {
		if v := a.runDetector("logging-call", func() *domain.Violation {
			return a.detectLoggingCall(n)
		}); v != nil {
			violations = append(violations, *v)
			metrics.LoggingCalls++
		}

		if n.IsFunction() {
			if v := a.runDetector("long-function", func() *domain.Violation {
				return a.detectLongFunction(n)
			}); v != nil {
				violations = append(violations, *v)
				metrics.LongFunctions++
			}

			if v := a.runDetector("deep-nesting", func() *domain.Violation {
				return a.detectDeepNesting(n)
			}); v != nil {
				violations = append(violations, *v)
				metrics.DeepNestings++
			}
		}

		if vs := a.runDetectorMulti("untyped-annotation", func() []domain.Violation {
			return a.detectUntypedAnnotation(n)
		}); len(vs) > 0 {
			violations = append(violations, vs...)
			metrics.UntypedAnnotations += len(vs)
		}

		return true
	})

	sort.SliceStable(violations, func(i, j int) bool {
		if violations[i].Line != violations[j].Line {
			return violations[i].Line < violations[j].Line
		}
		return violations[i].Kind < violations[j].Kind
	})

	return violations, metrics
}

// runDetector invokes a single-result detector with panic isolation. A
// panicking detector is disabled for the rest of the file and reported
// as one parse-error violation naming the detector.
func (a *Analyzer) runDetector(name string, fn func() *domain.Violation) (result *domain.Violation) {
	if a.disabled[name] {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			a.disabled[name] = true
			result = &domain.Violation{
				Kind:     domain.ViolationParseError,
				Line:     0,
				Severity: domain.SeverityHigh,
				Message:  fmt.Sprintf("detector %s failed: %v", name, r),
			}
		}
	}()
	return fn()
}

func (a *Analyzer) runDetectorMulti(name string, fn func() []domain.Violation) (results []domain.Violation) {
	if a.disabled[name] {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			a.disabled[name] = true
			results = []domain.Violation{{
				Kind:     domain.ViolationParseError,
				Line:     0,
				Severity: domain.SeverityHigh,
				Message:  fmt.Sprintf("detector %s failed: %v", name, r),
			}}
		}
	}()
	return fn()
}

// detectLoggingCall flags console.*/logger.* call expressions
func (a *Analyzer) detectLoggingCall(n *parser.Node) *domain.Violation {
	if n.Type != parser.NodeCallExpression || n.Callee == nil {
		return nil
	}
	callee := n.Callee
	if callee.Type != parser.NodeMemberExpression || callee.Object == nil || callee.Property == nil {
		return nil
	}

	objectName := callee.Object.Name
	// window.console.log reaches here with a member-expression object
	if callee.Object.Type == parser.NodeMemberExpression && callee.Object.Property != nil {
		objectName = callee.Object.Property.Name
	}

	if !loggingObjects[objectName] || !loggingMethods[callee.Property.Name] {
		return nil
	}

	return &domain.Violation{
		Kind:     domain.ViolationLoggingCall,
		Line:     n.Location.StartLine,
		Severity: domain.SeverityHigh,
		Message:  fmt.Sprintf("logging call %s.%s should be removed or routed through a structured logger", objectName, callee.Property.Name),
	}
}

// detectLongFunction flags functions whose body exceeds the statement limit
func (a *Analyzer) detectLongFunction(fn *parser.Node) *domain.Violation {
	count := countStatements(fn)
	if count <= a.config.MaxFunctionLines {
		return nil
	}

	name := fn.Name
	if name == "" {
		name = "<anonymous>"
	}

	return &domain.Violation{
		Kind:     domain.ViolationLongFunction,
		Line:     fn.Location.StartLine,
		Severity: domain.SeverityMedium,
		Message:  fmt.Sprintf("function %s has %d statements (limit %d)", name, count, a.config.MaxFunctionLines),
	}
}

// countStatements counts a function's immediate body statements.
// Statements inside nested blocks or control-flow bodies belong to
// those constructs and are not counted here.
func countStatements(fn *parser.Node) int {
	total := 0
	for _, stmt := range fn.Body {
		if stmt == nil {
			continue
		}
		total++
	}
	return total
}

// detectDeepNesting flags functions whose control-flow nesting exceeds
// the depth limit
func (a *Analyzer) detectDeepNesting(fn *parser.Node) *domain.Violation {
	depth, line := maxNestingDepth(fn, 0)
	if depth <= a.config.MaxNestingDepth {
		return nil
	}

	name := fn.Name
	if name == "" {
		name = "<anonymous>"
	}

	return &domain.Violation{
		Kind:     domain.ViolationDeepNesting,
		Line:     line,
		Severity: domain.SeverityMedium,
		Message:  fmt.Sprintf("function %s reaches nesting depth %d (limit %d)", name, depth, a.config.MaxNestingDepth),
	}
}

// maxNestingDepth returns the deepest control-flow nesting inside a
// function and the line of the deepest construct. Nested functions are
// measured independently and excluded here.
func maxNestingDepth(n *parser.Node, current int) (int, int) {
	maxDepth := current
	line := n.Location.StartLine

	for _, child := range n.Children {
		if child == nil || child.IsFunction() {
			continue
		}
		childDepth := current
		if child.IsControlFlow() {
			childDepth++
		}
		d, l := maxNestingDepth(child, childDepth)
		if d > maxDepth {
			maxDepth = d
			line = l
		}
	}

	if maxDepth == current && n.IsControlFlow() {
		line = n.Location.StartLine
	}
	return maxDepth, line
}

// detectUntypedAnnotation flags explicit `any` type annotations,
// including `any` nested in unions and generic arguments
func (a *Analyzer) detectUntypedAnnotation(n *parser.Node) []domain.Violation {
	if n.Type != parser.NodeTypeAnnotation {
		return nil
	}

	var violations []domain.Violation
	n.Walk(func(inner *parser.Node) bool {
		// nested annotations (e.g. in function-type parameters) are
		// visited by the outer traversal on their own
		if inner != n && inner.Type == parser.NodeTypeAnnotation {
			return false
		}
		isAny := (inner.Type == parser.NodePredefinedType || inner.Type == parser.NodeIdentifier) &&
			inner.Name == "any"
		if isAny {
			violations = append(violations, domain.Violation{
				Kind:     domain.ViolationUntypedAnnotation,
				Line:     inner.Location.StartLine,
				Severity: domain.SeverityMedium,
				Message:  "explicit 'any' annotation defeats type checking",
			})
		}
		return true
	})
	return violations
}

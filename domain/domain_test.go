package domain

import (
	"errors"
	"testing"
)

// Error tests

func TestDomainError_Error(t *testing.T) {
	// Without cause
	err := DomainError{
		Code:    "TEST_ERROR",
		Message: "Test message",
	}
	expected := "[TEST_ERROR] Test message"
	if err.Error() != expected {
		t.Errorf("Expected '%s', got '%s'", expected, err.Error())
	}

	// With cause
	cause := errors.New("underlying error")
	errWithCause := DomainError{
		Code:    "TEST_ERROR",
		Message: "Test message",
		Cause:   cause,
	}
	expectedWithCause := "[TEST_ERROR] Test message: underlying error"
	if errWithCause.Error() != expectedWithCause {
		t.Errorf("Expected '%s', got '%s'", expectedWithCause, errWithCause.Error())
	}
}

func TestDomainError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := DomainError{
		Code:    "TEST_ERROR",
		Message: "Test message",
		Cause:   cause,
	}

	if err.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}

	errNoCause := DomainError{
		Code:    "TEST_ERROR",
		Message: "Test message",
	}
	if errNoCause.Unwrap() != nil {
		t.Error("Unwrap should return nil when no cause")
	}
}

func TestNewDomainError(t *testing.T) {
	cause := errors.New("cause")
	err := NewDomainError("CODE", "message", cause)

	domainErr, ok := err.(DomainError)
	if !ok {
		t.Fatal("Should return DomainError type")
	}
	if domainErr.Code != "CODE" {
		t.Errorf("Expected code 'CODE', got '%s'", domainErr.Code)
	}
	if domainErr.Message != "message" {
		t.Errorf("Expected message 'message', got '%s'", domainErr.Message)
	}
	if domainErr.Cause != cause {
		t.Error("Cause should be set")
	}
}

func TestNewFileNotFoundError(t *testing.T) {
	err := NewFileNotFoundError("/path/to/file", nil)

	domainErr := err.(DomainError)
	if domainErr.Code != ErrCodeFileNotFound {
		t.Errorf("Expected code '%s', got '%s'", ErrCodeFileNotFound, domainErr.Code)
	}
	if domainErr.Message != "file not found: /path/to/file" {
		t.Errorf("Unexpected message: %s", domainErr.Message)
	}
}

func TestNewUnsupportedFormatError(t *testing.T) {
	err := NewUnsupportedFormatError("xml")

	domainErr := err.(DomainError)
	if domainErr.Code != ErrCodeUnsupportedFormat {
		t.Errorf("Expected code '%s', got '%s'", ErrCodeUnsupportedFormat, domainErr.Code)
	}
	if domainErr.Message != "unsupported format: xml" {
		t.Errorf("Unexpected message: %s", domainErr.Message)
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("validation failed")

	domainErr := err.(DomainError)
	if domainErr.Code != ErrCodeInvalidInput {
		t.Errorf("Expected code '%s', got '%s'", ErrCodeInvalidInput, domainErr.Code)
	}
}

// Violation taxonomy tests

func TestViolationKind_Constants(t *testing.T) {
	kinds := map[ViolationKind]string{
		ViolationLoggingCall:       "logging-call",
		ViolationLongFunction:      "long-function",
		ViolationDeepNesting:       "deep-nesting",
		ViolationUntypedAnnotation: "untyped-annotation",
		ViolationSyntaxError:       "syntax-error",
		ViolationParseTimeout:      "parse-timeout",
		ViolationParseError:        "parse-error",
		ViolationCircuitOpen:       "circuit-open",
		ViolationResourceExceeded:  "resource-exceeded",
	}

	for kind, expected := range kinds {
		if string(kind) != expected {
			t.Errorf("ViolationKind %s should equal '%s'", kind, expected)
		}
	}
}

func TestSeverity_Constants(t *testing.T) {
	severities := map[Severity]string{
		SeverityCritical: "critical",
		SeverityHigh:     "high",
		SeverityMedium:   "medium",
		SeverityLow:      "low",
	}

	for severity, expected := range severities {
		if string(severity) != expected {
			t.Errorf("Severity %s should equal '%s'", severity, expected)
		}
	}
}

func TestSeverityTier_Constants(t *testing.T) {
	tiers := map[SeverityTier]string{
		TierExemplary:  "exemplary",
		TierGood:       "good",
		TierAcceptable: "acceptable",
		TierConcerning: "concerning",
		TierCritical:   "critical",
	}

	for tier, expected := range tiers {
		if string(tier) != expected {
			t.Errorf("SeverityTier %s should equal '%s'", tier, expected)
		}
	}
}

func TestHasCritical(t *testing.T) {
	violations := []Violation{
		{Kind: ViolationLoggingCall, Severity: SeverityHigh},
		{Kind: ViolationLongFunction, Severity: SeverityMedium},
	}
	if HasCritical(violations) {
		t.Error("HasCritical should be false without critical violations")
	}

	violations = append(violations, Violation{Kind: ViolationSyntaxError, Severity: SeverityCritical})
	if !HasCritical(violations) {
		t.Error("HasCritical should be true with a critical violation")
	}

	if HasCritical(nil) {
		t.Error("HasCritical should be false for an empty list")
	}
}

func TestCountBySeverity(t *testing.T) {
	violations := []Violation{
		{Severity: SeverityHigh},
		{Severity: SeverityHigh},
		{Severity: SeverityMedium},
		{Severity: SeverityCritical},
	}

	counts := CountBySeverity(violations)
	if counts[SeverityHigh] != 2 {
		t.Errorf("Expected 2 high, got %d", counts[SeverityHigh])
	}
	if counts[SeverityMedium] != 1 {
		t.Errorf("Expected 1 medium, got %d", counts[SeverityMedium])
	}
	if counts[SeverityCritical] != 1 {
		t.Errorf("Expected 1 critical, got %d", counts[SeverityCritical])
	}
	if counts[SeverityLow] != 0 {
		t.Errorf("Expected 0 low, got %d", counts[SeverityLow])
	}
}

// Score request tests

func TestScoreRequest_Fields(t *testing.T) {
	req := ScoreRequest{
		Paths:            []string{"/path/to/src"},
		OutputFormat:     OutputFormatJSON,
		SortBy:           SortByLine,
		TopViolations:    10,
		TimeoutSeconds:   30,
		MaxFunctionLines: 50,
		MaxNestingDepth:  4,
		Recursive:        true,
		IncludePatterns:  []string{"*.ts"},
		ExcludePatterns:  []string{"node_modules"},
	}

	if len(req.Paths) != 1 {
		t.Error("Paths should have 1 element")
	}
	if req.OutputFormat != OutputFormatJSON {
		t.Error("OutputFormat should be JSON")
	}
	if req.MaxNestingDepth != 4 {
		t.Error("MaxNestingDepth should be 4")
	}
	if !req.Recursive {
		t.Error("Recursive should be true")
	}
}

func TestFileScore_Fields(t *testing.T) {
	fs := FileScore{
		FilePath:           "/src/test.ts",
		PainScore:          85,
		AgroScore:          75,
		Severity:           TierAcceptable,
		Exemplary:          true,
		Violations:         []Violation{{Kind: ViolationLoggingCall, Line: 3, Severity: SeverityHigh}},
		TotalLines:         42,
		AnalysisSuccessful: true,
	}

	if fs.PainScore != 85 {
		t.Errorf("PainScore should be 85, got %d", fs.PainScore)
	}
	if fs.Severity != TierAcceptable {
		t.Errorf("Severity should be 'acceptable', got '%s'", fs.Severity)
	}
	if len(fs.Violations) != 1 {
		t.Errorf("Should have 1 violation, got %d", len(fs.Violations))
	}
}

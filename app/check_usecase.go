package app

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/hivetools/hive/domain"
	"github.com/hivetools/hive/internal/version"
)

// Check exit codes
const (
	CheckExitPassed   = 0
	CheckExitFailed   = 1
	CheckExitRunError = 2
)

// CheckConfig holds the quality gate thresholds
type CheckConfig struct {
	// MinScore fails the gate when a file's AGRO score falls below it
	MinScore int

	// FailOnCritical fails the gate on any critical violation
	FailOnCritical bool

	// FailOnParseError fails the gate when any file cannot be analyzed
	FailOnParseError bool
}

// DefaultCheckConfig returns the standard gate thresholds
func DefaultCheckConfig() CheckConfig {
	return CheckConfig{
		MinScore:         60,
		FailOnCritical:   true,
		FailOnParseError: true,
	}
}

// CheckUseCase runs a scoring pass and applies pass/fail thresholds,
// for CI pipelines
type CheckUseCase struct {
	scoreUseCase *ScoreUseCase
}

// NewCheckUseCase creates a new check use case
func NewCheckUseCase(scoreUseCase *ScoreUseCase) *CheckUseCase {
	return &CheckUseCase{scoreUseCase: scoreUseCase}
}

// Execute scores the requested paths and evaluates the gate
func (uc *CheckUseCase) Execute(ctx context.Context, cfg CheckConfig, req domain.ScoreRequest) (*domain.CheckResult, error) {
	start := time.Now()

	// The gate evaluates raw results; suppress report output.
	req.OutputWriter = nil

	response, err := uc.scoreUseCase.Score(ctx, req)
	if err != nil {
		return nil, err
	}

	result := uc.evaluate(cfg, response)
	result.Duration = time.Since(start).Milliseconds()
	result.GeneratedAt = time.Now().Format(time.RFC3339)
	result.Version = version.Version
	return result, nil
}

func (uc *CheckUseCase) evaluate(cfg CheckConfig, response *domain.ScoreResponse) *domain.CheckResult {
	var violations []domain.CheckViolation
	summary := domain.CheckSummary{
		FilesAnalyzed: response.Summary.FilesAnalyzed,
		AverageAgro:   response.Summary.AverageAgro,
	}

	for _, file := range response.Files {
		if !file.AnalysisSuccessful {
			summary.ParseFailures++
			if cfg.FailOnParseError {
				violations = append(violations, domain.CheckViolation{
					Category: "parse",
					Rule:     "must-parse",
					Severity: "error",
					Message:  fmt.Sprintf("%s could not be analyzed", file.FilePath),
					Location: file.FilePath,
					Actual:   failureReason(file),
				})
			}
			continue
		}

		if file.AgroScore < cfg.MinScore {
			summary.FilesBelowScore++
			violations = append(violations, domain.CheckViolation{
				Category:  "score",
				Rule:      "min-score",
				Severity:  "error",
				Message:   fmt.Sprintf("%s scored below the minimum", file.FilePath),
				Location:  file.FilePath,
				Actual:    strconv.Itoa(file.AgroScore),
				Threshold: strconv.Itoa(cfg.MinScore),
			})
		}

		for _, v := range file.Violations {
			if v.Severity != domain.SeverityCritical {
				continue
			}
			summary.CriticalViolations++
			if cfg.FailOnCritical {
				violations = append(violations, domain.CheckViolation{
					Category: "critical",
					Rule:     "no-critical",
					Severity: "error",
					Message:  v.Message,
					Location: fmt.Sprintf("%s:%d", file.FilePath, v.Line),
					Actual:   string(v.Kind),
				})
			}
		}
	}

	summary.TotalViolations = len(violations)

	passed := len(violations) == 0
	exitCode := CheckExitPassed
	if !passed {
		exitCode = CheckExitFailed
	}

	return &domain.CheckResult{
		Passed:     passed,
		ExitCode:   exitCode,
		Violations: violations,
		Summary:    summary,
	}
}

func failureReason(file domain.FileScore) string {
	if len(file.Violations) > 0 {
		return string(file.Violations[0].Kind)
	}
	return "unknown"
}

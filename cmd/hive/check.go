package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/hivetools/hive/app"
	"github.com/hivetools/hive/domain"
	"github.com/hivetools/hive/internal/config"
	"github.com/hivetools/hive/service"
	"github.com/spf13/cobra"
)

// CheckExitError is a custom error type for check command exit codes
type CheckExitError struct {
	Code    int
	Message string
}

func (e *CheckExitError) Error() string {
	return e.Message
}

var (
	checkMinScore         int
	checkFailOnCritical   bool
	checkFailOnParseError bool
	checkVerbose          bool
	checkJSON             bool
	checkConfigPath       string
)

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [path...]",
		Short: "Fast quality gate for CI/CD pipelines",
		Long: `Run the quality gate against configurable thresholds for CI/CD integration.

Exit codes:
  0 - All checks pass
  1 - Quality threshold(s) violated
  2 - Analysis error (file not found, config error, etc.)

Examples:
  # Basic gate with defaults (min AGRO 60, no critical violations)
  hive check src/

  # Stricter minimum score
  hive check --min-score 80 src/

  # Tolerate unparseable files
  hive check --fail-on-parse-errors=false src/

  # JSON output for machine parsing
  hive check --json src/`,
		RunE:          runCheck,
		SilenceUsage:  true, // Don't print usage on errors (we handle our own output)
		SilenceErrors: true, // Don't print error messages (we handle our own output)
	}

	cmd.Flags().IntVar(&checkMinScore, "min-score", 60,
		"Minimum allowed AGRO score per file")
	cmd.Flags().BoolVar(&checkFailOnCritical, "fail-on-critical", true,
		"Fail the gate on any critical violation")
	cmd.Flags().BoolVar(&checkFailOnParseError, "fail-on-parse-errors", true,
		"Fail the gate when a file cannot be analyzed")
	cmd.Flags().BoolVarP(&checkVerbose, "verbose", "v", false,
		"Show detailed output")
	cmd.Flags().BoolVar(&checkJSON, "json", false,
		"Output results as JSON")
	cmd.Flags().StringVarP(&checkConfigPath, "config", "c", "",
		"Path to config file")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return &CheckExitError{Code: app.CheckExitRunError, Message: "no paths specified"}
	}

	// Load configuration
	cfg, err := config.LoadConfigWithTarget(checkConfigPath, args[0])
	if err != nil {
		return &CheckExitError{Code: app.CheckExitRunError, Message: fmt.Sprintf("failed to load configuration: %v", err)}
	}

	gateCfg := app.DefaultCheckConfig()
	gateCfg.MinScore = checkMinScore
	gateCfg.FailOnCritical = checkFailOnCritical
	gateCfg.FailOnParseError = checkFailOnParseError

	// Progress bars would corrupt machine-parsed output
	pm := service.NewProgressManager(!checkJSON)
	defer pm.Close()

	svc := service.NewScoreServiceWithProgress(cfg, pm)
	loader := service.NewConfigurationLoader()
	scoreUseCase := app.NewScoreUseCase(svc, service.NewOutputFormatter(), loader)
	checkUseCase := app.NewCheckUseCase(scoreUseCase)

	req := domain.ScoreRequest{
		Paths:           args,
		Recursive:       cfg.Analysis.Recursive,
		ConfigPath:      checkConfigPath,
		ExcludePatterns: cfg.Analysis.ExcludePatterns,
	}

	result, err := checkUseCase.Execute(context.Background(), gateCfg, req)
	if err != nil {
		return &CheckExitError{Code: app.CheckExitRunError, Message: err.Error()}
	}

	return outputCheckResult(result)
}

func outputCheckResult(result *domain.CheckResult) error {
	if checkJSON {
		return outputCheckJSON(result)
	}
	return outputCheckText(result)
}

func outputCheckText(result *domain.CheckResult) error {
	if result.Passed {
		fmt.Println("PASS: All quality checks passed")
		if checkVerbose {
			fmt.Printf("  Files analyzed: %d\n", result.Summary.FilesAnalyzed)
			fmt.Printf("  Average AGRO: %.1f\n", result.Summary.AverageAgro)
			fmt.Printf("  Duration: %dms\n", result.Duration)
		}
		return nil
	}

	fmt.Println("FAIL: Quality check failed")
	fmt.Printf("  Violations: %d\n", result.Summary.TotalViolations)

	// Print violations
	for _, v := range result.Violations {
		severity := "ERROR"
		if v.Severity == "warning" {
			severity = "WARN"
		}
		fmt.Printf("  [%s] %s: %s\n", severity, v.Category, v.Message)
		if checkVerbose && v.Location != "" {
			fmt.Printf("         at %s\n", v.Location)
		}
	}

	if checkVerbose {
		fmt.Printf("\nSummary:\n")
		fmt.Printf("  Files: %d\n", result.Summary.FilesAnalyzed)
		fmt.Printf("  Files below minimum score: %d\n", result.Summary.FilesBelowScore)
		fmt.Printf("  Critical violations: %d\n", result.Summary.CriticalViolations)
		fmt.Printf("  Parse failures: %d\n", result.Summary.ParseFailures)
		fmt.Printf("  Duration: %dms\n", result.Duration)
	}

	return &CheckExitError{Code: result.ExitCode, Message: ""}
}

func outputCheckJSON(result *domain.CheckResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return &CheckExitError{Code: app.CheckExitRunError, Message: fmt.Sprintf("failed to encode JSON: %v", err)}
	}

	if !result.Passed {
		return &CheckExitError{Code: result.ExitCode, Message: ""}
	}
	return nil
}

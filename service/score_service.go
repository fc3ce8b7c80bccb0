package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hivetools/hive/domain"
	"github.com/hivetools/hive/internal/analyzer"
	"github.com/hivetools/hive/internal/config"
	"github.com/hivetools/hive/internal/guard"
	"github.com/hivetools/hive/internal/version"
)

// ScoreServiceImpl implements the ScoreService interface. One instance
// carries the parse guard, resource gate and score history for a whole
// run, so breaker state and AGRO baselines are shared across files.
type ScoreServiceImpl struct {
	cfg      *config.Config
	guard    *guard.ParseGuard
	gate     *guard.ResourceGate
	history  *ScoreHistory
	progress domain.ProgressManager
}

// NewScoreService creates a new score service implementation
func NewScoreService(cfg *config.Config) *ScoreServiceImpl {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	breaker := guard.NewCircuitBreaker(
		cfg.Guard.BreakerThreshold,
		time.Duration(cfg.Guard.BreakerRecoverySeconds)*time.Second,
	)
	return &ScoreServiceImpl{
		cfg:     cfg,
		guard:   guard.NewParseGuard(time.Duration(cfg.Guard.TimeoutSeconds)*time.Second, breaker),
		gate:    guard.NewResourceGate(cfg.Gate.MaxConcurrent, cfg.Gate.MaxSourceBytes, cfg.Gate.MaxTotalBytes),
		history: NewScoreHistory(cfg.Scoring.HistorySize),
	}
}

// NewScoreServiceWithProgress creates a score service with progress reporting
func NewScoreServiceWithProgress(cfg *config.Config, pm domain.ProgressManager) *ScoreServiceImpl {
	s := NewScoreService(cfg)
	s.progress = pm
	return s
}

// History exposes the score history for trend reporting
func (s *ScoreServiceImpl) History() *ScoreHistory {
	return s.history
}

// Analyze scores all files named by the request. Files are processed
// concurrently up to the gate's concurrency ceiling; per-file failures
// are reported as failed scores, not batch errors.
func (s *ScoreServiceImpl) Analyze(ctx context.Context, req domain.ScoreRequest) (*domain.ScoreResponse, error) {
	if len(req.Paths) == 0 {
		return nil, domain.NewInvalidInputError("no files to analyze", nil)
	}

	var task domain.TaskProgress = &NoOpTaskProgress{}
	if s.progress != nil {
		task = s.progress.StartTask("Scoring files", len(req.Paths))
	}
	defer task.Complete()

	files := make([]domain.FileScore, len(req.Paths))
	var mu sync.Mutex
	var errorList []string

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Gate.MaxConcurrent)

	for i, filePath := range req.Paths {
		i, filePath := i, filePath
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return fmt.Errorf("scoring cancelled: %w", gctx.Err())
			default:
			}

			source, err := os.ReadFile(filePath)
			if err != nil {
				mu.Lock()
				errorList = append(errorList, fmt.Sprintf("[%s] failed to read file: %v", filePath, err))
				mu.Unlock()
				files[i] = *failedScore(filePath, domain.Violation{
					Kind:     domain.ViolationParseError,
					Severity: domain.SeverityCritical,
					Message:  fmt.Sprintf("failed to read %s: %v", filePath, err),
				})
				task.Fail()
				task.Increment(1)
				return nil
			}

			task.Describe(filepath.Base(filePath))
			files[i] = *s.AnalyzeSource(gctx, filePath, source, req)
			task.Increment(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.sortFiles(files, req.SortBy)

	return &domain.ScoreResponse{
		Files:       files,
		Summary:     buildSummary(files),
		Errors:      errorList,
		GeneratedAt: time.Now().Format(time.RFC3339),
		Version:     version.Version,
		Config:      s.buildConfigForResponse(req),
	}, nil
}

// AnalyzeSource scores a single in-memory source text. The full
// pipeline runs: resource gate, parse guard, detectors, then scoring.
func (s *ScoreServiceImpl) AnalyzeSource(ctx context.Context, filename string, source []byte, req domain.ScoreRequest) *domain.FileScore {
	release, gateViolation := s.gate.Acquire(filename, int64(len(source)))
	if gateViolation != nil {
		score := failedScore(filename, *gateViolation)
		score.Recommendations = []string{
			"Raise the gate ceilings in hive.yaml or split the file before analyzing",
		}
		s.history.Record(filename, ScoreRun{Successful: false, Timestamp: time.Now()})
		return score
	}
	defer release()

	totalLines := countLines(source)

	timeout := time.Duration(s.cfg.Guard.TimeoutSeconds) * time.Second
	if req.TimeoutSeconds > 0 {
		timeout = time.Duration(req.TimeoutSeconds) * time.Second
	}
	ast, guardViolation := s.guard.ParseWithTimeout(ctx, filename, source, timeout)
	if guardViolation != nil {
		score := failedScore(filename, *guardViolation)
		breaker := s.guard.Breaker()
		score.TotalLines = totalLines
		score.CircuitBreakerStatus = &domain.BreakerStatus{
			State:        string(breaker.State()),
			FailureCount: breaker.FailureCount(),
		}
		s.history.Record(filename, ScoreRun{Successful: false, Timestamp: time.Now()})
		return score
	}

	a := analyzer.NewAnalyzer(s.analyzerConfig(req))
	violations, _ := a.Analyze(ast)

	pain := analyzer.CalculatePainScore(totalLines, violations)

	// The AGRO baseline is the previous run's score for this file.
	// First sight of a file grounds the baseline on today's PAIN.
	base, priorSucceeded := pain, true
	if prior, ok := s.history.Last(filename); ok {
		base, priorSucceeded = prior.AgroScore, prior.Successful
	}
	agro := analyzer.CalculateAgroScore(base, priorSucceeded, violations)

	s.history.Record(filename, ScoreRun{
		PainScore:  pain,
		AgroScore:  agro,
		Successful: true,
		Timestamp:  time.Now(),
	})

	sortViolations(violations, req.SortBy)

	// Derived fields see every violation; truncation only trims the
	// reported list.
	insights := analyzer.GenerateInsights(pain, agro, violations)
	switch s.history.Trend(filename) {
	case TrendImproving:
		insights = append(insights, "Score is improving since the previous run")
	case TrendDeclining:
		insights = append(insights, "Score is declining since the previous run")
	}
	exemplary := analyzer.IsExemplaryEligible(agro, violations)
	recommendations := analyzer.GenerateRecommendations(violations)

	if req.TopViolations > 0 && len(violations) > req.TopViolations {
		violations = violations[:req.TopViolations]
	}

	return &domain.FileScore{
		FilePath:           filename,
		PainScore:          pain,
		AgroScore:          agro,
		Severity:           analyzer.DetermineSeverity(agro),
		Exemplary:          exemplary,
		Violations:         violations,
		Insights:           insights,
		TotalLines:         totalLines,
		AnalysisSuccessful: true,
		Recommendations:    recommendations,
	}
}

func (s *ScoreServiceImpl) analyzerConfig(req domain.ScoreRequest) analyzer.Config {
	cfg := analyzer.Config{
		MaxFunctionLines: s.cfg.Analyzer.MaxFunctionLines,
		MaxNestingDepth:  s.cfg.Analyzer.MaxNestingDepth,
	}
	if req.MaxFunctionLines > 0 {
		cfg.MaxFunctionLines = req.MaxFunctionLines
	}
	if req.MaxNestingDepth > 0 {
		cfg.MaxNestingDepth = req.MaxNestingDepth
	}
	return cfg
}

// failedScore builds the zero-score result for a file that could not
// be analyzed
func failedScore(filename string, violation domain.Violation) *domain.FileScore {
	return &domain.FileScore{
		FilePath:           filename,
		PainScore:          0,
		AgroScore:          0,
		Severity:           domain.TierCritical,
		Exemplary:          false,
		Violations:         []domain.Violation{violation},
		AnalysisSuccessful: false,
	}
}

// countLines counts newline-delimited lines; a trailing fragment
// without a newline still counts
func countLines(source []byte) int {
	if len(source) == 0 {
		return 0
	}
	lines := bytes.Count(source, []byte{'\n'})
	if source[len(source)-1] != '\n' {
		lines++
	}
	return lines
}

// severityRank orders severities for sorting, most severe first
var severityRank = map[domain.Severity]int{
	domain.SeverityCritical: 0,
	domain.SeverityHigh:     1,
	domain.SeverityMedium:   2,
	domain.SeverityLow:      3,
}

func sortViolations(violations []domain.Violation, sortBy domain.SortCriteria) {
	switch sortBy {
	case domain.SortBySeverity:
		sort.SliceStable(violations, func(i, j int) bool {
			if severityRank[violations[i].Severity] != severityRank[violations[j].Severity] {
				return severityRank[violations[i].Severity] < severityRank[violations[j].Severity]
			}
			return violations[i].Line < violations[j].Line
		})
	default:
		sort.SliceStable(violations, func(i, j int) bool {
			if violations[i].Line != violations[j].Line {
				return violations[i].Line < violations[j].Line
			}
			return violations[i].Kind < violations[j].Kind
		})
	}
}

func (s *ScoreServiceImpl) sortFiles(files []domain.FileScore, sortBy domain.SortCriteria) {
	switch sortBy {
	case domain.SortByScore:
		// worst first
		sort.SliceStable(files, func(i, j int) bool {
			return files[i].AgroScore < files[j].AgroScore
		})
	case domain.SortByFile:
		sort.SliceStable(files, func(i, j int) bool {
			return files[i].FilePath < files[j].FilePath
		})
	}
	// default keeps request order
}

func buildSummary(files []domain.FileScore) domain.ScoreSummary {
	summary := domain.ScoreSummary{
		TierDistribution: make(map[domain.SeverityTier]int),
	}

	totalPain, totalAgro := 0, 0
	for _, f := range files {
		if !f.AnalysisSuccessful {
			summary.FilesFailed++
			summary.TotalViolations += len(f.Violations)
			continue
		}

		summary.FilesAnalyzed++
		summary.TotalViolations += len(f.Violations)
		summary.TierDistribution[f.Severity]++
		if f.Exemplary {
			summary.ExemplaryFiles++
		}
		totalPain += f.PainScore
		totalAgro += f.AgroScore
	}

	if summary.FilesAnalyzed > 0 {
		summary.AveragePain = float64(totalPain) / float64(summary.FilesAnalyzed)
		summary.AverageAgro = float64(totalAgro) / float64(summary.FilesAnalyzed)
	}
	return summary
}

func (s *ScoreServiceImpl) buildConfigForResponse(req domain.ScoreRequest) map[string]interface{} {
	cfg := s.analyzerConfig(req)
	return map[string]interface{}{
		"max_function_lines": cfg.MaxFunctionLines,
		"max_nesting_depth":  cfg.MaxNestingDepth,
		"timeout_seconds":    s.cfg.Guard.TimeoutSeconds,
		"breaker_threshold":  s.cfg.Guard.BreakerThreshold,
		"max_concurrent":     s.cfg.Gate.MaxConcurrent,
		"sort_by":            req.SortBy,
	}
}

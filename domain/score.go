package domain

import (
	"context"
	"io"
)

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatCSV  OutputFormat = "csv"
)

// SortCriteria represents the criteria for sorting violations in reports
type SortCriteria string

const (
	SortByLine     SortCriteria = "line"
	SortBySeverity SortCriteria = "severity"
	SortByScore    SortCriteria = "score"
	SortByFile     SortCriteria = "file"
)

// SeverityTier is the five-level quality classification derived from a score
type SeverityTier string

const (
	TierExemplary  SeverityTier = "exemplary"
	TierGood       SeverityTier = "good"
	TierAcceptable SeverityTier = "acceptable"
	TierConcerning SeverityTier = "concerning"
	TierCritical   SeverityTier = "critical"
)

// BreakerStatus reports circuit breaker health on failure responses
type BreakerStatus struct {
	State        string `json:"state" yaml:"state"`
	FailureCount int    `json:"failure_count" yaml:"failure_count"`
}

// ScoreRequest represents a request for AGRO/PAIN scoring
type ScoreRequest struct {
	// Input files or directories to analyze
	Paths []string

	// Output configuration
	OutputFormat OutputFormat
	OutputWriter io.Writer
	ShowDetails  bool

	// Sorting and truncation
	SortBy        SortCriteria
	TopViolations int // 0 means no truncation

	// Analyzer overrides (0 = use configured default)
	TimeoutSeconds   int
	MaxFunctionLines int
	MaxNestingDepth  int

	// Configuration
	ConfigPath string

	// File collection
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string
}

// FileScore is the scoring result for one source file
type FileScore struct {
	FilePath string `json:"file_path" yaml:"file_path"`

	PainScore int          `json:"pain_score" yaml:"pain_score"`
	AgroScore int          `json:"agro_score" yaml:"agro_score"`
	Severity  SeverityTier `json:"severity" yaml:"severity"`
	Exemplary bool         `json:"exemplary" yaml:"exemplary"`

	Violations []Violation `json:"violations" yaml:"violations"`
	Insights   []string    `json:"insights,omitempty" yaml:"insights,omitempty"`

	TotalLines         int  `json:"total_lines" yaml:"total_lines"`
	AnalysisSuccessful bool `json:"analysis_successful" yaml:"analysis_successful"`

	// Populated only on guard failures
	CircuitBreakerStatus *BreakerStatus `json:"circuit_breaker_status,omitempty" yaml:"circuit_breaker_status,omitempty"`

	// Populated only on resource gate rejections
	Recommendations []string `json:"recommendations,omitempty" yaml:"recommendations,omitempty"`
}

// ScoreSummary represents aggregate statistics for a scoring run
type ScoreSummary struct {
	FilesAnalyzed int `json:"files_analyzed" yaml:"files_analyzed"`
	FilesFailed   int `json:"files_failed" yaml:"files_failed"`

	AveragePain float64 `json:"average_pain" yaml:"average_pain"`
	AverageAgro float64 `json:"average_agro" yaml:"average_agro"`

	ExemplaryFiles  int `json:"exemplary_files" yaml:"exemplary_files"`
	TotalViolations int `json:"total_violations" yaml:"total_violations"`

	TierDistribution map[SeverityTier]int `json:"tier_distribution,omitempty" yaml:"tier_distribution,omitempty"`
}

// ScoreResponse represents the complete result of one scoring run
type ScoreResponse struct {
	Files   []FileScore  `json:"files" yaml:"files"`
	Summary ScoreSummary `json:"summary" yaml:"summary"`

	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Errors   []string `json:"errors,omitempty" yaml:"errors,omitempty"`

	GeneratedAt string      `json:"generated_at" yaml:"generated_at"`
	Version     string      `json:"version" yaml:"version"`
	Config      interface{} `json:"config,omitempty" yaml:"config,omitempty"`
}

// ScoreService defines the core business logic for AGRO/PAIN scoring
type ScoreService interface {
	// Analyze scores all files named by the request
	Analyze(ctx context.Context, req ScoreRequest) (*ScoreResponse, error)

	// AnalyzeSource scores a single in-memory source text
	AnalyzeSource(ctx context.Context, filename string, source []byte, req ScoreRequest) *FileScore
}

// OutputFormatter defines the interface for formatting scoring results
type OutputFormatter interface {
	// Format formats the response according to the specified format
	Format(response *ScoreResponse, format OutputFormat) (string, error)

	// Write writes the formatted output to the writer
	Write(response *ScoreResponse, format OutputFormat, writer io.Writer) error
}

// ConfigurationLoader defines the interface for loading scoring configuration
type ConfigurationLoader interface {
	// LoadConfig loads configuration from the specified path
	LoadConfig(path string) (*ScoreRequest, error)

	// LoadDefaultConfig loads the default configuration
	LoadDefaultConfig() *ScoreRequest

	// MergeConfig merges CLI flags with configuration file
	MergeConfig(base *ScoreRequest, override *ScoreRequest) *ScoreRequest
}

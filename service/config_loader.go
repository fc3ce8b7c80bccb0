package service

import (
	"github.com/hivetools/hive/domain"
	"github.com/hivetools/hive/internal/config"
)

// ConfigurationLoaderImpl implements the ConfigurationLoader interface
type ConfigurationLoaderImpl struct{}

// NewConfigurationLoader creates a new configuration loader service
func NewConfigurationLoader() *ConfigurationLoaderImpl {
	return &ConfigurationLoaderImpl{}
}

// LoadConfig loads configuration from the specified path
func (c *ConfigurationLoaderImpl) LoadConfig(path string) (*domain.ScoreRequest, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration file", err)
	}
	return c.convertToScoreRequest(cfg), nil
}

// LoadDefaultConfig loads the discovered configuration, falling back
// to built-in defaults
func (c *ConfigurationLoaderImpl) LoadDefaultConfig() *domain.ScoreRequest {
	cfg, err := config.LoadConfigWithTarget("", "")
	if err != nil {
		cfg = config.DefaultConfig()
	}
	return c.convertToScoreRequest(cfg)
}

// MergeConfig merges CLI flags with configuration file. Paths and
// explicit flag values win over file values.
func (c *ConfigurationLoaderImpl) MergeConfig(base *domain.ScoreRequest, override *domain.ScoreRequest) *domain.ScoreRequest {
	merged := *base

	if len(override.Paths) > 0 {
		merged.Paths = override.Paths
	}
	if override.OutputFormat != "" {
		merged.OutputFormat = override.OutputFormat
	}
	if override.OutputWriter != nil {
		merged.OutputWriter = override.OutputWriter
	}
	if override.ShowDetails {
		merged.ShowDetails = override.ShowDetails
	}
	if override.SortBy != "" {
		merged.SortBy = override.SortBy
	}
	if override.TopViolations > 0 {
		merged.TopViolations = override.TopViolations
	}
	if override.TimeoutSeconds > 0 {
		merged.TimeoutSeconds = override.TimeoutSeconds
	}
	if override.MaxFunctionLines > 0 {
		merged.MaxFunctionLines = override.MaxFunctionLines
	}
	if override.MaxNestingDepth > 0 {
		merged.MaxNestingDepth = override.MaxNestingDepth
	}
	if override.ConfigPath != "" {
		merged.ConfigPath = override.ConfigPath
	}
	if len(override.IncludePatterns) > 0 {
		merged.IncludePatterns = override.IncludePatterns
	}
	if len(override.ExcludePatterns) > 0 {
		merged.ExcludePatterns = override.ExcludePatterns
	}

	return &merged
}

// convertToScoreRequest converts a Config to a ScoreRequest
func (c *ConfigurationLoaderImpl) convertToScoreRequest(cfg *config.Config) *domain.ScoreRequest {
	return &domain.ScoreRequest{
		Paths: []string{},

		OutputFormat:  domain.OutputFormat(cfg.Output.Format),
		ShowDetails:   cfg.Output.ShowDetails,
		SortBy:        domain.SortCriteria(cfg.Output.SortBy),
		TopViolations: cfg.Output.TopViolations,

		TimeoutSeconds:   cfg.Guard.TimeoutSeconds,
		MaxFunctionLines: cfg.Analyzer.MaxFunctionLines,
		MaxNestingDepth:  cfg.Analyzer.MaxNestingDepth,

		Recursive:       cfg.Analysis.Recursive,
		IncludePatterns: cfg.Analysis.IncludePatterns,
		ExcludePatterns: cfg.Analysis.ExcludePatterns,
	}
}

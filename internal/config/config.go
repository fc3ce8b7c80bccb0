package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hivetools/hive/internal/constants"
	"github.com/spf13/viper"
)

// Default detector thresholds
const (
	// DefaultMaxFunctionLines is the statement count above which a
	// function is flagged as too long
	DefaultMaxFunctionLines = 50

	// DefaultMaxNestingDepth is the deepest allowed control-flow
	// nesting inside a single function
	DefaultMaxNestingDepth = 4
)

// Default parse guard settings
const (
	// DefaultParseTimeoutSeconds bounds a single parse
	DefaultParseTimeoutSeconds = 30

	// DefaultBreakerThreshold is the consecutive-failure count that
	// opens the circuit breaker
	DefaultBreakerThreshold = 5

	// DefaultBreakerRecoverySeconds is how long the breaker stays open
	// before admitting a probe
	DefaultBreakerRecoverySeconds = 60
)

// Default resource gate ceilings
const (
	DefaultMaxConcurrent  = 8
	DefaultMaxSourceBytes = 1 << 20
	DefaultMaxTotalBytes  = 64 << 20
)

// DefaultHistorySize caps the per-file score history ring
const DefaultHistorySize = 100

// Config represents the main configuration structure
type Config struct {
	// Guard holds parse timeout and circuit breaker configuration
	Guard GuardConfig `json:"guard" mapstructure:"guard" yaml:"guard"`

	// Gate holds resource ceiling configuration
	Gate GateConfig `json:"gate" mapstructure:"gate" yaml:"gate"`

	// Analyzer holds detector threshold configuration
	Analyzer AnalyzerConfig `json:"analyzer" mapstructure:"analyzer" yaml:"analyzer"`

	// Scoring holds score history configuration
	Scoring ScoringConfig `json:"scoring" mapstructure:"scoring" yaml:"scoring"`

	// Output holds output formatting configuration
	Output OutputConfig `json:"output" mapstructure:"output" yaml:"output"`

	// Analysis holds file discovery configuration
	Analysis AnalysisConfig `json:"analysis,omitempty" mapstructure:"analysis" yaml:"analysis"`
}

// GuardConfig holds parse guard configuration
type GuardConfig struct {
	// TimeoutSeconds bounds the latency of a single parse
	TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds" yaml:"timeout_seconds"`

	// BreakerThreshold is the consecutive-failure count that trips the breaker
	BreakerThreshold int `json:"breaker_threshold" mapstructure:"breaker_threshold" yaml:"breaker_threshold"`

	// BreakerRecoverySeconds is the open-state cooldown before a probe
	BreakerRecoverySeconds int `json:"breaker_recovery_seconds" mapstructure:"breaker_recovery_seconds" yaml:"breaker_recovery_seconds"`
}

// GateConfig holds resource gate configuration
type GateConfig struct {
	// MaxConcurrent caps simultaneous file analyses
	MaxConcurrent int `json:"max_concurrent" mapstructure:"max_concurrent" yaml:"max_concurrent"`

	// MaxSourceBytes caps the size of a single source file
	MaxSourceBytes int64 `json:"max_source_bytes" mapstructure:"max_source_bytes" yaml:"max_source_bytes"`

	// MaxTotalBytes caps the bytes of source held in flight at once
	MaxTotalBytes int64 `json:"max_total_bytes" mapstructure:"max_total_bytes" yaml:"max_total_bytes"`
}

// AnalyzerConfig holds detector thresholds
type AnalyzerConfig struct {
	// MaxFunctionLines is the statement limit per function
	MaxFunctionLines int `json:"max_function_lines" mapstructure:"max_function_lines" yaml:"max_function_lines"`

	// MaxNestingDepth is the control-flow nesting limit per function
	MaxNestingDepth int `json:"max_nesting_depth" mapstructure:"max_nesting_depth" yaml:"max_nesting_depth"`
}

// ScoringConfig holds score history configuration
type ScoringConfig struct {
	// HistorySize caps the number of retained runs per file
	HistorySize int `json:"history_size" mapstructure:"history_size" yaml:"history_size"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: text, json, yaml, csv
	Format string `json:"format" mapstructure:"format" yaml:"format"`

	// ShowDetails controls whether to show per-violation breakdowns
	ShowDetails bool `json:"show_details" mapstructure:"show_details" yaml:"show_details"`

	// SortBy specifies how to sort violations: line, severity, score, file
	SortBy string `json:"sort_by" mapstructure:"sort_by" yaml:"sort_by"`

	// TopViolations truncates per-file violation lists (0 = show all)
	TopViolations int `json:"top_violations" mapstructure:"top_violations" yaml:"top_violations"`
}

// AnalysisConfig holds file discovery configuration
type AnalysisConfig struct {
	// IncludePatterns specifies file patterns to include
	IncludePatterns []string `json:"include_patterns" mapstructure:"include_patterns" yaml:"include_patterns"`

	// ExcludePatterns specifies file patterns to exclude
	ExcludePatterns []string `json:"exclude_patterns" mapstructure:"exclude_patterns" yaml:"exclude_patterns"`

	// Recursive controls whether to analyze directories recursively
	Recursive bool `json:"recursive" mapstructure:"recursive" yaml:"recursive"`

	// RespectGitignore skips files matched by .gitignore
	RespectGitignore bool `json:"respect_gitignore" mapstructure:"respect_gitignore" yaml:"respect_gitignore"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Guard: GuardConfig{
			TimeoutSeconds:         DefaultParseTimeoutSeconds,
			BreakerThreshold:       DefaultBreakerThreshold,
			BreakerRecoverySeconds: DefaultBreakerRecoverySeconds,
		},
		Gate: GateConfig{
			MaxConcurrent:  DefaultMaxConcurrent,
			MaxSourceBytes: DefaultMaxSourceBytes,
			MaxTotalBytes:  DefaultMaxTotalBytes,
		},
		Analyzer: AnalyzerConfig{
			MaxFunctionLines: DefaultMaxFunctionLines,
			MaxNestingDepth:  DefaultMaxNestingDepth,
		},
		Scoring: ScoringConfig{
			HistorySize: DefaultHistorySize,
		},
		Output: OutputConfig{
			Format:      "text",
			ShowDetails: false,
			SortBy:      "line",
		},
		Analysis: AnalysisConfig{
			IncludePatterns: []string{
				"**/*.js", "**/*.ts", "**/*.jsx", "**/*.tsx",
				"**/*.mjs", "**/*.cjs", "**/*.mts", "**/*.cts",
			},
			ExcludePatterns: []string{
				"node_modules",
				"vendor",
				"dist",
				"build",
				"out",
				".next",
				".nuxt",
				".cache",
				"coverage",
				".git",
				"*.min.js",
				"*.min.mjs",
				"*.min.cjs",
				"*.bundle.js",
				"*.map",
			},
			Recursive:        true,
			RespectGitignore: true,
		},
	}
}

// LoadConfig loads configuration from file or returns default config
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigWithTarget(configPath, "")
}

// LoadConfigWithTarget loads configuration with target path context: an
// explicit path wins, otherwise discovery walks up from the target
func LoadConfigWithTarget(configPath string, targetPath string) (*Config, error) {
	if configPath == "" {
		configPath = findDefaultConfig(targetPath)
	}
	return loadConfigFromFile(configPath)
}

func loadConfigFromFile(configPath string) (*Config, error) {
	if configPath == "" {
		return DefaultConfig(), nil
	}

	// New viper instance per load to avoid shared state
	v := viper.New()
	config := DefaultConfig()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// searchConfigInDirectory searches for configuration files in a specific directory
func searchConfigInDirectory(dir string, candidates []string) string {
	for _, candidate := range candidates {
		path := filepath.Join(dir, candidate)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// findDefaultConfig looks for configuration files in common locations.
// targetPath is the path being analyzed; the search walks from there up
// to the filesystem root, then falls back to XDG and home locations.
func findDefaultConfig(targetPath string) string {
	candidates := []string{
		constants.ConfigFileName,
		"hive.yml",
		".hive.yaml",
		".hive.yml",
		"hive.json",
		".hive.json",
	}

	if targetPath != "" {
		absPath, err := filepath.Abs(targetPath)
		if err == nil {
			info, err := os.Stat(absPath)
			if err == nil && !info.IsDir() {
				absPath = filepath.Dir(absPath)
			}

			// Walk upward with termination that also handles Windows
			// volume roots and UNC paths
			volume := filepath.VolumeName(absPath)
			for dir := absPath; ; dir = filepath.Dir(dir) {
				if config := searchConfigInDirectory(dir, candidates); config != "" {
					return config
				}

				parent := filepath.Dir(dir)
				if parent == dir ||
					dir == volume ||
					(volume != "" && dir == volume+string(filepath.Separator)) {
					break
				}
			}
		}
	}

	if config := searchConfigInDirectory(".", candidates); config != "" {
		return config
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		if config := searchConfigInDirectory(filepath.Join(xdgConfig, constants.ToolName), candidates); config != "" {
			return config
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		configDir := filepath.Join(home, ".config", constants.ToolName)
		if config := searchConfigInDirectory(configDir, candidates); config != "" {
			return config
		}

		if config := searchConfigInDirectory(home, candidates); config != "" {
			return config
		}
	}

	if envConfig := os.Getenv(constants.EnvVarPrefix + "_CONFIG"); envConfig != "" {
		if _, err := os.Stat(envConfig); err == nil {
			return envConfig
		}
	}

	return ""
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if c.Guard.TimeoutSeconds < 1 {
		return fmt.Errorf("guard.timeout_seconds must be >= 1, got %d", c.Guard.TimeoutSeconds)
	}
	if c.Guard.BreakerThreshold < 1 {
		return fmt.Errorf("guard.breaker_threshold must be >= 1, got %d", c.Guard.BreakerThreshold)
	}
	if c.Guard.BreakerRecoverySeconds < 1 {
		return fmt.Errorf("guard.breaker_recovery_seconds must be >= 1, got %d", c.Guard.BreakerRecoverySeconds)
	}

	if c.Gate.MaxConcurrent < 1 {
		return fmt.Errorf("gate.max_concurrent must be >= 1, got %d", c.Gate.MaxConcurrent)
	}
	if c.Gate.MaxSourceBytes < 1 {
		return fmt.Errorf("gate.max_source_bytes must be >= 1, got %d", c.Gate.MaxSourceBytes)
	}
	if c.Gate.MaxTotalBytes < c.Gate.MaxSourceBytes {
		return fmt.Errorf("gate.max_total_bytes (%d) must be >= max_source_bytes (%d)",
			c.Gate.MaxTotalBytes, c.Gate.MaxSourceBytes)
	}

	if c.Analyzer.MaxFunctionLines < 1 {
		return fmt.Errorf("analyzer.max_function_lines must be >= 1, got %d", c.Analyzer.MaxFunctionLines)
	}
	if c.Analyzer.MaxNestingDepth < 1 {
		return fmt.Errorf("analyzer.max_nesting_depth must be >= 1, got %d", c.Analyzer.MaxNestingDepth)
	}

	if c.Scoring.HistorySize < 1 {
		return fmt.Errorf("scoring.history_size must be >= 1, got %d", c.Scoring.HistorySize)
	}

	validFormats := map[string]bool{
		"text": true,
		"json": true,
		"yaml": true,
		"csv":  true,
	}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("invalid output.format '%s', must be one of: text, json, yaml, csv", c.Output.Format)
	}

	validSortBy := map[string]bool{
		"line":     true,
		"severity": true,
		"score":    true,
		"file":     true,
	}
	if !validSortBy[c.Output.SortBy] {
		return fmt.Errorf("invalid output.sort_by '%s', must be one of: line, severity, score, file", c.Output.SortBy)
	}

	if c.Output.TopViolations < 0 {
		return fmt.Errorf("output.top_violations must be >= 0, got %d", c.Output.TopViolations)
	}

	if len(c.Analysis.IncludePatterns) == 0 {
		return fmt.Errorf("analysis.include_patterns cannot be empty")
	}

	return nil
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("guard", config.Guard)
	v.Set("gate", config.Gate)
	v.Set("analyzer", config.Analyzer)
	v.Set("scoring", config.Scoring)
	v.Set("output", config.Output)
	v.Set("analysis", config.Analysis)

	return v.WriteConfig()
}

package config

import "strconv"

// ProjectType represents the type of JavaScript/TypeScript project
type ProjectType string

const (
	ProjectTypeGeneric     ProjectType = "generic"
	ProjectTypeReact       ProjectType = "react"
	ProjectTypeVue         ProjectType = "vue"
	ProjectTypeNodeBackend ProjectType = "node"
)

// Strictness represents the scoring strictness level
type Strictness string

const (
	StrictnessRelaxed  Strictness = "relaxed"
	StrictnessStandard Strictness = "standard"
	StrictnessStrict   Strictness = "strict"
)

// ProjectPreset holds file-scope presets for different project types
type ProjectPreset struct {
	IncludePatterns []string
	ExcludePatterns []string
}

// StrictnessPreset holds detector thresholds and parse-guard tuning
// for different strictness levels
type StrictnessPreset struct {
	MaxFunctionLines    int
	MaxNestingDepth     int
	ParseTimeoutSeconds int
	BreakerThreshold    int
}

// TemplateOptions selects the presets baked into a generated config
type TemplateOptions struct {
	Project    ProjectType
	Strictness Strictness
	Format     string
}

// GetProjectPresets returns presets for different project types
func GetProjectPresets() map[ProjectType]ProjectPreset {
	return map[ProjectType]ProjectPreset{
		ProjectTypeGeneric: {
			IncludePatterns: []string{
				"**/*.js",
				"**/*.ts",
				"**/*.jsx",
				"**/*.tsx",
			},
			ExcludePatterns: []string{
				"**/node_modules/**",
				"**/dist/**",
				"**/build/**",
				"**/*.min.js",
				"**/*.bundle.js",
			},
		},
		ProjectTypeReact: {
			IncludePatterns: []string{
				"**/*.js",
				"**/*.ts",
				"**/*.jsx",
				"**/*.tsx",
			},
			ExcludePatterns: []string{
				"**/node_modules/**",
				"**/dist/**",
				"**/build/**",
				"**/.next/**",
				"**/coverage/**",
				"**/*.min.js",
				"**/*.bundle.js",
			},
		},
		ProjectTypeVue: {
			IncludePatterns: []string{
				"**/*.js",
				"**/*.ts",
				"**/*.jsx",
				"**/*.tsx",
				"**/*.vue",
			},
			ExcludePatterns: []string{
				"**/node_modules/**",
				"**/dist/**",
				"**/build/**",
				"**/.nuxt/**",
				"**/coverage/**",
				"**/*.min.js",
				"**/*.bundle.js",
			},
		},
		ProjectTypeNodeBackend: {
			IncludePatterns: []string{
				"**/*.js",
				"**/*.ts",
				"**/*.mjs",
				"**/*.cjs",
			},
			ExcludePatterns: []string{
				"**/node_modules/**",
				"**/dist/**",
				"**/build/**",
				"**/test/**",
				"**/tests/**",
				"**/__tests__/**",
				"**/*.min.js",
				"**/*.bundle.js",
			},
		},
	}
}

// GetStrictnessPresets returns presets for different strictness levels
func GetStrictnessPresets() map[Strictness]StrictnessPreset {
	return map[Strictness]StrictnessPreset{
		StrictnessRelaxed: {
			MaxFunctionLines:    75,
			MaxNestingDepth:     6,
			ParseTimeoutSeconds: 60,
			BreakerThreshold:    8,
		},
		StrictnessStandard: {
			MaxFunctionLines:    DefaultMaxFunctionLines,
			MaxNestingDepth:     DefaultMaxNestingDepth,
			ParseTimeoutSeconds: DefaultParseTimeoutSeconds,
			BreakerThreshold:    DefaultBreakerThreshold,
		},
		StrictnessStrict: {
			MaxFunctionLines:    30,
			MaxNestingDepth:     3,
			ParseTimeoutSeconds: 15,
			BreakerThreshold:    3,
		},
	}
}

// GetFullConfigTemplate returns the documented YAML config template.
// Zero-valued options fall back to generic/standard/text.
func GetFullConfigTemplate(opts TemplateOptions) string {
	if opts.Project == "" {
		opts.Project = ProjectTypeGeneric
	}
	if opts.Strictness == "" {
		opts.Strictness = StrictnessStandard
	}
	if opts.Format == "" {
		opts.Format = "text"
	}

	preset := GetProjectPresets()[opts.Project]
	strict := GetStrictnessPresets()[opts.Strictness]

	includePatterns := formatYAMLList(preset.IncludePatterns)
	excludePatterns := formatYAMLList(preset.ExcludePatterns)

	return `# hive configuration
# Documentation: https://github.com/hivetools/hive

# ==============================================================================
# DETECTOR THRESHOLDS
# ==============================================================================
analyzer:
  # Statement limit per function before a long-function violation
  max_function_lines: ` + strconv.Itoa(strict.MaxFunctionLines) + `

  # Control-flow nesting limit per function
  max_nesting_depth: ` + strconv.Itoa(strict.MaxNestingDepth) + `

# ==============================================================================
# PARSE GUARD
# ==============================================================================
guard:
  # Seconds before a single parse is abandoned
  timeout_seconds: ` + strconv.Itoa(strict.ParseTimeoutSeconds) + `

  # Consecutive parser failures before the circuit breaker opens
  breaker_threshold: ` + strconv.Itoa(strict.BreakerThreshold) + `

  # Seconds the breaker stays open before probing again
  breaker_recovery_seconds: ` + strconv.Itoa(DefaultBreakerRecoverySeconds) + `

# ==============================================================================
# RESOURCE CEILINGS
# ==============================================================================
gate:
  # Simultaneous file analyses
  max_concurrent: ` + strconv.Itoa(DefaultMaxConcurrent) + `

  # Largest single source file in bytes
  max_source_bytes: ` + strconv.Itoa(DefaultMaxSourceBytes) + `

  # Total bytes of source held in memory at once
  max_total_bytes: ` + strconv.Itoa(DefaultMaxTotalBytes) + `

# ==============================================================================
# SCORING
# ==============================================================================
scoring:
  # Retained runs per file for the AGRO baseline
  history_size: ` + strconv.Itoa(DefaultHistorySize) + `

# ==============================================================================
# OUTPUT
# ==============================================================================
output:
  # Output format: text, json, yaml, csv
  format: ` + opts.Format + `

  # Show per-violation breakdowns
  show_details: true

  # Sort violations by: line, severity, score, file
  sort_by: line

# ==============================================================================
# ANALYSIS SCOPE
# ==============================================================================
analysis:
  include_patterns:
` + includePatterns + `
  exclude_patterns:
` + excludePatterns + `
  recursive: true
  respect_gitignore: true
`
}

// GetMinimalConfigTemplate returns a minimal config template
func GetMinimalConfigTemplate() string {
	return `# hive configuration (minimal)
# See full options: https://github.com/hivetools/hive

analyzer:
  max_function_lines: 50
  max_nesting_depth: 4

output:
  format: text

analysis:
  include_patterns:
    - "**/*.js"
    - "**/*.ts"
    - "**/*.jsx"
    - "**/*.tsx"
  exclude_patterns:
    - "**/node_modules/**"
    - "**/dist/**"
`
}

// formatYAMLList formats a string slice as an indented YAML list
func formatYAMLList(items []string) string {
	result := ""
	for _, item := range items {
		result += `    - "` + item + "\"\n"
	}
	return result
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hivetools/hive/app"
	"github.com/hivetools/hive/domain"
	"github.com/hivetools/hive/internal/config"
	"github.com/hivetools/hive/service"
	"github.com/spf13/cobra"
)

var (
	scoreFormat       string
	scoreJSON         bool
	scoreOutputPath   string
	scoreConfigPath   string
	scoreSortBy       string
	scoreTop          int
	scoreDetails      bool
	scoreMaxFnLines   int
	scoreMaxNesting   int
	scoreTimeout      int
	scoreNoRecursive  bool
	scoreNoGitignore  bool
	scoreExcludeGlobs []string
)

func scoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score [path...]",
		Short: "Score JavaScript/TypeScript files for code quality",
		Long: `Score JavaScript/TypeScript files for code quality.

Each file gets a PAIN score (current-state quality) and an AGRO score
(quality relative to the previous run), both on a 0-100 scale.

Examples:
  hive score src/
  hive score --json src/
  hive score --sort score --top 10 src/
  hive score --max-function-lines 30 --max-nesting-depth 3 src/`,
		RunE: runScore,
	}

	cmd.Flags().StringVarP(&scoreFormat, "format", "f", "text",
		"Output format: text, json, yaml, csv")
	cmd.Flags().BoolVar(&scoreJSON, "json", false,
		"Output results as JSON (shorthand for --format json)")
	cmd.Flags().StringVarP(&scoreOutputPath, "output", "o", "",
		"Output file path (default: stdout)")
	cmd.Flags().StringVarP(&scoreConfigPath, "config", "c", "",
		"Path to config file")
	cmd.Flags().StringVar(&scoreSortBy, "sort", "score",
		"Sort files by: line, severity, score, file")
	cmd.Flags().IntVar(&scoreTop, "top", 0,
		"Limit each file's report to the N worst violations (0 = all)")
	cmd.Flags().BoolVar(&scoreDetails, "details", false,
		"Show per-violation details")
	cmd.Flags().IntVar(&scoreMaxFnLines, "max-function-lines", 0,
		"Statement count above which a function is flagged (0 = config default)")
	cmd.Flags().IntVar(&scoreMaxNesting, "max-nesting-depth", 0,
		"Nesting depth above which a function is flagged (0 = config default)")
	cmd.Flags().IntVar(&scoreTimeout, "timeout", 0,
		"Per-file parse timeout in seconds (0 = config default)")
	cmd.Flags().BoolVar(&scoreNoRecursive, "no-recursive", false,
		"Don't descend into subdirectories")
	cmd.Flags().BoolVar(&scoreNoGitignore, "no-gitignore", false,
		"Don't respect .gitignore files when collecting sources")
	cmd.Flags().StringSliceVar(&scoreExcludeGlobs, "exclude", nil,
		"Additional exclude patterns (comma-separated)")

	return cmd
}

func runScore(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no paths specified")
	}

	// Determine output format
	format := domain.OutputFormat(scoreFormat)
	if scoreJSON {
		format = domain.OutputFormatJSON
	}

	// Load configuration (flags override file values)
	cfg, err := config.LoadConfigWithTarget(scoreConfigPath, args[0])
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	loader := service.NewConfigurationLoader()
	base := loader.LoadDefaultConfig()
	if scoreConfigPath != "" {
		base, err = loader.LoadConfig(scoreConfigPath)
		if err != nil {
			return err
		}
	}

	writer, closeWriter, err := openOutputWriter(scoreOutputPath)
	if err != nil {
		return err
	}
	defer closeWriter()

	override := &domain.ScoreRequest{
		Paths:            args,
		OutputFormat:     format,
		OutputWriter:     writer,
		ShowDetails:      scoreDetails,
		SortBy:           domain.SortCriteria(scoreSortBy),
		TopViolations:    scoreTop,
		TimeoutSeconds:   scoreTimeout,
		MaxFunctionLines: scoreMaxFnLines,
		MaxNestingDepth:  scoreMaxNesting,
		ConfigPath:       scoreConfigPath,
		ExcludePatterns:  scoreExcludeGlobs,
	}
	req := loader.MergeConfig(base, override)
	req.Recursive = !scoreNoRecursive

	// Progress bars interleave badly with reports on the same stream.
	pm := service.NewProgressManager(format == domain.OutputFormatText && scoreOutputPath == "")
	defer pm.Close()

	svc := service.NewScoreServiceWithProgress(cfg, pm)
	useCase := app.NewScoreUseCase(svc, service.NewOutputFormatter(), loader).
		WithFileHelper(app.NewFileHelperWithOptions(!scoreNoGitignore))

	_, err = useCase.Execute(context.Background(), *req)
	return err
}

// openOutputWriter returns stdout when path is empty, otherwise the
// created file together with a close func.
func openOutputWriter(path string) (*os.File, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return file, func() { file.Close() }, nil
}

// Package app wires the domain services into the operations the CLI
// exposes.
package app

import (
	"context"
	"fmt"

	"github.com/hivetools/hive/domain"
)

// ScoreUseCase orchestrates a scoring run: collect files, score them,
// format the result
type ScoreUseCase struct {
	service    domain.ScoreService
	formatter  domain.OutputFormatter
	configLdr  domain.ConfigurationLoader
	fileHelper *FileHelper
}

// NewScoreUseCase creates a new score use case
func NewScoreUseCase(
	service domain.ScoreService,
	formatter domain.OutputFormatter,
	configLoader domain.ConfigurationLoader,
) *ScoreUseCase {
	return &ScoreUseCase{
		service:   service,
		formatter: formatter,
		configLdr: configLoader,
	}
}

// WithFileHelper overrides the default file helper
func (uc *ScoreUseCase) WithFileHelper(helper *FileHelper) *ScoreUseCase {
	uc.fileHelper = helper
	return uc
}

// Execute runs the scoring pipeline and writes the formatted report
func (uc *ScoreUseCase) Execute(ctx context.Context, req domain.ScoreRequest) (*domain.ScoreResponse, error) {
	response, err := uc.Score(ctx, req)
	if err != nil {
		return nil, err
	}

	if req.OutputWriter != nil {
		if err := uc.formatter.Write(response, req.OutputFormat, req.OutputWriter); err != nil {
			return nil, domain.NewOutputError("failed to write output", err)
		}
	}

	return response, nil
}

// Score runs the scoring pipeline without formatting
func (uc *ScoreUseCase) Score(ctx context.Context, req domain.ScoreRequest) (*domain.ScoreResponse, error) {
	if err := uc.validateRequest(req); err != nil {
		return nil, err
	}

	helper := uc.fileHelper
	if helper == nil {
		helper = NewFileHelper()
	}

	files, err := ResolveFilePaths(helper, req.Paths, req.Recursive, req.ExcludePatterns)
	if err != nil {
		return nil, domain.NewFileNotFoundError(fmt.Sprintf("%v", req.Paths), err)
	}
	if len(files) == 0 {
		return nil, domain.NewInvalidInputError("no JavaScript/TypeScript files found in the specified paths", nil)
	}

	scoreReq := req
	scoreReq.Paths = files

	response, err := uc.service.Analyze(ctx, scoreReq)
	if err != nil {
		return nil, err
	}
	return response, nil
}

func (uc *ScoreUseCase) validateRequest(req domain.ScoreRequest) error {
	if len(req.Paths) == 0 {
		return domain.NewInvalidInputError("no input paths specified", nil)
	}
	if req.TopViolations < 0 {
		return domain.NewInvalidInputError("top violations count cannot be negative", nil)
	}
	return nil
}

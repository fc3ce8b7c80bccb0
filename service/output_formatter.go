package service

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hivetools/hive/domain"
)

// OutputFormatterImpl implements the OutputFormatter interface
type OutputFormatterImpl struct{}

// NewOutputFormatter creates a new output formatter
func NewOutputFormatter() *OutputFormatterImpl {
	return &OutputFormatterImpl{}
}

// Format formats the response according to the specified format
func (f *OutputFormatterImpl) Format(response *domain.ScoreResponse, format domain.OutputFormat) (string, error) {
	var sb strings.Builder
	if err := f.Write(response, format, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Write writes the scoring response in the specified format
func (f *OutputFormatterImpl) Write(response *domain.ScoreResponse, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		return writeJSON(writer, response)
	case domain.OutputFormatYAML:
		return writeYAML(writer, response)
	case domain.OutputFormatCSV:
		return f.writeCSV(response, writer)
	case domain.OutputFormatText, "":
		return f.writeText(response, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// writeJSON writes data as indented JSON to the writer
func writeJSON(writer io.Writer, data interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// writeYAML writes data as YAML to the writer
func writeYAML(writer io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(writer)
	defer encoder.Close()
	encoder.SetIndent(2)
	return encoder.Encode(data)
}

// writeCSV writes one row per file with the headline numbers
func (f *OutputFormatterImpl) writeCSV(response *domain.ScoreResponse, writer io.Writer) error {
	w := csv.NewWriter(writer)

	header := []string{"file", "pain_score", "agro_score", "severity", "exemplary", "violations", "analysis_successful"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, file := range response.Files {
		row := []string{
			file.FilePath,
			strconv.Itoa(file.PainScore),
			strconv.Itoa(file.AgroScore),
			string(file.Severity),
			strconv.FormatBool(file.Exemplary),
			strconv.Itoa(len(file.Violations)),
			strconv.FormatBool(file.AnalysisSuccessful),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// writeText writes the scoring response as a plain text report
func (f *OutputFormatterImpl) writeText(response *domain.ScoreResponse, writer io.Writer) error {
	fmt.Fprintf(writer, "\n=== Code Quality Report ===\n\n")
	fmt.Fprintf(writer, "Generated: %s\n", response.GeneratedAt)
	fmt.Fprintf(writer, "Version: %s\n\n", response.Version)

	fmt.Fprintf(writer, "Summary:\n")
	fmt.Fprintf(writer, "  Files analyzed: %d\n", response.Summary.FilesAnalyzed)
	fmt.Fprintf(writer, "  Files failed: %d\n", response.Summary.FilesFailed)
	fmt.Fprintf(writer, "  Average PAIN: %.1f\n", response.Summary.AveragePain)
	fmt.Fprintf(writer, "  Average AGRO: %.1f\n", response.Summary.AverageAgro)
	fmt.Fprintf(writer, "  Exemplary files: %d\n", response.Summary.ExemplaryFiles)
	fmt.Fprintf(writer, "  Total violations: %d\n", response.Summary.TotalViolations)
	fmt.Fprintf(writer, "\n")

	if len(response.Summary.TierDistribution) > 0 {
		fmt.Fprintf(writer, "Tier Distribution:\n")
		for _, tier := range []domain.SeverityTier{
			domain.TierExemplary, domain.TierGood, domain.TierAcceptable,
			domain.TierConcerning, domain.TierCritical,
		} {
			if count := response.Summary.TierDistribution[tier]; count > 0 {
				fmt.Fprintf(writer, "  %s: %d\n", tier, count)
			}
		}
		fmt.Fprintf(writer, "\n")
	}

	for _, file := range response.Files {
		f.writeFileText(&file, writer)
	}

	if len(response.Warnings) > 0 {
		fmt.Fprintf(writer, "\nWarnings:\n")
		for _, w := range response.Warnings {
			fmt.Fprintf(writer, "  - %s\n", w)
		}
	}

	if len(response.Errors) > 0 {
		fmt.Fprintf(writer, "\nErrors:\n")
		for _, e := range response.Errors {
			fmt.Fprintf(writer, "  - %s\n", e)
		}
	}

	return nil
}

func (f *OutputFormatterImpl) writeFileText(file *domain.FileScore, writer io.Writer) {
	marker := ""
	if file.Exemplary {
		marker = " ★"
	}
	if !file.AnalysisSuccessful {
		marker = " [FAILED]"
	}

	fmt.Fprintf(writer, "%s%s\n", file.FilePath, marker)
	fmt.Fprintf(writer, "  PAIN: %d  AGRO: %d  [%s]\n", file.PainScore, file.AgroScore, file.Severity)

	for _, insight := range file.Insights {
		fmt.Fprintf(writer, "  %s\n", insight)
	}

	if len(file.Violations) > 0 {
		fmt.Fprintf(writer, "  Violations:\n")
		for _, v := range file.Violations {
			if v.Line > 0 {
				fmt.Fprintf(writer, "    line %d: %s [%s] %s\n", v.Line, v.Kind, v.Severity, v.Message)
			} else {
				fmt.Fprintf(writer, "    %s [%s] %s\n", v.Kind, v.Severity, v.Message)
			}
		}
	}

	if file.CircuitBreakerStatus != nil {
		fmt.Fprintf(writer, "  Breaker: %s (%d failures)\n",
			file.CircuitBreakerStatus.State, file.CircuitBreakerStatus.FailureCount)
	}

	for _, rec := range file.Recommendations {
		fmt.Fprintf(writer, "  Hint: %s\n", rec)
	}

	fmt.Fprintf(writer, "\n")
}

package service

import (
	"context"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/hivetools/hive/domain"
	"github.com/hivetools/hive/internal/config"
	"github.com/hivetools/hive/internal/testutil"
)

const cleanSource = `function add(a, b) {
	if (a < 0) {
		return b;
	}
	return a + b;
}

function sub(a, b) {
	return a - b;
}
`

func TestAnalyzeSourceCleanFile(t *testing.T) {
	svc := NewScoreService(config.DefaultConfig())

	score := svc.AnalyzeSource(context.Background(), "clean.js", []byte(cleanSource), domain.ScoreRequest{})

	if !score.AnalysisSuccessful {
		t.Fatal("Expected successful analysis")
	}
	if score.PainScore != 100 {
		t.Errorf("Expected PAIN 100, got %d", score.PainScore)
	}
	if score.AgroScore != 100 {
		t.Errorf("Expected AGRO 100, got %d", score.AgroScore)
	}
	if score.Severity != domain.TierExemplary {
		t.Errorf("Expected exemplary tier, got %s", score.Severity)
	}
	if !score.Exemplary {
		t.Error("Expected exemplary flag")
	}
	if len(score.Violations) != 0 {
		t.Errorf("Expected no violations, got %+v", score.Violations)
	}
	if score.TotalLines != 10 {
		t.Errorf("Expected 10 total lines, got %d", score.TotalLines)
	}
}

func TestAnalyzeSourceLoggingViolation(t *testing.T) {
	svc := NewScoreService(config.DefaultConfig())
	source := []byte("function f(x) {\n\tconsole.log(x);\n\treturn x;\n}\n")

	score := svc.AnalyzeSource(context.Background(), "logs.js", source, domain.ScoreRequest{})

	if len(score.Violations) != 1 {
		t.Fatalf("Expected 1 violation, got %d", len(score.Violations))
	}
	if score.Violations[0].Kind != domain.ViolationLoggingCall {
		t.Errorf("Expected logging-call, got %s", score.Violations[0].Kind)
	}
	if score.PainScore > 90 {
		t.Errorf("PAIN should drop by at least the high-severity penalty, got %d", score.PainScore)
	}
}

func TestAnalyzeSourceSyntaxError(t *testing.T) {
	svc := NewScoreService(config.DefaultConfig())

	before := svc.guard.Breaker().FailureCount()
	score := svc.AnalyzeSource(context.Background(), "bad.js", []byte(`function broken( {`), domain.ScoreRequest{})

	if score.AnalysisSuccessful {
		t.Fatal("Expected failed analysis")
	}
	if len(score.Violations) != 1 || score.Violations[0].Kind != domain.ViolationSyntaxError {
		t.Fatalf("Expected one syntax-error violation, got %+v", score.Violations)
	}
	if score.PainScore != 0 || score.AgroScore != 0 {
		t.Errorf("Expected zero scores, got pain=%d agro=%d", score.PainScore, score.AgroScore)
	}
	if svc.guard.Breaker().FailureCount() != before {
		t.Error("Syntax error must leave the breaker failure count unchanged")
	}
	if score.CircuitBreakerStatus == nil {
		t.Error("Expected breaker status on a failed analysis")
	}
}

func TestAnalyzeSourceDeterministic(t *testing.T) {
	source := []byte(`
function messy(x) {
	console.log(x);
	if (x) {
		console.warn(x);
	}
	return x;
}
`)

	var first *domain.FileScore
	for run := 0; run < 3; run++ {
		// Fresh service each run so history does not shift the baseline.
		svc := NewScoreService(config.DefaultConfig())
		score := svc.AnalyzeSource(context.Background(), "messy.js", source, domain.ScoreRequest{})

		if run == 0 {
			first = score
			continue
		}
		if score.PainScore != first.PainScore || score.AgroScore != first.AgroScore {
			t.Errorf("Run %d: scores differ: %d/%d vs %d/%d",
				run, score.PainScore, score.AgroScore, first.PainScore, first.AgroScore)
		}
		if !reflect.DeepEqual(score.Violations, first.Violations) {
			t.Errorf("Run %d: violation lists differ", run)
		}
	}
}

func TestAnalyzeSourceAgroUsesPriorBaseline(t *testing.T) {
	svc := NewScoreService(config.DefaultConfig())
	clean := []byte(cleanSource)
	dirty := []byte("function f(x) {\n\tconsole.log(x);\n\treturn x;\n}\n")

	// First run establishes a 100-point baseline.
	first := svc.AnalyzeSource(context.Background(), "app.js", clean, domain.ScoreRequest{})
	if first.AgroScore != 100 {
		t.Fatalf("Expected baseline 100, got %d", first.AgroScore)
	}

	// Second run regresses: one high violation costs 10 off the baseline.
	second := svc.AnalyzeSource(context.Background(), "app.js", dirty, domain.ScoreRequest{})
	if second.AgroScore != 90 {
		t.Errorf("Expected AGRO 90 (baseline 100 - 10), got %d", second.AgroScore)
	}
}

func TestAnalyzeSourceAgroZeroAfterFailedPrior(t *testing.T) {
	svc := NewScoreService(config.DefaultConfig())

	// Prior run fails to parse.
	svc.AnalyzeSource(context.Background(), "app.js", []byte(`function broken( {`), domain.ScoreRequest{})

	// A clean follow-up is pinned to zero AGRO; PAIN is unaffected.
	score := svc.AnalyzeSource(context.Background(), "app.js", []byte(cleanSource), domain.ScoreRequest{})
	if score.AgroScore != 0 {
		t.Errorf("AGRO after failed prior should be 0, got %d", score.AgroScore)
	}
	if score.PainScore != 100 {
		t.Errorf("PAIN should ignore history, got %d", score.PainScore)
	}
}

func TestAnalyzeSourceOversizedFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Gate.MaxSourceBytes = 16
	cfg.Gate.MaxTotalBytes = 64
	svc := NewScoreService(cfg)

	score := svc.AnalyzeSource(context.Background(), "big.js", []byte(cleanSource), domain.ScoreRequest{})

	if score.AnalysisSuccessful {
		t.Fatal("Expected failed analysis for oversized file")
	}
	if len(score.Violations) != 1 || score.Violations[0].Kind != domain.ViolationResourceExceeded {
		t.Fatalf("Expected resource-exceeded violation, got %+v", score.Violations)
	}
	if len(score.Recommendations) == 0 {
		t.Error("Expected a recommendation on gate rejection")
	}
	if svc.gate.Active() != 0 {
		t.Errorf("Gate must not leak slots on rejection, got %d active", svc.gate.Active())
	}
}

func TestAnalyzeSourceGateReleased(t *testing.T) {
	svc := NewScoreService(config.DefaultConfig())

	svc.AnalyzeSource(context.Background(), "a.js", []byte(cleanSource), domain.ScoreRequest{})
	svc.AnalyzeSource(context.Background(), "b.js", []byte(`function broken( {`), domain.ScoreRequest{})

	if svc.gate.Active() != 0 {
		t.Errorf("Expected 0 active after analyses, got %d", svc.gate.Active())
	}
	if svc.gate.TotalBytes() != 0 {
		t.Errorf("Expected 0 bytes in flight after analyses, got %d", svc.gate.TotalBytes())
	}
}

func TestAnalyzeBatch(t *testing.T) {
	dir := t.TempDir()
	clean := testutil.WriteSourceFile(t, dir, "clean.js", cleanSource)
	noisy := testutil.WriteSourceFile(t, dir, "noisy.js", "function f(x) {\n\tconsole.log(x);\n\treturn x;\n}\n")
	broken := testutil.WriteSourceFile(t, dir, "broken.js", `function broken( {`)

	svc := NewScoreService(config.DefaultConfig())
	resp, err := svc.Analyze(context.Background(), domain.ScoreRequest{
		Paths:  []string{clean, noisy, broken},
		SortBy: domain.SortByFile,
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(resp.Files) != 3 {
		t.Fatalf("Expected 3 file scores, got %d", len(resp.Files))
	}
	if resp.Summary.FilesAnalyzed != 2 {
		t.Errorf("Expected 2 analyzed, got %d", resp.Summary.FilesAnalyzed)
	}
	if resp.Summary.FilesFailed != 1 {
		t.Errorf("Expected 1 failed, got %d", resp.Summary.FilesFailed)
	}
	if resp.Summary.ExemplaryFiles != 1 {
		t.Errorf("Expected 1 exemplary file, got %d", resp.Summary.ExemplaryFiles)
	}

	// SortByFile orders results by path.
	for i := 1; i < len(resp.Files); i++ {
		if resp.Files[i-1].FilePath > resp.Files[i].FilePath {
			t.Errorf("Files not sorted by path: %s before %s", resp.Files[i-1].FilePath, resp.Files[i].FilePath)
		}
	}
}

func TestAnalyzeEmptyRequest(t *testing.T) {
	svc := NewScoreService(config.DefaultConfig())

	_, err := svc.Analyze(context.Background(), domain.ScoreRequest{})
	if err == nil {
		t.Fatal("Expected error for empty path list")
	}
	if !strings.Contains(err.Error(), "no files") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestAnalyzeMissingFile(t *testing.T) {
	svc := NewScoreService(config.DefaultConfig())

	resp, err := svc.Analyze(context.Background(), domain.ScoreRequest{
		Paths: []string{filepath.Join(t.TempDir(), "absent.js")},
	})
	if err != nil {
		t.Fatalf("Missing files should not fail the batch: %v", err)
	}
	if resp.Summary.FilesFailed != 1 {
		t.Errorf("Expected 1 failed file, got %d", resp.Summary.FilesFailed)
	}
	if len(resp.Errors) != 1 {
		t.Errorf("Expected 1 batch error, got %v", resp.Errors)
	}
}

func TestAnalyzeSourceTopViolationsTruncation(t *testing.T) {
	svc := NewScoreService(config.DefaultConfig())
	source := []byte("console.log(1);\nconsole.warn(2);\nconsole.error(3);\n")

	score := svc.AnalyzeSource(context.Background(), "noisy.js", source, domain.ScoreRequest{TopViolations: 2})

	if len(score.Violations) != 2 {
		t.Errorf("Expected 2 violations after truncation, got %d", len(score.Violations))
	}
}

func TestTruncationDoesNotAffectDerivedFields(t *testing.T) {
	svc := NewScoreService(config.DefaultConfig())
	// Two violation kinds: logging-call plus an explicit any annotation.
	source := []byte("function f(x: any) {\n\tconsole.log(x);\n\treturn x;\n}\n")

	score := svc.AnalyzeSource(context.Background(), "mixed.ts", source, domain.ScoreRequest{TopViolations: 1})

	if len(score.Violations) != 1 {
		t.Fatalf("Expected 1 reported violation, got %d", len(score.Violations))
	}
	if len(score.Recommendations) != 2 {
		t.Errorf("Recommendations must cover all violation kinds, got %v", score.Recommendations)
	}
}

func TestCountLines(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   int
	}{
		{"empty", "", 0},
		{"single line no newline", "const x = 1;", 1},
		{"single line with newline", "const x = 1;\n", 1},
		{"three lines", "a\nb\nc\n", 3},
		{"trailing fragment", "a\nb\nc", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := countLines([]byte(tt.source)); got != tt.want {
				t.Errorf("countLines(%q) = %d, want %d", tt.source, got, tt.want)
			}
		})
	}
}

func TestAnalyzeSourceTrendInsight(t *testing.T) {
	svc := NewScoreService(config.DefaultConfig())
	dirty := []byte("function f(x) {\n\tconsole.log(x);\n\treturn x;\n}\n")

	svc.AnalyzeSource(context.Background(), "trend.js", []byte(cleanSource), domain.ScoreRequest{})
	score := svc.AnalyzeSource(context.Background(), "trend.js", dirty, domain.ScoreRequest{})

	found := false
	for _, insight := range score.Insights {
		if strings.Contains(insight, "declining") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected a declining trend insight, got %v", score.Insights)
	}
}

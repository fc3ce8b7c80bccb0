package analyzer

import (
	"fmt"

	"github.com/hivetools/hive/domain"
)

// Scoring constants. Density penalties scale violation count against
// file size; severity penalties are flat per violation.
const (
	penaltyCritical = 20
	penaltyHigh     = 10
	penaltyMedium   = 5

	densityPenaltyCap = 50
	densityScale      = 10

	divergenceThreshold = 20

	maxScore = 100
)

// CalculatePainScore computes the prior-free quality score for a file.
// An empty file scores 0.
func CalculatePainScore(totalLines int, violations []domain.Violation) int {
	if totalLines <= 0 {
		return 0
	}

	density := float64(len(violations)) / float64(totalLines) * 100 * densityScale
	densityPenalty := int(density)
	if densityPenalty > densityPenaltyCap {
		densityPenalty = densityPenaltyCap
	}

	score := maxScore - densityPenalty - severityPenalty(violations)
	return clampScore(score)
}

// CalculateAgroScore computes the history-aware score. The base is the
// prior run's score; a failed prior run pins the score to 0.
func CalculateAgroScore(baseScore int, priorSucceeded bool, violations []domain.Violation) int {
	if !priorSucceeded {
		return 0
	}
	return clampScore(baseScore - severityPenalty(violations))
}

// severityPenalty sums the flat per-violation penalties
func severityPenalty(violations []domain.Violation) int {
	penalty := 0
	for _, v := range violations {
		switch v.Severity {
		case domain.SeverityCritical:
			penalty += penaltyCritical
		case domain.SeverityHigh:
			penalty += penaltyHigh
		case domain.SeverityMedium:
			penalty += penaltyMedium
		}
	}
	return penalty
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > maxScore {
		return maxScore
	}
	return score
}

// DetermineSeverity maps a score to its tier
func DetermineSeverity(score int) domain.SeverityTier {
	switch {
	case score >= 90:
		return domain.TierExemplary
	case score >= 80:
		return domain.TierGood
	case score >= 60:
		return domain.TierAcceptable
	case score >= 40:
		return domain.TierConcerning
	default:
		return domain.TierCritical
	}
}

// IsExemplaryEligible reports whether a file qualifies for the
// exemplary flag: a passing score and no critical violations
func IsExemplaryEligible(score int, violations []domain.Violation) bool {
	return score >= 60 && !domain.HasCritical(violations)
}

// GenerateInsights produces the ordered human-readable findings for a
// scored file: the tier summary first, then the critical callout, then
// the divergence callout when the two scores disagree strongly.
func GenerateInsights(painScore, agroScore int, violations []domain.Violation) []string {
	insights := []string{
		fmt.Sprintf("Code quality is %s (score %d)", DetermineSeverity(agroScore), agroScore),
	}

	if domain.HasCritical(violations) {
		counts := domain.CountBySeverity(violations)
		insights = append(insights,
			fmt.Sprintf("%d critical violation(s) require immediate attention", counts[domain.SeverityCritical]))
	}

	divergence := painScore - agroScore
	if divergence < 0 {
		divergence = -divergence
	}
	if divergence > divergenceThreshold {
		insights = append(insights,
			fmt.Sprintf("Scores diverge by %d points; recent changes moved quality away from the baseline", divergence))
	}

	return insights
}

// GenerateRecommendations suggests concrete follow-ups from the
// violation mix
func GenerateRecommendations(violations []domain.Violation) []string {
	seen := map[domain.ViolationKind]bool{}
	var recs []string

	for _, v := range violations {
		if seen[v.Kind] {
			continue
		}
		seen[v.Kind] = true

		switch v.Kind {
		case domain.ViolationLoggingCall:
			recs = append(recs, "Remove ad-hoc logging calls or route them through a structured logger")
		case domain.ViolationLongFunction:
			recs = append(recs, "Split long functions into smaller, focused helpers")
		case domain.ViolationDeepNesting:
			recs = append(recs, "Flatten deeply nested control flow with early returns or extracted functions")
		case domain.ViolationUntypedAnnotation:
			recs = append(recs, "Replace 'any' annotations with concrete types")
		case domain.ViolationSyntaxError:
			recs = append(recs, "Fix syntax errors before addressing quality issues")
		}
	}

	return recs
}

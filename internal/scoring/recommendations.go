package scoring

import (
	"fmt"
	"sort"

	"github.com/jonathan/governance-assessor/internal/types"
)

// maturityFloor is the informational maturity score below which an extra entry is emitted
const maturityFloor = 3.0

// overallMaturityStandard labels recommendations that are not tied to one standard
const overallMaturityStandard = "Overall Maturity"

// GenerateRecommendations produces rule-based recommendations from scored standards.
// Entries are stably sorted by priority, so equal priorities keep generation order.
func GenerateRecommendations(project *types.Project, scores []types.StandardScore) []types.Recommendation {
	recs := make([]types.Recommendation, 0)

	for _, score := range scores {
		switch score.RAGStatus {
		case types.RAGRed:
			recs = append(recs, types.Recommendation{
				Standard: score.StandardName,
				Priority: types.PriorityCritical,
				Title:    fmt.Sprintf("Address critical gaps in %s", score.StandardName),
				Description: fmt.Sprintf("Current score of %.1f indicates significant compliance risk. "+
					"Immediate remediation is required.", score.Score),
				Effort: estimateEffort(score.Score),
			})
			for _, gap := range score.CriticalGaps {
				recs = append(recs, types.Recommendation{
					Standard:    score.StandardName,
					Priority:    types.PriorityHigh,
					Title:       fmt.Sprintf("Critical gap: %s", gap),
					Description: "This high-importance control scored low and needs remediation.",
					Effort:      estimateEffort(score.Score),
				})
			}
		case types.RAGAmber:
			recs = append(recs, types.Recommendation{
				Standard: score.StandardName,
				Priority: types.PriorityHigh,
				Title:    fmt.Sprintf("Improve %s", score.StandardName),
				Description: fmt.Sprintf("Current score of %.1f shows partial implementation. "+
					"Strengthen controls to reach target maturity.", score.Score),
				Effort: estimateEffort(score.Score),
			})
		}
	}

	if project != nil && project.OverallMaturityScore != nil && *project.OverallMaturityScore < maturityFloor {
		maturity := *project.OverallMaturityScore
		recs = append(recs, types.Recommendation{
			Standard: overallMaturityStandard,
			Priority: types.PriorityHigh,
			Title:    "Raise overall governance maturity",
			Description: fmt.Sprintf("Overall maturity of %.1f is below the target of %.0f. "+
				"Establish a governance roadmap across all standards.", maturity, maturityFloor),
			Effort: estimateEffort(maturity),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority.Rank() < recs[j].Priority.Rank()
	})

	return recs
}

// estimateEffort derives effort from the originating score
func estimateEffort(score float64) types.Effort {
	switch {
	case score >= 4:
		return types.EffortLow
	case score >= 2.5:
		return types.EffortMedium
	default:
		return types.EffortHigh
	}
}

package scoring

import (
	"github.com/jonathan/governance-assessor/internal/types"
)

// ScoreProject scores every standard of the project and rolls them up into an overall
// score, RAG status, risk profile and recommendation list. The project is cloned first;
// the input is never mutated and repeated calls return identical results.
func ScoreProject(project *types.Project) *types.ScoreResult {
	if project == nil {
		project = &types.Project{}
	}
	snapshot := project.Clone()

	standardScores := make([]types.StandardScore, 0, len(snapshot.Standards))
	for i := range snapshot.Standards {
		standardScores = append(standardScores, ScoreStandard(&snapshot.Standards[i]))
	}

	overallScore, overallRAG := rollupStandards(snapshot.Standards, standardScores)

	return &types.ScoreResult{
		OverallScore:    overallScore,
		OverallRAG:      overallRAG,
		StandardScores:  standardScores,
		RiskProfile:     buildRiskProfile(standardScores),
		Recommendations: GenerateRecommendations(snapshot, standardScores),
	}
}

// rollupStandards computes the weighted mean and worst-case RAG over the standards
// with completion above zero. Standards with no completion are left out entirely.
func rollupStandards(standards []types.Standard, scores []types.StandardScore) (float64, types.RAGStatus) {
	weightedSum := 0.0
	totalWeight := 0.0
	hasRed, hasAmber, hasGreen := false, false, false

	for i, score := range scores {
		if score.CompletionPercentage <= 0 {
			continue
		}
		weight := standards[i].EffectiveWeight()
		weightedSum += score.Score * weight
		totalWeight += weight

		switch score.RAGStatus {
		case types.RAGRed:
			hasRed = true
		case types.RAGAmber:
			hasAmber = true
		case types.RAGGreen:
			hasGreen = true
		}
	}

	overall := 0.0
	if totalWeight > 0 {
		overall = round2(weightedSum / totalWeight)
	}

	switch {
	case hasRed:
		return overall, types.RAGRed
	case hasAmber:
		return overall, types.RAGAmber
	case hasGreen:
		return overall, types.RAGGreen
	default:
		return overall, types.RAGGrey
	}
}

// buildRiskProfile tallies all standards by RAG bucket, regardless of completion.
func buildRiskProfile(scores []types.StandardScore) types.RiskProfile {
	var profile types.RiskProfile
	for _, score := range scores {
		switch score.RAGStatus {
		case types.RAGRed:
			profile.High++
		case types.RAGAmber:
			profile.Medium++
		case types.RAGGreen:
			profile.Low++
		default:
			profile.NotAssessed++
		}
	}
	return profile
}

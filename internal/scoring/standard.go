package scoring

import (
	"math"

	"github.com/jonathan/governance-assessor/internal/types"
)

// Critical gap thresholds: a low sub-score on an important question
const (
	criticalGapMaxScore      = 2.0
	criticalGapMinImportance = 4
)

// ScoreStandard computes the weighted score, RAG rollup, completion and critical gaps of a standard.
func ScoreStandard(standard *types.Standard) types.StandardScore {
	result := types.StandardScore{
		StandardID:   standard.ID,
		StandardName: standard.Name,
		RAGStatus:    types.RAGGrey,
		CriticalGaps: []string{},
	}

	total := len(standard.Questions)
	if total == 0 {
		return result
	}

	answered := 0
	weightedSum := 0.0
	totalWeight := 0.0
	rags := make([]types.RAGStatus, 0, total)

	for i := range standard.Questions {
		q := &standard.Questions[i]
		qs := ScoreQuestion(q)
		if !qs.Answered {
			continue
		}
		answered++
		rags = append(rags, qs.RAG)

		if !qs.Scoreable {
			continue
		}
		weight := q.EffectiveWeight()
		weightedSum += qs.Score * weight
		totalWeight += weight

		if qs.Score <= criticalGapMaxScore && q.Importance >= criticalGapMinImportance {
			result.CriticalGaps = append(result.CriticalGaps, q.Text)
		}
	}

	result.CompletionPercentage = round2(float64(answered) / float64(total) * 100)
	if totalWeight > 0 {
		result.Score = round2(weightedSum / totalWeight)
	}
	result.RAGStatus = rollupQuestions(rags)

	return result
}

// rollupQuestions applies the worst-case rule over answered and N/A question statuses:
// red beats amber; all green or N/A is green; anything else is grey.
func rollupQuestions(rags []types.RAGStatus) types.RAGStatus {
	if len(rags) == 0 {
		return types.RAGGrey
	}

	hasAmber := false
	allGreen := true
	for _, rag := range rags {
		switch rag {
		case types.RAGRed:
			return types.RAGRed
		case types.RAGAmber:
			hasAmber = true
			allGreen = false
		case types.RAGGreen, types.RAGNotApplicable:
		default:
			allGreen = false
		}
	}

	switch {
	case hasAmber:
		return types.RAGAmber
	case allGreen:
		return types.RAGGreen
	default:
		return types.RAGGrey
	}
}

// round2 rounds to two decimal places
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Package scoring aggregates questionnaire answers into weighted maturity scores and RAG statuses.
package scoring

import (
	"github.com/jonathan/governance-assessor/internal/types"
)

// Sub-score bounds for a single question
const (
	minSubScore = 1.0
	maxSubScore = 5.0
)

// Percentage bucket boundaries (inclusive)
const (
	percentGreen  = 75.0
	percentMiddle = 50.0
	percentAmber  = 25.0
)

// QuestionScore is the result of scoring one question
type QuestionScore struct {
	Score float64
	RAG   types.RAGStatus
	// Answered is true when the question counts toward completion
	Answered bool
	// Scoreable is true when the question contributes to the weighted score
	Scoreable bool
}

// ScoreQuestion converts one question into a 1-5 sub-score and a RAG classification.
func ScoreQuestion(q *types.Question) QuestionScore {
	if q.IsNotApplicable {
		return QuestionScore{RAG: types.RAGNotApplicable, Answered: true}
	}
	if !q.IsAnswered() {
		return QuestionScore{Score: minSubScore, RAG: types.RAGGrey}
	}

	score, rag := scoreAnswer(q.Answer)
	return QuestionScore{Score: score, RAG: rag, Answered: true, Scoreable: true}
}

// scoreAnswer dispatches on the answer variant, which decoding already derived from
// the question type.
func scoreAnswer(answer types.Answer) (float64, types.RAGStatus) {
	switch a := answer.(type) {
	case types.BoolAnswer:
		if a {
			return maxSubScore, types.RAGGreen
		}
		return minSubScore, types.RAGRed
	case types.ScaleAnswer:
		return scoreScale(int(a))
	case types.PercentageAnswer:
		return scorePercentage(float64(a))
	case types.EvidenceAnswer:
		if a.Provided {
			return 3, types.RAGAmber
		}
		return minSubScore, types.RAGGrey
	default:
		return minSubScore, types.RAGGrey
	}
}

func scoreScale(v int) (float64, types.RAGStatus) {
	score := float64(v)
	if score < minSubScore {
		score = minSubScore
	}
	if score > maxSubScore {
		score = maxSubScore
	}

	switch {
	case score >= 4:
		return score, types.RAGGreen
	case score == 3:
		return score, types.RAGAmber
	default:
		return score, types.RAGRed
	}
}

func scorePercentage(pct float64) (float64, types.RAGStatus) {
	var score float64
	switch {
	case pct >= percentGreen:
		score = 5
	case pct >= percentMiddle:
		score = 3
	case pct >= percentAmber:
		score = 2
	default:
		score = minSubScore
	}

	switch {
	case pct >= percentGreen:
		return score, types.RAGGreen
	case pct >= percentAmber:
		return score, types.RAGAmber
	default:
		return score, types.RAGRed
	}
}

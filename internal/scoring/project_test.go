package scoring

import (
	"testing"

	"github.com/jonathan/governance-assessor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func redStandard(name string) types.Standard {
	return types.Standard{
		Name: name,
		Questions: []types.Question{
			{Text: name + " control", Type: types.QuestionTypeBoolean, Answer: types.BoolAnswer(false)},
		},
	}
}

func greenStandard(name string) types.Standard {
	return types.Standard{
		Name: name,
		Questions: []types.Question{
			{Text: name + " control", Type: types.QuestionTypeBoolean, Answer: types.BoolAnswer(true)},
		},
	}
}

func unassessedStandard(name string) types.Standard {
	return types.Standard{
		Name: name,
		Questions: []types.Question{
			{Text: name + " control", Type: types.QuestionTypeScale},
		},
	}
}

func TestScoreProject_RiskProfileCountsAllStandards(t *testing.T) {
	project := &types.Project{
		Name: "Contoso",
		Standards: []types.Standard{
			unassessedStandard("Licensing"),
			redStandard("DLP Policy"),
			greenStandard("Environment Strategy"),
		},
	}

	result := ScoreProject(project)

	assert.Equal(t, types.RiskProfile{High: 1, Medium: 0, Low: 1, NotAssessed: 1}, result.RiskProfile)
	assert.Equal(t, len(project.Standards), result.RiskProfile.Total())
	assert.Equal(t, types.RAGRed, result.OverallRAG)
	assert.InDelta(t, 3.0, result.OverallScore, 0.001)
	require.Len(t, result.StandardScores, 3)
	assert.Equal(t, 0.0, result.StandardScores[0].CompletionPercentage)
}

func TestScoreProject_NothingAnswered(t *testing.T) {
	project := &types.Project{
		Name: "Fresh",
		Standards: []types.Standard{
			unassessedStandard("A"),
			unassessedStandard("B"),
			{Name: "C"},
		},
	}

	result := ScoreProject(project)

	assert.Equal(t, 0.0, result.OverallScore)
	assert.Equal(t, types.RAGGrey, result.OverallRAG)
	assert.Equal(t, 3, result.RiskProfile.NotAssessed)
	assert.Empty(t, result.Recommendations)
}

func TestScoreProject_EmptyAndNil(t *testing.T) {
	empty := ScoreProject(&types.Project{Name: "Empty"})
	assert.Equal(t, 0.0, empty.OverallScore)
	assert.Equal(t, types.RAGGrey, empty.OverallRAG)
	assert.NotNil(t, empty.StandardScores)
	assert.NotNil(t, empty.Recommendations)

	nilResult := ScoreProject(nil)
	assert.Equal(t, types.RAGGrey, nilResult.OverallRAG)
}

func TestScoreProject_StandardWeights(t *testing.T) {
	heavy := greenStandard("Heavy")
	heavy.Weight = weight(30)
	light := redStandard("Light")

	result := ScoreProject(&types.Project{Name: "Weighted", Standards: []types.Standard{heavy, light}})

	// (5*30 + 1*10) / 40
	assert.InDelta(t, 4.0, result.OverallScore, 0.001)
}

func TestScoreProject_ZeroWeightSum(t *testing.T) {
	s := greenStandard("Zero")
	s.Weight = weight(0)

	result := ScoreProject(&types.Project{Name: "Zero", Standards: []types.Standard{s}})

	assert.Equal(t, 0.0, result.OverallScore)
	assert.Equal(t, types.RAGGreen, result.OverallRAG)
}

func TestScoreProject_AmberRollup(t *testing.T) {
	amber := types.Standard{
		Name: "Amber",
		Questions: []types.Question{
			{Text: "q", Type: types.QuestionTypeScale, Answer: types.ScaleAnswer(3)},
		},
	}

	result := ScoreProject(&types.Project{
		Name:      "Mixed",
		Standards: []types.Standard{greenStandard("Green"), amber},
	})

	assert.Equal(t, types.RAGAmber, result.OverallRAG)
	assert.Equal(t, types.RiskProfile{Medium: 1, Low: 1}, result.RiskProfile)
}

func TestScoreProject_Idempotent(t *testing.T) {
	project := &types.Project{
		Name: "Repeat",
		Standards: []types.Standard{
			redStandard("A"),
			greenStandard("B"),
			unassessedStandard("C"),
		},
	}

	first := ScoreProject(project)
	second := ScoreProject(project)

	assert.Equal(t, first, second)
}

func TestScoreProject_DoesNotMutateInput(t *testing.T) {
	project := &types.Project{
		Name: "Immutable",
		Standards: []types.Standard{
			{
				Name:   "A",
				Weight: weight(5),
				Questions: []types.Question{
					{Text: "q", Type: types.QuestionTypeScale, Answer: types.ScaleAnswer(2), Importance: 5},
				},
			},
		},
	}
	before := project.Clone()

	_ = ScoreProject(project)

	assert.Equal(t, before, project)
}

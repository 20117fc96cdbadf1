package scoring

import (
	"testing"

	"github.com/jonathan/governance-assessor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRecommendations_Ordering(t *testing.T) {
	maturity := 2.0
	project := &types.Project{
		Name:                 "Ordered",
		OverallMaturityScore: &maturity,
		Standards: []types.Standard{
			{
				Name: "Amber Standard",
				Questions: []types.Question{
					{Text: "partial", Type: types.QuestionTypeScale, Answer: types.ScaleAnswer(3)},
				},
			},
			{
				Name: "Red With Gap",
				Questions: []types.Question{
					{Text: "Tenant isolation enforced", Type: types.QuestionTypeScale, Answer: types.ScaleAnswer(1), Importance: 5},
				},
			},
			redStandard("Red Plain"),
		},
	}

	recs := ScoreProject(project).Recommendations

	require.Len(t, recs, 5)

	assert.Equal(t, types.PriorityCritical, recs[0].Priority)
	assert.Equal(t, "Red With Gap", recs[0].Standard)
	assert.Contains(t, recs[0].Description, "1.0")

	assert.Equal(t, types.PriorityCritical, recs[1].Priority)
	assert.Equal(t, "Red Plain", recs[1].Standard)

	assert.Equal(t, types.PriorityHigh, recs[2].Priority)
	assert.Equal(t, "Amber Standard", recs[2].Standard)
	assert.Equal(t, types.EffortMedium, recs[2].Effort)

	assert.Equal(t, types.PriorityHigh, recs[3].Priority)
	assert.Equal(t, "Critical gap: Tenant isolation enforced", recs[3].Title)
	assert.Equal(t, types.EffortHigh, recs[3].Effort)

	assert.Equal(t, "Overall Maturity", recs[4].Standard)
	assert.Equal(t, types.PriorityHigh, recs[4].Priority)
}

func TestGenerateRecommendations_MaturityThreshold(t *testing.T) {
	atTarget := 3.0
	project := &types.Project{Name: "Mature", OverallMaturityScore: &atTarget}
	assert.Empty(t, GenerateRecommendations(project, nil))

	project.OverallMaturityScore = nil
	assert.Empty(t, GenerateRecommendations(project, nil))
}

func TestGenerateRecommendations_GreenStandardsProduceNothing(t *testing.T) {
	scores := []types.StandardScore{
		{StandardName: "Green", Score: 4.5, RAGStatus: types.RAGGreen},
		{StandardName: "Grey", RAGStatus: types.RAGGrey},
	}

	assert.Empty(t, GenerateRecommendations(&types.Project{Name: "x"}, scores))
}

func TestEstimateEffort(t *testing.T) {
	assert.Equal(t, types.EffortLow, estimateEffort(4))
	assert.Equal(t, types.EffortMedium, estimateEffort(3.99))
	assert.Equal(t, types.EffortMedium, estimateEffort(2.5))
	assert.Equal(t, types.EffortHigh, estimateEffort(2.49))
}

func TestPriorityRank(t *testing.T) {
	assert.Less(t, types.PriorityCritical.Rank(), types.PriorityHigh.Rank())
	assert.Less(t, types.PriorityHigh.Rank(), types.PriorityMedium.Rank())
	assert.Less(t, types.PriorityMedium.Rank(), types.PriorityLow.Rank())
}

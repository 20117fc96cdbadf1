// Package types provides type definitions for structured data used throughout the governance assessor.
//
//nolint:revive // types is a standard Go package name pattern
package types

// RAGStatus is the red/amber/green qualitative health indicator
type RAGStatus string

// RAG statuses. Grey means not yet evaluated; not-applicable is excluded from rollups.
const (
	RAGRed           RAGStatus = "red"
	RAGAmber         RAGStatus = "amber"
	RAGGreen         RAGStatus = "green"
	RAGGrey          RAGStatus = "grey"
	RAGNotApplicable RAGStatus = "not-applicable"
)

// Priority ranks a recommendation
type Priority string

// Recommendation priorities, most urgent first
const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// Rank returns the sort rank of the priority; unknown priorities sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

// Effort estimates how much work a recommendation takes
type Effort string

// Effort levels
const (
	EffortLow    Effort = "low"
	EffortMedium Effort = "medium"
	EffortHigh   Effort = "high"
)

// StandardScore is the derived score of one standard
type StandardScore struct {
	StandardID           string    `json:"standardId,omitempty"`
	StandardName         string    `json:"standardName"`
	Score                float64   `json:"score"`
	RAGStatus            RAGStatus `json:"ragStatus"`
	CompletionPercentage float64   `json:"completionPercentage"`
	CriticalGaps         []string  `json:"criticalGaps"`
}

// RiskProfile tallies standards by RAG bucket
type RiskProfile struct {
	High        int `json:"high"`
	Medium      int `json:"medium"`
	Low         int `json:"low"`
	NotAssessed int `json:"notAssessed"`
}

// Total returns the number of standards counted in the profile
func (r RiskProfile) Total() int {
	return r.High + r.Medium + r.Low + r.NotAssessed
}

// Recommendation is a rule-generated remediation entry
type Recommendation struct {
	Standard    string   `json:"standard"`
	Priority    Priority `json:"priority"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Effort      Effort   `json:"effort"`
}

// ScoreResult is the full output of scoring a project
type ScoreResult struct {
	OverallScore    float64          `json:"overallScore"`
	OverallRAG      RAGStatus        `json:"overallRAG"`
	StandardScores  []StandardScore  `json:"standardScores"`
	RiskProfile     RiskProfile      `json:"riskProfile"`
	Recommendations []Recommendation `json:"recommendations"`
}

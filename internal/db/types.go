package db

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/governance-assessor/internal/types"
)

// ProjectRecord is a stored assessment project
type ProjectRecord struct {
	ID        uuid.UUID     `json:"id"`
	Name      string        `json:"name"`
	Project   types.Project `json:"project"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// ProjectSummary is a lightweight view of a project for listing
type ProjectSummary struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	StandardCount int       `json:"standard_count"`
	VersionCount  int       `json:"version_count"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ProjectFilters holds optional filters for listing projects
type ProjectFilters struct {
	Name   string
	Limit  int
	Offset int
}

// Version is an immutable snapshot of a project together with its score at that time
type Version struct {
	ID            uuid.UUID         `json:"id"`
	ProjectID     uuid.UUID         `json:"project_id"`
	VersionNumber int               `json:"version_number"`
	Label         string            `json:"label,omitempty"`
	Project       types.Project     `json:"project"`
	Result        types.ScoreResult `json:"result"`
	CreatedAt     time.Time         `json:"created_at"`
}

// VersionSummary is a lightweight view of a version for listing
type VersionSummary struct {
	ID            uuid.UUID       `json:"id"`
	VersionNumber int             `json:"version_number"`
	Label         string          `json:"label,omitempty"`
	OverallScore  float64         `json:"overall_score"`
	OverallRAG    types.RAGStatus `json:"overall_rag"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ErrNotFound indicates the referenced row does not exist
type ErrNotFound struct {
	Kind string
	ID   uuid.UUID
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// defaultListLimit applies when ProjectFilters.Limit is zero
const defaultListLimit = 50

package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/governance-assessor/internal/types"
)

// Store persists assessment projects and their versions
type Store interface {
	CreateProject(ctx context.Context, project *types.Project) (*ProjectRecord, error)
	GetProject(ctx context.Context, id uuid.UUID) (*ProjectRecord, error)
	ListProjects(ctx context.Context, filters ProjectFilters) ([]ProjectSummary, error)
	UpdateProject(ctx context.Context, id uuid.UUID, project *types.Project) (*ProjectRecord, error)
	DeleteProject(ctx context.Context, id uuid.UUID) error
	SaveVersion(ctx context.Context, projectID uuid.UUID, label string, project *types.Project, result *types.ScoreResult) (*Version, error)
	ListVersions(ctx context.Context, projectID uuid.UUID) ([]VersionSummary, error)
	GetVersion(ctx context.Context, id uuid.UUID) (*Version, error)
	Close()
}

// Open connects to the store selected by the URL scheme:
// postgres:// and postgresql:// use PostgreSQL, sqlite:// or a *.db path use SQLite.
func Open(ctx context.Context, databaseURL string) (Store, error) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		pg, err := Connect(ctx, databaseURL)
		if err != nil {
			return nil, err
		}
		return pg, nil
	case strings.HasPrefix(databaseURL, "sqlite://"), strings.HasSuffix(databaseURL, ".db"), databaseURL == ":memory:":
		lite, err := OpenSQLite(ctx, strings.TrimPrefix(databaseURL, "sqlite://"))
		if err != nil {
			return nil, err
		}
		return lite, nil
	default:
		return nil, fmt.Errorf("unsupported database URL %q: expected postgres:// or sqlite://", databaseURL)
	}
}

var (
	_ Store = (*DB)(nil)
	_ Store = (*SQLiteStore)(nil)
)

// encodeProject marshals the project document stored alongside the row
func encodeProject(project *types.Project) ([]byte, error) {
	if project == nil {
		return nil, fmt.Errorf("project is nil")
	}
	data, err := json.Marshal(project)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal project: %w", err)
	}
	return data, nil
}

func decodeProject(data []byte, id uuid.UUID) (types.Project, error) {
	var project types.Project
	if err := json.Unmarshal(data, &project); err != nil {
		return project, fmt.Errorf("failed to unmarshal project %s: %w", id, err)
	}
	project.ID = id.String()
	return project, nil
}

func normalizeFilters(filters ProjectFilters) ProjectFilters {
	if filters.Limit <= 0 {
		filters.Limit = defaultListLimit
	}
	if filters.Offset < 0 {
		filters.Offset = 0
	}
	return filters
}

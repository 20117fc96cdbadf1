// Package db provides PostgreSQL and SQLite storage for assessment projects and versions.
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/governance-assessor/internal/types"
)

// postgresSchema creates the tables this service owns
const postgresSchema = `
CREATE TABLE IF NOT EXISTS projects (
	id         UUID PRIMARY KEY,
	name       TEXT NOT NULL,
	document   JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS project_versions (
	id             UUID PRIMARY KEY,
	project_id     UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	version_number INTEGER NOT NULL,
	label          TEXT NOT NULL DEFAULT '',
	document       JSONB NOT NULL,
	result         JSONB NOT NULL,
	overall_score  DOUBLE PRECISION NOT NULL,
	overall_rag    TEXT NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (project_id, version_number)
);`

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database and ensures the schema exists
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// CreateProject inserts a new project and returns the stored record
func (db *DB) CreateProject(ctx context.Context, project *types.Project) (*ProjectRecord, error) {
	doc, err := encodeProject(project)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	var record ProjectRecord
	err = db.pool.QueryRow(ctx,
		`INSERT INTO projects (id, name, document)
		 VALUES ($1, $2, $3)
		 RETURNING id, name, created_at, updated_at`,
		id, project.Name, doc,
	).Scan(&record.ID, &record.Name, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	record.Project = *project.Clone()
	record.Project.ID = record.ID.String()
	return &record, nil
}

// GetProject retrieves a project by ID, returning nil when it does not exist
func (db *DB) GetProject(ctx context.Context, id uuid.UUID) (*ProjectRecord, error) {
	var record ProjectRecord
	var doc []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, document, created_at, updated_at FROM projects WHERE id = $1`,
		id,
	).Scan(&record.ID, &record.Name, &doc, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	record.Project, err = decodeProject(doc, record.ID)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ListProjects retrieves projects with optional filters, most recently updated first
func (db *DB) ListProjects(ctx context.Context, filters ProjectFilters) ([]ProjectSummary, error) {
	filters = normalizeFilters(filters)

	query := `SELECT p.id, p.name, COALESCE(jsonb_array_length(p.document->'standards'), 0),
		        (SELECT COUNT(*) FROM project_versions v WHERE v.project_id = p.id), p.updated_at
		FROM projects p WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.Name != "" {
		query += fmt.Sprintf(" AND p.name ILIKE $%d", argNum)
		args = append(args, "%"+filters.Name+"%")
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY p.updated_at DESC LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, filters.Limit, filters.Offset)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []ProjectSummary{}
	for rows.Next() {
		var p ProjectSummary
		if err := rows.Scan(&p.ID, &p.Name, &p.StandardCount, &p.VersionCount, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// UpdateProject replaces the project document
func (db *DB) UpdateProject(ctx context.Context, id uuid.UUID, project *types.Project) (*ProjectRecord, error) {
	doc, err := encodeProject(project)
	if err != nil {
		return nil, err
	}

	var record ProjectRecord
	err = db.pool.QueryRow(ctx,
		`UPDATE projects SET name = $2, document = $3, updated_at = NOW()
		 WHERE id = $1
		 RETURNING id, name, created_at, updated_at`,
		id, project.Name, doc,
	).Scan(&record.ID, &record.Name, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &ErrNotFound{Kind: "project", ID: id}
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	record.Project = *project.Clone()
	record.Project.ID = record.ID.String()
	return &record, nil
}

// DeleteProject deletes a project and all its versions (via cascade)
func (db *DB) DeleteProject(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if result.RowsAffected() == 0 {
		return &ErrNotFound{Kind: "project", ID: id}
	}
	return nil
}

// SaveVersion stores a numbered snapshot of the project and its score
func (db *DB) SaveVersion(ctx context.Context, projectID uuid.UUID, label string, project *types.Project, result *types.ScoreResult) (*Version, error) {
	doc, err := encodeProject(project)
	if err != nil {
		return nil, err
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal score result: %w", err)
	}

	version := &Version{
		ID:        uuid.New(),
		ProjectID: projectID,
		Label:     label,
		Project:   *project.Clone(),
		Result:    *result,
	}

	err = pgx.BeginFunc(ctx, db.pool, func(tx pgx.Tx) error {
		var locked uuid.UUID
		if err := tx.QueryRow(ctx,
			`SELECT id FROM projects WHERE id = $1 FOR UPDATE`, projectID,
		).Scan(&locked); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return &ErrNotFound{Kind: "project", ID: projectID}
			}
			return fmt.Errorf("failed to lock project: %w", err)
		}

		return tx.QueryRow(ctx,
			`INSERT INTO project_versions (id, project_id, version_number, label, document, result, overall_score, overall_rag)
			 VALUES ($1, $2,
			         (SELECT COALESCE(MAX(version_number), 0) + 1 FROM project_versions WHERE project_id = $2),
			         $3, $4, $5, $6, $7)
			 RETURNING version_number, created_at`,
			version.ID, projectID, label, doc, resultJSON, result.OverallScore, string(result.OverallRAG),
		).Scan(&version.VersionNumber, &version.CreatedAt)
	})
	if err != nil {
		var notFound *ErrNotFound
		if errors.As(err, &notFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to save version: %w", err)
	}

	return version, nil
}

// ListVersions lists the versions of a project, newest first
func (db *DB) ListVersions(ctx context.Context, projectID uuid.UUID) ([]VersionSummary, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, version_number, label, overall_score, overall_rag, created_at
		 FROM project_versions WHERE project_id = $1 ORDER BY version_number DESC`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	defer rows.Close()

	versions := []VersionSummary{}
	for rows.Next() {
		var v VersionSummary
		var rag string
		if err := rows.Scan(&v.ID, &v.VersionNumber, &v.Label, &v.OverallScore, &rag, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan version: %w", err)
		}
		v.OverallRAG = types.RAGStatus(rag)
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// GetVersion retrieves a version by ID, returning nil when it does not exist
func (db *DB) GetVersion(ctx context.Context, id uuid.UUID) (*Version, error) {
	var v Version
	var doc, resultJSON []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, project_id, version_number, label, document, result, created_at
		 FROM project_versions WHERE id = $1`,
		id,
	).Scan(&v.ID, &v.ProjectID, &v.VersionNumber, &v.Label, &doc, &resultJSON, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get version: %w", err)
	}

	if v.Project, err = decodeProject(doc, v.ProjectID); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(resultJSON, &v.Result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal score result: %w", err)
	}
	return &v, nil
}

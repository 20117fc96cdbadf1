package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/jonathan/governance-assessor/internal/types"
)

// sqliteSchema mirrors postgresSchema for the local store
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS projects (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	document   TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS project_versions (
	id             TEXT PRIMARY KEY,
	project_id     TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	version_number INTEGER NOT NULL,
	label          TEXT NOT NULL DEFAULT '',
	document       TEXT NOT NULL,
	result         TEXT NOT NULL,
	overall_score  REAL NOT NULL,
	overall_rag    TEXT NOT NULL,
	created_at     TEXT NOT NULL,
	UNIQUE (project_id, version_number)
);`

// openSQL is a package-level var to allow test injection.
var openSQL = sql.Open

// SQLiteStore keeps projects in a local SQLite file
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the SQLite database at path
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0700); err != nil {
				return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
			}
		}
	}

	conn, err := openSQL("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// A single connection keeps :memory: databases and pragmas consistent
	conn.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := conn.ExecContext(ctx, p); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}

	if _, err := conn.ExecContext(ctx, sqliteSchema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return &SQLiteStore{db: conn}, nil
}

// Close closes the database
func (s *SQLiteStore) Close() {
	if s.db != nil {
		_ = s.db.Close()
	}
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

// CreateProject inserts a new project and returns the stored record
func (s *SQLiteStore) CreateProject(ctx context.Context, project *types.Project) (*ProjectRecord, error) {
	doc, err := encodeProject(project)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	ts := now()
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO projects (id, name, document, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		id.String(), project.Name, string(doc), ts, ts,
	); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	record := &ProjectRecord{
		ID:        id,
		Name:      project.Name,
		Project:   *project.Clone(),
		CreatedAt: parseTime(ts),
		UpdatedAt: parseTime(ts),
	}
	record.Project.ID = id.String()
	return record, nil
}

// GetProject retrieves a project by ID, returning nil when it does not exist
func (s *SQLiteStore) GetProject(ctx context.Context, id uuid.UUID) (*ProjectRecord, error) {
	var name, doc, createdAt, updatedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT name, document, created_at, updated_at FROM projects WHERE id = ?`,
		id.String(),
	).Scan(&name, &doc, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	project, err := decodeProject([]byte(doc), id)
	if err != nil {
		return nil, err
	}
	return &ProjectRecord{
		ID:        id,
		Name:      name,
		Project:   project,
		CreatedAt: parseTime(createdAt),
		UpdatedAt: parseTime(updatedAt),
	}, nil
}

// ListProjects retrieves projects with optional filters, most recently updated first
func (s *SQLiteStore) ListProjects(ctx context.Context, filters ProjectFilters) ([]ProjectSummary, error) {
	filters = normalizeFilters(filters)

	query := `SELECT p.id, p.name, COALESCE(json_array_length(p.document, '$.standards'), 0),
		        (SELECT COUNT(*) FROM project_versions v WHERE v.project_id = p.id), p.updated_at
		FROM projects p WHERE 1=1`
	args := []any{}

	if filters.Name != "" {
		query += " AND p.name LIKE ?"
		args = append(args, "%"+filters.Name+"%")
	}
	query += " ORDER BY p.updated_at DESC LIMIT ? OFFSET ?"
	args = append(args, filters.Limit, filters.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []ProjectSummary{}
	for rows.Next() {
		var p ProjectSummary
		var id, updatedAt string
		if err := rows.Scan(&id, &p.Name, &p.StandardCount, &p.VersionCount, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		if p.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("invalid project id %q: %w", id, err)
		}
		p.UpdatedAt = parseTime(updatedAt)
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// UpdateProject replaces the project document
func (s *SQLiteStore) UpdateProject(ctx context.Context, id uuid.UUID, project *types.Project) (*ProjectRecord, error) {
	doc, err := encodeProject(project)
	if err != nil {
		return nil, err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE projects SET name = ?, document = ?, updated_at = ? WHERE id = ?`,
		project.Name, string(doc), now(), id.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, &ErrNotFound{Kind: "project", ID: id}
	}

	return s.GetProject(ctx, id)
}

// DeleteProject deletes a project and all its versions
func (s *SQLiteStore) DeleteProject(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return &ErrNotFound{Kind: "project", ID: id}
	}
	return nil
}

// SaveVersion stores a numbered snapshot of the project and its score
func (s *SQLiteStore) SaveVersion(ctx context.Context, projectID uuid.UUID, label string, project *types.Project, result *types.ScoreResult) (*Version, error) {
	doc, err := encodeProject(project)
	if err != nil {
		return nil, err
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal score result: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM projects WHERE id = ?`, projectID.String(),
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check project: %w", err)
	}
	if exists == 0 {
		return nil, &ErrNotFound{Kind: "project", ID: projectID}
	}

	version := &Version{
		ID:        uuid.New(),
		ProjectID: projectID,
		Label:     label,
		Project:   *project.Clone(),
		Result:    *result,
	}
	ts := now()

	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version_number), 0) + 1 FROM project_versions WHERE project_id = ?`,
		projectID.String(),
	).Scan(&version.VersionNumber); err != nil {
		return nil, fmt.Errorf("failed to compute version number: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO project_versions (id, project_id, version_number, label, document, result, overall_score, overall_rag, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		version.ID.String(), projectID.String(), version.VersionNumber, label,
		string(doc), string(resultJSON), result.OverallScore, string(result.OverallRAG), ts,
	); err != nil {
		return nil, fmt.Errorf("failed to save version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit version: %w", err)
	}

	version.CreatedAt = parseTime(ts)
	return version, nil
}

// ListVersions lists the versions of a project, newest first
func (s *SQLiteStore) ListVersions(ctx context.Context, projectID uuid.UUID) ([]VersionSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, version_number, label, overall_score, overall_rag, created_at
		 FROM project_versions WHERE project_id = ? ORDER BY version_number DESC`,
		projectID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	defer rows.Close()

	versions := []VersionSummary{}
	for rows.Next() {
		var v VersionSummary
		var id, rag, createdAt string
		if err := rows.Scan(&id, &v.VersionNumber, &v.Label, &v.OverallScore, &rag, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan version: %w", err)
		}
		if v.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("invalid version id %q: %w", id, err)
		}
		v.OverallRAG = types.RAGStatus(rag)
		v.CreatedAt = parseTime(createdAt)
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// GetVersion retrieves a version by ID, returning nil when it does not exist
func (s *SQLiteStore) GetVersion(ctx context.Context, id uuid.UUID) (*Version, error) {
	var projectID, label, doc, resultJSON, createdAt string
	v := Version{ID: id}
	err := s.db.QueryRowContext(ctx,
		`SELECT project_id, version_number, label, document, result, created_at
		 FROM project_versions WHERE id = ?`,
		id.String(),
	).Scan(&projectID, &v.VersionNumber, &label, &doc, &resultJSON, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get version: %w", err)
	}

	if v.ProjectID, err = uuid.Parse(projectID); err != nil {
		return nil, fmt.Errorf("invalid project id %q: %w", projectID, err)
	}
	if v.Project, err = decodeProject([]byte(doc), v.ProjectID); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(resultJSON), &v.Result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal score result: %w", err)
	}
	v.Label = label
	v.CreatedAt = parseTime(createdAt)
	return &v, nil
}

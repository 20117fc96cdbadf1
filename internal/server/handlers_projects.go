package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/governance-assessor/internal/db"
	"github.com/jonathan/governance-assessor/internal/report"
	"github.com/jonathan/governance-assessor/internal/scoring"
)

// parseQueryInt parses an integer query parameter with default and max values
func parseQueryInt(r *http.Request, key string, defaultValue, maxValue int) int {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val < 0 {
		return defaultValue
	}
	if maxValue > 0 && val > maxValue {
		return maxValue
	}
	return val
}

// parseID parses a UUID path value
func parseID(r *http.Request, key string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(key))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: key, Message: "invalid ID"}
	}
	return id, nil
}

// loadProject fetches a stored project or returns ErrProjectNotFound
func (s *Server) loadProject(r *http.Request) (*db.ProjectRecord, error) {
	id, err := parseID(r, "id")
	if err != nil {
		return nil, err
	}

	record, err := s.store.GetProject(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, &ErrProjectNotFound{ProjectID: id}
	}
	return record, nil
}

// handleListProjects lists stored projects
func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	filters := db.ProjectFilters{
		Name:   r.URL.Query().Get("name"),
		Limit:  parseQueryInt(r, "limit", 50, 100),
		Offset: parseQueryInt(r, "offset", 0, 0),
	}

	projects, err := s.store.ListProjects(r.Context(), filters)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"projects": projects,
		"count":    len(projects),
		"limit":    filters.Limit,
		"offset":   filters.Offset,
	})
}

// handleCreateProject stores a new project
func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	project, err := s.readProject(w, r)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	record, err := s.store.CreateProject(r.Context(), project)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, record)
}

// handleGetProject retrieves a project by ID
func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	record, err := s.loadProject(r)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, record)
}

// handleUpdateProject replaces a stored project
func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	project, err := s.readProject(w, r)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	record, err := s.store.UpdateProject(r.Context(), id, project)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, record)
}

// handleDeleteProject deletes a project and its versions
func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	if err := s.store.DeleteProject(r.Context(), id); err != nil {
		s.errorFromErr(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleScoreProject scores the stored project
func (s *Server) handleScoreProject(w http.ResponseWriter, r *http.Request) {
	record, err := s.loadProject(r)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, scoring.ScoreProject(&record.Project))
}

// handleProjectReport renders the scored project as Markdown or CSV
func (s *Server) handleProjectReport(w http.ResponseWriter, r *http.Request) {
	format, err := report.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	record, err := s.loadProject(r)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	result := scoring.ScoreProject(&record.Project)
	content, err := report.Render(format, &record.Project, result, s.now().UTC())
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", "attachment; filename=\"assessment-"+record.ID.String()+format.Extension()+"\"")
	w.WriteHeader(http.StatusOK)
	w.Write(content) //nolint:errcheck
}

// versionRequest is the optional body for POST /projects/{id}/versions
type versionRequest struct {
	Label string `json:"label,omitempty"`
}

// handleCreateVersion snapshots the stored project together with its current score
func (s *Server) handleCreateVersion(w http.ResponseWriter, r *http.Request) {
	record, err := s.loadProject(r)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	var req versionRequest
	if r.ContentLength != 0 {
		if err := decodeJSONBody(w, r, &req); err != nil {
			s.errorFromErr(w, err)
			return
		}
	}
	if req.Label == "" {
		req.Label = s.now().UTC().Format(time.RFC3339)
	}

	result := scoring.ScoreProject(&record.Project)
	version, err := s.store.SaveVersion(r.Context(), record.ID, req.Label, &record.Project, result)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, version)
}

// handleListVersions lists the versions of a project, newest first
func (s *Server) handleListVersions(w http.ResponseWriter, r *http.Request) {
	record, err := s.loadProject(r)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	versions, err := s.store.ListVersions(r.Context(), record.ID)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"versions": versions,
		"count":    len(versions),
	})
}

// handleGetVersion retrieves a stored version by ID
func (s *Server) handleGetVersion(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	version, err := s.store.GetVersion(r.Context(), id)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}
	if version == nil {
		s.errorFromErr(w, &ErrVersionNotFound{VersionID: id})
		return
	}

	s.jsonResponse(w, http.StatusOK, version)
}

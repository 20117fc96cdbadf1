package server

import (
	"net/http"
)

// CatalogProjectRequest is the body for POST /catalog/projects
type CatalogProjectRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Standards   []string `json:"standards,omitempty"`
	Save        bool     `json:"save,omitempty"`
}

// handleGetCatalog returns the standard templates available for new projects
func (s *Server) handleGetCatalog(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"standards": s.catalog.Standards,
		"count":     len(s.catalog.Standards),
	})
}

// handleCreateFromCatalog builds an unanswered project from catalog templates,
// storing it when save is set
func (s *Server) handleCreateFromCatalog(w http.ResponseWriter, r *http.Request) {
	var req CatalogProjectRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.errorFromErr(w, err)
		return
	}

	project, err := s.catalog.NewProject(req.Name, req.Standards)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}
	project.Description = req.Description

	if !req.Save {
		s.jsonResponse(w, http.StatusOK, project)
		return
	}

	record, err := s.store.CreateProject(r.Context(), project)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, record)
}

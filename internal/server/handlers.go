package server

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/jonathan/governance-assessor/internal/schemas"
	"github.com/jonathan/governance-assessor/internal/scoring"
	"github.com/jonathan/governance-assessor/internal/types"
)

// readProject reads, schema-checks and decodes a Project request body
func (s *Server) readProject(w http.ResponseWriter, r *http.Request) (*types.Project, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, &ErrValidation{Field: "body", Message: err.Error()}
	}
	return s.decodeProject(body)
}

func (s *Server) decodeProject(body []byte) (*types.Project, error) {
	if !json.Valid(body) {
		return nil, &ErrValidation{Field: "body", Message: "request body is not valid JSON"}
	}

	if !s.skipValidation {
		if err := schemas.ValidateProject(body); err != nil {
			return nil, err
		}
	}

	var project types.Project
	if err := json.Unmarshal(body, &project); err != nil {
		return nil, &ErrValidation{Field: "body", Message: err.Error()}
	}
	if err := project.Validate(); err != nil {
		return nil, &ErrValidation{Field: "project", Message: err.Error()}
	}

	return &project, nil
}

// handleScore scores a project supplied in the request body without storing it
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	project, err := s.readProject(w, r)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, scoring.ScoreProject(project))
}

// handleScoreStream scores a project and streams each standard score via SSE
// before sending the full result as the completion event
func (s *Server) handleScoreStream(w http.ResponseWriter, r *http.Request) {
	project, err := s.readProject(w, r)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	result := scoring.ScoreProject(project)
	for _, standardScore := range result.StandardScores {
		if r.Context().Err() != nil {
			return
		}
		if err := sse.WriteEvent("standard", standardScore); err != nil {
			log.Printf("Error writing SSE event: %v", err)
			return
		}
	}

	sse.WriteComplete(result)
}

// decodeJSONBody decodes a small JSON request body into dst
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return &ErrValidation{Field: "body", Message: "Invalid request body: " + err.Error()}
	}
	return nil
}

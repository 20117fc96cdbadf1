package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/governance-assessor/internal/catalog"
	"github.com/jonathan/governance-assessor/internal/db"
	"github.com/jonathan/governance-assessor/internal/schemas"
)

func TestErrProjectNotFound(t *testing.T) {
	id := uuid.New()
	err := &ErrProjectNotFound{ProjectID: id}
	assert.Equal(t, "project not found: "+id.String(), err.Error())
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "name", Message: "required"}
	assert.Equal(t, "validation error: name - required", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "ErrVersionNotFound", err: &ErrVersionNotFound{VersionID: uuid.New()}, expected: http.StatusNotFound},
		{name: "db.ErrNotFound", err: &db.ErrNotFound{Kind: "project", ID: uuid.New()}, expected: http.StatusNotFound},
		{name: "wrapped db.ErrNotFound", err: fmt.Errorf("update: %w", &db.ErrNotFound{Kind: "project"}), expected: http.StatusNotFound},
		{name: "schema ValidationError", err: &schemas.ValidationError{}, expected: http.StatusBadRequest},
		{name: "CatalogError", err: &catalog.CatalogError{Message: "unknown standard"}, expected: http.StatusBadRequest},
		{name: "unknown error", err: errors.New("boom"), expected: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}

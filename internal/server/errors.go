package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/governance-assessor/internal/catalog"
	"github.com/jonathan/governance-assessor/internal/db"
	"github.com/jonathan/governance-assessor/internal/report"
	"github.com/jonathan/governance-assessor/internal/schemas"
)

// ErrProjectNotFound indicates the project was not found
type ErrProjectNotFound struct {
	ProjectID uuid.UUID
}

func (e *ErrProjectNotFound) Error() string {
	return fmt.Sprintf("project not found: %s", e.ProjectID)
}

// ErrVersionNotFound indicates the version was not found
type ErrVersionNotFound struct {
	VersionID uuid.UUID
}

func (e *ErrVersionNotFound) Error() string {
	return fmt.Sprintf("version not found: %s", e.VersionID)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		projectNotFound *ErrProjectNotFound
		versionNotFound *ErrVersionNotFound
		notFound        *db.ErrNotFound
		validation      *ErrValidation
		schemaErr       *schemas.ValidationError
		catalogErr      *catalog.CatalogError
		reportErr       *report.ReportError
	)

	switch {
	case errors.As(err, &projectNotFound), errors.As(err, &versionNotFound), errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &validation), errors.As(err, &schemaErr), errors.As(err, &catalogErr), errors.As(err, &reportErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

package services

import (
	"errors"

	"github.com/SAP-F-2025/university-service/internal/repositories"
	"github.com/SAP-F-2025/university-service/internal/validator"
)

// User-facing messages for failed saves. Storage detail is never shown.
const (
	SaveChangesErrorMessage = "Unable to save changes. Try again, and if the problem persists, see your system administrator."
	DeleteErrorMessage      = "Delete failed. Try again, and if the problem persists see your system administrator."
)

var (
	// ErrNotFound is returned when a lookup by key yields nothing
	ErrNotFound = repositories.ErrNotFound

	// ErrSaveConflict is returned when a commit violates a storage constraint
	ErrSaveConflict = repositories.ErrSaveConflict

	ErrInvalidWorkbook = errors.New("invalid workbook")
	ErrInvalidRoster   = errors.New("roster contains invalid rows")
	ErrEmptyRoster     = errors.New("roster contains no data rows")
)

type (
	ValidationError  = validator.ValidationError
	ValidationErrors = validator.ValidationErrors
)

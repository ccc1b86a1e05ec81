package repositories

import "errors"

var (
	ErrNotFound           = errors.New("record not found")
	ErrSaveConflict       = errors.New("save conflict")
	ErrUnitOfWorkClosed   = errors.New("unit of work is closed")
	ErrUnsupportedInclude = errors.New("unsupported include")
)

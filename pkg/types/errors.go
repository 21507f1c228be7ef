package types

import "errors"

// Store operation errors.
var (
	ErrNotFound        = errors.New("contract not found")
	ErrInvalidID       = errors.New("invalid contract ID")
	ErrInvalidRecord   = errors.New("invalid contract record")
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)

// Configuration errors.
var (
	ErrBackendEmpty          = errors.New("backend must not be empty")
	ErrBackendUnknown        = errors.New("unknown backend")
	ErrSchemaVersionMismatch = errors.New("configuration schema version is not compatible")
	ErrViewNotFound          = errors.New("view not found")
)

// View validation errors. ViewSet.Validate joins one of these per violation.
var (
	ErrInvalidViewType   = errors.New("invalid view type")
	ErrInvalidSourceType = errors.New("invalid source type")
	ErrDuplicateColumn   = errors.New("duplicate column key")
	ErrEmptyColumnKey    = errors.New("column key must not be empty")
	ErrInvalidWidth      = errors.New("column width must be positive")
	ErrInvalidWeight     = errors.New("column weight must not be negative")
	ErrInvalidAlignment  = errors.New("invalid column alignment")
	ErrInvalidDirection  = errors.New("invalid sort direction")
	ErrMissingProjection = errors.New("column has no projection")
)

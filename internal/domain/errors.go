package domain

import "errors"

// Sentinel errors shared across packages. Match with errors.Is; callers wrap
// them with context using fmt.Errorf("...: %w", err).
var (
	// ErrInvalidResidueID is returned for residue identifiers that carry no
	// residue number.
	ErrInvalidResidueID = errors.New("invalid residue id")

	// ErrMisalignedContacts is returned when contact pairs and distances
	// differ in length.
	ErrMisalignedContacts = errors.New("contact pairs and distances are misaligned")

	// ErrNegativeDistance is returned for a contact distance below zero.
	ErrNegativeDistance = errors.New("contact distance is negative")

	// ErrMissingColumn is returned when an entry or record lacks a required field.
	ErrMissingColumn = errors.New("missing required column")

	// ErrModelNotFound is returned when a structure has no model with the requested id.
	ErrModelNotFound = errors.New("model not found")

	// ErrSearchInterfaceNotFound is returned when a requested reference
	// interface resolves to zero rows.
	ErrSearchInterfaceNotFound = errors.New("search interface not found")

	// ErrConflictingSelection is returned when isoform-only and
	// heteromer-only selections are both requested.
	ErrConflictingSelection = errors.New("isoform and heteromer selections are mutually exclusive")

	// ErrBadShape is returned for negative matrix dimensions.
	ErrBadShape = errors.New("matrix: invalid shape")

	// ErrOutOfRange is returned for a matrix index outside its bounds.
	ErrOutOfRange = errors.New("matrix: index out of range")
)

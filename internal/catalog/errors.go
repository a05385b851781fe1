package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedVersion is returned for catalogs of an unknown schema version.
	ErrUnsupportedVersion = errors.New("unsupported catalog version")

	// ErrInvalidEntry is returned when a catalog entry is malformed.
	ErrInvalidEntry = errors.New("invalid catalog entry")

	// ErrDuplicateSite is returned when a site handle appears twice.
	ErrDuplicateSite = errors.New("duplicate site")
)

// Error locates a catalog error in its source document.
type Error struct {
	Catalog string
	Line    int
	Column  int
	Err     error
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s catalog: line %d, column %d: %v", e.Catalog, e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("%s catalog: %v", e.Catalog, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

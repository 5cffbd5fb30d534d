package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoValidQueries means none of the submitted search tokens parsed.
	ErrNoValidQueries = errors.New("no valid search queries")

	// ErrNoFile means an import request carried no file.
	ErrNoFile = errors.New("no file provided")

	// ErrUnsupportedFile means the uploaded file is not an .xlsx workbook.
	ErrUnsupportedFile = errors.New("unsupported file type")

	// ErrUnreadableWorkbook means the file could not be opened as a workbook.
	ErrUnreadableWorkbook = errors.New("unreadable workbook")

	// ErrRecordNotFound is returned when deleting a key that does not exist.
	ErrRecordNotFound = errors.New("qr record not found")
)

// maxListedDuplicates is how many duplicate keys an AllDuplicatesError names.
const maxListedDuplicates = 3

// AllDuplicatesError reports an import in which every valid row already
// existed. It is a failure even though no row was malformed.
type AllDuplicatesError struct {
	Keys []string

	// Count is the number of duplicate rows. Zero means len(Keys).
	Count int
}

// Total returns the number of duplicate rows.
func (e *AllDuplicatesError) Total() int {
	if e.Count > len(e.Keys) {
		return e.Count
	}
	return len(e.Keys)
}

func (e *AllDuplicatesError) Error() string {
	return "all rows already exist: " + e.Summary()
}

// Summary lists up to three duplicate keys followed by an overflow count,
// e.g. "100192 1, 100192 2, 100192 3 and 4 more".
func (e *AllDuplicatesError) Summary() string {
	if len(e.Keys) == 0 {
		if e.Count > 0 {
			return fmt.Sprintf("%d rows", e.Count)
		}
		return "no rows"
	}
	n := len(e.Keys)
	if n > maxListedDuplicates {
		n = maxListedDuplicates
	}
	summary := strings.Join(e.Keys[:n], ", ")
	if extra := e.Total() - n; extra > 0 {
		summary += fmt.Sprintf(" and %d more", extra)
	}
	return summary
}

// IsValidationError reports whether err was caused by bad caller input
// rather than an infrastructure failure.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrNoValidQueries) ||
		errors.Is(err, ErrNoFile) ||
		errors.Is(err, ErrUnsupportedFile) ||
		errors.Is(err, ErrUnreadableWorkbook)
}

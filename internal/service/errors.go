package service

import (
	"errors"

	"github.com/lib/pq"
)

// Sentinel errors the handler layer maps onto HTTP statuses.
var (
	ErrNotFound  = errors.New("resource not found")
	ErrConflict  = errors.New("resource already exists")
	ErrForbidden = errors.New("not allowed to modify this resource")
	ErrUpstream  = errors.New("upstream provider unavailable")
)

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation, which the repositories surface untouched so services can turn
// duplicates into ErrConflict.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

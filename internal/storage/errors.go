package storage

import "errors"

// ErrTableNotFound is returned (wrapped) by backends when the target table
// does not exist. Callers treat it as a provisioning problem rather than a
// data problem.
var ErrTableNotFound = errors.New("table not found")

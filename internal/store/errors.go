package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
	"modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

var (
	// ErrStoreOpen means the database could not be opened or migrated.
	ErrStoreOpen = errors.New("store unavailable")
	// ErrDuplicateKey means a unique index rejected a write.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrInvalidArgument means the request was rejected before touching storage.
	ErrInvalidArgument = errors.New("invalid argument")
)

// OpError annotates a storage failure with the operation, partition and key
// that caused it. Use errors.Is against the sentinels above to classify it.
type OpError struct {
	Op        string
	Partition string
	Key       any
	Err       error
}

func (e *OpError) Error() string {
	if e.Key == nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Partition, e.Err)
	}
	return fmt.Sprintf("%s %s %v: %v", e.Op, e.Partition, e.Key, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// opError wraps err for a repository operation. Open failures pass through
// unchanged; unique constraint violations are tagged with ErrDuplicateKey.
func opError(op, partition string, key any, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrStoreOpen) {
		return err
	}
	var oe *OpError
	if errors.As(err, &oe) {
		return err
	}
	if isUniqueViolation(err) && !errors.Is(err, ErrDuplicateKey) {
		err = fmt.Errorf("%w: %v", ErrDuplicateKey, err)
	}
	return &OpError{Op: op, Partition: partition, Key: key, Err: err}
}

// isUniqueViolation recognizes UNIQUE and PRIMARY KEY failures from either driver.
func isUniqueViolation(err error) bool {
	var mattnErr sqlite3.Error
	if errors.As(err, &mattnErr) {
		return mattnErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			mattnErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var moderncErr *sqlite.Error
	if errors.As(err, &moderncErr) {
		code := moderncErr.Code()
		return code == sqlite3lib.SQLITE_CONSTRAINT_UNIQUE ||
			code == sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

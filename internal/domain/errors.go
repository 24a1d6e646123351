package domain

import "errors"

// Sentinel errors for the core taxonomy - match with errors.Is()
var (
	// ErrValidation indicates caller-fixable invalid input (4xx)
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates an unknown id, token, or version. Ownership
	// mismatches map to this error as well, so a caller cannot distinguish
	// "exists but not yours" from "truly absent".
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a duplicate unique key (name or token collision)
	ErrConflict = errors.New("already exists")

	// ErrUnauthorized indicates a missing or invalid credential
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates an authenticated caller without the right role
	ErrForbidden = errors.New("forbidden")

	// ErrUnavailable indicates a document explicitly gated off on the
	// public path. Distinct from ErrNotFound: the token is known, the
	// owner has hidden the content (410-equivalent).
	ErrUnavailable = errors.New("temporarily unavailable")
)

// ConflictError represents a unique-key conflict with details about the
// existing resource.
type ConflictError struct {
	Message      string
	ResourceType string // "document", "folder", "user"
	ResourceID   string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// StorageError represents a blob read/write failure distinct from a
// missing-row condition. It carries the path for logging. Handlers map it
// to a 5xx unless Missing is set, in which case the blob is referenced by
// the database but absent from disk - a recoverable divergence reported
// as not found, never a crash.
type StorageError struct {
	Op      string // "read", "write", "delete"
	Path    string
	Missing bool
	Err     error
}

func (e *StorageError) Error() string {
	return "storage " + e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

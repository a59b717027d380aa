package models

import "fmt"

// NotFoundError: the identified entity does not exist. Maps to 404.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Key)
}

// ValidationError: malformed or incomplete input. Maps to 400.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// ConflictError: a unique constraint was violated, almost always a slug
// collision. Maps to 409.
type ConflictError struct {
	Field string
	Msg   string
}

func (e *ConflictError) Error() string { return e.Msg }

// StorageCleanupError is never returned to callers; it only exists so that
// best-effort object-store deletes get logged with the key that failed.
type StorageCleanupError struct {
	Key string
	Err error
}

func (e *StorageCleanupError) Error() string {
	return fmt.Sprintf("storage cleanup of %q failed: %v", e.Key, e.Err)
}

func (e *StorageCleanupError) Unwrap() error { return e.Err }

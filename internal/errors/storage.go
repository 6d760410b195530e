package errors

import "fmt"

// StorageError is raised by the persistence layer. Message is written by
// the repository and is safe to show; the driver error stays in Cause.
type StorageError struct {
	Op      string
	Message string
	Cause   error
}

// Error implements the error interface
func (e *StorageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("storage %s: %s: %v", e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("storage %s: %s", e.Op, e.Message)
}

// Unwrap returns the driver error
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// StorageFault marks the error as raised by the persistence layer.
func (e *StorageError) StorageFault() {}

// PublicMessage returns the repository-authored message.
func (e *StorageError) PublicMessage() string {
	return e.Message
}

// Storage wraps a driver error as a storage fault
func Storage(err error, op, message string) *StorageError {
	if err == nil {
		return nil
	}
	return &StorageError{
		Op:      op,
		Message: message,
		Cause:   err,
	}
}


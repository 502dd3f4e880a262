package activerow

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a key-based load finds no row.
	ErrNotFound = errors.New("record not found")
	// ErrRecordIsNew is returned by operations that require a persisted record.
	ErrRecordIsNew = errors.New("record was never saved")
	// ErrUnknownField is returned when a field name is not part of the table schema.
	ErrUnknownField = errors.New("unknown field")
)

// ConfigError indicates a broken table or field declaration. It signals a
// programming defect, not bad user data, and is never added to an ErrorList.
type ConfigError struct {
	Message string
}

func NewConfigError(msg string) *ConfigError {
	return &ConfigError{
		Message: msg,
	}
}

func NewConfigErrorf(format string, args ...any) *ConfigError {
	return &ConfigError{
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s", e.Message)
}

// StorageError wraps a failure reported by the Storage collaborator.
type StorageError struct {
	Op        string
	TableName string
	Err       error
}

func NewStorageError(op string, tableName string, err error) *StorageError {
	return &StorageError{
		Op:        op,
		TableName: tableName,
		Err:       err,
	}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error on %s '%s': %v", e.Op, e.TableName, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

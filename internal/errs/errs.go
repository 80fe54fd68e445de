// Package errs holds the error taxonomy shared by the connector, dataset and
// excel packages. Callers match with errors.Is / errors.As.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration covers malformed URLs, unsupported engines or drivers and
	// driver libraries that are not compiled in.
	ErrConfiguration = errors.New("configuration error")

	// ErrDataShape covers column-count mismatches, unresolved column references
	// and row/column width disagreements.
	ErrDataShape = errors.New("data shape error")

	// ErrDriverMismatch is returned when the target engine cannot run an
	// operation, e.g. stored procedures on a file-desktop database.
	ErrDriverMismatch = errors.New("driver mismatch")

	// ErrSchemaLimitation marks introspection requests the engine cannot serve.
	ErrSchemaLimitation = errors.New("schema introspection limitation")
)

// LimitationError carries the descriptive text for an introspection request
// that was not executed.
type LimitationError struct {
	Message string
}

func (e *LimitationError) Error() string { return e.Message }

// Is reports ErrSchemaLimitation so callers can test the class of error.
func (e *LimitationError) Is(target error) bool { return target == ErrSchemaLimitation }

// Configf wraps ErrConfiguration with a formatted message.
func Configf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

// Shapef wraps ErrDataShape with a formatted message.
func Shapef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDataShape, fmt.Sprintf(format, args...))
}

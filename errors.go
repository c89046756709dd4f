package permkit

import (
	"errors"
	"fmt"
)

// Sentinel errors for PermKit operations.
var (
	// ErrInvalidArgument is returned when a node cannot be built from the
	// given inputs, e.g. an empty permission string.
	ErrInvalidArgument = errors.New("permkit: invalid argument")

	// ErrInvalidState is returned when an accessor is called on a node of the
	// wrong flavor, e.g. GroupName on a non-group node or Expiry on a
	// permanent node.
	ErrInvalidState = errors.New("permkit: invalid state")

	// ErrUnsupported is returned when a mutation is attempted on an immutable
	// node.
	ErrUnsupported = errors.New("permkit: unsupported operation")

	// ErrMalformedNode is returned when a serialized node string cannot be
	// parsed.
	ErrMalformedNode = errors.New("permkit: malformed node")
)

// Error wraps a sentinel error with additional context.
type Error struct {
	Err        error  // Underlying sentinel error
	Message    string // Additional context
	Permission string // Permission involved (if applicable)
	Server     string // Server involved (if applicable)
	World      string // World involved (if applicable)
	Raw        string // Raw serialized input (if applicable)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is checks if the error matches a target error.
func (e *Error) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewError creates a new Error with context.
func NewError(err error, message string) *Error {
	return &Error{
		Err:     err,
		Message: message,
	}
}

// WithPermission adds the permission string to the error.
func (e *Error) WithPermission(permission string) *Error {
	e.Permission = permission
	return e
}

// WithServer adds the server name to the error.
func (e *Error) WithServer(server string) *Error {
	e.Server = server
	return e
}

// WithWorld adds the world name to the error.
func (e *Error) WithWorld(world string) *Error {
	e.World = world
	return e
}

// WithRaw adds the raw serialized input to the error.
func (e *Error) WithRaw(raw string) *Error {
	e.Raw = raw
	return e
}

// IsInvalidArgument checks if an error is due to invalid construction input.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsInvalidState checks if an error is due to an accessor/state mismatch.
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidState)
}

// IsUnsupported checks if an error is due to an attempted mutation.
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupported)
}

// IsMalformedNode checks if an error is due to an unparseable serialized node.
func IsMalformedNode(err error) bool {
	return errors.Is(err, ErrMalformedNode)
}

package datagrid

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks against the typed errors below.
var (
	ErrConfiguration    = errors.New("invalid grid configuration")
	ErrInvalidNode      = errors.New("invalid node")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// ConfigurationError reports an invalid column setup.
type ConfigurationError struct {
	Column string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("invalid grid configuration: %s", e.Reason)
	}
	return fmt.Sprintf("invalid grid configuration: column %q: %s", e.Column, e.Reason)
}

// Is reports whether target is ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// InvalidNodeError reports an operation on a node the tree does not own,
// or a node that cannot take part in the operation.
type InvalidNodeError struct {
	Op     string
	Reason string
}

func (e *InvalidNodeError) Error() string {
	return fmt.Sprintf("%s: invalid node: %s", e.Op, e.Reason)
}

// Is reports whether target is ErrInvalidNode.
func (e *InvalidNodeError) Is(target error) bool { return target == ErrInvalidNode }

// InvalidParameterError reports a malformed argument.
type InvalidParameterError struct {
	Name   string
	Value  any
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%v: %s", e.Name, e.Value, e.Reason)
}

// Is reports whether target is ErrInvalidParameter.
func (e *InvalidParameterError) Is(target error) bool { return target == ErrInvalidParameter }

package calculator

import (
	"fmt"
	"strings"
)

// NotConstantError is returned when a concrete number is required but the
// value still contains unresolved variables.
type NotConstantError struct {
	Variables []string
}

func (e *NotConstantError) Error() string {
	return fmt.Sprintf("value is not constant, unresolved variables: %s", strings.Join(e.Variables, ", "))
}

// UnboundVariableError is returned when evaluation reaches a variable with
// no binding.
type UnboundVariableError struct {
	Name string
}

func (e *UnboundVariableError) Error() string {
	return fmt.Sprintf("variable %q is not bound", e.Name)
}

// DivisionByZeroError is returned when expression evaluation divides by zero.
type DivisionByZeroError struct{}

func (e *DivisionByZeroError) Error() string {
	return "division by zero in expression"
}

// ParseError describes a malformed expression string.
type ParseError struct {
	Input    string
	Position int
	Msg      string
}

func (e *ParseError) Error() string {
	if e.Input == "" {
		return fmt.Sprintf("expression parse error: %s", e.Msg)
	}
	return fmt.Sprintf("expression parse error at position %d in %q: %s", e.Position, e.Input, e.Msg)
}

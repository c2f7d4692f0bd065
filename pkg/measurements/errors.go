package measurements

import "fmt"

// PauliProductExceedsQubitsError reports a product mask naming a qubit
// outside the measured range.
type PauliProductExceedsQubitsError struct {
	Qubit        int
	NumberQubits int
}

func (e *PauliProductExceedsQubitsError) Error() string {
	return fmt.Sprintf("pauli product involves qubit %d but only %d qubits are measured", e.Qubit, e.NumberQubits)
}

// ExpValUsedTwiceError reports a duplicate expectation value name.
type ExpValUsedTwiceError struct {
	Name string
}

func (e *ExpValUsedTwiceError) Error() string {
	return fmt.Sprintf("expectation value name %q is already used", e.Name)
}

// MissingRegisterError reports an output register the evaluation needs but
// the backend did not return.
type MissingRegisterError struct {
	Name string
}

func (e *MissingRegisterError) Error() string {
	return fmt.Sprintf("output register %q not found", e.Name)
}

// MismatchedOperatorDimensionError reports a sparse operator entry outside
// the Hilbert space spanned by the measured qubits.
type MismatchedOperatorDimensionError struct {
	Row          int
	Col          int
	NumberQubits int
}

func (e *MismatchedOperatorDimensionError) Error() string {
	return fmt.Sprintf("operator index (%d, %d) exceeds Hilbert space dimension of %d qubits", e.Row, e.Col, e.NumberQubits)
}

// MismatchedRegisterDimensionError reports a complex register whose length
// is neither 2^n nor 4^n for the measured qubit count.
type MismatchedRegisterDimensionError struct {
	Dim          int
	NumberQubits int
}

func (e *MismatchedRegisterDimensionError) Error() string {
	return fmt.Sprintf("register dimension %d matches neither a state vector nor a density matrix on %d qubits", e.Dim, e.NumberQubits)
}

// ShortBitRegisterError reports a measured shot holding fewer bits than a
// product mask addresses.
type ShortBitRegisterError struct {
	Name   string
	Shot   int
	Qubit  int
	Length int
}

func (e *ShortBitRegisterError) Error() string {
	return fmt.Sprintf("bit register %q shot %d holds %d bits but the product mask addresses qubit %d", e.Name, e.Shot, e.Length, e.Qubit)
}

// EvaluationError reports a failure while post-processing output
// registers.
type EvaluationError struct {
	Msg string
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("measurement evaluation failed: %s", e.Msg)
}

// UnknownMeasurementError reports a serialized measurement type with no
// registered decoder.
type UnknownMeasurementError struct {
	Type string
}

func (e *UnknownMeasurementError) Error() string {
	return fmt.Sprintf("unknown measurement type %q", e.Type)
}

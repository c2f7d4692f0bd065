package circuits

import "fmt"

// UnitaryMatrixError reports alpha/beta coefficients whose norm is too far
// from one to build a valid unitary.
type UnitaryMatrixError struct {
	AlphaR float64
	AlphaI float64
	BetaR  float64
	BetaI  float64
	Norm   float64
}

func (e *UnitaryMatrixError) Error() string {
	return fmt.Sprintf(
		"resulting gate matrix is not unitary, check values of alpha and beta: alpha_r: %v, alpha_i: %v, beta_r: %v, beta_i: %v, norm: %v",
		e.AlphaR, e.AlphaI, e.BetaR, e.BetaI, e.Norm,
	)
}

// QubitMappingError reports a qubit that cannot be remapped because the
// supplied mapping is not a permutation covering it.
type QubitMappingError struct {
	Qubit int
}

func (e *QubitMappingError) Error() string {
	return fmt.Sprintf("mapping of qubit %d failed", e.Qubit)
}

// DuplicateQubitsError reports an operation constructed with the same qubit
// in two roles, e.g. control == target.
type DuplicateQubitsError struct {
	Gate  string
	Qubit int
}

func (e *DuplicateQubitsError) Error() string {
	return fmt.Sprintf("%s constructed with duplicate qubit %d", e.Gate, e.Qubit)
}

// IncompatibleQubitsError reports a multiplication of two single-qubit
// gates acting on different qubits.
type IncompatibleQubitsError struct {
	Left  int
	Right int
}

func (e *IncompatibleQubitsError) Error() string {
	return fmt.Sprintf("qubits %d and %d incompatible, gates acting on different qubits can not be multiplied", e.Left, e.Right)
}

// NotPositiveSemidefiniteError reports a noise rate matrix with a negative
// eigenvalue beyond tolerance.
type NotPositiveSemidefiniteError struct {
	Eigenvalue float64
}

func (e *NotPositiveSemidefiniteError) Error() string {
	return fmt.Sprintf("rate matrix is not positive semi-definite, negative eigenvalue: %v", e.Eigenvalue)
}

// UnknownOperationError reports a serialized operation type with no
// registered decoder.
type UnknownOperationError struct {
	Type string
}

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("unknown operation type %q", e.Type)
}

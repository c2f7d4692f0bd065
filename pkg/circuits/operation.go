// Package circuits models quantum circuits as ordered sequences of typed
// operations: register definitions, unitary gates of arity one to N, and
// annotation, noise and measurement pragmas. Operations carry symbolic
// parameters and expose their numeric behaviour through small opt-in
// capability interfaces.
package circuits

import (
	"gonum.org/v1/gonum/mat"

	"github.com/aristath/entangle/pkg/calculator"
)

// UnitarityTolerance bounds the allowed deviation of |alpha|^2 + |beta|^2
// from one when building single-qubit unitaries. Looser than machine
// epsilon to tolerate error accumulated through symbolic evaluation chains.
var UnitarityTolerance = 1e-6

// PositiveSemidefiniteTolerance bounds how negative an eigenvalue of a
// noise rate matrix may be before construction fails.
var PositiveSemidefiniteTolerance = 1e-6

// Operation is the behaviour shared by every circuit element. Operations
// are immutable value types; substitution and remapping return new
// instances.
type Operation interface {
	// Kind returns the stable operation name used for serialization and
	// lookup.
	Kind() string
	// Tags returns the operation's category tags, most generic first.
	Tags() []string
	// IsParametrized reports whether any parameter is still symbolic.
	IsParametrized() bool
	// InvolvedQubits lists the qubits the operation acts on.
	InvolvedQubits() InvolvedQubits
	// SubstituteParameters replaces symbolic parameters using the
	// calculator's bindings and returns the resulting operation.
	SubstituteParameters(cal *calculator.Calculator) (Operation, error)
	// RemapQubits rewrites qubit indices through the given mapping. The
	// mapping must be a permutation: every value must also appear as a key.
	RemapQubits(mapping map[int]int) (Operation, error)
}

// GateOperation is implemented by operations with a unitary matrix
// representation. Matrix construction requires fully constant parameters.
type GateOperation interface {
	Operation
	UnitaryMatrix() (*mat.CDense, error)
}

// SingleQubitGateOperation is implemented by gates acting on one qubit.
// The unitary is reconstructed from the alpha/beta coefficients and global
// phase as
//
//	U = e^{i phi} [[alpha_r + i alpha_i, -beta_r + i beta_i],
//	               [beta_r  + i beta_i,  alpha_r - i alpha_i]].
type SingleQubitGateOperation interface {
	GateOperation
	AlphaR() calculator.Value
	AlphaI() calculator.Value
	BetaR() calculator.Value
	BetaI() calculator.Value
	GlobalPhase() calculator.Value
}

// Rotation is implemented by gates parameterized by a single rotation
// angle. PowerCF scales the angle, producing a new instance of the same
// gate kind.
type Rotation interface {
	Operation
	Angle() calculator.Value
	PowerCF(power calculator.Value) Rotation
}

// TwoQubitGateOperation is implemented by gates acting on a control and a
// target qubit. The matrix convention is fixed: the control is the most
// significant qubit of the 4x4 basis ordering.
type TwoQubitGateOperation interface {
	GateOperation
	ControlQubit() int
	TargetQubit() int
	KakDecomposition() KakDecomposition
}

// ThreeQubitGateOperation is implemented by gates on three qubits, defined
// through an equivalent circuit of one- and two-qubit gates.
type ThreeQubitGateOperation interface {
	GateOperation
	EquivalentCircuit() *Circuit
}

// MultiQubitGateOperation is implemented by gates on an arbitrary ordered
// qubit list, defined through an equivalent circuit.
type MultiQubitGateOperation interface {
	GateOperation
	EquivalentCircuit() *Circuit
}

// PragmaNoiseOperation is implemented by noise pragmas with a Lindblad
// superoperator representation in the fixed {sigma+, sigma-, sigmaz}
// convention.
type PragmaNoiseOperation interface {
	Operation
	Superoperator() (*mat.Dense, error)
	PowerCF(power calculator.Value) PragmaNoiseOperation
}

// PragmaNoiseProbaOperation is implemented by noise pragmas with an error
// probability derived from gate time and rate.
type PragmaNoiseProbaOperation interface {
	PragmaNoiseOperation
	Probability() (calculator.Value, error)
}

// DefinitionOperation is implemented by classical register definitions.
type DefinitionOperation interface {
	Operation
	RegisterName() string
}

// KakDecomposition is the canonical two-qubit gate factorization: a global
// phase, the three-component interaction vector, and optional single-qubit
// circuits applied before and after the interaction.
type KakDecomposition struct {
	GlobalPhase   calculator.Value
	KVector       [3]calculator.Value
	CircuitBefore *Circuit
	CircuitAfter  *Circuit
}

// MinimumSupportedVersion returns the oldest library version able to
// deserialize the operation.
func MinimumSupportedVersion(op Operation) Version {
	switch op.(type) {
	case *PragmaLoop:
		return Version{Major: 1, Minor: 1, Patch: 0}
	}
	return Version{Major: 1, Minor: 0, Patch: 0}
}

// checkMapping verifies that a qubit mapping is a permutation: every
// mapped-to index must itself be remapped.
func checkMapping(mapping map[int]int) error {
	for _, target := range mapping {
		if _, ok := mapping[target]; !ok {
			return &QubitMappingError{Qubit: target}
		}
	}
	return nil
}

// mapQubit applies a mapping to one index, leaving unmapped indices
// unchanged.
func mapQubit(mapping map[int]int, qubit int) int {
	if mapped, ok := mapping[qubit]; ok {
		return mapped
	}
	return qubit
}

// substituteValue evaluates a symbolic parameter against the calculator's
// bindings, failing when a variable remains unbound.
func substituteValue(cal *calculator.Calculator, v calculator.Value) (calculator.Value, error) {
	f, err := cal.Evaluate(v)
	if err != nil {
		return calculator.Value{}, err
	}
	return calculator.Float(f), nil
}

// substituteValues evaluates several parameters in place, failing on the
// first unbound variable.
func substituteValues(cal *calculator.Calculator, vals ...*calculator.Value) error {
	for _, v := range vals {
		s, err := substituteValue(cal, *v)
		if err != nil {
			return err
		}
		*v = s
	}
	return nil
}

// remapQubitKeys rewrites the keys of a qubit-keyed map through a mapping.
func remapQubitKeys[V any](mapping map[int]int, m map[int]V) map[int]V {
	out := make(map[int]V, len(m))
	for q, v := range m {
		out[mapQubit(mapping, q)] = v
	}
	return out
}

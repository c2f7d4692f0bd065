// Package measurements turns raw output registers into named expectation
// values. Each measurement pairs the circuits a backend has to run with an
// input describing how the readouts are combined.
package measurements

import (
	"fmt"

	"github.com/aristath/entangle/pkg/calculator"
)

// ExpValCombination describes how Pauli product expectation values are
// combined into one named observable. Exactly one of the two forms is set:
// a linear combination keyed by product index, or a symbolic expression
// over the variables pauli_product_0, pauli_product_1, ...
type ExpValCombination struct {
	Linear   map[int]float64   `json:"linear,omitempty" msgpack:"linear,omitempty"`
	Symbolic *calculator.Value `json:"symbolic,omitempty" msgpack:"symbolic,omitempty"`
}

// LinearCombination builds the dot-product form.
func LinearCombination(coefficients map[int]float64) ExpValCombination {
	return ExpValCombination{Linear: coefficients}
}

// SymbolicCombination builds the expression form.
func SymbolicCombination(expr calculator.Value) ExpValCombination {
	return ExpValCombination{Symbolic: &expr}
}

func (c ExpValCombination) evaluate(pauliProducts []float64) (float64, error) {
	if c.Symbolic != nil {
		cal := calculator.New()
		for i, p := range pauliProducts {
			cal.Set(fmt.Sprintf("pauli_product_%d", i), p)
		}
		return cal.Evaluate(*c.Symbolic)
	}
	value := 0.0
	for index, coefficient := range c.Linear {
		if index < 0 || index >= len(pauliProducts) {
			return 0, &EvaluationError{Msg: fmt.Sprintf("pauli product index %d out of range", index)}
		}
		value += pauliProducts[index] * coefficient
	}
	return value, nil
}

// PauliZProductInput collects which Pauli products a PauliZProduct
// measurement reads out and how they combine into expectation values.
type PauliZProductInput struct {
	// PauliProductQubitMasks maps readout register name to product index
	// to the qubits making up that product.
	PauliProductQubitMasks map[string]map[int][]int     `json:"pauli_product_qubit_masks" msgpack:"pauli_product_qubit_masks"`
	NumberQubits           int                          `json:"number_qubits" msgpack:"number_qubits"`
	NumberPauliProducts    int                          `json:"number_pauli_products" msgpack:"number_pauli_products"`
	MeasuredExpVals        map[string]ExpValCombination `json:"measured_exp_vals" msgpack:"measured_exp_vals"`
	UseFlippedMeasurement  bool                         `json:"use_flipped_measurement" msgpack:"use_flipped_measurement"`
}

// NewPauliZProductInput creates an input with no products and no
// expectation values.
func NewPauliZProductInput(numberQubits int, useFlippedMeasurement bool) *PauliZProductInput {
	return &PauliZProductInput{
		PauliProductQubitMasks: make(map[string]map[int][]int),
		NumberQubits:           numberQubits,
		MeasuredExpVals:        make(map[string]ExpValCombination),
		UseFlippedMeasurement:  useFlippedMeasurement,
	}
}

// AddPauliZProduct registers a Pauli product measured from the given
// readout register and returns its product index. Adding an identical mask
// for the same readout returns the existing index.
func (in *PauliZProductInput) AddPauliZProduct(readout string, mask []int) (int, error) {
	for _, qubit := range mask {
		if qubit >= in.NumberQubits {
			return 0, &PauliProductExceedsQubitsError{Qubit: qubit, NumberQubits: in.NumberQubits}
		}
	}
	if masks, ok := in.PauliProductQubitMasks[readout]; ok {
		for index, existing := range masks {
			if equalMask(existing, mask) {
				return index, nil
			}
		}
		masks[in.NumberPauliProducts] = mask
	} else {
		in.PauliProductQubitMasks[readout] = map[int][]int{in.NumberPauliProducts: mask}
	}
	in.NumberPauliProducts++
	return in.NumberPauliProducts - 1, nil
}

// AddLinearExpVal names an expectation value built as a linear combination
// of Pauli products.
func (in *PauliZProductInput) AddLinearExpVal(name string, linear map[int]float64) error {
	if _, ok := in.MeasuredExpVals[name]; ok {
		return &ExpValUsedTwiceError{Name: name}
	}
	in.MeasuredExpVals[name] = LinearCombination(linear)
	return nil
}

// AddSymbolicExpVal names an expectation value built from a symbolic
// expression over pauli_product_i variables.
func (in *PauliZProductInput) AddSymbolicExpVal(name string, symbolic calculator.Value) error {
	if _, ok := in.MeasuredExpVals[name]; ok {
		return &ExpValUsedTwiceError{Name: name}
	}
	in.MeasuredExpVals[name] = SymbolicCombination(symbolic)
	return nil
}

func equalMask(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// CheatedPauliZProductInput maps readout register names holding
// pre-computed Pauli product values to product indices.
type CheatedPauliZProductInput struct {
	MeasuredExpVals  map[string]ExpValCombination `json:"measured_exp_vals" msgpack:"measured_exp_vals"`
	PauliProductKeys map[string]int               `json:"pauli_product_keys" msgpack:"pauli_product_keys"`
}

// NewCheatedPauliZProductInput creates an empty input.
func NewCheatedPauliZProductInput() *CheatedPauliZProductInput {
	return &CheatedPauliZProductInput{
		MeasuredExpVals:  make(map[string]ExpValCombination),
		PauliProductKeys: make(map[string]int),
	}
}

// AddPauliZProduct registers the readout register holding one Pauli
// product value and returns its product index.
func (in *CheatedPauliZProductInput) AddPauliZProduct(readout string) int {
	if index, ok := in.PauliProductKeys[readout]; ok {
		return index
	}
	index := len(in.PauliProductKeys)
	in.PauliProductKeys[readout] = index
	return index
}

// AddLinearExpVal names a linear combination expectation value.
func (in *CheatedPauliZProductInput) AddLinearExpVal(name string, linear map[int]float64) error {
	if _, ok := in.MeasuredExpVals[name]; ok {
		return &ExpValUsedTwiceError{Name: name}
	}
	in.MeasuredExpVals[name] = LinearCombination(linear)
	return nil
}

// AddSymbolicExpVal names a symbolic expectation value.
func (in *CheatedPauliZProductInput) AddSymbolicExpVal(name string, symbolic calculator.Value) error {
	if _, ok := in.MeasuredExpVals[name]; ok {
		return &ExpValUsedTwiceError{Name: name}
	}
	in.MeasuredExpVals[name] = SymbolicCombination(symbolic)
	return nil
}

// OperatorEntry is one non-zero element of a sparse operator on the
// Hilbert space.
type OperatorEntry struct {
	Row  int     `json:"row" msgpack:"row"`
	Col  int     `json:"col" msgpack:"col"`
	Real float64 `json:"real" msgpack:"real"`
	Imag float64 `json:"imag" msgpack:"imag"`
}

func (e OperatorEntry) value() complex128 {
	return complex(e.Real, e.Imag)
}

// MeasuredOperator pairs a sparse operator with the readout register
// holding the state it is evaluated against.
type MeasuredOperator struct {
	Operator []OperatorEntry `json:"operator" msgpack:"operator"`
	Readout  string          `json:"readout" msgpack:"readout"`
}

// CheatedInput collects operators evaluated directly against simulator
// states.
type CheatedInput struct {
	MeasuredOperators map[string]MeasuredOperator `json:"measured_operators" msgpack:"measured_operators"`
	NumberQubits      int                         `json:"number_qubits" msgpack:"number_qubits"`
}

// NewCheatedInput creates an input for the given Hilbert space size.
func NewCheatedInput(numberQubits int) *CheatedInput {
	return &CheatedInput{
		MeasuredOperators: make(map[string]MeasuredOperator),
		NumberQubits:      numberQubits,
	}
}

// AddOperatorExpVal names an operator expectation value read from the
// given register. Every operator index must fit the Hilbert space.
func (in *CheatedInput) AddOperatorExpVal(name string, operator []OperatorEntry, readout string) error {
	dimension := 1 << in.NumberQubits
	for _, entry := range operator {
		if entry.Row >= dimension || entry.Col >= dimension {
			return &MismatchedOperatorDimensionError{Row: entry.Row, Col: entry.Col, NumberQubits: in.NumberQubits}
		}
	}
	if _, ok := in.MeasuredOperators[name]; ok {
		return &ExpValUsedTwiceError{Name: name}
	}
	in.MeasuredOperators[name] = MeasuredOperator{Operator: operator, Readout: readout}
	return nil
}

package measurements

import (
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/aristath/entangle/pkg/calculator"
	"github.com/aristath/entangle/pkg/circuits"
	"github.com/aristath/entangle/pkg/registers"
)

// Measure is the behaviour shared by every measurement: the circuits a
// backend has to execute and parameter substitution over all of them.
type Measure interface {
	// Kind returns the stable measurement name used for serialization.
	Kind() string
	// ConstantCircuit returns the circuit executed before each measurement
	// circuit, or nil.
	ConstantCircuit() *circuits.Circuit
	// Circuits returns the measurement circuits.
	Circuits() []*circuits.Circuit
	// SubstituteParameters replaces symbolic parameters in every circuit.
	SubstituteParameters(values map[string]float64) (Measure, error)
	// MinimumSupportedVersion returns the oldest library version able to
	// read a serialized form of this measurement.
	MinimumSupportedVersion() circuits.Version
}

// ExpectationMeasurement is a measurement that post-processes output
// registers into named expectation values.
type ExpectationMeasurement interface {
	Measure
	Evaluate(regs registers.Registers) (map[string]float64, error)
}

func substituteCircuits(constant *circuits.Circuit, members []*circuits.Circuit, values map[string]float64) (*circuits.Circuit, []*circuits.Circuit, error) {
	newCalculator := func() *calculator.Calculator {
		cal := calculator.New()
		for name, value := range values {
			cal.Set(name, value)
		}
		return cal
	}
	var newConstant *circuits.Circuit
	if constant != nil {
		substituted, err := constant.SubstituteParameters(newCalculator())
		if err != nil {
			return nil, nil, err
		}
		newConstant = substituted
	}
	newMembers := make([]*circuits.Circuit, 0, len(members))
	for _, member := range members {
		substituted, err := member.SubstituteParameters(newCalculator())
		if err != nil {
			return nil, nil, err
		}
		newMembers = append(newMembers, substituted)
	}
	return newConstant, newMembers, nil
}

func circuitsMinimumVersion(constant *circuits.Circuit, members []*circuits.Circuit) circuits.Version {
	minimum := circuits.Version{Major: 1, Minor: 0, Patch: 0}
	if constant != nil {
		minimum = laterVersion(minimum, constant.MinimumSupportedVersion())
	}
	for _, member := range members {
		minimum = laterVersion(minimum, member.MinimumSupportedVersion())
	}
	return minimum
}

func laterVersion(a, b circuits.Version) circuits.Version {
	if b.Major != a.Major {
		if b.Major > a.Major {
			return b
		}
		return a
	}
	if b.Minor != a.Minor {
		if b.Minor > a.Minor {
			return b
		}
		return a
	}
	if b.Patch > a.Patch {
		return b
	}
	return a
}

// PauliZProduct measures expectation values of products of PauliZ
// operators from repeated bit readouts. Each circuit rotates a different
// measurement basis into the Z basis before the readout.
type PauliZProduct struct {
	Constant *circuits.Circuit   `json:"constant_circuit" msgpack:"constant_circuit"`
	Members  []*circuits.Circuit `json:"circuits" msgpack:"circuits"`
	Input    *PauliZProductInput `json:"input" msgpack:"input"`
}

func (m *PauliZProduct) Kind() string { return "PauliZProduct" }

func (m *PauliZProduct) ConstantCircuit() *circuits.Circuit { return m.Constant }

func (m *PauliZProduct) Circuits() []*circuits.Circuit { return m.Members }

func (m *PauliZProduct) SubstituteParameters(values map[string]float64) (Measure, error) {
	constant, members, err := substituteCircuits(m.Constant, m.Members, values)
	if err != nil {
		return nil, err
	}
	return &PauliZProduct{Constant: constant, Members: members, Input: m.Input}, nil
}

func (m *PauliZProduct) MinimumSupportedVersion() circuits.Version {
	return circuitsMinimumVersion(m.Constant, m.Members)
}

// Evaluate averages per-shot Pauli product parities over all shots, mixes
// in the flipped readouts when enabled, and combines the products into the
// named expectation values.
func (m *PauliZProduct) Evaluate(regs registers.Registers) (map[string]float64, error) {
	extensions := []string{""}
	if m.Input.UseFlippedMeasurement {
		extensions = []string{"", "_flipped"}
	}

	pauliProductsPerRegister := make(map[string][]float64)
	for registerName, masks := range m.Input.PauliProductQubitMasks {
		for _, extension := range extensions {
			flipped := extension != ""
			name := registerName + extension
			register, ok := regs.Bits[name]
			if !ok {
				return nil, &MissingRegisterError{Name: name}
			}
			if len(register) == 0 {
				return nil, &EvaluationError{Msg: "bit register " + name + " holds no shots"}
			}
			products := make([]float64, m.Input.NumberPauliProducts)
			shotValues := make([]float64, len(register))
			for index, mask := range masks {
				if len(mask) == 0 {
					products[index] = 1.0
					continue
				}
				for shot, values := range register {
					parity := false
					for _, qubit := range mask {
						if qubit >= len(values) {
							return nil, &ShortBitRegisterError{Name: name, Shot: shot, Qubit: qubit, Length: len(values)}
						}
						// A set bit flips the parity; with flipped readout a
						// cleared bit does.
						if values[qubit] != flipped {
							parity = !parity
						}
					}
					if parity {
						shotValues[shot] = -1.0
					} else {
						shotValues[shot] = 1.0
					}
				}
				products[index] = stat.Mean(shotValues, nil)
			}
			pauliProductsPerRegister[name] = products
		}
	}

	pauliProducts := make([]float64, m.Input.NumberPauliProducts)
	for registerName := range m.Input.PauliProductQubitMasks {
		if strings.HasSuffix(registerName, "flipped") {
			continue
		}
		normal := pauliProductsPerRegister[registerName]
		if m.Input.UseFlippedMeasurement {
			flipped := pauliProductsPerRegister[registerName+"_flipped"]
			for i := range pauliProducts {
				pauliProducts[i] += (normal[i] + flipped[i]) / 2
			}
		} else {
			for i := range pauliProducts {
				pauliProducts[i] += normal[i]
			}
		}
	}

	return evaluateExpVals(m.Input.MeasuredExpVals, pauliProducts)
}

func evaluateExpVals(expVals map[string]ExpValCombination, pauliProducts []float64) (map[string]float64, error) {
	results := make(map[string]float64, len(expVals))
	for name, combination := range expVals {
		value, err := combination.evaluate(pauliProducts)
		if err != nil {
			return nil, err
		}
		results[name] = value
	}
	return results, nil
}

// CheatedPauliZProduct reads Pauli product expectation values directly
// from float registers filled by a simulator.
type CheatedPauliZProduct struct {
	Constant *circuits.Circuit          `json:"constant_circuit" msgpack:"constant_circuit"`
	Members  []*circuits.Circuit        `json:"circuits" msgpack:"circuits"`
	Input    *CheatedPauliZProductInput `json:"input" msgpack:"input"`
}

func (m *CheatedPauliZProduct) Kind() string { return "CheatedPauliZProduct" }

func (m *CheatedPauliZProduct) ConstantCircuit() *circuits.Circuit { return m.Constant }

func (m *CheatedPauliZProduct) Circuits() []*circuits.Circuit { return m.Members }

func (m *CheatedPauliZProduct) SubstituteParameters(values map[string]float64) (Measure, error) {
	constant, members, err := substituteCircuits(m.Constant, m.Members, values)
	if err != nil {
		return nil, err
	}
	return &CheatedPauliZProduct{Constant: constant, Members: members, Input: m.Input}, nil
}

func (m *CheatedPauliZProduct) MinimumSupportedVersion() circuits.Version {
	return circuitsMinimumVersion(m.Constant, m.Members)
}

func (m *CheatedPauliZProduct) Evaluate(regs registers.Registers) (map[string]float64, error) {
	pauliProducts := make([]float64, len(m.Input.PauliProductKeys))
	for registerName, index := range m.Input.PauliProductKeys {
		register, ok := regs.Floats[registerName]
		if !ok || len(register) == 0 || len(register[0]) == 0 {
			return nil, &MissingRegisterError{Name: registerName}
		}
		pauliProducts[index] = register[0][0]
	}
	return evaluateExpVals(m.Input.MeasuredExpVals, pauliProducts)
}

// Cheated evaluates sparse operators directly against simulator states:
// <psi|O|psi> for state vector registers, Tr[O rho] for density matrix
// registers.
type Cheated struct {
	Constant *circuits.Circuit   `json:"constant_circuit" msgpack:"constant_circuit"`
	Members  []*circuits.Circuit `json:"circuits" msgpack:"circuits"`
	Input    *CheatedInput       `json:"input" msgpack:"input"`
}

func (m *Cheated) Kind() string { return "Cheated" }

func (m *Cheated) ConstantCircuit() *circuits.Circuit { return m.Constant }

func (m *Cheated) Circuits() []*circuits.Circuit { return m.Members }

func (m *Cheated) SubstituteParameters(values map[string]float64) (Measure, error) {
	constant, members, err := substituteCircuits(m.Constant, m.Members, values)
	if err != nil {
		return nil, err
	}
	return &Cheated{Constant: constant, Members: members, Input: m.Input}, nil
}

func (m *Cheated) MinimumSupportedVersion() circuits.Version {
	return circuitsMinimumVersion(m.Constant, m.Members)
}

func (m *Cheated) Evaluate(regs registers.Registers) (map[string]float64, error) {
	dimension := 1 << m.Input.NumberQubits
	results := make(map[string]float64, len(m.Input.MeasuredOperators))
	for name, measured := range m.Input.MeasuredOperators {
		register, ok := regs.Complexes[measured.Readout]
		if !ok {
			return nil, &MissingRegisterError{Name: measured.Readout}
		}
		if len(register) == 0 {
			return nil, &EvaluationError{Msg: "complex register " + measured.Readout + " holds no runs"}
		}
		runValues := make([]float64, len(register))
		for run, state := range register {
			switch len(state) {
			case dimension:
				runValues[run] = real(vectorExpectationValue(measured.Operator, state))
			case dimension * dimension:
				runValues[run] = real(matrixExpectationValue(measured.Operator, state, dimension))
			default:
				return nil, &MismatchedRegisterDimensionError{Dim: len(state), NumberQubits: m.Input.NumberQubits}
			}
		}
		results[name] = stat.Mean(runValues, nil)
	}
	return results, nil
}

func vectorExpectationValue(operator []OperatorEntry, state registers.ComplexRegister) complex128 {
	var value complex128
	for _, entry := range operator {
		value += conj(state[entry.Row]) * entry.value() * state[entry.Col]
	}
	return value
}

func matrixExpectationValue(operator []OperatorEntry, state registers.ComplexRegister, dimension int) complex128 {
	var value complex128
	for _, entry := range operator {
		for i := 0; i < dimension; i++ {
			value += conj(state[entry.Row*dimension+i]) * entry.value() * state[entry.Col*dimension+i]
		}
	}
	return value
}

func conj(c complex128) complex128 {
	return complex(real(c), -imag(c))
}

// ClassicalRegister returns the raw output registers without any
// post-processing.
type ClassicalRegister struct {
	Constant *circuits.Circuit   `json:"constant_circuit" msgpack:"constant_circuit"`
	Members  []*circuits.Circuit `json:"circuits" msgpack:"circuits"`
}

func (m *ClassicalRegister) Kind() string { return "ClassicalRegister" }

func (m *ClassicalRegister) ConstantCircuit() *circuits.Circuit { return m.Constant }

func (m *ClassicalRegister) Circuits() []*circuits.Circuit { return m.Members }

func (m *ClassicalRegister) SubstituteParameters(values map[string]float64) (Measure, error) {
	constant, members, err := substituteCircuits(m.Constant, m.Members, values)
	if err != nil {
		return nil, err
	}
	return &ClassicalRegister{Constant: constant, Members: members}, nil
}

func (m *ClassicalRegister) MinimumSupportedVersion() circuits.Version {
	return circuitsMinimumVersion(m.Constant, m.Members)
}

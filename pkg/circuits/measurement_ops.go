package circuits

import (
	"github.com/aristath/entangle/pkg/calculator"
)

// MeasureQubit measures a single qubit into a bit register slot.
type MeasureQubit struct {
	Qubit        int    `json:"qubit" msgpack:"qubit"`
	Readout      string `json:"readout" msgpack:"readout"`
	ReadoutIndex int    `json:"readout_index" msgpack:"readout_index"`
}

func (op *MeasureQubit) Kind() string { return "MeasureQubit" }

func (op *MeasureQubit) Tags() []string {
	return []string{"Operation", "Measurement", "MeasureQubit"}
}

func (op *MeasureQubit) IsParametrized() bool { return false }

func (op *MeasureQubit) InvolvedQubits() InvolvedQubits { return QubitSet(op.Qubit) }

func (op *MeasureQubit) SubstituteParameters(*calculator.Calculator) (Operation, error) {
	return op, nil
}

func (op *MeasureQubit) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	out := *op
	out.Qubit = mapQubit(mapping, op.Qubit)
	return &out, nil
}

// PragmaGetStateVector reads out the full state vector into a complex
// register, optionally after applying a preparation circuit to a copy of
// the state.
type PragmaGetStateVector struct {
	Readout string   `json:"readout" msgpack:"readout"`
	Circuit *Circuit `json:"circuit" msgpack:"circuit"`
}

func (op *PragmaGetStateVector) Kind() string { return "PragmaGetStateVector" }

func (op *PragmaGetStateVector) Tags() []string {
	return []string{"Operation", "Measurement", "PragmaOperation", "PragmaGetStateVector"}
}

func (op *PragmaGetStateVector) IsParametrized() bool {
	return op.Circuit != nil && op.Circuit.IsParametrized()
}

func (op *PragmaGetStateVector) InvolvedQubits() InvolvedQubits { return AllQubits() }

func (op *PragmaGetStateVector) SubstituteParameters(cal *calculator.Calculator) (Operation, error) {
	circuit, err := substituteOptionalCircuit(op.Circuit, cal)
	if err != nil {
		return nil, err
	}
	return &PragmaGetStateVector{Readout: op.Readout, Circuit: circuit}, nil
}

func (op *PragmaGetStateVector) RemapQubits(mapping map[int]int) (Operation, error) {
	circuit, err := remapOptionalCircuit(op.Circuit, mapping)
	if err != nil {
		return nil, err
	}
	return &PragmaGetStateVector{Readout: op.Readout, Circuit: circuit}, nil
}

// PragmaGetDensityMatrix reads out the density matrix into a complex
// register, optionally after applying a preparation circuit to a copy of
// the state.
type PragmaGetDensityMatrix struct {
	Readout string   `json:"readout" msgpack:"readout"`
	Circuit *Circuit `json:"circuit" msgpack:"circuit"`
}

func (op *PragmaGetDensityMatrix) Kind() string { return "PragmaGetDensityMatrix" }

func (op *PragmaGetDensityMatrix) Tags() []string {
	return []string{"Operation", "Measurement", "PragmaOperation", "PragmaGetDensityMatrix"}
}

func (op *PragmaGetDensityMatrix) IsParametrized() bool {
	return op.Circuit != nil && op.Circuit.IsParametrized()
}

func (op *PragmaGetDensityMatrix) InvolvedQubits() InvolvedQubits { return AllQubits() }

func (op *PragmaGetDensityMatrix) SubstituteParameters(cal *calculator.Calculator) (Operation, error) {
	circuit, err := substituteOptionalCircuit(op.Circuit, cal)
	if err != nil {
		return nil, err
	}
	return &PragmaGetDensityMatrix{Readout: op.Readout, Circuit: circuit}, nil
}

func (op *PragmaGetDensityMatrix) RemapQubits(mapping map[int]int) (Operation, error) {
	circuit, err := remapOptionalCircuit(op.Circuit, mapping)
	if err != nil {
		return nil, err
	}
	return &PragmaGetDensityMatrix{Readout: op.Readout, Circuit: circuit}, nil
}

// PragmaGetOccupationProbability reads out the occupation probabilities of
// the computational basis states into a float register.
type PragmaGetOccupationProbability struct {
	Readout string   `json:"readout" msgpack:"readout"`
	Circuit *Circuit `json:"circuit" msgpack:"circuit"`
}

func (op *PragmaGetOccupationProbability) Kind() string { return "PragmaGetOccupationProbability" }

func (op *PragmaGetOccupationProbability) Tags() []string {
	return []string{"Operation", "Measurement", "PragmaOperation", "PragmaGetOccupationProbability"}
}

func (op *PragmaGetOccupationProbability) IsParametrized() bool {
	return op.Circuit != nil && op.Circuit.IsParametrized()
}

func (op *PragmaGetOccupationProbability) InvolvedQubits() InvolvedQubits { return AllQubits() }

func (op *PragmaGetOccupationProbability) SubstituteParameters(cal *calculator.Calculator) (Operation, error) {
	circuit, err := substituteOptionalCircuit(op.Circuit, cal)
	if err != nil {
		return nil, err
	}
	return &PragmaGetOccupationProbability{Readout: op.Readout, Circuit: circuit}, nil
}

func (op *PragmaGetOccupationProbability) RemapQubits(mapping map[int]int) (Operation, error) {
	circuit, err := remapOptionalCircuit(op.Circuit, mapping)
	if err != nil {
		return nil, err
	}
	return &PragmaGetOccupationProbability{Readout: op.Readout, Circuit: circuit}, nil
}

// PragmaGetPauliProduct reads out the expectation value of a product of
// Pauli operators, given per qubit as 0 (identity), 1 (X), 2 (Y) or 3 (Z).
type PragmaGetPauliProduct struct {
	QubitPaulis map[int]int `json:"qubit_paulis" msgpack:"qubit_paulis"`
	Readout     string      `json:"readout" msgpack:"readout"`
	Circuit     *Circuit    `json:"circuit" msgpack:"circuit"`
}

func (op *PragmaGetPauliProduct) Kind() string { return "PragmaGetPauliProduct" }

func (op *PragmaGetPauliProduct) Tags() []string {
	return []string{"Operation", "Measurement", "PragmaOperation", "PragmaGetPauliProduct"}
}

func (op *PragmaGetPauliProduct) IsParametrized() bool {
	return op.Circuit != nil && op.Circuit.IsParametrized()
}

func (op *PragmaGetPauliProduct) InvolvedQubits() InvolvedQubits {
	acc := make(map[int]struct{}, len(op.QubitPaulis))
	for q := range op.QubitPaulis {
		acc[q] = struct{}{}
	}
	if op.Circuit != nil && op.Circuit.InvolvedQubits().union(acc) {
		return AllQubits()
	}
	qubits := make([]int, 0, len(acc))
	for q := range acc {
		qubits = append(qubits, q)
	}
	return QubitSet(qubits...)
}

func (op *PragmaGetPauliProduct) SubstituteParameters(cal *calculator.Calculator) (Operation, error) {
	circuit, err := substituteOptionalCircuit(op.Circuit, cal)
	if err != nil {
		return nil, err
	}
	return &PragmaGetPauliProduct{QubitPaulis: op.QubitPaulis, Readout: op.Readout, Circuit: circuit}, nil
}

func (op *PragmaGetPauliProduct) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	circuit, err := remapOptionalCircuit(op.Circuit, mapping)
	if err != nil {
		return nil, err
	}
	return &PragmaGetPauliProduct{
		QubitPaulis: remapQubitKeys(mapping, op.QubitPaulis),
		Readout:     op.Readout,
		Circuit:     circuit,
	}, nil
}

// PragmaRepeatedMeasurement measures all qubits N times into a bit
// register. QubitMapping optionally routes qubits to register indices.
type PragmaRepeatedMeasurement struct {
	Readout            string      `json:"readout" msgpack:"readout"`
	NumberMeasurements int         `json:"number_measurements" msgpack:"number_measurements"`
	QubitMapping       map[int]int `json:"qubit_mapping" msgpack:"qubit_mapping"`
}

func (op *PragmaRepeatedMeasurement) Kind() string { return "PragmaRepeatedMeasurement" }

func (op *PragmaRepeatedMeasurement) Tags() []string {
	return []string{"Operation", "Measurement", "PragmaOperation", "PragmaRepeatedMeasurement"}
}

func (op *PragmaRepeatedMeasurement) IsParametrized() bool { return false }

func (op *PragmaRepeatedMeasurement) InvolvedQubits() InvolvedQubits { return AllQubits() }

func (op *PragmaRepeatedMeasurement) SubstituteParameters(*calculator.Calculator) (Operation, error) {
	return op, nil
}

func (op *PragmaRepeatedMeasurement) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	out := *op
	if op.QubitMapping != nil {
		out.QubitMapping = remapQubitKeys(mapping, op.QubitMapping)
	}
	return &out, nil
}

func substituteOptionalCircuit(c *Circuit, cal *calculator.Calculator) (*Circuit, error) {
	if c == nil {
		return nil, nil
	}
	return c.SubstituteParameters(cal)
}

func remapOptionalCircuit(c *Circuit, mapping map[int]int) (*Circuit, error) {
	if c == nil {
		if err := checkMapping(mapping); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return c.RemapQubits(mapping)
}

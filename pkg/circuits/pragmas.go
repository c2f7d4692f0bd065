package circuits

import (
	"github.com/aristath/entangle/pkg/calculator"
)

// PragmaSetNumberOfMeasurements overrides the number of measurements used
// when evaluating a readout register.
type PragmaSetNumberOfMeasurements struct {
	NumberMeasurements int    `json:"number_measurements" msgpack:"number_measurements"`
	Readout            string `json:"readout" msgpack:"readout"`
}

func (op *PragmaSetNumberOfMeasurements) Kind() string { return "PragmaSetNumberOfMeasurements" }

func (op *PragmaSetNumberOfMeasurements) Tags() []string {
	return []string{"Operation", "PragmaOperation", "PragmaSetNumberOfMeasurements"}
}

func (op *PragmaSetNumberOfMeasurements) IsParametrized() bool { return false }

func (op *PragmaSetNumberOfMeasurements) InvolvedQubits() InvolvedQubits { return NoQubits() }

func (op *PragmaSetNumberOfMeasurements) SubstituteParameters(*calculator.Calculator) (Operation, error) {
	return op, nil
}

func (op *PragmaSetNumberOfMeasurements) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	return op, nil
}

// PragmaSetStateVector replaces the simulator state with the given state
// vector.
type PragmaSetStateVector struct {
	StateVector ComplexVector `json:"statevector" msgpack:"statevector"`
}

func (op *PragmaSetStateVector) Kind() string { return "PragmaSetStateVector" }

func (op *PragmaSetStateVector) Tags() []string {
	return []string{"Operation", "PragmaOperation", "PragmaSetStateVector"}
}

func (op *PragmaSetStateVector) IsParametrized() bool { return false }

func (op *PragmaSetStateVector) InvolvedQubits() InvolvedQubits { return AllQubits() }

func (op *PragmaSetStateVector) SubstituteParameters(*calculator.Calculator) (Operation, error) {
	return op, nil
}

func (op *PragmaSetStateVector) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	return op, nil
}

// PragmaSetDensityMatrix replaces the simulator state with the given
// density matrix.
type PragmaSetDensityMatrix struct {
	DensityMatrix ComplexMatrix `json:"density_matrix" msgpack:"density_matrix"`
}

func (op *PragmaSetDensityMatrix) Kind() string { return "PragmaSetDensityMatrix" }

func (op *PragmaSetDensityMatrix) Tags() []string {
	return []string{"Operation", "PragmaOperation", "PragmaSetDensityMatrix"}
}

func (op *PragmaSetDensityMatrix) IsParametrized() bool { return false }

func (op *PragmaSetDensityMatrix) InvolvedQubits() InvolvedQubits { return AllQubits() }

func (op *PragmaSetDensityMatrix) SubstituteParameters(*calculator.Calculator) (Operation, error) {
	return op, nil
}

func (op *PragmaSetDensityMatrix) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	return op, nil
}

// PragmaRepeatGate repeats the following gate a fixed number of times.
type PragmaRepeatGate struct {
	RepetitionCoefficient int `json:"repetition_coefficient" msgpack:"repetition_coefficient"`
}

func (op *PragmaRepeatGate) Kind() string { return "PragmaRepeatGate" }

func (op *PragmaRepeatGate) Tags() []string {
	return []string{"Operation", "PragmaOperation", "PragmaRepeatGate"}
}

func (op *PragmaRepeatGate) IsParametrized() bool { return false }

func (op *PragmaRepeatGate) InvolvedQubits() InvolvedQubits { return AllQubits() }

func (op *PragmaRepeatGate) SubstituteParameters(*calculator.Calculator) (Operation, error) {
	return op, nil
}

func (op *PragmaRepeatGate) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	return op, nil
}

// PragmaBoostNoise scales the noise experienced during gate execution by
// multiplying gate times with the coefficient.
type PragmaBoostNoise struct {
	NoiseCoefficient calculator.Value `json:"noise_coefficient" msgpack:"noise_coefficient"`
}

func (op *PragmaBoostNoise) Kind() string { return "PragmaBoostNoise" }

func (op *PragmaBoostNoise) Tags() []string {
	return []string{"Operation", "PragmaOperation", "PragmaBoostNoise"}
}

func (op *PragmaBoostNoise) IsParametrized() bool { return !op.NoiseCoefficient.IsConstant() }

func (op *PragmaBoostNoise) InvolvedQubits() InvolvedQubits { return NoQubits() }

func (op *PragmaBoostNoise) SubstituteParameters(cal *calculator.Calculator) (Operation, error) {
	out := *op
	if err := substituteValues(cal, &out.NoiseCoefficient); err != nil {
		return nil, err
	}
	return &out, nil
}

func (op *PragmaBoostNoise) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	return op, nil
}

// PragmaStopParallelBlock ends a block of operations executed in parallel
// and records the execution time of the block.
type PragmaStopParallelBlock struct {
	Qubits        []int            `json:"qubits" msgpack:"qubits"`
	ExecutionTime calculator.Value `json:"execution_time" msgpack:"execution_time"`
}

func (op *PragmaStopParallelBlock) Kind() string { return "PragmaStopParallelBlock" }

func (op *PragmaStopParallelBlock) Tags() []string {
	return []string{"Operation", "MultiQubitOperation", "PragmaOperation", "PragmaStopParallelBlock"}
}

func (op *PragmaStopParallelBlock) IsParametrized() bool { return !op.ExecutionTime.IsConstant() }

func (op *PragmaStopParallelBlock) InvolvedQubits() InvolvedQubits { return QubitSet(op.Qubits...) }

func (op *PragmaStopParallelBlock) SubstituteParameters(cal *calculator.Calculator) (Operation, error) {
	out := *op
	if err := substituteValues(cal, &out.ExecutionTime); err != nil {
		return nil, err
	}
	return &out, nil
}

func (op *PragmaStopParallelBlock) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	qubits := make([]int, len(op.Qubits))
	for i, q := range op.Qubits {
		qubits[i] = mapQubit(mapping, q)
	}
	return &PragmaStopParallelBlock{Qubits: qubits, ExecutionTime: op.ExecutionTime}, nil
}

// PragmaGlobalPhase records a global phase picked up by the circuit.
type PragmaGlobalPhase struct {
	Phase calculator.Value `json:"phase" msgpack:"phase"`
}

func (op *PragmaGlobalPhase) Kind() string { return "PragmaGlobalPhase" }

func (op *PragmaGlobalPhase) Tags() []string {
	return []string{"Operation", "PragmaOperation", "PragmaGlobalPhase"}
}

func (op *PragmaGlobalPhase) IsParametrized() bool { return !op.Phase.IsConstant() }

func (op *PragmaGlobalPhase) InvolvedQubits() InvolvedQubits { return NoQubits() }

func (op *PragmaGlobalPhase) SubstituteParameters(cal *calculator.Calculator) (Operation, error) {
	out := *op
	if err := substituteValues(cal, &out.Phase); err != nil {
		return nil, err
	}
	return &out, nil
}

func (op *PragmaGlobalPhase) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	return op, nil
}

// PragmaSleep lets the listed qubits idle for a fixed time, picking up
// whatever noise the hardware applies to resting qubits.
type PragmaSleep struct {
	Qubits    []int            `json:"qubits" msgpack:"qubits"`
	SleepTime calculator.Value `json:"sleep_time" msgpack:"sleep_time"`
}

func (op *PragmaSleep) Kind() string { return "PragmaSleep" }

func (op *PragmaSleep) Tags() []string {
	return []string{"Operation", "MultiQubitOperation", "PragmaOperation", "PragmaSleep"}
}

func (op *PragmaSleep) IsParametrized() bool { return !op.SleepTime.IsConstant() }

func (op *PragmaSleep) InvolvedQubits() InvolvedQubits { return QubitSet(op.Qubits...) }

func (op *PragmaSleep) SubstituteParameters(cal *calculator.Calculator) (Operation, error) {
	out := *op
	if err := substituteValues(cal, &out.SleepTime); err != nil {
		return nil, err
	}
	return &out, nil
}

func (op *PragmaSleep) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	qubits := make([]int, len(op.Qubits))
	for i, q := range op.Qubits {
		qubits[i] = mapQubit(mapping, q)
	}
	return &PragmaSleep{Qubits: qubits, SleepTime: op.SleepTime}, nil
}

// PragmaActiveReset resets a qubit to the |0> state.
type PragmaActiveReset struct {
	Qubit int `json:"qubit" msgpack:"qubit"`
}

func (op *PragmaActiveReset) Kind() string { return "PragmaActiveReset" }

func (op *PragmaActiveReset) Tags() []string {
	return []string{"Operation", "SingleQubitOperation", "PragmaOperation", "PragmaActiveReset"}
}

func (op *PragmaActiveReset) IsParametrized() bool { return false }

func (op *PragmaActiveReset) InvolvedQubits() InvolvedQubits { return QubitSet(op.Qubit) }

func (op *PragmaActiveReset) SubstituteParameters(*calculator.Calculator) (Operation, error) {
	return op, nil
}

func (op *PragmaActiveReset) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	return &PragmaActiveReset{Qubit: mapQubit(mapping, op.Qubit)}, nil
}

// PragmaStartDecompositionBlock marks the start of a decomposition block,
// recording how qubits are reordered inside it.
type PragmaStartDecompositionBlock struct {
	Qubits               []int       `json:"qubits" msgpack:"qubits"`
	ReorderingDictionary map[int]int `json:"reordering_dictionary" msgpack:"reordering_dictionary"`
}

func (op *PragmaStartDecompositionBlock) Kind() string { return "PragmaStartDecompositionBlock" }

func (op *PragmaStartDecompositionBlock) Tags() []string {
	return []string{"Operation", "MultiQubitOperation", "PragmaOperation", "PragmaStartDecompositionBlock"}
}

func (op *PragmaStartDecompositionBlock) IsParametrized() bool { return false }

func (op *PragmaStartDecompositionBlock) InvolvedQubits() InvolvedQubits {
	return QubitSet(op.Qubits...)
}

func (op *PragmaStartDecompositionBlock) SubstituteParameters(*calculator.Calculator) (Operation, error) {
	return op, nil
}

// RemapQubits requires every block qubit to appear in the mapping; the
// reordering dictionary is rewritten on both sides.
func (op *PragmaStartDecompositionBlock) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	qubits := make([]int, len(op.Qubits))
	for i, q := range op.Qubits {
		mapped, ok := mapping[q]
		if !ok {
			return nil, &QubitMappingError{Qubit: q}
		}
		qubits[i] = mapped
	}
	reordering := make(map[int]int, len(op.ReorderingDictionary))
	for oldQubit, newQubit := range op.ReorderingDictionary {
		reordering[mapQubit(mapping, oldQubit)] = mapQubit(mapping, newQubit)
	}
	return &PragmaStartDecompositionBlock{Qubits: qubits, ReorderingDictionary: reordering}, nil
}

// PragmaStopDecompositionBlock marks the end of a decomposition block.
type PragmaStopDecompositionBlock struct {
	Qubits []int `json:"qubits" msgpack:"qubits"`
}

func (op *PragmaStopDecompositionBlock) Kind() string { return "PragmaStopDecompositionBlock" }

func (op *PragmaStopDecompositionBlock) Tags() []string {
	return []string{"Operation", "MultiQubitOperation", "PragmaOperation", "PragmaStopDecompositionBlock"}
}

func (op *PragmaStopDecompositionBlock) IsParametrized() bool { return false }

func (op *PragmaStopDecompositionBlock) InvolvedQubits() InvolvedQubits {
	return QubitSet(op.Qubits...)
}

func (op *PragmaStopDecompositionBlock) SubstituteParameters(*calculator.Calculator) (Operation, error) {
	return op, nil
}

func (op *PragmaStopDecompositionBlock) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	qubits := make([]int, len(op.Qubits))
	for i, q := range op.Qubits {
		qubits[i] = mapQubit(mapping, q)
	}
	return &PragmaStopDecompositionBlock{Qubits: qubits}, nil
}

// PragmaConditional executes the inner circuit only when a bit in a
// classical register is set.
type PragmaConditional struct {
	ConditionRegister string   `json:"condition_register" msgpack:"condition_register"`
	ConditionIndex    int      `json:"condition_index" msgpack:"condition_index"`
	Circuit           *Circuit `json:"circuit" msgpack:"circuit"`
}

func (op *PragmaConditional) Kind() string { return "PragmaConditional" }

func (op *PragmaConditional) Tags() []string {
	return []string{"Operation", "PragmaOperation", "PragmaConditional"}
}

func (op *PragmaConditional) IsParametrized() bool {
	return op.Circuit != nil && op.Circuit.IsParametrized()
}

func (op *PragmaConditional) InvolvedQubits() InvolvedQubits {
	if op.Circuit == nil {
		return NoQubits()
	}
	return op.Circuit.InvolvedQubits()
}

func (op *PragmaConditional) SubstituteParameters(cal *calculator.Calculator) (Operation, error) {
	circuit, err := substituteOptionalCircuit(op.Circuit, cal)
	if err != nil {
		return nil, err
	}
	return &PragmaConditional{ConditionRegister: op.ConditionRegister, ConditionIndex: op.ConditionIndex, Circuit: circuit}, nil
}

func (op *PragmaConditional) RemapQubits(mapping map[int]int) (Operation, error) {
	circuit, err := remapOptionalCircuit(op.Circuit, mapping)
	if err != nil {
		return nil, err
	}
	return &PragmaConditional{ConditionRegister: op.ConditionRegister, ConditionIndex: op.ConditionIndex, Circuit: circuit}, nil
}

// PragmaChangeDevice wraps a backend-specific device-change instruction in
// serialized form.
type PragmaChangeDevice struct {
	WrappedTags      []string `json:"wrapped_tags" msgpack:"wrapped_tags"`
	WrappedHqslang   string   `json:"wrapped_hqslang" msgpack:"wrapped_hqslang"`
	WrappedOperation []byte   `json:"wrapped_operation" msgpack:"wrapped_operation"`
}

func (op *PragmaChangeDevice) Kind() string { return "PragmaChangeDevice" }

func (op *PragmaChangeDevice) Tags() []string {
	return []string{"Operation", "PragmaOperation", "PragmaChangeDevice"}
}

func (op *PragmaChangeDevice) IsParametrized() bool { return false }

func (op *PragmaChangeDevice) InvolvedQubits() InvolvedQubits { return AllQubits() }

func (op *PragmaChangeDevice) SubstituteParameters(*calculator.Calculator) (Operation, error) {
	return op, nil
}

// RemapQubits only tolerates the identity mapping: the wrapped operation
// is opaque and cannot be rewritten.
func (op *PragmaChangeDevice) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	for from, to := range mapping {
		if from != to {
			return nil, &QubitMappingError{Qubit: from}
		}
	}
	return op, nil
}

// PragmaLoop repeats the inner circuit a number of times. The repetition
// count may be symbolic until substitution.
type PragmaLoop struct {
	Repetitions calculator.Value `json:"repetitions" msgpack:"repetitions"`
	Circuit     *Circuit         `json:"circuit" msgpack:"circuit"`
}

func (op *PragmaLoop) Kind() string { return "PragmaLoop" }

func (op *PragmaLoop) Tags() []string {
	return []string{"Operation", "PragmaOperation", "PragmaLoop"}
}

func (op *PragmaLoop) IsParametrized() bool {
	if !op.Repetitions.IsConstant() {
		return true
	}
	return op.Circuit != nil && op.Circuit.IsParametrized()
}

func (op *PragmaLoop) InvolvedQubits() InvolvedQubits {
	if op.Circuit == nil {
		return NoQubits()
	}
	return op.Circuit.InvolvedQubits()
}

func (op *PragmaLoop) SubstituteParameters(cal *calculator.Calculator) (Operation, error) {
	repetitions, err := substituteValue(cal, op.Repetitions)
	if err != nil {
		return nil, err
	}
	circuit, err := substituteOptionalCircuit(op.Circuit, cal)
	if err != nil {
		return nil, err
	}
	return &PragmaLoop{Repetitions: repetitions, Circuit: circuit}, nil
}

func (op *PragmaLoop) RemapQubits(mapping map[int]int) (Operation, error) {
	circuit, err := remapOptionalCircuit(op.Circuit, mapping)
	if err != nil {
		return nil, err
	}
	return &PragmaLoop{Repetitions: op.Repetitions, Circuit: circuit}, nil
}

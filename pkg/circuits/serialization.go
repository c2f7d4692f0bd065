package circuits

import (
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
)

// operationRegistry maps operation kinds to constructors for their
// concrete types, used when decoding type envelopes.
var operationRegistry = map[string]func() Operation{
	// definitions
	"DefinitionBit":     func() Operation { return &DefinitionBit{} },
	"DefinitionFloat":   func() Operation { return &DefinitionFloat{} },
	"DefinitionComplex": func() Operation { return &DefinitionComplex{} },
	"DefinitionUsize":   func() Operation { return &DefinitionUsize{} },
	"InputSymbolic":     func() Operation { return &InputSymbolic{} },

	// single-qubit gates
	"SingleQubitGate":           func() Operation { return &SingleQubitGate{} },
	"RotateX":                   func() Operation { return &RotateX{} },
	"RotateY":                   func() Operation { return &RotateY{} },
	"RotateZ":                   func() Operation { return &RotateZ{} },
	"PauliX":                    func() Operation { return &PauliX{} },
	"PauliY":                    func() Operation { return &PauliY{} },
	"PauliZ":                    func() Operation { return &PauliZ{} },
	"SqrtPauliX":                func() Operation { return &SqrtPauliX{} },
	"InvSqrtPauliX":             func() Operation { return &InvSqrtPauliX{} },
	"Hadamard":                  func() Operation { return &Hadamard{} },
	"SGate":                     func() Operation { return &SGate{} },
	"TGate":                     func() Operation { return &TGate{} },
	"PhaseShiftState0":          func() Operation { return &PhaseShiftState0{} },
	"PhaseShiftState1":          func() Operation { return &PhaseShiftState1{} },
	"RotateAroundSphericalAxis": func() Operation { return &RotateAroundSphericalAxis{} },
	"RotateXY":                  func() Operation { return &RotateXY{} },

	// two-qubit gates
	"CNOT":                        func() Operation { return &CNOT{} },
	"SWAP":                        func() Operation { return &SWAP{} },
	"ISwap":                       func() Operation { return &ISwap{} },
	"FSwap":                       func() Operation { return &FSwap{} },
	"SqrtISwap":                   func() Operation { return &SqrtISwap{} },
	"InvSqrtISwap":                func() Operation { return &InvSqrtISwap{} },
	"XY":                          func() Operation { return &XY{} },
	"ControlledPhaseShift":        func() Operation { return &ControlledPhaseShift{} },
	"ControlledPauliY":            func() Operation { return &ControlledPauliY{} },
	"ControlledPauliZ":            func() Operation { return &ControlledPauliZ{} },
	"MolmerSorensenXX":            func() Operation { return &MolmerSorensenXX{} },
	"VariableMSXX":                func() Operation { return &VariableMSXX{} },
	"GivensRotation":              func() Operation { return &GivensRotation{} },
	"GivensRotationLittleEndian":  func() Operation { return &GivensRotationLittleEndian{} },
	"Qsim":                        func() Operation { return &Qsim{} },
	"Fsim":                        func() Operation { return &Fsim{} },
	"SpinInteraction":             func() Operation { return &SpinInteraction{} },
	"Bogoliubov":                  func() Operation { return &Bogoliubov{} },
	"PMInteraction":               func() Operation { return &PMInteraction{} },
	"ComplexPMInteraction":        func() Operation { return &ComplexPMInteraction{} },
	"PhaseShiftedControlledZ":     func() Operation { return &PhaseShiftedControlledZ{} },
	"PhaseShiftedControlledPhase": func() Operation { return &PhaseShiftedControlledPhase{} },

	// three-qubit gates
	"ControlledControlledPauliZ":     func() Operation { return &ControlledControlledPauliZ{} },
	"ControlledControlledPhaseShift": func() Operation { return &ControlledControlledPhaseShift{} },

	// multi-qubit gates
	"MultiQubitMS": func() Operation { return &MultiQubitMS{} },
	"MultiCNOT":    func() Operation { return &MultiCNOT{} },

	// measurement
	"MeasureQubit":                   func() Operation { return &MeasureQubit{} },
	"PragmaGetStateVector":           func() Operation { return &PragmaGetStateVector{} },
	"PragmaGetDensityMatrix":         func() Operation { return &PragmaGetDensityMatrix{} },
	"PragmaGetOccupationProbability": func() Operation { return &PragmaGetOccupationProbability{} },
	"PragmaGetPauliProduct":          func() Operation { return &PragmaGetPauliProduct{} },
	"PragmaRepeatedMeasurement":      func() Operation { return &PragmaRepeatedMeasurement{} },

	// annotation pragmas
	"PragmaSetNumberOfMeasurements": func() Operation { return &PragmaSetNumberOfMeasurements{} },
	"PragmaSetStateVector":          func() Operation { return &PragmaSetStateVector{} },
	"PragmaSetDensityMatrix":        func() Operation { return &PragmaSetDensityMatrix{} },
	"PragmaRepeatGate":              func() Operation { return &PragmaRepeatGate{} },
	"PragmaBoostNoise":              func() Operation { return &PragmaBoostNoise{} },
	"PragmaStopParallelBlock":       func() Operation { return &PragmaStopParallelBlock{} },
	"PragmaGlobalPhase":             func() Operation { return &PragmaGlobalPhase{} },
	"PragmaSleep":                   func() Operation { return &PragmaSleep{} },
	"PragmaActiveReset":             func() Operation { return &PragmaActiveReset{} },
	"PragmaStartDecompositionBlock": func() Operation { return &PragmaStartDecompositionBlock{} },
	"PragmaStopDecompositionBlock":  func() Operation { return &PragmaStopDecompositionBlock{} },
	"PragmaConditional":             func() Operation { return &PragmaConditional{} },
	"PragmaChangeDevice":            func() Operation { return &PragmaChangeDevice{} },
	"PragmaLoop":                    func() Operation { return &PragmaLoop{} },

	// noise pragmas
	"PragmaDamping":      func() Operation { return &PragmaDamping{} },
	"PragmaDepolarising": func() Operation { return &PragmaDepolarising{} },
	"PragmaDephasing":    func() Operation { return &PragmaDephasing{} },
	"PragmaRandomNoise":  func() Operation { return &PragmaRandomNoise{} },
	"PragmaGeneralNoise": func() Operation { return &PragmaGeneralNoise{} },
}

func newOperation(kind string) (Operation, error) {
	ctor, ok := operationRegistry[kind]
	if !ok {
		return nil, &UnknownOperationError{Type: kind}
	}
	return ctor(), nil
}

type jsonEnvelope struct {
	Type      string          `json:"type"`
	Operation json.RawMessage `json:"operation"`
}

// MarshalOperationJSON wraps the operation's JSON form in a type envelope
// so the concrete type survives the round trip.
func MarshalOperationJSON(op Operation) ([]byte, error) {
	inner, err := json.Marshal(op)
	if err != nil {
		return nil, err
	}
	return json.Marshal(jsonEnvelope{Type: op.Kind(), Operation: inner})
}

// UnmarshalOperationJSON decodes a type envelope produced by
// MarshalOperationJSON.
func UnmarshalOperationJSON(data []byte) (Operation, error) {
	var env jsonEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	op, err := newOperation(env.Type)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(env.Operation, op); err != nil {
		return nil, err
	}
	return op, nil
}

type msgpackEnvelope struct {
	Type      string             `msgpack:"type"`
	Operation msgpack.RawMessage `msgpack:"operation"`
}

// MarshalOperationMsgpack wraps the operation's msgpack form in a type
// envelope.
func MarshalOperationMsgpack(op Operation) ([]byte, error) {
	inner, err := msgpack.Marshal(op)
	if err != nil {
		return nil, err
	}
	return msgpack.Marshal(msgpackEnvelope{Type: op.Kind(), Operation: inner})
}

// UnmarshalOperationMsgpack decodes a type envelope produced by
// MarshalOperationMsgpack.
func UnmarshalOperationMsgpack(data []byte) (Operation, error) {
	var env msgpackEnvelope
	if err := msgpack.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	op, err := newOperation(env.Type)
	if err != nil {
		return nil, err
	}
	if err := msgpack.Unmarshal(env.Operation, op); err != nil {
		return nil, err
	}
	return op, nil
}

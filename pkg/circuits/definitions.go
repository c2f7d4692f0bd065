package circuits

import (
	"github.com/aristath/entangle/pkg/calculator"
)

// DefinitionBit declares a classical bit register.
type DefinitionBit struct {
	Name     string `json:"name" msgpack:"name"`
	Length   int    `json:"length" msgpack:"length"`
	IsOutput bool   `json:"is_output" msgpack:"is_output"`
}

func (op *DefinitionBit) Kind() string { return "DefinitionBit" }

func (op *DefinitionBit) Tags() []string {
	return []string{"Operation", "Definition", "DefinitionBit"}
}

func (op *DefinitionBit) IsParametrized() bool { return false }

func (op *DefinitionBit) InvolvedQubits() InvolvedQubits { return NoQubits() }

func (op *DefinitionBit) SubstituteParameters(*calculator.Calculator) (Operation, error) {
	return op, nil
}

func (op *DefinitionBit) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	return op, nil
}

func (op *DefinitionBit) RegisterName() string { return op.Name }

// DefinitionFloat declares a classical float register.
type DefinitionFloat struct {
	Name     string `json:"name" msgpack:"name"`
	Length   int    `json:"length" msgpack:"length"`
	IsOutput bool   `json:"is_output" msgpack:"is_output"`
}

func (op *DefinitionFloat) Kind() string { return "DefinitionFloat" }

func (op *DefinitionFloat) Tags() []string {
	return []string{"Operation", "Definition", "DefinitionFloat"}
}

func (op *DefinitionFloat) IsParametrized() bool { return false }

func (op *DefinitionFloat) InvolvedQubits() InvolvedQubits { return NoQubits() }

func (op *DefinitionFloat) SubstituteParameters(*calculator.Calculator) (Operation, error) {
	return op, nil
}

func (op *DefinitionFloat) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	return op, nil
}

func (op *DefinitionFloat) RegisterName() string { return op.Name }

// DefinitionComplex declares a classical complex register.
type DefinitionComplex struct {
	Name     string `json:"name" msgpack:"name"`
	Length   int    `json:"length" msgpack:"length"`
	IsOutput bool   `json:"is_output" msgpack:"is_output"`
}

func (op *DefinitionComplex) Kind() string { return "DefinitionComplex" }

func (op *DefinitionComplex) Tags() []string {
	return []string{"Operation", "Definition", "DefinitionComplex"}
}

func (op *DefinitionComplex) IsParametrized() bool { return false }

func (op *DefinitionComplex) InvolvedQubits() InvolvedQubits { return NoQubits() }

func (op *DefinitionComplex) SubstituteParameters(*calculator.Calculator) (Operation, error) {
	return op, nil
}

func (op *DefinitionComplex) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	return op, nil
}

func (op *DefinitionComplex) RegisterName() string { return op.Name }

// DefinitionUsize declares a classical unsigned integer register.
type DefinitionUsize struct {
	Name     string `json:"name" msgpack:"name"`
	Length   int    `json:"length" msgpack:"length"`
	IsOutput bool   `json:"is_output" msgpack:"is_output"`
}

func (op *DefinitionUsize) Kind() string { return "DefinitionUsize" }

func (op *DefinitionUsize) Tags() []string {
	return []string{"Operation", "Definition", "DefinitionUsize"}
}

func (op *DefinitionUsize) IsParametrized() bool { return false }

func (op *DefinitionUsize) InvolvedQubits() InvolvedQubits { return NoQubits() }

func (op *DefinitionUsize) SubstituteParameters(*calculator.Calculator) (Operation, error) {
	return op, nil
}

func (op *DefinitionUsize) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	return op, nil
}

func (op *DefinitionUsize) RegisterName() string { return op.Name }

// InputSymbolic declares a named input parameter with its bound value.
// During parameter substitution the circuit feeds these bindings into the
// calculator before substituting the remaining operations.
type InputSymbolic struct {
	Name  string  `json:"name" msgpack:"name"`
	Input float64 `json:"input" msgpack:"input"`
}

func (op *InputSymbolic) Kind() string { return "InputSymbolic" }

func (op *InputSymbolic) Tags() []string {
	return []string{"Operation", "Definition", "InputSymbolic"}
}

func (op *InputSymbolic) IsParametrized() bool { return false }

func (op *InputSymbolic) InvolvedQubits() InvolvedQubits { return NoQubits() }

func (op *InputSymbolic) SubstituteParameters(*calculator.Calculator) (Operation, error) {
	return op, nil
}

func (op *InputSymbolic) RemapQubits(mapping map[int]int) (Operation, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	return op, nil
}

func (op *InputSymbolic) RegisterName() string { return op.Name }

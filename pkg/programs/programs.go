// Package programs exposes parameterized measurements as callable quantum
// programs. A program binds a measurement to an ordered list of free
// parameter names so it can be invoked like a plain function of floats.
package programs

import (
	"context"
	"fmt"

	"github.com/aristath/entangle/pkg/circuits"
	"github.com/aristath/entangle/pkg/measurements"
	"github.com/aristath/entangle/pkg/registers"
)

// EvaluatingBackend executes fully-resolved circuits and returns the
// output registers they write.
type EvaluatingBackend interface {
	RunCircuit(ctx context.Context, circuit *circuits.Circuit) (registers.Registers, error)
}

// ParameterCountError reports a call with the wrong number of free
// parameter values.
type ParameterCountError struct {
	Expected int
	Given    int
}

func (e *ParameterCountError) Error() string {
	return fmt.Sprintf("wrong number of parameters: %d expected, %d given", e.Expected, e.Given)
}

// OutputMismatchError reports a program invoked through the wrong run
// method for its output type.
type OutputMismatchError struct {
	Wanted string
}

func (e *OutputMismatchError) Error() string {
	return fmt.Sprintf("program output does not match the run method, use %s instead", e.Wanted)
}

// QuantumProgram pairs a measurement with the ordered free parameters of
// its circuits.
type QuantumProgram struct {
	Measurement         measurements.Measure
	InputParameterNames []string
}

func (p *QuantumProgram) bind(parameters []float64) (map[string]float64, error) {
	if len(parameters) != len(p.InputParameterNames) {
		return nil, &ParameterCountError{Expected: len(p.InputParameterNames), Given: len(parameters)}
	}
	values := make(map[string]float64, len(parameters))
	for i, name := range p.InputParameterNames {
		values[name] = parameters[i]
	}
	return values, nil
}

// Run substitutes the parameter values, executes every measurement circuit
// on the backend and returns the named expectation values. Programs built
// on a ClassicalRegister measurement must use RunRegisters.
func (p *QuantumProgram) Run(ctx context.Context, backend EvaluatingBackend, parameters []float64) (map[string]float64, error) {
	expectation, ok := p.Measurement.(measurements.ExpectationMeasurement)
	if !ok {
		return nil, &OutputMismatchError{Wanted: "RunRegisters"}
	}
	values, err := p.bind(parameters)
	if err != nil {
		return nil, err
	}
	substituted, err := expectation.SubstituteParameters(values)
	if err != nil {
		return nil, err
	}
	return RunMeasurement(ctx, backend, substituted.(measurements.ExpectationMeasurement))
}

// RunRegisters substitutes the parameter values and returns the raw output
// registers. Only programs built on a ClassicalRegister measurement return
// registers.
func (p *QuantumProgram) RunRegisters(ctx context.Context, backend EvaluatingBackend, parameters []float64) (registers.Registers, error) {
	classical, ok := p.Measurement.(*measurements.ClassicalRegister)
	if !ok {
		return registers.Registers{}, &OutputMismatchError{Wanted: "Run"}
	}
	values, err := p.bind(parameters)
	if err != nil {
		return registers.Registers{}, err
	}
	substituted, err := classical.SubstituteParameters(values)
	if err != nil {
		return registers.Registers{}, err
	}
	return RunMeasurementRegisters(ctx, backend, substituted)
}

// MinimumSupportedVersion returns the oldest library version able to read
// a serialized form of this program.
func (p *QuantumProgram) MinimumSupportedVersion() circuits.Version {
	return p.Measurement.MinimumSupportedVersion()
}

// RunMeasurementRegisters executes every measurement circuit, prepending
// the constant circuit to each, and merges the output registers by name.
func RunMeasurementRegisters(ctx context.Context, backend EvaluatingBackend, m measurements.Measure) (registers.Registers, error) {
	merged := registers.NewRegisters()
	for _, circuit := range m.Circuits() {
		full := circuit
		if constant := m.ConstantCircuit(); constant != nil {
			combined := circuits.NewCircuit()
			combined.Append(constant)
			combined.Append(circuit)
			full = combined
		}
		out, err := backend.RunCircuit(ctx, full)
		if err != nil {
			return registers.Registers{}, err
		}
		merged.Merge(out)
	}
	return merged, nil
}

// RunMeasurement executes a measurement's circuits and evaluates the
// output registers into expectation values.
func RunMeasurement(ctx context.Context, backend EvaluatingBackend, m measurements.ExpectationMeasurement) (map[string]float64, error) {
	regs, err := RunMeasurementRegisters(ctx, backend, m)
	if err != nil {
		return nil, err
	}
	return m.Evaluate(regs)
}

// Package registers defines the classical register types produced when
// circuits are executed. Registers provide the unified output interface
// between execution backends and the measurement post-processing pipeline.
package registers

// BitRegister holds the bit readout of a single circuit run.
type BitRegister []bool

// FloatRegister holds floating point readout values of a single run.
type FloatRegister []float64

// ComplexRegister holds complex readout values of a single run, typically a
// statevector or a flattened density matrix from a simulator.
type ComplexRegister []complex128

// BitOutputRegister collects the bit registers of repeated runs, one row
// per shot.
type BitOutputRegister []BitRegister

// FloatOutputRegister collects the float registers of repeated runs.
type FloatOutputRegister []FloatRegister

// ComplexOutputRegister collects the complex registers of repeated runs.
type ComplexOutputRegister []ComplexRegister

// Registers bundles every output register of a circuit execution, keyed by
// register name.
type Registers struct {
	Bits      map[string]BitOutputRegister
	Floats    map[string]FloatOutputRegister
	Complexes map[string]ComplexOutputRegister
}

// NewRegisters creates an empty register bundle.
func NewRegisters() Registers {
	return Registers{
		Bits:      make(map[string]BitOutputRegister),
		Floats:    make(map[string]FloatOutputRegister),
		Complexes: make(map[string]ComplexOutputRegister),
	}
}

// Merge appends every output register of other onto r, keeping rows in
// execution order.
func (r Registers) Merge(other Registers) {
	for name, rows := range other.Bits {
		r.Bits[name] = append(r.Bits[name], rows...)
	}
	for name, rows := range other.Floats {
		r.Floats[name] = append(r.Floats[name], rows...)
	}
	for name, rows := range other.Complexes {
		r.Complexes[name] = append(r.Complexes[name], rows...)
	}
}

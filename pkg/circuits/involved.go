package circuits

import "sort"

// InvolvedQubits describes which qubits an operation touches: none, an
// explicit set, or every qubit in the circuit.
type InvolvedQubits struct {
	all    bool
	qubits map[int]struct{}
}

// AllQubits marks an operation as involving every qubit.
func AllQubits() InvolvedQubits {
	return InvolvedQubits{all: true}
}

// NoQubits marks an operation as involving no qubits.
func NoQubits() InvolvedQubits {
	return InvolvedQubits{}
}

// QubitSet builds an explicit involved-qubit set.
func QubitSet(qubits ...int) InvolvedQubits {
	set := make(map[int]struct{}, len(qubits))
	for _, q := range qubits {
		set[q] = struct{}{}
	}
	return InvolvedQubits{qubits: set}
}

// IsAll reports whether every qubit is involved.
func (iq InvolvedQubits) IsAll() bool { return iq.all }

// IsNone reports whether no qubit is involved.
func (iq InvolvedQubits) IsNone() bool { return !iq.all && len(iq.qubits) == 0 }

// Contains reports whether the explicit set contains q. It is false for the
// "all" marker; callers must check IsAll first.
func (iq InvolvedQubits) Contains(q int) bool {
	_, ok := iq.qubits[q]
	return ok
}

// List returns the explicit set in ascending order, nil for none or all.
func (iq InvolvedQubits) List() []int {
	if iq.all || len(iq.qubits) == 0 {
		return nil
	}
	out := make([]int, 0, len(iq.qubits))
	for q := range iq.qubits {
		out = append(out, q)
	}
	sort.Ints(out)
	return out
}

// union merges another involvement description into an accumulator set,
// reporting whether the result saturated to "all".
func (iq InvolvedQubits) union(acc map[int]struct{}) bool {
	if iq.all {
		return true
	}
	for q := range iq.qubits {
		acc[q] = struct{}{}
	}
	return false
}

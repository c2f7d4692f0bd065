package circuits

import (
	"encoding/json"
	"sort"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/aristath/entangle/pkg/calculator"
)

// Circuit is an ordered sequence of operations. Register definitions are
// kept ahead of all other operations regardless of insertion order, so
// iteration always yields definitions first.
type Circuit struct {
	definitions []Operation
	operations  []Operation
}

// NewCircuit returns an empty circuit.
func NewCircuit() *Circuit {
	return &Circuit{}
}

func newCircuitWith(ops ...Operation) *Circuit {
	c := NewCircuit()
	for _, op := range ops {
		c.Add(op)
	}
	return c
}

// Add appends an operation. Definitions are routed to the definition
// section, everything else to the operation section.
func (c *Circuit) Add(op Operation) {
	if _, ok := op.(DefinitionOperation); ok {
		c.definitions = append(c.definitions, op)
		return
	}
	c.operations = append(c.operations, op)
}

// Append adds every operation of another circuit, keeping section order.
func (c *Circuit) Append(other *Circuit) {
	if other == nil {
		return
	}
	c.definitions = append(c.definitions, other.definitions...)
	c.operations = append(c.operations, other.operations...)
}

// Len returns the total number of operations including definitions.
func (c *Circuit) Len() int {
	return len(c.definitions) + len(c.operations)
}

// Get returns the i-th operation, counting definitions first.
func (c *Circuit) Get(i int) Operation {
	if i < len(c.definitions) {
		return c.definitions[i]
	}
	return c.operations[i-len(c.definitions)]
}

// Definitions returns the definition section.
func (c *Circuit) Definitions() []Operation {
	return c.definitions
}

// Operations returns the non-definition section.
func (c *Circuit) Operations() []Operation {
	return c.operations
}

// InvolvedQubits returns the union of the involved qubits of all
// operations.
func (c *Circuit) InvolvedQubits() InvolvedQubits {
	acc := make(map[int]struct{})
	for _, op := range c.operations {
		if op.InvolvedQubits().union(acc) {
			return AllQubits()
		}
	}
	qubits := make([]int, 0, len(acc))
	for q := range acc {
		qubits = append(qubits, q)
	}
	return QubitSet(qubits...)
}

// IsParametrized reports whether any contained operation still has
// symbolic parameters.
func (c *Circuit) IsParametrized() bool {
	for _, op := range c.operations {
		if op.IsParametrized() {
			return true
		}
	}
	return false
}

// SubstituteParameters resolves all symbolic parameters against the
// calculator's bindings. InputSymbolic definitions bind their value into
// the calculator before any operation is substituted, so inputs declared
// in the circuit take part in every expression.
func (c *Circuit) SubstituteParameters(cal *calculator.Calculator) (*Circuit, error) {
	out := &Circuit{
		definitions: make([]Operation, 0, len(c.definitions)),
		operations:  make([]Operation, 0, len(c.operations)),
	}
	for _, def := range c.definitions {
		if input, ok := def.(*InputSymbolic); ok {
			cal.Set(input.Name, input.Input)
		}
		out.definitions = append(out.definitions, def)
	}
	for _, op := range c.operations {
		substituted, err := op.SubstituteParameters(cal)
		if err != nil {
			return nil, err
		}
		out.operations = append(out.operations, substituted)
	}
	return out, nil
}

// RemapQubits rewrites qubit indices in every operation through the given
// permutation.
func (c *Circuit) RemapQubits(mapping map[int]int) (*Circuit, error) {
	if err := checkMapping(mapping); err != nil {
		return nil, err
	}
	out := &Circuit{
		definitions: append([]Operation(nil), c.definitions...),
		operations:  make([]Operation, 0, len(c.operations)),
	}
	for _, op := range c.operations {
		remapped, err := op.RemapQubits(mapping)
		if err != nil {
			return nil, err
		}
		out.operations = append(out.operations, remapped)
	}
	return out, nil
}

// CountOccurrences counts operations carrying any of the given tags or
// kind names.
func (c *Circuit) CountOccurrences(tags ...string) int {
	count := 0
	total := c.Len()
	for i := 0; i < total; i++ {
		op := c.Get(i)
		if matchesAnyTag(op, tags) {
			count++
		}
	}
	return count
}

func matchesAnyTag(op Operation, tags []string) bool {
	for _, want := range tags {
		for _, tag := range op.Tags() {
			if tag == want {
				return true
			}
		}
	}
	return false
}

// OperationTypes returns the sorted set of operation kinds present in the
// circuit.
func (c *Circuit) OperationTypes() []string {
	seen := make(map[string]struct{})
	total := c.Len()
	for i := 0; i < total; i++ {
		seen[c.Get(i).Kind()] = struct{}{}
	}
	kinds := make([]string, 0, len(seen))
	for kind := range seen {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// MinimumSupportedVersion returns the oldest library version able to read
// a serialized form of this circuit.
func (c *Circuit) MinimumSupportedVersion() Version {
	min := Version{Major: 1, Minor: 0, Patch: 0}
	total := c.Len()
	for i := 0; i < total; i++ {
		min = maxVersion(min, minimumVersionOf(c.Get(i)))
	}
	return min
}

func minimumVersionOf(op Operation) Version {
	min := MinimumSupportedVersion(op)
	switch typed := op.(type) {
	case *PragmaLoop:
		if typed.Circuit != nil {
			min = maxVersion(min, typed.Circuit.MinimumSupportedVersion())
		}
	case *PragmaConditional:
		if typed.Circuit != nil {
			min = maxVersion(min, typed.Circuit.MinimumSupportedVersion())
		}
	case *PragmaGetStateVector:
		if typed.Circuit != nil {
			min = maxVersion(min, typed.Circuit.MinimumSupportedVersion())
		}
	case *PragmaGetDensityMatrix:
		if typed.Circuit != nil {
			min = maxVersion(min, typed.Circuit.MinimumSupportedVersion())
		}
	case *PragmaGetOccupationProbability:
		if typed.Circuit != nil {
			min = maxVersion(min, typed.Circuit.MinimumSupportedVersion())
		}
	case *PragmaGetPauliProduct:
		if typed.Circuit != nil {
			min = maxVersion(min, typed.Circuit.MinimumSupportedVersion())
		}
	}
	return min
}

type circuitJSON struct {
	Definitions []json.RawMessage `json:"definitions"`
	Operations  []json.RawMessage `json:"operations"`
	Version     Version           `json:"version"`
}

// MarshalJSON serializes the circuit with each operation in its type
// envelope. The version stamp is the minimum version able to read the
// circuit, so data using only older features stays readable by older
// decoders.
func (c *Circuit) MarshalJSON() ([]byte, error) {
	doc := circuitJSON{
		Definitions: make([]json.RawMessage, 0, len(c.definitions)),
		Operations:  make([]json.RawMessage, 0, len(c.operations)),
		Version:     c.MinimumSupportedVersion(),
	}
	for _, def := range c.definitions {
		raw, err := MarshalOperationJSON(def)
		if err != nil {
			return nil, err
		}
		doc.Definitions = append(doc.Definitions, raw)
	}
	for _, op := range c.operations {
		raw, err := MarshalOperationJSON(op)
		if err != nil {
			return nil, err
		}
		doc.Operations = append(doc.Operations, raw)
	}
	return json.Marshal(doc)
}

func (c *Circuit) UnmarshalJSON(data []byte) error {
	var doc circuitJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	if err := CheckVersion(doc.Version); err != nil {
		return err
	}
	parsed := Circuit{}
	for _, raw := range doc.Definitions {
		op, err := UnmarshalOperationJSON(raw)
		if err != nil {
			return err
		}
		parsed.Add(op)
	}
	for _, raw := range doc.Operations {
		op, err := UnmarshalOperationJSON(raw)
		if err != nil {
			return err
		}
		parsed.Add(op)
	}
	*c = parsed
	return nil
}

type circuitMsgpack struct {
	Definitions []msgpack.RawMessage `msgpack:"definitions"`
	Operations  []msgpack.RawMessage `msgpack:"operations"`
	Version     Version              `msgpack:"version"`
}

func (c *Circuit) EncodeMsgpack(enc *msgpack.Encoder) error {
	doc := circuitMsgpack{
		Definitions: make([]msgpack.RawMessage, 0, len(c.definitions)),
		Operations:  make([]msgpack.RawMessage, 0, len(c.operations)),
		Version:     c.MinimumSupportedVersion(),
	}
	for _, def := range c.definitions {
		raw, err := MarshalOperationMsgpack(def)
		if err != nil {
			return err
		}
		doc.Definitions = append(doc.Definitions, raw)
	}
	for _, op := range c.operations {
		raw, err := MarshalOperationMsgpack(op)
		if err != nil {
			return err
		}
		doc.Operations = append(doc.Operations, raw)
	}
	return enc.Encode(doc)
}

func (c *Circuit) DecodeMsgpack(dec *msgpack.Decoder) error {
	var doc circuitMsgpack
	if err := dec.Decode(&doc); err != nil {
		return err
	}
	if err := CheckVersion(doc.Version); err != nil {
		return err
	}
	parsed := Circuit{}
	for _, raw := range doc.Definitions {
		op, err := UnmarshalOperationMsgpack(raw)
		if err != nil {
			return err
		}
		parsed.Add(op)
	}
	for _, raw := range doc.Operations {
		op, err := UnmarshalOperationMsgpack(raw)
		if err != nil {
			return err
		}
		parsed.Add(op)
	}
	*c = parsed
	return nil
}

// Package calculator provides symbolic numeric values for quantum operation
// parameters. A Value is either a concrete float64 constant or an expression
// tree over named variables that can be partially substituted and later
// evaluated to a concrete number.
package calculator

import (
	"encoding/json"
	"math"
	"sort"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

// Value is an immutable symbolic number. The zero Value is the constant 0.
type Value struct {
	num  float64
	expr Expr
}

// Float returns a constant Value.
func Float(f float64) Value {
	return Value{num: f}
}

// Variable returns a Value consisting of a single named variable.
func Variable(name string) Value {
	return Value{expr: variableNode(name)}
}

// IsConstant reports whether the value carries no unresolved variables.
func (v Value) IsConstant() bool {
	return v.expr == nil
}

// Float returns the concrete value, or a NotConstantError naming the
// unresolved variables when the value is still symbolic.
func (v Value) Float() (float64, error) {
	if v.expr == nil {
		return v.num, nil
	}
	return 0, &NotConstantError{Variables: v.Variables()}
}

// Variables returns the sorted names of all unresolved variables.
func (v Value) Variables() []string {
	if v.expr == nil {
		return nil
	}
	set := make(map[string]struct{})
	v.expr.collectVariables(set)
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Substitute replaces every variable present in vars with its value,
// returning a new Value. Variables missing from vars stay symbolic; a fully
// bound expression collapses to a constant.
func (v Value) Substitute(vars map[string]float64) Value {
	if v.expr == nil {
		return v
	}
	sub := v.expr.substitute(vars)
	if n, ok := sub.(numberNode); ok {
		return Value{num: float64(n)}
	}
	return Value{expr: sub}
}

// Evaluate computes the concrete value with all variables bound by vars.
func (v Value) Evaluate(vars map[string]float64) (float64, error) {
	if v.expr == nil {
		return v.num, nil
	}
	return v.expr.eval(vars)
}

func (v Value) node() Expr {
	if v.expr == nil {
		return numberNode(v.num)
	}
	return v.expr
}

func combine(op byte, a, b Value) Value {
	if a.expr == nil && b.expr == nil {
		if val, err := applyBinary(op, a.num, b.num); err == nil {
			return Value{num: val}
		}
	}
	return Value{expr: &binaryNode{op: op, left: a.node(), right: b.node()}}
}

// Add returns v + o.
func (v Value) Add(o Value) Value { return combine('+', v, o) }

// Sub returns v - o.
func (v Value) Sub(o Value) Value { return combine('-', v, o) }

// Mul returns v * o.
func (v Value) Mul(o Value) Value { return combine('*', v, o) }

// Div returns v / o. Division by a constant zero stays symbolic and fails
// at evaluation time.
func (v Value) Div(o Value) Value { return combine('/', v, o) }

// Neg returns -v.
func (v Value) Neg() Value {
	if v.expr == nil {
		return Value{num: -v.num}
	}
	return Value{expr: &binaryNode{op: '*', left: numberNode(-1), right: v.expr}}
}

// Call applies a named unary function to v.
func (v Value) Call(fn string) Value {
	if v.expr == nil {
		if f, ok := functions[fn]; ok {
			return Value{num: f(v.num)}
		}
	}
	return Value{expr: &callNode{fn: fn, arg: v.node()}}
}

// Sin returns sin(v).
func (v Value) Sin() Value { return v.Call("sin") }

// Cos returns cos(v).
func (v Value) Cos() Value { return v.Call("cos") }

// Sqrt returns sqrt(v).
func (v Value) Sqrt() Value { return v.Call("sqrt") }

// Atan2 returns atan2(v, o), the quadrant-aware arc tangent of v/o.
func (v Value) Atan2(o Value) Value {
	if v.expr == nil && o.expr == nil {
		return Value{num: math.Atan2(v.num, o.num)}
	}
	return Value{expr: &call2Node{fn: "atan2", arg1: v.node(), arg2: o.node()}}
}

// String renders the value in the canonical textual form: constants as bare
// numbers, expressions fully parenthesised so that Parse reconstructs the
// identical tree.
func (v Value) String() string {
	var b strings.Builder
	v.node().writeTo(&b)
	return b.String()
}

// MarshalJSON encodes a constant as a JSON number and a symbolic value as
// its expression string.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.expr == nil {
		return json.Marshal(v.num)
	}
	return json.Marshal(v.String())
}

// UnmarshalJSON accepts either a number or an expression string.
func (v *Value) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*v = Value{num: f}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// EncodeMsgpack encodes a constant as a float64 and a symbolic value as its
// expression string.
func (v Value) EncodeMsgpack(enc *msgpack.Encoder) error {
	if v.expr == nil {
		return enc.EncodeFloat64(v.num)
	}
	return enc.EncodeString(v.String())
}

// DecodeMsgpack accepts either a float or an expression string.
func (v *Value) DecodeMsgpack(dec *msgpack.Decoder) error {
	code, err := dec.PeekCode()
	if err != nil {
		return err
	}
	if msgpcode.IsString(code) {
		s, err := dec.DecodeString()
		if err != nil {
			return err
		}
		parsed, err := Parse(s)
		if err != nil {
			return err
		}
		*v = parsed
		return nil
	}
	f, err := dec.DecodeFloat64()
	if err != nil {
		return err
	}
	*v = Value{num: f}
	return nil
}

package calculator

import (
	"math"
	"strconv"
	"strings"
)

// Expr is a node in a symbolic expression tree. Trees are immutable;
// substitution returns new nodes and never mutates in place.
type Expr interface {
	eval(vars map[string]float64) (float64, error)
	substitute(vars map[string]float64) Expr
	hasVariables() bool
	collectVariables(set map[string]struct{})
	writeTo(b *strings.Builder)
}

type numberNode float64

func (n numberNode) eval(map[string]float64) (float64, error) { return float64(n), nil }
func (n numberNode) substitute(map[string]float64) Expr       { return n }
func (n numberNode) hasVariables() bool                       { return false }
func (n numberNode) collectVariables(map[string]struct{})     {}
func (n numberNode) writeTo(b *strings.Builder) {
	if n < 0 {
		b.WriteByte('(')
		b.WriteString(strconv.FormatFloat(float64(n), 'g', -1, 64))
		b.WriteByte(')')
		return
	}
	b.WriteString(strconv.FormatFloat(float64(n), 'g', -1, 64))
}

type variableNode string

func (v variableNode) eval(vars map[string]float64) (float64, error) {
	if val, ok := vars[string(v)]; ok {
		return val, nil
	}
	return 0, &UnboundVariableError{Name: string(v)}
}

func (v variableNode) substitute(vars map[string]float64) Expr {
	if val, ok := vars[string(v)]; ok {
		return numberNode(val)
	}
	return v
}

func (v variableNode) hasVariables() bool { return true }

func (v variableNode) collectVariables(set map[string]struct{}) {
	set[string(v)] = struct{}{}
}

func (v variableNode) writeTo(b *strings.Builder) { b.WriteString(string(v)) }

type binaryNode struct {
	op          byte
	left, right Expr
}

func (n *binaryNode) eval(vars map[string]float64) (float64, error) {
	l, err := n.left.eval(vars)
	if err != nil {
		return 0, err
	}
	r, err := n.right.eval(vars)
	if err != nil {
		return 0, err
	}
	return applyBinary(n.op, l, r)
}

func applyBinary(op byte, l, r float64) (float64, error) {
	switch op {
	case '+':
		return l + r, nil
	case '-':
		return l - r, nil
	case '*':
		return l * r, nil
	case '/':
		if r == 0 {
			return 0, &DivisionByZeroError{}
		}
		return l / r, nil
	case '^':
		return math.Pow(l, r), nil
	}
	return 0, &ParseError{Msg: "unknown operator " + string(op)}
}

func (n *binaryNode) substitute(vars map[string]float64) Expr {
	l := n.left.substitute(vars)
	r := n.right.substitute(vars)
	if ln, lok := l.(numberNode); lok {
		if rn, rok := r.(numberNode); rok {
			if val, err := applyBinary(n.op, float64(ln), float64(rn)); err == nil {
				return numberNode(val)
			}
		}
	}
	return &binaryNode{op: n.op, left: l, right: r}
}

func (n *binaryNode) hasVariables() bool {
	return n.left.hasVariables() || n.right.hasVariables()
}

func (n *binaryNode) collectVariables(set map[string]struct{}) {
	n.left.collectVariables(set)
	n.right.collectVariables(set)
}

func (n *binaryNode) writeTo(b *strings.Builder) {
	b.WriteByte('(')
	n.left.writeTo(b)
	b.WriteString(" ")
	b.WriteByte(n.op)
	b.WriteString(" ")
	n.right.writeTo(b)
	b.WriteByte(')')
}

type callNode struct {
	fn  string
	arg Expr
}

var functions = map[string]func(float64) float64{
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"asin":  math.Asin,
	"acos":  math.Acos,
	"atan":  math.Atan,
	"sinh":  math.Sinh,
	"cosh":  math.Cosh,
	"tanh":  math.Tanh,
	"sqrt":  math.Sqrt,
	"exp":   math.Exp,
	"ln":    math.Log,
	"log10": math.Log10,
	"abs":   math.Abs,
	"sign": func(x float64) float64 {
		switch {
		case x > 0:
			return 1
		case x < 0:
			return -1
		}
		return 0
	},
}

func (n *callNode) eval(vars map[string]float64) (float64, error) {
	arg, err := n.arg.eval(vars)
	if err != nil {
		return 0, err
	}
	fn, ok := functions[n.fn]
	if !ok {
		return 0, &ParseError{Msg: "unknown function " + n.fn}
	}
	return fn(arg), nil
}

func (n *callNode) substitute(vars map[string]float64) Expr {
	arg := n.arg.substitute(vars)
	if an, ok := arg.(numberNode); ok {
		if fn, known := functions[n.fn]; known {
			return numberNode(fn(float64(an)))
		}
	}
	return &callNode{fn: n.fn, arg: arg}
}

func (n *callNode) hasVariables() bool { return n.arg.hasVariables() }

func (n *callNode) collectVariables(set map[string]struct{}) {
	n.arg.collectVariables(set)
}

func (n *callNode) writeTo(b *strings.Builder) {
	b.WriteString(n.fn)
	b.WriteByte('(')
	n.arg.writeTo(b)
	b.WriteByte(')')
}

type call2Node struct {
	fn   string
	arg1 Expr
	arg2 Expr
}

var functions2 = map[string]func(float64, float64) float64{
	"atan2": math.Atan2,
	"min":   math.Min,
	"max":   math.Max,
}

func (n *call2Node) eval(vars map[string]float64) (float64, error) {
	a1, err := n.arg1.eval(vars)
	if err != nil {
		return 0, err
	}
	a2, err := n.arg2.eval(vars)
	if err != nil {
		return 0, err
	}
	fn, ok := functions2[n.fn]
	if !ok {
		return 0, &ParseError{Msg: "unknown function " + n.fn}
	}
	return fn(a1, a2), nil
}

func (n *call2Node) substitute(vars map[string]float64) Expr {
	a1 := n.arg1.substitute(vars)
	a2 := n.arg2.substitute(vars)
	if n1, ok1 := a1.(numberNode); ok1 {
		if n2, ok2 := a2.(numberNode); ok2 {
			if fn, known := functions2[n.fn]; known {
				return numberNode(fn(float64(n1), float64(n2)))
			}
		}
	}
	return &call2Node{fn: n.fn, arg1: a1, arg2: a2}
}

func (n *call2Node) hasVariables() bool {
	return n.arg1.hasVariables() || n.arg2.hasVariables()
}

func (n *call2Node) collectVariables(set map[string]struct{}) {
	n.arg1.collectVariables(set)
	n.arg2.collectVariables(set)
}

func (n *call2Node) writeTo(b *strings.Builder) {
	b.WriteString(n.fn)
	b.WriteByte('(')
	n.arg1.writeTo(b)
	b.WriteString(", ")
	n.arg2.writeTo(b)
	b.WriteByte(')')
}

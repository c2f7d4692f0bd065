package calculator

// Calculator holds a set of variable bindings used to resolve symbolic
// values. It is not safe for concurrent mutation; callers typically build
// one per substitution pass.
type Calculator struct {
	variables map[string]float64
}

// New creates an empty Calculator.
func New() *Calculator {
	return &Calculator{variables: make(map[string]float64)}
}

// Set binds a variable name to a concrete value, replacing any previous
// binding.
func (c *Calculator) Set(name string, value float64) {
	c.variables[name] = value
}

// Get returns the binding for name.
func (c *Calculator) Get(name string) (float64, bool) {
	v, ok := c.variables[name]
	return v, ok
}

// Bindings returns the current variable bindings. The returned map is the
// calculator's own; callers must not mutate it.
func (c *Calculator) Bindings() map[string]float64 {
	return c.variables
}

// Evaluate resolves a Value to a concrete number using the current
// bindings.
func (c *Calculator) Evaluate(v Value) (float64, error) {
	return v.Evaluate(c.variables)
}

// Substitute applies the current bindings to a Value, leaving variables
// without bindings symbolic.
func (c *Calculator) Substitute(v Value) Value {
	return v.Substitute(c.variables)
}

// EvaluateExpression parses an expression string and evaluates it with the
// current bindings.
func (c *Calculator) EvaluateExpression(expr string) (float64, error) {
	v, err := Parse(expr)
	if err != nil {
		return 0, err
	}
	return v.Evaluate(c.variables)
}

package symcalc

import (
	"strconv"
	"strings"

	"github.com/zephyrtronium/symcalc/fn"
)

// Const returns the value of the expression if it is constant, i.e. if it
// contains no variables. Unless the expression was parsed with NoFold, a
// constant expression is a single literal.
func (e *Expr) Const() (float64, bool) {
	if !e.konst {
		return 0, false
	}
	return e.n.evalconst(), true
}

// EvalConst returns the value of a constant expression. It panics if the
// expression contains variables; use Const to check first, or Eval.
func (e *Expr) EvalConst() float64 {
	if !e.konst {
		panic("symcalc: EvalConst on expression with variables " + strconv.Quote(strings.Join(e.names, ", ")))
	}
	return e.n.evalconst()
}

// Eval evaluates the expression with the given variable values. The only
// possible error is a *NameError for a variable missing from args. Domain
// problems like division by zero follow IEEE 754 rather than failing.
func (e *Expr) Eval(args fn.Args) (float64, error) {
	return e.n.eval(args)
}

// Vars returns the sorted variable names used in the expression.
func (e *Expr) Vars() []string {
	return append(([]string)(nil), e.names...)
}

// String creates a string representation of the parsed expression, with
// alternating round and square brackets grouping each term.
func (e *Expr) String() string {
	var b strings.Builder
	e.n.fmt(&b, false)
	return b.String()
}

// evalconst evaluates a tree known to contain no variables.
func (n *node) evalconst() float64 {
	switch {
	case n.kind == nodeNum:
		return n.num
	case n.kind.binary():
		l := n.left.evalconst()
		r := n.right.evalconst()
		return n.kind.apply(l, r)
	case n.kind == nodeNeg, n.kind == nodeSin:
		return n.kind.unary(n.left.evalconst())
	default:
		panic("symcalc: evalconst on node " + n.kind.String())
	}
}

func (n *node) eval(args fn.Args) (float64, error) {
	switch {
	case n.kind == nodeNum:
		return n.num, nil
	case n.kind == nodeVar:
		v, ok := args[n.name]
		if !ok {
			return 0, &NameError{Name: n.name}
		}
		return v, nil
	case n.kind.binary():
		l, err := n.left.eval(args)
		if err != nil {
			return 0, err
		}
		r, err := n.right.eval(args)
		if err != nil {
			return 0, err
		}
		return n.kind.apply(l, r), nil
	case n.kind == nodeNeg, n.kind == nodeSin:
		x, err := n.left.eval(args)
		if err != nil {
			return 0, err
		}
		return n.kind.unary(x), nil
	default:
		panic("symcalc: invalid AST node " + n.kind.String())
	}
}

// NameError is an error from a lookup for a variable that is missing from the
// evaluation arguments. It unwraps to fn.ParameterNotFound.
type NameError struct {
	// Name is the name that was missing.
	Name string
}

func (err *NameError) Error() string {
	return "undefined variable: " + strconv.Quote(err.Name)
}

func (err *NameError) Unwrap() error {
	return fn.ParameterNotFound
}

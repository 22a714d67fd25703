package fn

import (
	"fmt"
	"math"
	"strings"
)

// Add is the sum of a sequence of functions.
type Add struct {
	Children []Function
}

// NewAdd creates a sum. It panics if there are no children.
func NewAdd(children ...Function) *Add {
	if len(children) == 0 {
		panic("fn: Add with no children")
	}
	return &Add{Children: children}
}

// Apply sums the children in order. It stops at the first child that fails
// and returns its error.
func (f *Add) Apply(args Args) (float64, error) {
	return fold(f.Children, args, 0, func(a, b float64) float64 { return a + b })
}

func (f *Add) String() string {
	return join(f.Children, " + ")
}

// Mul is the product of a sequence of functions.
type Mul struct {
	Children []Function
}

// NewMul creates a product. It panics if there are no children.
func NewMul(children ...Function) *Mul {
	if len(children) == 0 {
		panic("fn: Mul with no children")
	}
	return &Mul{Children: children}
}

// Apply multiplies the children in order. It stops at the first child that
// fails and returns its error.
func (f *Mul) Apply(args Args) (float64, error) {
	return fold(f.Children, args, 1, func(a, b float64) float64 { return a * b })
}

func (f *Mul) String() string {
	return join(f.Children, " * ")
}

// fold combines the results of a sequence of functions left to right.
func fold(children []Function, args Args, r float64, op func(a, b float64) float64) (float64, error) {
	for _, c := range children {
		v, err := c.Apply(args)
		if err != nil {
			return 0, err
		}
		r = op(r, v)
	}
	return r, nil
}

func join(children []Function, sep string) string {
	var b strings.Builder
	b.WriteByte('(')
	for i, c := range children {
		if i > 0 {
			b.WriteString(sep)
		}
		fmt.Fprint(&b, c)
	}
	b.WriteByte(')')
	return b.String()
}

// Div is a quotient.
type Div struct {
	Numerator   Function
	Denominator Function
}

func NewDiv(num, den Function) *Div {
	return &Div{Numerator: num, Denominator: den}
}

// Apply divides the numerator by the denominator. The error is
// DivisionByZero if the denominator is exactly zero.
func (f *Div) Apply(args Args) (float64, error) {
	n, d, err := apply2(f.Numerator, f.Denominator, args)
	if err != nil {
		return 0, err
	}
	if d == 0 {
		return 0, &Error{Kind: DivisionByZero, Func: "/", X: d}
	}
	return n / d, nil
}

func (f *Div) String() string {
	return fmt.Sprintf("(%v / %v)", f.Numerator, f.Denominator)
}

// Coef is a function scaled by a constant, a cheaper Mul of two factors.
type Coef struct {
	Coefficient float64
	Child       Function
}

func NewCoef(coefficient float64, child Function) *Coef {
	return &Coef{Coefficient: coefficient, Child: child}
}

// Apply scales the child's value. Errors from the child are returned as is.
func (f *Coef) Apply(args Args) (float64, error) {
	v, err := f.Child.Apply(args)
	if err != nil {
		return 0, err
	}
	return f.Coefficient * v, nil
}

func (f *Coef) String() string {
	return fmt.Sprintf("%g*%v", f.Coefficient, f.Child)
}

// Exp is a power, Base raised to Exponent.
type Exp struct {
	Base     Function
	Exponent Function
}

func NewExp(base, exponent Function) *Exp {
	return &Exp{Base: base, Exponent: exponent}
}

// Apply raises the base to the exponent. A negative base with an exponent
// that has a fractional part gives NegativeBaseNonIntegerExponent.
func (f *Exp) Apply(args Args) (float64, error) {
	b, n, err := apply2(f.Base, f.Exponent, args)
	if err != nil {
		return 0, err
	}
	if _, frac := math.Modf(n); b < 0 && frac != 0 {
		return 0, &Error{Kind: NegativeBaseNonIntegerExponent, Func: "^", X: b}
	}
	return math.Pow(b, n), nil
}

func (f *Exp) String() string {
	return fmt.Sprintf("(%v ^ %v)", f.Base, f.Exponent)
}

// Log is the logarithm of Argument to Base.
type Log struct {
	Base     Function
	Argument Function
}

func NewLog(base, argument Function) *Log {
	return &Log{Base: base, Argument: argument}
}

// Apply computes the logarithm. The argument is checked first, then the base.
func (f *Log) Apply(args Args) (float64, error) {
	b, a, err := apply2(f.Base, f.Argument, args)
	if err != nil {
		return 0, err
	}
	switch {
	case a <= 0:
		return 0, &Error{Kind: NonPositiveLogArg, Func: "log", X: a}
	case b <= 0:
		return 0, &Error{Kind: NonPositiveLogBase, Func: "log", X: b}
	case b == 1:
		return 0, &Error{Kind: LogBaseOne, Func: "log", X: b}
	case b == 2:
		return math.Log2(a), nil
	}
	return math.Log(a) / math.Log(b), nil
}

func (f *Log) String() string {
	return fmt.Sprintf("log(%v, %v)", f.Base, f.Argument)
}

// Root is the real root of Radicand with index Degree, e.g. Degree 2 is the
// square root.
type Root struct {
	Degree   Function
	Radicand Function
}

func NewRoot(degree, radicand Function) *Root {
	return &Root{Degree: degree, Radicand: radicand}
}

// Apply computes the root. Odd integer roots of negative numbers are
// negative; even ones give NegativeEvenRoot, and other roots of negative
// numbers give NegativeBaseNonIntegerExponent. A zero degree is
// DivisionByZero.
func (f *Root) Apply(args Args) (float64, error) {
	d, x, err := apply2(f.Degree, f.Radicand, args)
	if err != nil {
		return 0, err
	}
	if d == 0 {
		return 0, &Error{Kind: DivisionByZero, Func: "root", X: d}
	}
	if x >= 0 {
		return math.Pow(x, 1/d), nil
	}
	if _, frac := math.Modf(d); frac != 0 {
		return 0, &Error{Kind: NegativeBaseNonIntegerExponent, Func: "root", X: x}
	}
	if math.Mod(d, 2) == 0 {
		return 0, &Error{Kind: NegativeEvenRoot, Func: "root", X: x}
	}
	return -math.Pow(-x, 1/d), nil
}

func (f *Root) String() string {
	return fmt.Sprintf("root(%v, %v)", f.Degree, f.Radicand)
}

var (
	_ Function = Var("")
	_ Function = Const(0)
	_ Function = (*Add)(nil)
	_ Function = (*Mul)(nil)
	_ Function = (*Div)(nil)
	_ Function = (*Coef)(nil)
	_ Function = (*Exp)(nil)
	_ Function = (*Log)(nil)
	_ Function = (*Root)(nil)
)

// Package fn implements trees of mathematical functions over named
// parameters.
//
// A tree is built from nodes like Add, Div, and Log, with leaves Var and
// Const. Evaluating a tree with Apply either gives a number or an *Error
// naming the domain restriction the arguments violated, e.g. division by zero
// or the logarithm of a negative number. Trees are never modified by
// evaluation, so one tree can be applied concurrently to many sets of
// arguments.
package fn

import (
	"fmt"
	"strconv"
)

// Args maps parameter names to values. Functions only read their Args.
type Args map[string]float64

// Function is a node in a function tree.
type Function interface {
	// Apply evaluates the function with the given arguments. If the result
	// is undefined, the error is an *Error.
	Apply(args Args) (float64, error)
}

// Var is a leaf which evaluates to the value of a named parameter.
type Var string

// Apply looks up v in args. If it is absent, the error is an *Error of kind
// ParameterNotFound.
func (v Var) Apply(args Args) (float64, error) {
	x, ok := args[string(v)]
	if !ok {
		return 0, &Error{Kind: ParameterNotFound, Name: string(v)}
	}
	return x, nil
}

func (v Var) String() string {
	return string(v)
}

// Const is a leaf with a fixed value.
type Const float64

// Apply returns c.
func (c Const) Apply(Args) (float64, error) {
	return float64(c), nil
}

func (c Const) String() string {
	return strconv.FormatFloat(float64(c), 'g', -1, 64)
}

// Kind identifies a violated domain restriction. Kinds are errors themselves,
// so errors.Is(err, DivisionByZero) reports whether an evaluation divided by
// zero.
type Kind int8

const (
	// DivisionByZero is a denominator of exactly zero.
	DivisionByZero Kind = iota + 1
	// NegativeEvenRoot is an even root of a negative number.
	NegativeEvenRoot
	// NonPositiveLogArg is a logarithm of zero or a negative number.
	NonPositiveLogArg
	// NonPositiveLogBase is a logarithm with zero or negative base.
	NonPositiveLogBase
	// LogBaseOne is a logarithm with base 1.
	LogBaseOne
	// NegativeBaseNonIntegerExponent is a negative number raised to a
	// non-integer power.
	NegativeBaseNonIntegerExponent
	// ParameterNotFound is a Var missing from the arguments.
	ParameterNotFound
)

var kindMessages = [...]string{
	DivisionByZero:                 "division by zero",
	NegativeEvenRoot:               "even root of negative number",
	NonPositiveLogArg:              "logarithm of non-positive number",
	NonPositiveLogBase:             "logarithm with non-positive base",
	LogBaseOne:                     "logarithm with base one",
	NegativeBaseNonIntegerExponent: "negative base with non-integer exponent",
	ParameterNotFound:              "parameter not found",
}

func (k Kind) Error() string {
	if k <= 0 || int(k) >= len(kindMessages) {
		return "fn: unknown error kind " + strconv.Itoa(int(k))
	}
	return kindMessages[k]
}

// Error is an error from evaluating a function outside its domain. It unwraps
// to its Kind.
type Error struct {
	// Kind is the violated restriction.
	Kind Kind
	// Func names the function that failed, e.g. "/" or "log". It is empty
	// for ParameterNotFound.
	Func string
	// X is the out-of-domain operand.
	X float64
	// Name is the missing parameter for ParameterNotFound.
	Name string
}

func (err *Error) Error() string {
	if err.Kind == ParameterNotFound {
		return err.Kind.Error() + ": " + strconv.Quote(err.Name)
	}
	return fmt.Sprintf("%v: %g in %s", err.Kind, err.X, err.Func)
}

func (err *Error) Unwrap() error {
	return err.Kind
}

// apply2 evaluates both operands of a binary function. Both are always
// evaluated; if both fail, the error from a wins.
func apply2(a, b Function, args Args) (x, y float64, err error) {
	x, errx := a.Apply(args)
	y, erry := b.Apply(args)
	if errx != nil {
		return 0, 0, errx
	}
	if erry != nil {
		return 0, 0, erry
	}
	return x, y, nil
}

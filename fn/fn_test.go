package fn_test

import (
	"errors"
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zephyrtronium/bigfloat"

	"github.com/zephyrtronium/symcalc/fn"
)

// probe is a Function that counts its evaluations.
type probe struct {
	calls int
	v     float64
}

func (p *probe) Apply(fn.Args) (float64, error) {
	p.calls++
	return p.v, nil
}

func TestApply(t *testing.T) {
	x := fn.Var("x")
	cases := []struct {
		name string
		f    fn.Function
		args fn.Args
		r    float64
	}{
		{"const", fn.Const(2.5), nil, 2.5},
		{"var", x, fn.Args{"x": 4}, 4},
		{"add", fn.NewAdd(fn.Const(2), fn.Const(3), x), fn.Args{"x": 4}, 9},
		{"add-one", fn.NewAdd(x), fn.Args{"x": 4}, 4},
		{"mul", fn.NewMul(fn.Const(2), x, x), fn.Args{"x": 3}, 18},
		{"div", fn.NewDiv(fn.Const(6), fn.Const(3)), nil, 2},
		{"div-zero-numerator", fn.NewDiv(fn.Const(0), fn.Const(5)), nil, 0},
		{"coef", fn.NewCoef(3, x), fn.Args{"x": 2}, 6},
		{"exp", fn.NewExp(fn.Const(2), fn.Const(10)), nil, 1024},
		{"exp-neg-even", fn.NewExp(fn.Const(-1), fn.Const(2)), nil, 1},
		{"exp-neg-odd", fn.NewExp(fn.Const(-2), fn.Const(3)), nil, -8},
		{"exp-zero", fn.NewExp(x, fn.Const(0)), fn.Args{"x": -3}, 1},
		{"log", fn.NewLog(fn.Const(2), fn.Const(8)), nil, 3},
		{"log10", fn.NewLog(fn.Const(10), fn.Const(1000)), nil, 3},
		{"log-one", fn.NewLog(fn.Const(7), fn.Const(1)), nil, 0},
		{"root", fn.NewRoot(fn.Const(2), fn.Const(9)), nil, 3},
		{"root-odd-neg", fn.NewRoot(fn.Const(3), fn.Const(-8)), nil, -2},
		{"root-neg-degree", fn.NewRoot(fn.Const(-1), fn.Const(-8)), nil, -0.125},
		{"nested", fn.NewAdd(
			fn.NewCoef(2, x),
			fn.NewExp(x, fn.Const(2)),
			fn.NewLog(fn.Const(2), fn.NewMul(x, fn.Const(4))),
		), fn.Args{"x": 2}, 4 + 4 + 3},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := c.f.Apply(c.args)
			require.NoError(t, err)
			assert.InDelta(t, c.r, r, 1e-12)
		})
	}
}

func TestApplyErrors(t *testing.T) {
	cases := []struct {
		name string
		f    fn.Function
		args fn.Args
		kind fn.Kind
	}{
		{"var", fn.Var("y"), nil, fn.ParameterNotFound},
		{"add-missing", fn.NewAdd(fn.Const(2), fn.Var("y")), fn.Args{}, fn.ParameterNotFound},
		{"mul-missing", fn.NewMul(fn.Var("y"), fn.Const(2)), nil, fn.ParameterNotFound},
		{"div-zero", fn.NewDiv(fn.Const(1), fn.Const(0)), nil, fn.DivisionByZero},
		{"div-neg-zero", fn.NewDiv(fn.Const(1), fn.Const(math.Copysign(0, -1))), nil, fn.DivisionByZero},
		{"div-zero-by-zero", fn.NewDiv(fn.Const(0), fn.Const(0)), nil, fn.DivisionByZero},
		{"coef-missing", fn.NewCoef(3, fn.Var("q")), nil, fn.ParameterNotFound},
		{"coef-child-error", fn.NewCoef(3, fn.NewDiv(fn.Const(1), fn.Const(0))), nil, fn.DivisionByZero},
		{"exp-neg-frac", fn.NewExp(fn.Const(-1), fn.Const(0.5)), nil, fn.NegativeBaseNonIntegerExponent},
		{"exp-neg-third", fn.NewExp(fn.Const(-8), fn.Const(1.0/3)), nil, fn.NegativeBaseNonIntegerExponent},
		{"exp-neg-inf", fn.NewExp(fn.Const(-2), fn.Const(math.Inf(1))), nil, fn.NegativeBaseNonIntegerExponent},
		{"log-neg-arg", fn.NewLog(fn.Const(2), fn.Const(-1)), nil, fn.NonPositiveLogArg},
		{"log-zero-arg", fn.NewLog(fn.Const(2), fn.Const(0)), nil, fn.NonPositiveLogArg},
		{"log-neg-base", fn.NewLog(fn.Const(-2), fn.Const(4)), nil, fn.NonPositiveLogBase},
		{"log-zero-base", fn.NewLog(fn.Const(0), fn.Const(4)), nil, fn.NonPositiveLogBase},
		{"log-arg-first", fn.NewLog(fn.Const(-2), fn.Const(-1)), nil, fn.NonPositiveLogArg},
		{"log-base-one", fn.NewLog(fn.Const(1), fn.Const(4)), nil, fn.LogBaseOne},
		{"root-neg-even", fn.NewRoot(fn.Const(2), fn.Const(-4)), nil, fn.NegativeEvenRoot},
		{"root-neg-even-4", fn.NewRoot(fn.Const(4), fn.Const(-16)), nil, fn.NegativeEvenRoot},
		{"root-neg-frac", fn.NewRoot(fn.Const(2.5), fn.Const(-1)), nil, fn.NegativeBaseNonIntegerExponent},
		{"root-zero-degree", fn.NewRoot(fn.Const(0), fn.Const(4)), nil, fn.DivisionByZero},
		{"nested", fn.NewAdd(fn.Const(1), fn.NewMul(fn.Const(2), fn.NewLog(fn.Const(1), fn.Const(3)))), nil, fn.LogBaseOne},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := c.f.Apply(c.args)
			require.Error(t, err, "got result %v", r)
			assert.Zero(t, r)
			assert.True(t, errors.Is(err, c.kind), "got %v, want %v", err, c.kind)
			var fe *fn.Error
			require.True(t, errors.As(err, &fe), "%#v is not an *fn.Error", err)
			assert.Equal(t, c.kind, fe.Kind)
		})
	}
}

func TestParameterNotFoundName(t *testing.T) {
	_, err := fn.NewAdd(fn.Const(2), fn.Var("y")).Apply(fn.Args{})
	var fe *fn.Error
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "y", fe.Name)
	assert.Equal(t, `parameter not found: "y"`, err.Error())
}

func TestSequenceShortCircuit(t *testing.T) {
	for _, mk := range []func(...fn.Function) fn.Function{
		func(c ...fn.Function) fn.Function { return fn.NewAdd(c...) },
		func(c ...fn.Function) fn.Function { return fn.NewMul(c...) },
	} {
		p := &probe{}
		_, err := mk(fn.Const(1), fn.Var("missing"), p).Apply(nil)
		assert.True(t, errors.Is(err, fn.ParameterNotFound))
		assert.Equal(t, 0, p.calls, "evaluated children after an error")

		r, err := mk(p, p, p).Apply(nil)
		require.NoError(t, err)
		assert.Zero(t, r)
		assert.Equal(t, 3, p.calls)
	}
}

func TestBinaryErrorBias(t *testing.T) {
	cases := []struct {
		name string
		mk   func(a, b fn.Function) fn.Function
	}{
		{"div", func(a, b fn.Function) fn.Function { return fn.NewDiv(a, b) }},
		{"exp", func(a, b fn.Function) fn.Function { return fn.NewExp(a, b) }},
		{"log", func(a, b fn.Function) fn.Function { return fn.NewLog(a, b) }},
		{"root", func(a, b fn.Function) fn.Function { return fn.NewRoot(a, b) }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			// Both operands are evaluated even when the left one fails.
			p := &probe{v: 2}
			_, err := c.mk(fn.Var("a"), p).Apply(nil)
			require.Error(t, err)
			assert.Equal(t, 1, p.calls)

			// The left error wins.
			_, err = c.mk(fn.Var("a"), fn.Var("b")).Apply(nil)
			var fe *fn.Error
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, "a", fe.Name)

			_, err = c.mk(fn.Const(2), fn.Var("b")).Apply(nil)
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, "b", fe.Name)
		})
	}
}

func TestCoefPropagatesErrorUnchanged(t *testing.T) {
	inner := fn.NewDiv(fn.Const(1), fn.Var("d"))
	_, want := inner.Apply(fn.Args{"d": 0})
	_, got := fn.NewCoef(5, inner).Apply(fn.Args{"d": 0})
	assert.Equal(t, want, got)
}

func TestEmptySequencePanics(t *testing.T) {
	assert.Panics(t, func() { fn.NewAdd() })
	assert.Panics(t, func() { fn.NewMul() })
}

func TestApplyDoesNotModifyArgs(t *testing.T) {
	args := fn.Args{"x": 2, "y": 3}
	f := fn.NewAdd(fn.NewLog(fn.Var("x"), fn.Var("y")), fn.NewDiv(fn.Var("y"), fn.Var("z")))
	_, err := f.Apply(args)
	require.Error(t, err)
	assert.Equal(t, fn.Args{"x": 2, "y": 3}, args)
}

// bigf converts a float64 to a high-precision big.Float.
func bigf(x float64) *big.Float {
	return new(big.Float).SetPrec(256).SetFloat64(x)
}

func TestAgainstBigfloat(t *testing.T) {
	pow := func(x, y float64) float64 {
		z := bigf(0)
		bigfloat.Pow(z, bigf(x), bigf(y))
		r, _ := z.Float64()
		return r
	}
	log := func(b, a float64) float64 {
		la, lb := bigf(0), bigf(0)
		bigfloat.Log(la, bigf(a))
		bigfloat.Log(lb, bigf(b))
		r, _ := la.Quo(la, lb).Float64()
		return r
	}
	cases := []struct {
		name string
		f    fn.Function
		want float64
	}{
		{"exp", fn.NewExp(fn.Const(1.7), fn.Const(3.3)), pow(1.7, 3.3)},
		{"exp-frac-base", fn.NewExp(fn.Const(0.3), fn.Const(-2.25)), pow(0.3, -2.25)},
		{"log", fn.NewLog(fn.Const(3), fn.Const(100)), log(3, 100)},
		{"log-small-base", fn.NewLog(fn.Const(0.5), fn.Const(7)), log(0.5, 7)},
		{"root", fn.NewRoot(fn.Const(5), fn.Const(1234.5)), pow(1234.5, 1.0/5)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := c.f.Apply(nil)
			require.NoError(t, err)
			assert.InEpsilon(t, c.want, r, 1e-14)
		})
	}
}

func TestString(t *testing.T) {
	f := fn.NewAdd(
		fn.NewCoef(2, fn.Var("x")),
		fn.NewDiv(fn.Const(1), fn.Var("y")),
		fn.NewMul(fn.NewExp(fn.Var("x"), fn.Const(2)), fn.NewLog(fn.Const(10), fn.Var("x"))),
		fn.NewRoot(fn.Const(3), fn.Const(0.5)),
	)
	assert.Equal(t, "(2*x + (1 / y) + ((x ^ 2) * log(10, x)) + root(3, 0.5))", f.String())
}

func TestErrorMessages(t *testing.T) {
	for k := fn.DivisionByZero; k <= fn.ParameterNotFound; k++ {
		assert.NotContains(t, k.Error(), "unknown", "kind %d", k)
	}
	assert.Contains(t, fn.Kind(0).Error(), "unknown")
	err := &fn.Error{Kind: fn.NonPositiveLogArg, Func: "log", X: -1}
	assert.Equal(t, "logarithm of non-positive number: -1 in log", err.Error())
}

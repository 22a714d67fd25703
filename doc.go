// Package symcalc parses arithmetic expressions into trees, folding constant
// subexpressions as it goes.
//
// The syntax is the usual infix notation with + - * / and right-associative
// ^, plus sin(...). Juxtaposition multiplies: "3x", "2(x+1)", and "x(y)" are
// all products, and "2x^2" is "2*(x^2)". Anything built only from numbers is
// computed at parse time, so "2*3+4" parses to the same tree as "10".
//
// Parse an expression once and evaluate it for many inputs with Eval. Package
// fn provides a separate, programmatically built function tree with explicit
// domain errors; both share fn.Args as the variable environment.
package symcalc

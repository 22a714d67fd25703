package symcalc

import (
	"math"
	"strconv"
	"strings"
)

// node is a node in the expression tree.
type node struct {
	kind nodeKind

	// num is the value of a nodeNum.
	num float64
	// name is the variable name of a nodeVar.
	name string

	left  *node
	right *node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeNum // literal num
	nodeVar // lookup(name)

	nodeAdd // left + right
	nodeSub // left - right
	nodeMul // left * right
	nodeDiv // left / right
	nodePow // left ^ right
	nodeNeg // -left
	nodeSin // sin(left)
)

var nodeNames = [...]string{
	nodeNone: "None",
	nodeNum:  "Num",
	nodeVar:  "Var",
	nodeAdd:  "Add",
	nodeSub:  "Sub",
	nodeMul:  "Mul",
	nodeDiv:  "Div",
	nodePow:  "Pow",
	nodeNeg:  "Neg",
	nodeSin:  "Sin",
}

func (k nodeKind) String() string {
	if k < 0 || int(k) >= len(nodeNames) {
		return "nodeKind(" + strconv.Itoa(int(k)) + ")"
	}
	return nodeNames[k]
}

// binary reports whether the node kind has both left and right operands.
func (k nodeKind) binary() bool {
	switch k {
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow:
		return true
	}
	return false
}

// apply computes a binary operation on already evaluated operands.
func (k nodeKind) apply(l, r float64) float64 {
	switch k {
	case nodeAdd:
		return l + r
	case nodeSub:
		return l - r
	case nodeMul:
		return l * r
	case nodeDiv:
		return l / r
	case nodePow:
		return math.Pow(l, r)
	default:
		panic("symcalc: apply on non-binary node kind " + k.String())
	}
}

// unary computes a unary operation on an already evaluated operand.
func (k nodeKind) unary(x float64) float64 {
	switch k {
	case nodeNeg:
		return -x
	case nodeSin:
		return math.Sin(x)
	default:
		panic("symcalc: unary on non-unary node kind " + k.String())
	}
}

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b, false)
	return b.String()
}

func (n *node) fmt(b *strings.Builder, square bool) {
	var l, r byte = '(', ')'
	if square {
		l, r = '[', ']'
	}
	b.WriteByte(l)
	defer b.WriteByte(r)
	switch n.kind {
	case nodeNum:
		b.WriteString(strconv.FormatFloat(n.num, 'g', -1, 64))
	case nodeVar:
		b.WriteString(n.name)
	case nodeAdd:
		n.left.fmt(b, !square)
		b.WriteString(" + ")
		n.right.fmt(b, !square)
	case nodeSub:
		n.left.fmt(b, !square)
		b.WriteString(" - ")
		n.right.fmt(b, !square)
	case nodeMul:
		n.left.fmt(b, !square)
		b.WriteString(" * ")
		n.right.fmt(b, !square)
	case nodeDiv:
		n.left.fmt(b, !square)
		b.WriteString(" / ")
		n.right.fmt(b, !square)
	case nodePow:
		n.left.fmt(b, !square)
		b.WriteString(" ^ ")
		n.right.fmt(b, !square)
	case nodeNeg:
		b.WriteByte('-')
		n.left.fmt(b, !square)
	case nodeSin:
		b.WriteString("sin")
		n.left.fmt(b, !square)
	default:
		panic("symcalc: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}

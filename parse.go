package symcalc

import (
	"sort"
)

// Expr     = Sum
// Sum      = Product { ('+' | '-') Product }
// Product  = Factor { ('*' | '/') Factor }
// Factor   = '-' Factor | Term
// Term     = Power { Power }            (implicit multiplication; each further
//                                        Power begins with ident, '(' or sin)
// Power    = Atom [ '^' Exponent ]
// Exponent = '-' Exponent | Power
// Atom     = num | ident | '(' Sum ')' | 'sin' '(' Sum ')'

// Expr is a parsed expression. An Expr is immutable, so it is safe to
// evaluate one concurrently from any number of goroutines.
type Expr struct {
	// n is the root node of the expression.
	n *node
	// konst is whether n is a constant subtree.
	konst bool
	// names is the list of variable names used in the expression.
	names []string
}

// tokens is a single-pass cursor over a token sequence ending in TokenEOF.
type tokens struct {
	toks []Token
	i    int
}

// peek returns the next token without consuming it.
func (t *tokens) peek() Token {
	return t.toks[t.i]
}

// next consumes and returns the next token. Once the cursor reaches EOF, it
// keeps returning the EOF token.
func (t *tokens) next() Token {
	tok := t.toks[t.i]
	if tok.Kind != TokenEOF {
		t.i++
	}
	return tok
}

// Parse tokenizes and parses an expression. The given options are applied in
// order. Errors resulting from invalid input implement InputError.
func Parse(src string, opts ...ParseOption) (*Expr, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	return ParseTokens(toks, opts...)
}

// ParseTokens parses a token sequence as produced by Tokenize. If toks does
// not end with TokenEOF, the parser behaves as though it did. Constant
// subexpressions are folded into single literals unless NoFold is given.
func ParseTokens(toks []Token, opts ...ParseOption) (*Expr, error) {
	if len(toks) == 0 || toks[len(toks)-1].Kind != TokenEOF {
		pos := 1
		if len(toks) > 0 {
			last := toks[len(toks)-1]
			pos = last.Pos + len([]rune(last.Text))
		}
		toks = append(toks[:len(toks):len(toks)], Token{Kind: TokenEOF, Pos: pos})
	}
	p := defaultParsectx()
	for _, opt := range opts {
		p = opt.parseOption(p)
	}
	scan := &tokens{toks: toks}
	n, c, err := parsesum(scan, &p)
	if err != nil {
		return nil, err
	}
	switch end := scan.next(); end.Kind {
	case TokenEOF:
	case TokenRParen:
		return nil, &BracketError{Col: end.Pos, Right: end.Text}
	default:
		return nil, &TokenError{Col: end.Pos, Token: end, Want: "operator or end of input"}
	}
	ex := Expr{
		n:     n,
		konst: c,
		names: make([]string, 0, len(p.names)),
	}
	for k := range p.names {
		ex.names = append(ex.names, k)
	}
	sort.Strings(ex.names)
	return &ex, nil
}

// enter records descending into a nested subexpression. Callers must call
// leave even when enter returns an error.
func (p *parsectx) enter(tok Token) error {
	p.depth++
	if p.maxdepth > 0 && p.depth > p.maxdepth {
		return &DepthError{Col: tok.Pos, Max: p.maxdepth}
	}
	return nil
}

func (p *parsectx) leave() {
	p.depth--
}

// fold2 combines two operands under a binary operator. If both are constant,
// the operation is evaluated now and the result is a literal.
func (p *parsectx) fold2(kind nodeKind, l *node, lc bool, r *node, rc bool) (*node, bool) {
	c := lc && rc
	if !c || p.nofold {
		return &node{kind: kind, left: l, right: r}, c
	}
	v := kind.apply(l.num, r.num)
	p.log.Debug().
		Str("op", kind.String()).
		Float64("lhs", l.num).
		Float64("rhs", r.num).
		Float64("result", v).
		Msg("folded constant")
	return &node{kind: nodeNum, num: v}, true
}

// fold1 applies a unary operator, folding it if its operand is constant.
func (p *parsectx) fold1(kind nodeKind, x *node, c bool) (*node, bool) {
	if !c || p.nofold {
		return &node{kind: kind, left: x}, c
	}
	v := kind.unary(x.num)
	p.log.Debug().
		Str("op", kind.String()).
		Float64("arg", x.num).
		Float64("result", v).
		Msg("folded constant")
	return &node{kind: nodeNum, num: v}, true
}

func parsesum(scan *tokens, p *parsectx) (*node, bool, error) {
	l, lc, err := parseproduct(scan, p)
	if err != nil {
		return nil, false, err
	}
	for {
		var kind nodeKind
		switch scan.peek().Kind {
		case TokenPlus:
			kind = nodeAdd
		case TokenMinus:
			kind = nodeSub
		default:
			return l, lc, nil
		}
		scan.next()
		r, rc, err := parseproduct(scan, p)
		if err != nil {
			return nil, false, err
		}
		l, lc = p.fold2(kind, l, lc, r, rc)
	}
}

func parseproduct(scan *tokens, p *parsectx) (*node, bool, error) {
	l, lc, err := parsefactor(scan, p)
	if err != nil {
		return nil, false, err
	}
	for {
		var kind nodeKind
		switch scan.peek().Kind {
		case TokenStar:
			kind = nodeMul
		case TokenSlash:
			kind = nodeDiv
		default:
			return l, lc, nil
		}
		scan.next()
		r, rc, err := parsefactor(scan, p)
		if err != nil {
			return nil, false, err
		}
		l, lc = p.fold2(kind, l, lc, r, rc)
	}
}

// parsefactor parses a term with any number of leading negations.
func parsefactor(scan *tokens, p *parsectx) (*node, bool, error) {
	if scan.peek().Kind != TokenMinus {
		return parseterm(scan, p)
	}
	tok := scan.next()
	err := p.enter(tok)
	defer p.leave()
	if err != nil {
		return nil, false, err
	}
	x, c, err := parsefactor(scan, p)
	if err != nil {
		return nil, false, err
	}
	n, c := p.fold1(nodeNeg, x, c)
	return n, c, nil
}

// parseterm parses a power followed by any adjacent powers, multiplying them
// together: 3x -> 3 * x, 2(x+1) -> 2 * (x+1), 2x^2 -> 2 * (x^2).
func parseterm(scan *tokens, p *parsectx) (*node, bool, error) {
	l, lc, err := parsepower(scan, p)
	if err != nil {
		return nil, false, err
	}
	for {
		switch scan.peek().Kind {
		case TokenIdent, TokenLParen, TokenSin:
		default:
			return l, lc, nil
		}
		r, rc, err := parsepower(scan, p)
		if err != nil {
			return nil, false, err
		}
		l, lc = p.fold2(nodeMul, l, lc, r, rc)
	}
}

// parsepower parses an atom and an optional right-associative exponent.
func parsepower(scan *tokens, p *parsectx) (*node, bool, error) {
	b, bc, err := parseatom(scan, p)
	if err != nil {
		return nil, false, err
	}
	if scan.peek().Kind != TokenCaret {
		return b, bc, nil
	}
	tok := scan.next()
	err = p.enter(tok)
	defer p.leave()
	if err != nil {
		return nil, false, err
	}
	e, ec, err := parseexponent(scan, p)
	if err != nil {
		return nil, false, err
	}
	n, c := p.fold2(nodePow, b, bc, e, ec)
	return n, c, nil
}

// parseexponent parses the right side of ^. It allows negation but not
// implicit multiplication, so x^2y is (x^2) * y and 2^-x is 2^(-x).
func parseexponent(scan *tokens, p *parsectx) (*node, bool, error) {
	if scan.peek().Kind != TokenMinus {
		return parsepower(scan, p)
	}
	tok := scan.next()
	err := p.enter(tok)
	defer p.leave()
	if err != nil {
		return nil, false, err
	}
	x, c, err := parseexponent(scan, p)
	if err != nil {
		return nil, false, err
	}
	n, c := p.fold1(nodeNeg, x, c)
	return n, c, nil
}

func parseatom(scan *tokens, p *parsectx) (*node, bool, error) {
	tok := scan.next()
	switch tok.Kind {
	case TokenNumber:
		return &node{kind: nodeNum, num: tok.Num}, true, nil
	case TokenIdent:
		p.names[tok.Text] = true
		return &node{kind: nodeVar, name: tok.Text}, false, nil
	case TokenLParen:
		return parseparens(scan, p, tok)
	case TokenSin:
		open := scan.next()
		if open.Kind != TokenLParen {
			if open.Kind == TokenEOF {
				return nil, false, &EmptyExpressionError{Col: open.Pos}
			}
			return nil, false, &TokenError{Col: open.Pos, Token: open, Want: "( after sin"}
		}
		x, c, err := parseparens(scan, p, open)
		if err != nil {
			return nil, false, err
		}
		n, c := p.fold1(nodeSin, x, c)
		return n, c, nil
	default:
		return nil, false, notOperand(tok)
	}
}

// parseparens parses the contents of a bracket whose opening token has been
// consumed, along with the closing bracket.
func parseparens(scan *tokens, p *parsectx, open Token) (*node, bool, error) {
	err := p.enter(open)
	defer p.leave()
	if err != nil {
		return nil, false, err
	}
	n, c, err := parsesum(scan, p)
	if err != nil {
		return nil, false, err
	}
	switch end := scan.next(); end.Kind {
	case TokenRParen:
		return n, c, nil
	case TokenEOF:
		return nil, false, &BracketError{Col: end.Pos, Left: open.Text}
	default:
		return nil, false, &TokenError{Col: end.Pos, Token: end, Want: "operator or )"}
	}
}

// notOperand returns an error appropriate for a token found where an operand
// should begin.
func notOperand(tok Token) error {
	switch tok.Kind {
	case TokenEOF:
		return &EmptyExpressionError{Col: tok.Pos}
	case TokenRParen:
		return &EmptyExpressionError{Col: tok.Pos, End: tok.Text}
	case TokenPlus, TokenMinus, TokenStar, TokenSlash, TokenCaret:
		return &OperatorError{Col: tok.Pos, Operator: tok.Text}
	default:
		return &TokenError{Col: tok.Pos, Token: tok, Want: "operand"}
	}
}

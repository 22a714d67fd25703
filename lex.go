package symcalc

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Token is a lexical token of an expression.
type Token struct {
	// Kind is the type of the token.
	Kind TokenKind
	// Num is the value of a TokenNumber.
	Num float64
	// Text is the source text of the token.
	Text string
	// Pos is the 1-based column of the first rune of the token.
	Pos int
}

func (t Token) String() string {
	return t.Kind.String() + ":" + t.Text + "@" + strconv.Itoa(t.Pos)
}

// TokenKind is the type of a token.
type TokenKind int8

const (
	TokenNone TokenKind = iota
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenCaret
	TokenLParen
	TokenRParen
	TokenComma
	// TokenSin is the sin keyword.
	TokenSin
	// TokenNumber is a decimal literal.
	TokenNumber
	// TokenIdent is a variable name.
	TokenIdent
	// TokenEOF indicates the end of the input.
	TokenEOF
)

var tokenNames = [...]string{
	TokenNone:   "None",
	TokenPlus:   "Plus",
	TokenMinus:  "Minus",
	TokenStar:   "Star",
	TokenSlash:  "Slash",
	TokenCaret:  "Caret",
	TokenLParen: "LParen",
	TokenRParen: "RParen",
	TokenComma:  "Comma",
	TokenSin:    "Sin",
	TokenNumber: "Number",
	TokenIdent:  "Ident",
	TokenEOF:    "EOF",
}

func (k TokenKind) String() string {
	if k < 0 || int(k) >= len(tokenNames) {
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
	return tokenNames[k]
}

// single maps runes that are always a token by themselves.
var single = map[rune]TokenKind{
	'+': TokenPlus,
	'-': TokenMinus,
	'*': TokenStar,
	'/': TokenSlash,
	'^': TokenCaret,
	'(': TokenLParen,
	')': TokenRParen,
	',': TokenComma,
}

// keywords promotes identifiers to dedicated tokens.
var keywords = map[string]TokenKind{
	"sin": TokenSin,
}

type lexer struct {
	src string
	// off is the byte offset of the next rune.
	off int
	// col is the 1-based column of the next rune.
	col int
	buf strings.Builder
}

// Tokenize scans src into tokens. The result always ends with a single
// TokenEOF. If src contains a rune that cannot begin a token or a malformed
// number, the error is a *LexError.
func Tokenize(src string) ([]Token, error) {
	l := lexer{src: src, col: 1}
	var toks []Token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == TokenEOF {
			return toks, nil
		}
	}
}

// peekRune returns the next rune without consuming it. The result is
// utf8.RuneError with size 0 at the end of input.
func (l *lexer) peekRune() (rune, int) {
	if l.off >= len(l.src) {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(l.src[l.off:])
}

func (l *lexer) advance(sz int) {
	l.off += sz
	l.col++
}

// next scans the next token from the input.
func (l *lexer) next() (Token, error) {
	defer l.buf.Reset()
	for {
		r, sz := l.peekRune()
		tok := Token{Pos: l.col}
		switch {
		case sz == 0:
			tok.Kind = TokenEOF
			return tok, nil
		case r == ' ':
			l.advance(sz)
			continue
		case '0' <= r && r <= '9':
			if err := l.scanNum(); err != nil {
				return tok, err
			}
			tok.Kind = TokenNumber
			tok.Text = l.buf.String()
			v, err := strconv.ParseFloat(tok.Text, 64)
			if err != nil {
				// Only range errors are possible for digits with an optional
				// fraction, and ParseFloat gives ±Inf for those.
				if ne, ok := err.(*strconv.NumError); !ok || ne.Err != strconv.ErrRange {
					panic("symcalc: scanned invalid number " + strconv.Quote(tok.Text))
				}
			}
			tok.Num = v
			return tok, nil
		case isIdent(r):
			l.scanIdent()
			tok.Text = l.buf.String()
			tok.Kind = TokenIdent
			if k, ok := keywords[tok.Text]; ok {
				tok.Kind = k
			}
			return tok, nil
		default:
			if k, ok := single[r]; ok {
				l.advance(sz)
				tok.Kind = k
				tok.Text = string(r)
				return tok, nil
			}
			return tok, &LexError{Col: l.col, Char: r, Text: string(r)}
		}
	}
}

// scanNum scans a digit run optionally followed by a fraction.
func (l *lexer) scanNum() error {
	l.scanDigits()
	r, sz := l.peekRune()
	if sz == 0 || r != '.' {
		return nil
	}
	l.buf.WriteRune(r)
	l.advance(sz)
	if l.scanDigits() == 0 {
		r, _ := l.peekRune()
		return &LexError{Col: l.col, Char: r, Text: l.buf.String(), Kind: "number"}
	}
	return nil
}

func (l *lexer) scanDigits() int {
	n := 0
	for {
		r, sz := l.peekRune()
		if sz == 0 || r < '0' || r > '9' {
			return n
		}
		l.buf.WriteRune(r)
		l.advance(sz)
		n++
	}
}

func (l *lexer) scanIdent() {
	for {
		r, sz := l.peekRune()
		if sz == 0 || !isIdent(r) {
			return
		}
		l.buf.WriteRune(r)
		l.advance(sz)
	}
}

func isIdent(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

// LexError indicates an invalid token. It implements InputError.
type LexError struct {
	// Col is the column of the rune that could not be scanned.
	Col int
	// Char is the rune that could not be scanned. It is utf8.RuneError if
	// the input ended early.
	Char rune
	// Text is the token the lexer was scanning when the error occurred. For
	// an unexpected character, it is just that character.
	Text string
	// Kind is the type of token the lexer was scanning: "number", or the
	// empty string if the rune cannot begin any token.
	Kind string
}

func (err *LexError) Error() string {
	pos := "column " + strconv.Itoa(err.Col)
	if err.Kind == "" {
		return "unexpected character " + strconv.QuoteRune(err.Char) + " at " + pos
	}
	return "invalid " + err.Kind + " token at " + pos + ": " + strconv.Quote(err.Text) + " needs digits after the decimal point"
}

func (err *LexError) Pos() int {
	return err.Col
}

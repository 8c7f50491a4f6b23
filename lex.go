package calculator

import (
	"strings"
	"unicode/utf8"
)

// OperatorChars contains the characters which start operator tokens.
const OperatorChars = "*/%=+-"

type lexer struct {
	src  string
	i    int
	toks []Token
}

// Tokenize scans src into a sequence of tokens.
//
// A + or - run of length two becomes an increment or decrement marker. It is
// a postfix marker when it directly follows a variable, as in "x++", and a
// prefix marker when a variable character directly follows it, as in "++x".
// Whitespace between the marker and its variable is an error. Runs of three
// or more are always an error, as is more than one = anywhere in src.
func Tokenize(src string) ([]Token, error) {
	if k := secondEquals(src); k >= 0 {
		return nil, &TooManyOperatorsError{Col: k + 1, Text: "="}
	}
	l := lexer{src: src}
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		if tok.kind == tokenNone {
			return l.toks, nil
		}
		l.toks = append(l.toks, tok)
	}
}

// secondEquals returns the index of the second = in src, or -1 if there are
// fewer than two. Comparison operators are not part of the language, so this
// rejects "x == y" and chained assignments like "x = y = 1" before scanning.
func secondEquals(src string) int {
	k := strings.IndexByte(src, '=')
	if k < 0 {
		return -1
	}
	j := strings.IndexByte(src[k+1:], '=')
	if j < 0 {
		return -1
	}
	return k + 1 + j
}

// prev returns the last token scanned, or a token with kind tokenNone.
func (l *lexer) prev() Token {
	if len(l.toks) == 0 {
		return Token{}
	}
	return l.toks[len(l.toks)-1]
}

// next scans the next token. At the end of the input, the result is a token
// of kind tokenNone with a nil error.
func (l *lexer) next() (Token, error) {
	for l.i < len(l.src) {
		c := l.src[l.i]
		switch {
		case isSpace(c):
			l.i++
		case isDigit(c), c == '-' && l.signed():
			return l.scanNum()
		case c == '_', isLetter(c):
			return l.scanIdent(), nil
		case c == '(', c == ')':
			l.i++
			return Token{text: l.src[l.i-1 : l.i], kind: Parenthesis, pos: l.i}, nil
		case strings.IndexByte(OperatorChars, c) >= 0:
			return l.scanOp()
		default:
			r, _ := utf8.DecodeRuneInString(l.src[l.i:])
			return Token{}, &SyntaxError{Col: l.i + 1, Text: string(r), Reason: "unexpected character"}
		}
	}
	return Token{}, nil
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// signed reports whether the - at the current position is the sign of a
// negative literal, which it is whenever a digit or point follows. So "5-4"
// is 5 followed by -4, which the parser rejects.
func (l *lexer) signed() bool {
	if l.i+1 >= len(l.src) {
		return false
	}
	c := l.src[l.i+1]
	return isDigit(c) || c == '.'
}

func (l *lexer) scanNum() (Token, error) {
	start := l.i
	if l.src[l.i] == '-' {
		l.i++
	}
	dot := false
scan:
	for l.i < len(l.src) {
		switch c := l.src[l.i]; {
		case isDigit(c):
		case c == '.':
			if dot {
				return Token{}, &SyntaxError{Col: start + 1, Text: l.src[start : l.i+1], Reason: "invalid number"}
			}
			dot = true
		default:
			break scan
		}
		l.i++
	}
	text := l.src[start:l.i]
	if !isNumber(text) {
		return Token{}, &SyntaxError{Col: start + 1, Text: text, Reason: "invalid number"}
	}
	return Token{text: text, kind: Number, pos: start + 1}, nil
}

func (l *lexer) scanIdent() Token {
	start := l.i
	for l.i < len(l.src) && isNameChar(l.src[l.i]) {
		l.i++
	}
	return Token{text: l.src[start:l.i], kind: Variable, pos: start + 1}
}

func (l *lexer) scanOp() (Token, error) {
	start := l.i
	c := l.src[l.i]
	switch {
	case c != '=' && l.i+1 < len(l.src) && l.src[l.i+1] == '=':
		// Compound assignment.
		l.i += 2
	case c == '+', c == '-':
		n := 1
		for start+n < len(l.src) && l.src[start+n] == c {
			n++
		}
		switch {
		case n >= 3:
			return Token{}, &TooManyOperatorsError{Col: start + 1, Text: l.src[start : start+n]}
		case n == 2:
			fix, err := l.fix(start, start+2)
			if err != nil {
				return Token{}, err
			}
			l.i += 2
			return Token{text: l.src[start:l.i] + fix, kind: Operator, pos: start + 1}, nil
		default:
			l.i++
		}
	default:
		l.i++
	}
	return Token{text: l.src[start:l.i], kind: Operator, pos: start + 1}, nil
}

// fix decides whether the ++ or -- at src[start:end] is a postfix or a prefix
// operator.
func (l *lexer) fix(start, end int) (string, error) {
	if l.prev().kind == Variable && start > 0 && isNameChar(l.src[start-1]) {
		return "post", nil
	}
	if end < len(l.src) && isNameChar(l.src[end]) {
		return "pre", nil
	}
	return "", &SyntaxError{Col: start + 1, Text: l.src[start:end], Reason: "invalid unary operator"}
}

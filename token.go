package calculator

import (
	"strconv"
	"strings"
)

// Token is a single lexical unit of an expression. Tokens are immutable.
type Token struct {
	text string
	kind TokenKind
	pos  int
	// target is the variable an increment or decrement marker mutates. The
	// parser binds it; it is empty for every other token.
	target string
}

// TokenKind is the category of a token.
type TokenKind int8

const (
	tokenNone TokenKind = iota
	// Number is a decimal literal, possibly negative.
	Number
	// Variable is a variable name.
	Variable
	// Operator is an arithmetic, assignment, or increment/decrement operator.
	Operator
	// Parenthesis is ( or ).
	Parenthesis
)

func (k TokenKind) String() string {
	switch k {
	case tokenNone:
		return "None"
	case Number:
		return "Number"
	case Variable:
		return "Variable"
	case Operator:
		return "Operator"
	case Parenthesis:
		return "Parenthesis"
	default:
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Increment and decrement markers. The tokenizer decides between the prefix
// and postfix forms from the surrounding text, so the marker text carries the
// decision.
const (
	PreIncrement  = "++pre"
	PreDecrement  = "--pre"
	PostIncrement = "++post"
	PostDecrement = "--post"
)

var (
	arithmeticOps = []string{"+", "-", "*", "/", "%"}
	assignmentOps = []string{"=", "+=", "-=", "*=", "/=", "%="}
	unaryOps      = []string{PreIncrement, PreDecrement, PostIncrement, PostDecrement}
)

func oneof(s string, set []string) bool {
	for _, v := range set {
		if s == v {
			return true
		}
	}
	return false
}

// NewToken creates a token after checking that text is valid for the kind.
// The returned token has no position.
func NewToken(text string, kind TokenKind) (Token, error) {
	if !validToken(text, kind) {
		return Token{}, &SyntaxError{Text: text, Reason: "invalid " + strings.ToLower(kind.String())}
	}
	return Token{text: text, kind: kind}, nil
}

func validToken(text string, kind TokenKind) bool {
	switch kind {
	case Number:
		return isNumber(text)
	case Variable:
		return isName(text)
	case Operator:
		return oneof(text, arithmeticOps) || oneof(text, assignmentOps) || oneof(text, unaryOps)
	case Parenthesis:
		return text == "(" || text == ")"
	default:
		return false
	}
}

// isNumber reports whether s is an optional minus sign, one or more digits,
// and optionally a decimal point followed by one or more digits.
func isNumber(s string) bool {
	if strings.HasPrefix(s, "-") {
		s = s[1:]
	}
	ip, fp, dot := strings.Cut(s, ".")
	if !digits(ip) {
		return false
	}
	return !dot || digits(fp)
}

func digits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

// isName reports whether s is a valid variable name.
func isName(s string) bool {
	if s == "" || isDigit(s[0]) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isNameChar(s[i]) {
			return false
		}
	}
	return true
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isLetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

// isNameChar reports whether c may appear in a variable name.
func isNameChar(c byte) bool {
	return c == '_' || isLetter(c) || isDigit(c)
}

// Text returns the token's text. Increment and decrement markers use the
// marker constants, e.g. PostIncrement.
func (t Token) Text() string {
	return t.text
}

// Kind returns the token's kind.
func (t Token) Kind() TokenKind {
	return t.kind
}

// Pos returns the 1-based column of the token's first character in the
// source, or 0 if the token did not come from the tokenizer.
func (t Token) Pos() int {
	return t.pos
}

// Target returns the variable mutated by an increment or decrement marker
// bound by Parse. It is empty for all other tokens.
func (t Token) Target() string {
	return t.target
}

func (t Token) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

// isUnary reports whether t is an increment or decrement marker.
func (t Token) isUnary() bool {
	return t.kind == Operator && oneof(t.text, unaryOps)
}

func (t Token) isPre() bool {
	return t.kind == Operator && (t.text == PreIncrement || t.text == PreDecrement)
}

func (t Token) isPost() bool {
	return t.kind == Operator && (t.text == PostIncrement || t.text == PostDecrement)
}

func (t Token) isAssignment() bool {
	return t.kind == Operator && oneof(t.text, assignmentOps)
}

func (t Token) isBinary() bool {
	return t.kind == Operator && oneof(t.text, arithmeticOps)
}

func (t Token) isOperand() bool {
	return t.kind == Number || t.kind == Variable
}

// step returns +1 for increments and -1 for decrements.
func (t Token) step() int64 {
	if strings.HasPrefix(t.text, "++") {
		return 1
	}
	return -1
}

// bind returns a copy of a marker token bound to a variable.
func (t Token) bind(name string) Token {
	t.target = name
	return t
}

// source writes the token as it would appear in normalized source text.
func (t Token) source(b *strings.Builder) {
	switch {
	case t.isUnary():
		b.WriteString(t.text[:2])
	default:
		b.WriteString(t.text)
	}
}

// tokenTexts is a shortcut to get the text of each token.
func tokenTexts(toks []Token) []string {
	r := make([]string, len(toks))
	for i, t := range toks {
		r[i] = t.text
	}
	return r
}

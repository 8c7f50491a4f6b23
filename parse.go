package calculator

import (
	"strings"
)

// Line = [ name AssignOp ] Expr
// AssignOp = '=' | '+=' | '-=' | '*=' | '/=' | '%='
// Expr = Term { BinOp Term }
// Term = num | name | name '++' | name '--' | '++' name | '--' name | '(' Expr ')'
// BinOp = '+' | '-' | '*' | '/' | '%'

// Expr is a parsed expression that can be executed with a context.
type Expr struct {
	// name and assign are the assignment head. Both have kind tokenNone if
	// the expression is not an assignment.
	name   Token
	assign Token
	// toks is the expression with increment and decrement markers bound.
	toks []Token
	// names is the sorted list of variable names used in the expression.
	names []string
}

// Parse parses a line so it can be executed with a context.
func Parse(src string) (*Expr, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	var e Expr
	if len(toks) >= 3 && toks[0].kind == Variable && toks[1].isAssignment() {
		e.name, e.assign, toks = toks[0], toks[1], toks[2:]
	}
	if err := e.validateHead(); err != nil {
		return nil, err
	}
	if err := balanced(toks); err != nil {
		return nil, &ValidationError{Col: err.Col, Reason: "unbalanced parenthesis", Err: err}
	}
	if err := noRepeatedOps(toks); err != nil {
		return nil, err
	}
	if e.toks, err = bindUnary(toks); err != nil {
		return nil, err
	}
	if err := wellFormed(e.toks); err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	for _, tok := range e.toks {
		if tok.kind == Variable && !seen[tok.text] {
			seen[tok.text] = true
			e.names = append(e.names, tok.text)
		}
	}
	sortstrs(e.names)
	return &e, nil
}

func (e *Expr) validateHead() error {
	if e.name.kind == tokenNone {
		return nil
	}
	if !isName(e.name.text) {
		return &ValidationError{Col: e.name.pos, Reason: "invalid variable name " + e.name.text}
	}
	if !e.assign.isAssignment() {
		return &ValidationError{Col: e.assign.pos, Reason: "unsupported operator " + e.assign.text}
	}
	return nil
}

// balanced checks that every ) closes an earlier ( and that none remain
// open.
func balanced(toks []Token) *UnbalancedParenthesisError {
	var open []Token
	for _, tok := range toks {
		if tok.kind != Parenthesis {
			continue
		}
		if tok.text == "(" {
			open = append(open, tok)
			continue
		}
		if len(open) == 0 {
			return &UnbalancedParenthesisError{Col: tok.pos, Paren: ")"}
		}
		open = open[:len(open)-1]
	}
	if len(open) != 0 {
		return &UnbalancedParenthesisError{Col: open[len(open)-1].pos, Paren: "("}
	}
	return nil
}

// noRepeatedOps checks that no operator directly follows the same operator,
// as in "x * * y" or "x - - 1".
func noRepeatedOps(toks []Token) error {
	for i := 1; i < len(toks); i++ {
		p, t := toks[i-1], toks[i]
		if p.kind == Operator && t.kind == Operator && p.text == t.text {
			return &ValidationError{Col: t.pos, Reason: "consecutive operators " + p.text + " and " + t.text}
		}
	}
	return nil
}

// bindUnary binds each increment and decrement marker to its variable and
// checks that a variable so mutated appears nowhere else in the expression.
// The result is a new slice.
func bindUnary(toks []Token) ([]Token, error) {
	r := make([]Token, len(toks))
	copy(r, toks)
	uses := make(map[string]int)
	for _, tok := range toks {
		if tok.kind == Variable {
			uses[tok.text]++
		}
	}
	bound := make(map[string]bool)
	for i, tok := range r {
		var v Token
		switch {
		case tok.isPre():
			if i+1 < len(r) {
				v = r[i+1]
			}
		case tok.isPost():
			if i > 0 {
				v = r[i-1]
			}
		default:
			continue
		}
		if v.kind != Variable {
			return nil, &ValidationError{Col: tok.pos, Reason: tok.text[:2] + " must be applied to a variable"}
		}
		if uses[v.text] > 1 || bound[v.text] {
			return nil, &ValidationError{Col: v.pos, Reason: "multiple uses of " + v.text + " with " + tok.text[:2]}
		}
		bound[v.text] = true
		r[i] = tok.bind(v.text)
	}
	return r, nil
}

// wellFormed checks that operands and binary operators alternate, that the
// expression is not empty, and that no assignment operator appears inside it.
// Marker placement is already checked by bindUnary.
func wellFormed(toks []Token) error {
	if len(toks) == 0 {
		return &ValidationError{Reason: "no expression"}
	}
	operand := false // whether the last thing completed an operand
	for _, tok := range toks {
		switch {
		case tok.isOperand():
			if operand {
				return &ValidationError{Col: tok.pos, Reason: "missing operator before " + tok.text}
			}
			operand = true
		case tok.kind == Parenthesis && tok.text == "(":
			if operand {
				return &ValidationError{Col: tok.pos, Reason: "missing operator before ("}
			}
		case tok.kind == Parenthesis:
			if !operand {
				return &ValidationError{Col: tok.pos, Reason: "missing operand before )"}
			}
		case tok.isPre(), tok.isPost():
			// Bound to an adjacent variable, which does the bookkeeping.
		case tok.isBinary():
			if !operand {
				return &ValidationError{Col: tok.pos, Reason: "missing operand before " + tok.text}
			}
			operand = false
		case tok.isAssignment():
			return &ValidationError{Col: tok.pos, Reason: "misplaced assignment " + tok.text}
		default:
			panic("calculator: unknown token: " + tok.String())
		}
	}
	if !operand {
		last := toks[len(toks)-1]
		return &ValidationError{Col: last.pos, Reason: "missing operand after " + last.text}
	}
	return nil
}

// sortstrs sorts a string slice without using package sort because that has
// reflection and allocation problems.
func sortstrs(names []string) {
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
}

// Assignment returns the assigned variable and the assignment operator. If
// the expression is not an assignment, ok is false.
func (e *Expr) Assignment() (name, op Token, ok bool) {
	if e.name.kind == tokenNone {
		return Token{}, Token{}, false
	}
	return e.name, e.assign, true
}

// Operands returns the tokens of the expression, excluding any assignment
// head.
func (e *Expr) Operands() []Token {
	return append(([]Token)(nil), e.toks...)
}

// Vars returns the variable names read when evaluating the expression,
// excluding the assigned variable unless it is also read.
func (e *Expr) Vars() []string {
	return append(([]string)(nil), e.names...)
}

// Postfix converts the expression to postfix order. Increment and decrement
// markers bind tighter than any binary operator, so they go straight to the
// output where they appear: a prefix marker directly before its variable and
// a postfix marker directly after it.
func (e *Expr) Postfix() ([]Token, error) {
	var stack, out []Token
	for _, tok := range e.toks {
		switch {
		case tok.isOperand(), tok.isUnary():
			out = append(out, tok)
		case tok.kind == Parenthesis && tok.text == "(":
			stack = append(stack, tok)
		case tok.kind == Parenthesis:
			for len(stack) > 0 && stack[len(stack)-1].text != "(" {
				out = append(out, stack[len(stack)-1])
				stack = stack[:len(stack)-1]
			}
			if len(stack) == 0 {
				return nil, &UnbalancedParenthesisError{Col: tok.pos, Paren: ")"}
			}
			stack = stack[:len(stack)-1]
		default:
			prec := binop(tok.text)
			for len(stack) > 0 {
				top := binop(stack[len(stack)-1].text)
				if !top.before(prec) {
					break
				}
				out = append(out, stack[len(stack)-1])
				stack = stack[:len(stack)-1]
			}
			stack = append(stack, tok)
		}
	}
	for len(stack) > 0 {
		tok := stack[len(stack)-1]
		if tok.kind == Parenthesis {
			return nil, &UnbalancedParenthesisError{Col: tok.pos, Paren: tok.text}
		}
		out = append(out, tok)
		stack = stack[:len(stack)-1]
	}
	return out, nil
}

// String formats the expression with a single space between tokens, except
// that increment and decrement operators stay attached to their variables.
func (e *Expr) String() string {
	var b strings.Builder
	if e.name.kind != tokenNone {
		b.WriteString(e.name.text)
		b.WriteByte(' ')
		b.WriteString(e.assign.text)
	}
	for i, tok := range e.toks {
		switch {
		case b.Len() == 0:
		case tok.isPost():
		case i > 0 && e.toks[i-1].isPre():
		case tok.kind == Parenthesis && tok.text == ")":
		case i > 0 && e.toks[i-1].kind == Parenthesis && e.toks[i-1].text == "(":
		default:
			b.WriteByte(' ')
		}
		tok.source(&b)
	}
	return b.String()
}

type operator struct {
	// prec is the precedence value. Higher is more binding. Anything that is
	// not a binary operator, in particular (, has precedence 0.
	prec int8
	// right indicates right-associativity.
	right bool
}

// before reports whether an operator p on the stack must be output before
// the incoming operator q is pushed.
func (p operator) before(q operator) bool {
	if p.prec == 0 {
		return false
	}
	if p.prec != q.prec {
		return p.prec > q.prec
	}
	return !p.right
}

// binop gets the operator for a binary operator token. If there is no such
// operator, the result has prec 0.
func binop(text string) operator {
	switch text {
	case "+", "-":
		return operator{1, false}
	case "*", "/", "%":
		return operator{2, false}
	default:
		return operator{}
	}
}

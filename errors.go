package calculator

import (
	"errors"
	"strconv"
)

// SyntaxError indicates text the tokenizer cannot scan. It implements
// InputError.
type SyntaxError struct {
	// Col is the column of the offending text, or 0 if unknown.
	Col int
	// Text is the offending text.
	Text string
	// Reason describes the problem, e.g. "unexpected character".
	Reason string
}

func (err *SyntaxError) Error() string {
	return errpos(err.Col, err.Reason+": "+strconv.Quote(err.Text))
}

func (err *SyntaxError) Pos() int {
	return err.Col
}

// TooManyOperatorsError indicates a run of three or more + or - characters,
// or more than one = in an expression. It implements InputError.
type TooManyOperatorsError struct {
	// Col is the column of the first excess operator character.
	Col int
	// Text is the operator run, or "=" for repeated equals signs.
	Text string
}

func (err *TooManyOperatorsError) Error() string {
	return errpos(err.Col, "too many operators: "+strconv.Quote(err.Text))
}

func (err *TooManyOperatorsError) Pos() int {
	return err.Col
}

// UnbalancedParenthesisError indicates a parenthesis with no partner. It
// implements InputError.
type UnbalancedParenthesisError struct {
	// Col is the position of the parenthesis.
	Col int
	// Paren is the unmatched parenthesis.
	Paren string
}

func (err *UnbalancedParenthesisError) Error() string {
	if err.Paren == "(" {
		return errpos(err.Col, "unbalanced parenthesis: ( with no )")
	}
	return errpos(err.Col, "unbalanced parenthesis: ) with no (")
}

func (err *UnbalancedParenthesisError) Pos() int {
	return err.Col
}

// ValidationError indicates a sequence of tokens that does not form a valid
// expression. It implements InputError.
type ValidationError struct {
	// Col is the position of the token that broke the rule.
	Col int
	// Reason describes the broken rule.
	Reason string
	// Err is a more specific cause, if any.
	Err error
}

func (err *ValidationError) Error() string {
	if err.Err != nil {
		return "invalid expression: " + err.Err.Error()
	}
	return errpos(err.Col, "invalid expression: "+err.Reason)
}

func (err *ValidationError) Pos() int {
	return err.Col
}

func (err *ValidationError) Unwrap() error {
	return err.Err
}

// ErrEvaluation is matched by every error that results from evaluating a
// parsed expression.
var ErrEvaluation = errors.New("evaluation error")

// UndefinedVariableError is an error from reading a variable that has no
// value, or from updating one with a compound assignment before it has been
// assigned with =.
type UndefinedVariableError struct {
	// Name is the variable.
	Name string
	// Op is the compound assignment operator, if that was the cause.
	Op string
}

func (err *UndefinedVariableError) Error() string {
	if err.Op != "" {
		return "undefined variable: " + err.Name + " cannot be assigned with " + err.Op
	}
	return "undefined variable: " + err.Name
}

func (err *UndefinedVariableError) Unwrap() error {
	return ErrEvaluation
}

// DivisionByZeroError is an error from dividing or taking the remainder by
// zero.
type DivisionByZeroError struct {
	// Op is the operator, one of / % /= %=.
	Op string
}

func (err *DivisionByZeroError) Error() string {
	return "division by zero in " + strconv.Quote(err.Op)
}

func (err *DivisionByZeroError) Unwrap() error {
	return ErrEvaluation
}

// EvaluationError indicates a postfix sequence that cannot be evaluated,
// e.g. an operator without enough operands.
type EvaluationError struct {
	// Reason describes the problem.
	Reason string
	// Token is the text of the token being evaluated, if any.
	Token string
}

func (err *EvaluationError) Error() string {
	if err.Token == "" {
		return "cannot evaluate: " + err.Reason
	}
	return "cannot evaluate " + strconv.Quote(err.Token) + ": " + err.Reason
}

func (err *EvaluationError) Unwrap() error {
	return ErrEvaluation
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	if pos <= 0 {
		return msg
	}
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input text implements InputError.
type InputError interface {
	error
	// Pos returns the 1-based column of the text that caused the error.
	Pos() int
}

var (
	_ InputError = (*SyntaxError)(nil)
	_ InputError = (*TooManyOperatorsError)(nil)
	_ InputError = (*UnbalancedParenthesisError)(nil)
	_ InputError = (*ValidationError)(nil)
)

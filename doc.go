// Package calculator implements a small arithmetic interpreter over a store
// of named variables.
//
// An input line is an expression, optionally preceded by an assignment:
// "x = (y + 2) * 5 - 2", "total += price * 3", or just "x++". The operators
// are + - * / % with the usual precedence, parentheses, and the increment and
// decrement operators ++ and -- in both prefix and postfix position.
//
// Evaluation is transactional. Every variable mutation made while evaluating
// a line, including the mutations of ++ and --, is either committed together
// when the whole line succeeds or rolled back when any part of it fails.
package calculator

package calculator

import (
	"math/big"
)

// Eval evaluates a postfix sequence and returns its value. Increment and
// decrement operators change variables in the current transaction. If an
// error occurs, the transaction is rolled back before returning. On success,
// the transaction stays open; callers decide whether to commit.
func (ctx *Context) Eval(postfix []Token) (*big.Float, error) {
	r, err := ctx.eval(postfix)
	if err != nil {
		ctx.rollback(err)
		return nil, err
	}
	return r, nil
}

func (ctx *Context) eval(postfix []Token) (*big.Float, error) {
	ctx.emit(Event{Kind: EventPostfix, Postfix: postfix})
	// Values on the stack may be shared with the context or the number
	// cache. Operations always produce new values rather than modify them.
	stack := make([]*big.Float, 0, len(postfix))
	for i := 0; i < len(postfix); i++ {
		tok := postfix[i]
		switch {
		case tok.kind == Number:
			x, err := ctx.num(tok.text)
			if err != nil {
				return nil, err
			}
			stack = append(stack, x)
		case tok.kind == Variable:
			x, err := ctx.Get(tok.text)
			if err != nil {
				return nil, err
			}
			stack = append(stack, x)
		case tok.isPost():
			// The operand stays on the stack, so the expression sees the
			// value from before the change.
			if len(stack) == 0 {
				return nil, &EvaluationError{Reason: "missing operand", Token: tok.text[:2]}
			}
			if tok.target == "" {
				return nil, &EvaluationError{Reason: "not bound to a variable", Token: tok.text[:2]}
			}
			if _, err := ctx.step(tok.target, tok.step()); err != nil {
				return nil, err
			}
		case tok.isPre():
			if i+1 >= len(postfix) || postfix[i+1].kind != Variable {
				return nil, &EvaluationError{Reason: "must be followed by a variable", Token: tok.text[:2]}
			}
			name := postfix[i+1].text
			if tok.target != "" && tok.target != name {
				return nil, &EvaluationError{Reason: "bound to " + tok.target + " but followed by " + name, Token: tok.text[:2]}
			}
			i++
			x, err := ctx.step(name, tok.step())
			if err != nil {
				return nil, err
			}
			stack = append(stack, x)
		case tok.isBinary():
			if len(stack) < 2 {
				return nil, &EvaluationError{Reason: "insufficient operands", Token: tok.text}
			}
			y := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			r, err := apply(tok.text, ctx.prec, stack[len(stack)-1], y)
			if err != nil {
				return nil, err
			}
			stack[len(stack)-1] = r
		default:
			return nil, &EvaluationError{Reason: "unknown token", Token: tok.text}
		}
	}
	if len(stack) != 1 {
		return nil, &EvaluationError{Reason: "invalid expression"}
	}
	ctx.emit(Event{Kind: EventResult, Value: stack[0]})
	return stack[0], nil
}

// step adds d to a variable and returns its new value.
func (ctx *Context) step(name string, d int64) (*big.Float, error) {
	x, err := ctx.Get(name)
	if err != nil {
		return nil, err
	}
	r, err := apply("+", ctx.prec, x, new(big.Float).SetInt64(d))
	if err != nil {
		return nil, err
	}
	if err := ctx.Set(name, r); err != nil {
		return nil, err
	}
	return r, nil
}

// num gets a possibly cached number from its text.
func (ctx *Context) num(s string) (*big.Float, error) {
	if r := ctx.nums[s]; r != nil {
		return r, nil
	}
	r, _, err := new(big.Float).SetPrec(ctx.prec).Parse(s, 10)
	if err != nil {
		return nil, &EvaluationError{Reason: "invalid number", Token: s}
	}
	if ctx.nums == nil {
		ctx.nums = make(map[string]*big.Float)
	}
	ctx.nums[s] = r
	return r, nil
}

func (ctx *Context) rollback(err error) {
	ctx.Rollback()
	ctx.emit(Event{Kind: EventRollback, Err: err})
}

// Exec executes an expression and returns its formatted result. If the
// expression is an assignment, the result is the new value of the variable.
// Either all changes the expression makes to variables are committed, or, if
// there is an error, none are.
func (ctx *Context) Exec(e *Expr) (string, error) {
	postfix, err := e.Postfix()
	if err != nil {
		return "", err
	}
	r, err := ctx.Eval(postfix)
	if err != nil {
		return "", err
	}
	if name, op, ok := e.Assignment(); ok {
		r, err = ctx.assign(name.text, op.text, r)
		if err != nil {
			ctx.rollback(err)
			return "", err
		}
	}
	ctx.Commit()
	ctx.emit(Event{Kind: EventCommit})
	return Format(r), nil
}

// assign combines x with the current value of a variable according to an
// assignment operator and stores the result.
func (ctx *Context) assign(name, op string, x *big.Float) (*big.Float, error) {
	old := ctx.GetOrCreate(name)
	if op != "=" {
		if !old.IsSet() {
			return nil, &UndefinedVariableError{Name: name, Op: op}
		}
		bop, ok := assignops[op]
		if !ok {
			return nil, &EvaluationError{Reason: "unsupported operator", Token: op}
		}
		r, err := apply(bop, ctx.prec, old.x, x)
		if err != nil {
			if dz, ok := err.(*DivisionByZeroError); ok {
				dz.Op = op
			}
			return nil, err
		}
		x = r
	}
	if err := ctx.Set(name, x); err != nil {
		return nil, err
	}
	ctx.emit(Event{Kind: EventAssign, Name: name, Value: x})
	return x, nil
}

// Execute is a shortcut to parse and execute an expression.
func Execute(src string, ctx *Context) (string, error) {
	e, err := Parse(src)
	if err != nil {
		return "", err
	}
	return ctx.Exec(e)
}

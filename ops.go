package calculator

import (
	"math/big"
)

// binary is an arithmetic operation. It sets z to the result of x op y and
// returns z. The arguments are never modified, but z may alias x or y.
type binary func(z, x, y *big.Float) (*big.Float, error)

var binops = map[string]binary{
	"+": func(z, x, y *big.Float) (*big.Float, error) { return z.Add(x, y), nil },
	"-": func(z, x, y *big.Float) (*big.Float, error) { return z.Sub(x, y), nil },
	"*": func(z, x, y *big.Float) (*big.Float, error) { return z.Mul(x, y), nil },
	"/": quo,
	"%": rem,
}

// assignops maps each assignment operator to the operation combining the
// variable's old value with the assigned value. Plain = has none.
var assignops = map[string]string{
	"+=": "+",
	"-=": "-",
	"*=": "*",
	"/=": "/",
	"%=": "%",
}

func quo(z, x, y *big.Float) (*big.Float, error) {
	if y.Sign() == 0 {
		return nil, &DivisionByZeroError{Op: "/"}
	}
	return z.Quo(x, y), nil
}

// rem sets z to the truncated remainder x - y*trunc(x/y), which has the sign
// of x.
func rem(z, x, y *big.Float) (*big.Float, error) {
	if y.Sign() == 0 {
		return nil, &DivisionByZeroError{Op: "%"}
	}
	prec := z.Prec()
	if prec == 0 {
		prec = x.Prec()
	}
	q := new(big.Float).SetPrec(prec).Quo(x, y)
	if q.IsInf() {
		return nil, &EvaluationError{Reason: "overflow", Token: "%"}
	}
	// Rounding the quotient to an integer needs enough bits for its integer
	// part; otherwise it is already an integer.
	if !q.IsInt() {
		i, _ := q.Int(nil)
		q.SetInt(i)
	}
	q.Mul(q, y)
	return z.Sub(x, q), nil
}

// apply evaluates a binary operator on two operands, producing a new value at
// the given precision. Infinite operands and results are overflows.
func apply(op string, prec uint, x, y *big.Float) (r *big.Float, err error) {
	fn := binops[op]
	if fn == nil {
		return nil, &EvaluationError{Reason: "unsupported operator", Token: op}
	}
	if x.IsInf() || y.IsInf() {
		return nil, &EvaluationError{Reason: "overflow", Token: op}
	}
	defer func() {
		p := recover()
		if p == nil {
			return
		}
		if nan, ok := p.(big.ErrNaN); ok {
			r, err = nil, &EvaluationError{Reason: nan.Error(), Token: op}
			return
		}
		panic(p)
	}()
	r, err = fn(new(big.Float).SetPrec(prec), x, y)
	if err != nil {
		return nil, err
	}
	if r.IsInf() {
		return nil, &EvaluationError{Reason: "overflow", Token: op}
	}
	return r, nil
}

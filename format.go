package calculator

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// guardDigits is the number of decimal digits dropped from the precision of a
// value when formatting it, to hide binary rounding in the last places.
const guardDigits = 2

// Format formats a value rounded to the decimal digits its precision can
// represent and without trailing zeros. Values whose decimal exponent is
// within that many digits of zero are written without an exponent; others are
// written like "1.5e+40".
func Format(x *big.Float) string {
	switch {
	case x.Sign() == 0:
		return "0"
	case x.IsInf():
		return x.Text('g', 0)
	}
	n := decimalDigits(x.Prec())
	if d := exp10(x); d > n || d < -n {
		return sci(x, n, d)
	}
	// Round in decimal, then print the shortest text that reads back as the
	// rounded value.
	r, _, err := new(big.Float).SetPrec(x.Prec()).Parse(x.Text('e', n-1), 10)
	if err != nil {
		return x.Text('g', n)
	}
	return r.Text('f', -1)
}

// decimalDigits returns the number of significant decimal digits to show for
// a value with the given precision in bits.
func decimalDigits(prec uint) int {
	n := int(float64(prec)*math.Log10(2)) - guardDigits
	if n < 1 {
		n = 1
	}
	return n
}

// exp10 estimates the decimal exponent of a nonzero finite x. The estimate is
// at most one away from the true exponent.
func exp10(x *big.Float) int {
	return int(math.Floor(float64(x.MantExp(nil)-1) * math.Log10(2)))
}

// sci formats x with n significant digits in scientific notation, given an
// estimate d of its decimal exponent. Converting x directly costs time in
// proportion to its exponent, so it is scaled near 1 first.
func sci(x *big.Float, n, d int) string {
	prec := x.Prec() + 64
	y := new(big.Float).SetPrec(prec)
	if d >= 0 {
		y.Quo(x, pow10(uint64(d), prec))
	} else {
		y.Mul(x, pow10(uint64(-d), prec))
	}
	// y is now within a factor of ten of [1, 10). Text settles the rest.
	m, e, _ := strings.Cut(y.Text('e', n-1), "e")
	k, _ := strconv.Atoi(e)
	if strings.Contains(m, ".") {
		m = strings.TrimRight(strings.TrimRight(m, "0"), ".")
	}
	k += d
	if k < 0 {
		return m + "e-" + strconv.Itoa(-k)
	}
	return m + "e+" + strconv.Itoa(k)
}

// pow10 computes 10**k by squaring.
func pow10(k uint64, prec uint) *big.Float {
	r := new(big.Float).SetPrec(prec).SetInt64(1)
	b := new(big.Float).SetPrec(prec).SetInt64(10)
	for k > 0 {
		if k&1 != 0 {
			r.Mul(r, b)
		}
		if k >>= 1; k > 0 {
			b.Mul(b, b)
		}
	}
	return r
}

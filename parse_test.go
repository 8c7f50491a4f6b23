package calculator

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	cases := []struct {
		src    string
		name   string
		op     string
		tokens string
	}{
		{"x = y++ + ++z", "x", "=", "y ++post + ++pre z"},
		{"x = y + ++z", "x", "=", "y + ++pre z"},
		{"x = ++y + ++z", "x", "=", "++pre y + ++pre z"},
		{"x = y + x++", "x", "=", "y + x ++post"},
		{"x++ + ++y", "", "", "x ++post + ++pre y"},
		{"y-- - x++", "", "", "y --post - x ++post"},
		// whitespace
		{"  x++  +  ++y  ", "", "", "x ++post + ++pre y"},
		{"x =  y++   +   ++z", "x", "=", "y ++post + ++pre z"},
		{" y--   -   x++ ", "", "", "y --post - x ++post"},
		{"x =   y  +  ++z", "x", "=", "y + ++pre z"},
		{"x   =   y   +   x++", "x", "=", "y + x ++post"},
		{"\tx\t=\ty++\t+\t++z", "x", "=", "y ++post + ++pre z"},
		{"  x=++y  +  ++z  ", "x", "=", "++pre y + ++pre z"},
		{"x++\n+\n++y", "", "", "x ++post + ++pre y"},
		{"x = y++ + \n++z", "x", "=", "y ++post + ++pre z"},
		{"x =\n++y\n+\n++z", "x", "=", "++pre y + ++pre z"},
		// compound assignment
		{"x += 1", "x", "+=", "1"},
		{"x -= x-- - --y", "x", "-=", "x --post - --pre y"},
		{"x %= (y)", "x", "%=", "( y )"},
		{"x = y % ++z", "x", "=", "y % ++pre z"},
		{"x = y / --z", "x", "=", "y / --pre z"},
		// short lines are never assignments
		{"x", "", "", "x"},
		{"x++", "", "", "x ++post"},
		{"5 - 4", "", "", "5 - 4"},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			e, err := Parse(c.src)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			name, op, ok := e.Assignment()
			if ok != (c.name != "") {
				t.Errorf("%q: want assignment %t, got %t", c.src, c.name != "", ok)
			}
			if name.Text() != c.name || op.Text() != c.op {
				t.Errorf("%q: want assignment %q %q, got %q %q", c.src, c.name, c.op, name.Text(), op.Text())
			}
			if got := strings.Join(tokenTexts(e.Operands()), " "); got != c.tokens {
				t.Errorf("%q: want tokens %q, got %q", c.src, c.tokens, got)
			}
			postfix, err := e.Postfix()
			if err != nil {
				t.Errorf("%q: postfix failed: %v", c.src, err)
			}
			if len(postfix) == 0 {
				t.Errorf("%q: empty postfix", c.src)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		// increment and decrement
		{"wrapped", "++x++"},
		{"chained", "x = y++ + ++x++"},
		{"around", "x = ++y++"},
		{"double-pre", "x = ++y + ++y"},
		{"pre-and-read", "x = ++y + y"},
		{"post-and-read", "y + y++"},
		{"pre-number", "++5"},
		{"paren-pre-number", "x = (y)++1"},
		// missing operators or operands
		{"two-vars", "x x"},
		{"misplaced", "x z += y"},
		{"trailing-op", "x +"},
		{"trailing-div", "x /"},
		{"leading-op", "+ x"},
		{"neg-var", "x = -y"},
		{"neg-var-sum", "x = -y + 3"},
		{"sep-assign", "x + = y"},
		{"double-op", "x = y * * z"},
		{"star-star", "x = y ** z++"},
		{"plus-plus", "x + + y"},
		{"minus-minus", "x - - 1"},
		{"extra-plus", "x + +"},
		{"postfix-order", "x y z +"},
		{"empty", ""},
		{"blank", "   "},
		{"assign-nothing", "x ="},
		{"empty-parens", "()"},
		{"implicit-mul", "2 (x)"},
		{"paren-trailing", "(x + y) +"},
		// parentheses
		{"open-empty", "x = (y + )"},
		{"unclosed", "x = y + ( z"},
		{"unclosed-front", "(x + y"},
		{"unopened", "x + y)"},
		{"op-after-open", "x = y * (z + * 2)"},
		{"mismatched", "5 + (4 *"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e, err := Parse(c.src)
			if err == nil {
				t.Fatalf("%q parsed as %v", c.src, e)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("%q: %#v is not a ValidationError", c.src, err)
			}
			if _, ok := err.(InputError); !ok {
				t.Errorf("%q: %#v is not an InputError", c.src, err)
			}
		})
	}
}

func TestParseSyntaxErrors(t *testing.T) {
	srcs := []string{
		"x = y+++z",
		"x = y++++z",
		"x = y += += z",
		"x = y @ z",
		"x = y & z",
		"x ++ ++",
		"x = y + z -- x ++",
		"++ ++x",
		"x = (y)++ + 1",
	}
	for _, src := range srcs {
		_, err := Parse(src)
		var ve *ValidationError
		switch {
		case err == nil:
			t.Errorf("%q parsed", src)
		case errors.As(err, &ve):
			t.Errorf("%q: want a tokenizer error, got %v", src, err)
		}
	}
}

func TestParseParens(t *testing.T) {
	cases := []struct {
		src   string
		col   int
		paren string
	}{
		{"x = y + ( z", 9, "("},
		{"(x + y", 1, "("},
		{"((x) + y", 1, "("},
		{"x + y)", 6, ")"},
		{"(x)) + (y", 4, ")"},
	}
	for _, c := range cases {
		_, err := Parse(c.src)
		var pe *UnbalancedParenthesisError
		if !errors.As(err, &pe) {
			t.Errorf("%q: want UnbalancedParenthesisError, got %#v", c.src, err)
			continue
		}
		if pe.Col != c.col || pe.Paren != c.paren {
			t.Errorf("%q: want %s at %d, got %s at %d", c.src, c.paren, c.col, pe.Paren, pe.Col)
		}
	}
}

func TestPostfix(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"x = 5 + 4", "5 4 +"},
		{"5 + 4", "5 4 +"},
		{"x + y * z", "x y z * +"},
		{"x - y - z", "x y - z -"},
		{"x / y / z", "x y / z /"},
		{"x % y * z", "x y % z *"},
		{"x = (y + 2) * 5 - 2", "y 2 + 5 * 2 -"},
		{"((x))", "x"},
		{"x++ + y++", "x ++post y ++post +"},
		{"x + y++ + z++", "x y ++post + z ++post +"},
		{"x + y + z", "x y + z +"},
		{"++x + y", "++pre x y +"},
		{"++x + y++", "++pre x y ++post +"},
		{"x++ + ++y", "x ++post ++pre y +"},
		{"x + y + ++z", "x y + ++pre z +"},
		{"x++ + ++y + z", "x ++post ++pre y + z +"},
		{"(x++ + y++) * z", "x ++post y ++post + z *"},
		{"x * (y++ + z)", "x y ++post z + *"},
		{"(x + y) + z++", "x y + z ++post +"},
		{"x * y++ + z", "x y ++post * z +"},
		{"x++ * y / z", "x ++post y * z /"},
		{"x + y * z++", "x y z ++post * +"},
		{"x++ + y-- - z++", "x ++post y --post + z ++post -"},
		{"x++ + --y - z++", "x ++post --pre y + z ++post -"},
		{"x * y-- + z++ / w", "x y --post * z ++post w / +"},
	}
	for _, c := range cases {
		e, err := Parse(c.src)
		if err != nil {
			t.Errorf("%q failed to parse: %v", c.src, err)
			continue
		}
		postfix, err := e.Postfix()
		if err != nil {
			t.Errorf("%q: postfix failed: %v", c.src, err)
			continue
		}
		if got := strings.Join(tokenTexts(postfix), " "); got != c.want {
			t.Errorf("%q: want postfix %q, got %q", c.src, c.want, got)
		}
	}
}

func TestPostfixIdempotent(t *testing.T) {
	e, err := Parse("x = (a++ + --b) * c % 7 - d / 2")
	if err != nil {
		t.Fatal(err)
	}
	before := e.Operands()
	p, err := e.Postfix()
	if err != nil {
		t.Fatal(err)
	}
	q, err := e.Postfix()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(p, q) {
		t.Errorf("postfix changed between calls:\n\t%v\n\t%v", p, q)
	}
	if !reflect.DeepEqual(before, e.Operands()) {
		t.Errorf("postfix modified the expression:\n\t%v\n\t%v", before, e.Operands())
	}
}

func TestPostfixLength(t *testing.T) {
	srcs := []string{
		"1",
		"x + y * z",
		"(a - b) * (c - d) / e % f",
		"((((1))))",
		"-1 - -2 * (3 + x) / (y)",
	}
	for _, src := range srcs {
		e, err := Parse(src)
		if err != nil {
			t.Fatalf("%q failed to parse: %v", src, err)
		}
		n := 0
		for _, tok := range e.Operands() {
			if tok.Kind() != Parenthesis {
				n++
			}
		}
		postfix, err := e.Postfix()
		if err != nil {
			t.Fatalf("%q: %v", src, err)
		}
		if len(postfix) != n {
			t.Errorf("%q: %d tokens without parentheses but %d in postfix", src, n, len(postfix))
		}
	}
}

func TestUnaryBinding(t *testing.T) {
	e, err := Parse("x = a++ * --b + c")
	if err != nil {
		t.Fatal(err)
	}
	postfix, err := e.Postfix()
	if err != nil {
		t.Fatal(err)
	}
	got := map[string]string{}
	for _, tok := range postfix {
		if tok.isUnary() {
			got[tok.Text()] = tok.Target()
		} else if tok.Target() != "" {
			t.Errorf("%v has target %q", tok, tok.Target())
		}
	}
	want := map[string]string{PostIncrement: "a", PreDecrement: "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("wrong bindings: want %v, got %v", want, got)
	}
}

func TestExprString(t *testing.T) {
	cases := []struct {
		src, want string
	}{
		{"x=y+1", "x = y + 1"},
		{"  x++  +  ++y  ", "x++ + ++y"},
		{"x-=(y*-2)%z--", "x -= (y * -2) % z--"},
		{"x = ((y))", "x = ((y))"},
	}
	for _, c := range cases {
		e, err := Parse(c.src)
		if err != nil {
			t.Fatalf("%q failed to parse: %v", c.src, err)
		}
		if got := e.String(); got != c.want {
			t.Errorf("%q: want %q, got %q", c.src, c.want, got)
		}
		if _, err := Parse(e.String()); err != nil {
			t.Errorf("%q formats as %q which doesn't parse: %v", c.src, e.String(), err)
		}
	}
}

func TestVars(t *testing.T) {
	cases := []struct {
		name string
		src  string
		vars []string
	}{
		{"none", "1+2+3", nil},
		{"one", "1+2+x", []string{"x"}},
		{"assign", "x = 1", nil},
		{"assign-read", "x = x + 1", []string{"x"}},
		{"sort", "z+y+x+w+v+u+t+s+r+q+p+o+n+m+l+k+j+i+h+g+f+e+d+c+b+a", strings.Fields("a b c d e f g h i j k l m n o p q r s t u v w x y z")},
		{"reuse", "a+b+c+b+a", []string{"a", "b", "c"}},
		{"unary", "a++ + --b", []string{"a", "b"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e, err := Parse(c.src)
			if err != nil {
				t.Fatalf("%q didn't parse: %v", c.src, err)
			}
			vars := e.Vars()
			if !reflect.DeepEqual(vars, c.vars) {
				t.Errorf("%q gave wrong variable names:\n\twant %q\n\tgot  %q", c.src, c.vars, vars)
			}
		})
	}
}

package calculator

import (
	"math/big"
	"strings"
)

// Value is the content of a variable slot. The zero Value is unset: the
// variable exists but has not yet been assigned with =.
type Value struct {
	x *big.Float
}

// IsSet reports whether the value has been assigned.
func (v Value) IsSet() bool {
	return v.x != nil
}

// Float returns a copy of the value, or nil if it is unset.
func (v Value) Float() *big.Float {
	if v.x == nil {
		return nil
	}
	return new(big.Float).Copy(v.x)
}

func (v Value) String() string {
	if v.x == nil {
		return "unset"
	}
	return Format(v.x)
}

// Context holds the variables that expressions read and modify. Changes made
// while executing an expression are held in a transaction which is committed
// when the expression succeeds and rolled back when it fails. It is not safe
// to use a Context concurrently.
type Context struct {
	vars map[string]Value
	// snap is the state of vars before the first change of the current
	// transaction, or nil if nothing has changed.
	snap  map[string]Value
	nums  map[string]*big.Float
	prec  uint
	trace Tracer
}

// DefaultPrec is the precision of calculations in a context created without
// the Prec option.
const DefaultPrec = 128

// NewContext creates a new execution context.
func NewContext(opts ...ContextOption) *Context {
	ctx := Context{vars: make(map[string]Value), prec: DefaultPrec}
	return ctx.Clone(opts...)
}

// Clone creates a copy of a context and applies options to it. Any
// uncommitted changes in ctx are committed in the copy.
func (ctx *Context) Clone(opts ...ContextOption) *Context {
	n := Context{
		vars:  make(map[string]Value, len(ctx.vars)),
		prec:  ctx.prec,
		trace: ctx.trace,
	}
	// Apply precision first so that variables set by options use it. Loop
	// backward so we apply the last precision.
	for i := len(opts) - 1; i >= 0; i-- {
		if p, ok := opts[i].(precopt); ok {
			n.prec = uint(p)
			break
		}
	}
	for name, v := range ctx.vars {
		if v.x != nil && n.prec != ctx.prec {
			v = Value{new(big.Float).SetPrec(n.prec).Set(v.x)}
		}
		n.vars[name] = v
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case varopt:
			n.vars[opt.name] = n.value(opt.val)
		case varsopt:
			for k, v := range opt {
				n.vars[k] = n.value(v)
			}
		case traceopt:
			n.trace = Tracer(opt)
		case precopt:
			// Already done.
		default:
			panic("calculator: unknown option type")
		}
	}
	return &n
}

// value copies x to a new value at the context's precision.
func (ctx *Context) value(x *big.Float) Value {
	return Value{new(big.Float).SetPrec(ctx.prec).Set(x)}
}

// Prec returns the precision to which values are computed in the context.
func (ctx *Context) Prec() uint {
	return ctx.prec
}

// Get returns the value of a variable. The result is shared with the
// context and must not be modified.
func (ctx *Context) Get(name string) (*big.Float, error) {
	v := ctx.vars[name]
	if v.x == nil {
		return nil, &UndefinedVariableError{Name: name}
	}
	return v.x, nil
}

// GetOrCreate returns the slot of a variable, creating it unset if it does not
// exist. Creating a variable is a change to the context.
func (ctx *Context) GetOrCreate(name string) Value {
	v, ok := ctx.vars[name]
	if !ok {
		ctx.save()
		ctx.vars[name] = Value{}
	}
	return v
}

// Set changes the value of a variable which already exists in the context,
// possibly unset. The change is part of the current transaction.
func (ctx *Context) Set(name string, x *big.Float) error {
	if _, ok := ctx.vars[name]; !ok {
		return &UndefinedVariableError{Name: name}
	}
	ctx.save()
	ctx.vars[name] = ctx.value(x)
	return nil
}

// save records the state of the variables before the first change of a
// transaction.
func (ctx *Context) save() {
	if ctx.snap != nil {
		return
	}
	ctx.snap = make(map[string]Value, len(ctx.vars))
	for k, v := range ctx.vars {
		ctx.snap[k] = v
	}
}

// Rollback undoes all changes since the last commit.
func (ctx *Context) Rollback() {
	if ctx.snap == nil {
		return
	}
	ctx.vars = ctx.snap
	ctx.snap = nil
}

// Commit makes all changes since the last commit permanent.
func (ctx *Context) Commit() {
	ctx.snap = nil
}

// Clear removes all variables. It is not part of any transaction.
func (ctx *Context) Clear() {
	ctx.vars = make(map[string]Value)
	ctx.snap = nil
}

// Lookup returns a copy of the value of a variable. If there is no such
// variable in the context, or it is unset, then the result is nil.
func (ctx *Context) Lookup(name string) *big.Float {
	return ctx.vars[name].Float()
}

// Vars returns a copy of the assigned variables.
func (ctx *Context) Vars() map[string]*big.Float {
	m := make(map[string]*big.Float, len(ctx.vars))
	for k, v := range ctx.vars {
		if v.x != nil {
			m[k] = v.Float()
		}
	}
	return m
}

// Names returns the sorted names of all variables in the context.
func (ctx *Context) Names() []string {
	names := make([]string, 0, len(ctx.vars))
	for k := range ctx.vars {
		names = append(names, k)
	}
	sortstrs(names)
	return names
}

// String formats the variables like "(x=1, y=2.5)".
func (ctx *Context) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, name := range ctx.Names() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(ctx.vars[name].String())
	}
	b.WriteByte(')')
	return b.String()
}

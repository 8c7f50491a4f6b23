package calculator

import "math/big"

// Tracer observes the execution of expressions in a context. The Event
// and everything it references must not be retained or modified.
type Tracer func(Event)

// EventKind identifies a step of execution.
type EventKind int8

const (
	// EventPostfix is sent with the postfix form before evaluating it.
	EventPostfix EventKind = iota + 1
	// EventResult is sent with the value of an evaluated postfix sequence.
	EventResult
	// EventAssign is sent with the variable and the value assigned to it.
	EventAssign
	// EventCommit is sent when a transaction is committed.
	EventCommit
	// EventRollback is sent with the error which caused a rollback.
	EventRollback
)

func (k EventKind) String() string {
	switch k {
	case EventPostfix:
		return "postfix"
	case EventResult:
		return "result"
	case EventAssign:
		return "assign"
	case EventCommit:
		return "commit"
	case EventRollback:
		return "rollback"
	default:
		return "unknown"
	}
}

// Event describes one step of execution. Fields irrelevant to the kind are
// zero.
type Event struct {
	Kind    EventKind
	Postfix []Token
	Name    string
	Value   *big.Float
	Err     error
}

func (ctx *Context) emit(ev Event) {
	if ctx.trace != nil {
		ctx.trace(ev)
	}
}

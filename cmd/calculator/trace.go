package main

import (
	"os"

	"github.com/rs/zerolog"

	calc "github.com/mordechaiyosef/calculator-cmd"
)

// openLog opens the trace log. With no file name, the logger discards
// everything.
func openLog(name string) (zerolog.Logger, func(), error) {
	if name == "" {
		return zerolog.Nop(), func() {}, nil
	}
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), func() {}, err
	}
	l := zerolog.New(f).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	return l, func() { f.Close() }, nil
}

// logTracer writes execution events to a logger. Fields are only computed
// for events at an enabled level.
func logTracer(l zerolog.Logger) calc.Tracer {
	return func(ev calc.Event) {
		if ev.Kind == calc.EventRollback {
			l.Warn().Err(ev.Err).Msg("rolled back")
			return
		}
		e := l.Debug()
		if !e.Enabled() {
			return
		}
		switch ev.Kind {
		case calc.EventPostfix:
			e.Strs("postfix", texts(ev.Postfix)).Msg("evaluating")
		case calc.EventResult:
			e.Str("value", calc.Format(ev.Value)).Msg("result")
		case calc.EventAssign:
			e.Str("variable", ev.Name).Str("value", calc.Format(ev.Value)).Msg("assigned")
		case calc.EventCommit:
			e.Msg("committed")
		default:
			e.Discard()
		}
	}
}

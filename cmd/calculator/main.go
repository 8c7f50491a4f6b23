package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	calc "github.com/mordechaiyosef/calculator-cmd"
)

func main() {
	log.SetFlags(0)
	var (
		inname, logname, histname, colors string
		with                              [][2]string
		echo                              bool
		prec                              int
	)
	addwith := func(s string) error {
		d := strings.SplitN(s, "=", 2)
		if len(d) != 2 {
			return fmt.Errorf(`variable definitions must be "name=value", not %q`, s)
		}
		with = append(with, [2]string{strings.TrimSpace(d[0]), strings.TrimSpace(d[1])})
		return nil
	}
	flag.StringVar(&inname, "in", "", "input file, one expression per line (- for stdin)")
	flag.Func("given", "name=value variable definition (any number of times)", addwith)
	flag.IntVar(&prec, "p", calc.DefaultPrec, "precision of calculations in bits")
	flag.BoolVar(&echo, "echo", false, "print the postfix form of each expression")
	flag.StringVar(&logname, "log", "", "append a trace of each evaluation to this file")
	flag.StringVar(&histname, "history", defaultHistory(), "interactive history file")
	flag.StringVar(&colors, "color", "auto", "colorize output: auto, always, or never")
	flag.Parse()
	if prec <= 0 {
		log.Fatalf("precision (%d) must be positive", prec)
	}
	switch colors {
	case "auto": // color decides from stdout
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	default:
		log.Fatalf("-color must be auto, always, or never, not %q", colors)
	}

	opts := options{
		in:      inname,
		log:     logname,
		history: histname,
		prec:    uint(prec),
		with:    with,
		echo:    echo,
		args:    flag.Args(),
		out:     os.Stdout,
	}
	if err := run(opts); err != nil {
		log.Fatal(err)
	}
}

// options is the shell configuration from the command line.
type options struct {
	in, log, history string
	prec             uint
	with             [][2]string
	echo             bool
	args             []string
	out              io.Writer
}

// run evaluates the definitions and expressions named by opts, then runs the
// shell on the input file, on piped stdin, or interactively.
func run(opts options) error {
	logger, closelog, err := openLog(opts.log)
	if err != nil {
		return err
	}
	defer closelog()

	ctx := calc.NewContext(calc.Prec(opts.prec), calc.Trace(logTracer(logger)))
	for _, d := range opts.with {
		if _, err := calc.Execute(d[0]+" = "+d[1], ctx); err != nil {
			return fmt.Errorf("setting %s: %w", d[0], err)
		}
	}

	sh := newShell(ctx, opts.out, opts.echo)
	if len(opts.args) > 0 {
		for _, arg := range opts.args {
			if sh.handle(arg) {
				return nil
			}
		}
		if opts.in == "" {
			return nil
		}
	}
	in, err := infile(opts.in)
	if err != nil {
		return err
	}
	if in == nil {
		sh.interactive(opts.history)
		return nil
	}
	defer in.Close()
	return sh.batch(in)
}

// infile opens the input named by the -in flag. The result is nil if the
// shell should run interactively.
func infile(inname string) (io.ReadCloser, error) {
	switch {
	case inname != "" && inname != "-":
		f, err := os.Open(inname)
		if err != nil {
			return nil, err
		}
		return f, nil
	case inname == "-", !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()):
		return io.NopCloser(os.Stdin), nil
	default:
		return nil, nil
	}
}

func defaultHistory() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".calculator_history")
}

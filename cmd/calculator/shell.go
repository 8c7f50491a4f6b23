package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	calc "github.com/mordechaiyosef/calculator-cmd"
)

const (
	prompt  = ">> "
	goodbye = "Goodbye!"
	banner  = `
   _____      _            _       _
  / ____|    | |          | |     | |
 | |     __ _| | ___ _   _| | __ _| |_ ___  _ __
 | |    / _' | |/ __| | | | |/ _' | __/ _ \| '__|
 | |___| (_| | | (__| |_| | | (_| | || (_) | |
  \_____\__,_|_|\___|\__,_|_|\__,_|\__\___/|_|
`
	welcome  = "Welcome to the calculator shell! Type 'help' for a list of commands."
	helpText = "Commands: show, clear, exit, help, <expression>"
)

var commands = []string{"exit", "show", "clear", "help"}

type shell struct {
	ctx  *calc.Context
	out  io.Writer
	echo bool

	errc    *color.Color
	resultc *color.Color
	bannerc *color.Color
}

func newShell(ctx *calc.Context, out io.Writer, echo bool) *shell {
	return &shell{
		ctx:     ctx,
		out:     out,
		echo:    echo,
		errc:    color.New(color.FgRed),
		resultc: color.New(color.FgGreen),
		bannerc: color.New(color.FgBlue),
	}
}

// handle processes one line of input, either a command or an expression. It
// reports whether the shell should exit.
func (sh *shell) handle(line string) bool {
	switch strings.TrimSpace(line) {
	case "exit":
		fmt.Fprintln(sh.out, goodbye)
		return true
	case "show":
		fmt.Fprintln(sh.out, sh.ctx)
	case "clear":
		sh.ctx.Clear()
	case "", "help":
		fmt.Fprintln(sh.out, helpText)
	default:
		sh.exec(line)
	}
	return false
}

func (sh *shell) exec(line string) {
	e, err := calc.Parse(line)
	if err != nil {
		sh.errc.Fprintf(sh.out, "Error: %v\n", err)
		return
	}
	if sh.echo {
		postfix, err := e.Postfix()
		if err == nil {
			fmt.Fprintf(sh.out, "%v : %s\n", e, strings.Join(texts(postfix), " "))
		}
	}
	r, err := sh.ctx.Exec(e)
	if err != nil {
		sh.errc.Fprintf(sh.out, "Error: %v\n", err)
		return
	}
	sh.resultc.Fprintln(sh.out, r)
}

// batch handles each line of in until EOF or an exit command.
func (sh *shell) batch(in io.Reader) error {
	scan := bufio.NewScanner(in)
	for scan.Scan() {
		if sh.handle(scan.Text()) {
			return nil
		}
	}
	return scan.Err()
}

// interactive runs the shell on the terminal with line editing, completion
// of commands and variable names, and history saved to histname.
func (sh *shell) interactive(histname string) {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(sh.complete)

	if histname != "" {
		if f, err := os.Open(histname); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histname); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	sh.bannerc.Fprint(sh.out, banner)
	fmt.Fprintln(sh.out)
	fmt.Fprintln(sh.out, welcome)
	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			fmt.Fprintln(sh.out, goodbye)
			return
		}
		if err != nil {
			log.Print(err)
			return
		}
		if strings.TrimSpace(line) != "" {
			ln.AppendHistory(line)
		}
		if sh.handle(line) {
			return
		}
	}
}

// complete completes the word at the end of line with a command or a
// variable name.
func (sh *shell) complete(line string) []string {
	k := len(line)
	for k > 0 && isWordByte(line[k-1]) {
		k--
	}
	head, word := line[:k], line[k:]
	var r []string
	add := func(c string) {
		if strings.HasPrefix(c, word) {
			r = append(r, head+c)
		}
	}
	if strings.TrimSpace(head) == "" {
		for _, c := range commands {
			add(c)
		}
	}
	for _, c := range sh.ctx.Names() {
		add(c)
	}
	return r
}

func isWordByte(c byte) bool {
	return c == '_' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}

// texts gets the text of each token.
func texts(toks []calc.Token) []string {
	r := make([]string, len(toks))
	for i, t := range toks {
		r[i] = t.Text()
	}
	return r
}

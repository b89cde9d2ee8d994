// Package repl implements the interactive klisp read-eval-print loop, built
// on chzyer/readline for line editing and history, the way the teacher
// wires readline into its own REPL.
package repl

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/klisp/klisp/lisp"
	"github.com/klisp/klisp/parser"
)

const prompt = "klisp> "

// Run starts the REPL, reading from stdin until EOF or an unrecoverable
// readline error. An interrupt discards any pending multi-line input and
// the loop continues with a fresh prompt. env is used as the
// top-level environment; callers typically pass one already carrying an
// IOAdapter.
func Run(env *lisp.Environment) error {
	rl, err := readline.New(prompt)
	if err != nil {
		return err
	}
	defer rl.Close()

	contPrompt := strings.Repeat(" ", len(prompt))

	var buf []byte
	var loopErr error
	for {
		line, rerr := rl.ReadSlice()
		if rerr != nil && rerr != readline.ErrInterrupt {
			loopErr = rerr
			break
		}
		if rerr == readline.ErrInterrupt {
			buf = nil
			rl.SetPrompt(prompt)
			continue
		}

		if len(buf) != 0 {
			buf = append(buf, '\n')
			line = append(buf, line...)
		}
		buf = nil

		if len(strings.TrimSpace(string(line))) == 0 {
			rl.SetPrompt(prompt)
			continue
		}

		if unbalancedParens(string(line)) {
			buf = line
			rl.SetPrompt(contPrompt)
			continue
		}
		rl.SetPrompt(prompt)

		form, _, perr := parser.Read(string(line))
		if perr == lisp.ErrEmptyInput {
			continue
		}
		if perr != nil {
			errln(perr)
			continue
		}

		v, eerr := lisp.Eval(form, env)
		if eerr != nil {
			errln(eerr)
			continue
		}
		fmt.Println(v.Show())
	}
	if loopErr != nil && loopErr != io.EOF {
		return loopErr
	}
	return nil
}

// unbalancedParens reports whether line has more open than close parens
// outside of string literals and line comments -- the REPL's signal that
// the user's form is still incomplete and another line should be read
// before attempting to parse, distinct from a hard parse error.
func unbalancedParens(line string) bool {
	depth := 0
	inString := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case inString:
			if c == '\\' {
				i++
			} else if c == '"' {
				inString = false
			}
		case c == '"':
			inString = true
		case c == ';':
			for i < len(line) && line[i] != '\n' {
				i++
			}
		case c == '(':
			depth++
		case c == ')':
			depth--
		}
	}
	return depth > 0
}

func errln(v ...interface{}) {
	fmt.Fprintln(os.Stderr, v...)
}

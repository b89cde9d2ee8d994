// Command klisp is the klisp language's command-line interpreter: a REPL
// and a batch runner over the lisp/parser core.
package main

import "github.com/klisp/klisp/cmd"

func main() {
	cmd.Execute()
}

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/klisp/klisp/lisp"
	"github.com/klisp/klisp/repl"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive klisp REPL",
	RunE: func(cmd *cobra.Command, args []string) error {
		env := lisp.NewEnvironment()
		env.SetIO(lisp.NewStdIOAdapter())
		return repl.Run(env)
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}

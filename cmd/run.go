package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/klisp/klisp/lisp"
	"github.com/klisp/klisp/parser"
)

var runEval string

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [FILE]",
	Short: "Run klisp source",
	Long:  `Run klisp source read from a file, or from an expression given with -e.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env := lisp.NewEnvironment()
		env.SetIO(lisp.NewStdIOAdapter())

		var source string
		switch {
		case runEval != "":
			source = runEval
		case len(args) == 1:
			b, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			source = string(b)
		default:
			return fmt.Errorf("run requires a FILE argument or -e EXPR")
		}

		forms, err := parser.ReadAll(source)
		if err != nil {
			return err
		}
		for _, form := range forms {
			if _, err := lisp.Eval(form, env); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runEval, "eval", "e", "", "Evaluate EXPR instead of reading a file")
}

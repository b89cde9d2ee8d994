package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klisp/klisp/lisp"
)

// evalSource reads and evaluates every top-level form in src against a
// fresh environment, returning the value of the last form.
func evalSource(t *testing.T, src string) lisp.Value {
	t.Helper()
	forms, err := ReadAll(src)
	require.NoError(t, err)
	require.NotEmpty(t, forms)
	env := lisp.NewEnvironment()
	env.SetIO(lisp.NewStringIOAdapter())
	var last lisp.Value
	for _, f := range forms {
		last, err = lisp.Eval(f, env)
		require.NoError(t, err)
	}
	return last
}

// TestConcreteScenarios exercises every literal input/expected-value pair
// from the language specification's testable-properties section, driven
// through the real reader.
func TestConcreteScenarios(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want lisp.Value
	}{
		{"integer sum", `(+ 1 2 3 4 5 6 7 8 9 10)`, lisp.Int64(55)},
		{"float promotion", `(+ 1 2.5 3 4.5 5)`, lisp.Float64(16.0)},
		{"tail-recursive factorial", `(do (def f (lambda (n acc) (if (= n 0) acc (f (- n 1) (* n acc))))) (f 10 1))`, lisp.Int64(3628800)},
		{"tail-call stack safety", `(do (def c (lambda (n) (if (= n 0) 0 (c (- n 1))))) (c 5000))`, lisp.Int64(0)},
		{"unless macro", `(do (def unless (macro (c t e) (if c e t))) (unless false 1 2))`, lisp.Int64(1)},
		{"closure capture", `(do (def x 10) (def g (lambda () x)) (set! x 20) (g))`, lisp.Int64(20)},
		{"string concat", `(++ "answer: " 42)`, lisp.Str("answer: 42")},
		{"type-of list", `(type-of '(1 2 3))`, lisp.Str("list")},
		{"cdr of list", `(cdr '(1 2 3))`, lisp.Cons(lisp.Int64(2), lisp.Cons(lisp.Int64(3), lisp.Nil()))},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := evalSource(t, c.src)
			assert.True(t, lisp.Equal(c.want, got), "%s: got %v want %v", c.src, got, c.want)
		})
	}
}

func TestEvalSymbolConstructedAtRuntime(t *testing.T) {
	forms, err := ReadAll(`(def x 42) (eval (symbol "x"))`)
	require.NoError(t, err)
	env := lisp.NewEnvironment()
	var last lisp.Value
	for _, f := range forms {
		last, err = lisp.Eval(f, env)
		require.NoError(t, err)
	}
	assert.Equal(t, lisp.Int64(42), last)
}

func TestQuoteIdentityRoundTrip(t *testing.T) {
	sources := []string{"3", "true", "nil", "sym", "(1 2 3)"}
	env := lisp.NewEnvironment()
	for _, src := range sources {
		v, _, err := Read(src)
		require.NoError(t, err)
		got, err := lisp.Eval(lisp.Cons(lisp.BuiltinValue(lisp.BuiltinQuote), lisp.Cons(v, lisp.Nil())), env)
		require.NoError(t, err)
		assert.True(t, lisp.Equal(v, got), src)
	}
}

func TestPrintingRoundTripsThroughReader(t *testing.T) {
	values := []lisp.Value{
		lisp.Int64(42),
		lisp.Bool(true),
		lisp.Nil(),
		lisp.SliceToList([]lisp.Value{lisp.Int64(1), lisp.Int64(2), lisp.Int64(3)}),
	}
	for _, v := range values {
		got, _, err := Read(v.String())
		require.NoError(t, err)
		assert.True(t, lisp.Equal(v, got), v.String())
	}
}

func TestMacroExpansionIsIdempotent(t *testing.T) {
	env := lisp.NewEnvironment()
	_, err := lisp.Eval(mustRead(t, `(def unless (macro (c t e) (if c e t)))`), env)
	require.NoError(t, err)

	call := mustRead(t, `(unless false 1 2)`)
	once, err := lisp.Expand(call, env)
	require.NoError(t, err)
	twice, err := lisp.Expand(once, env)
	require.NoError(t, err)
	assert.True(t, lisp.Equal(once, twice))
}

func mustRead(t *testing.T, src string) lisp.Value {
	t.Helper()
	v, _, err := Read(src)
	require.NoError(t, err)
	return v
}

func TestRuntimeErrorSurfacesFromRaise(t *testing.T) {
	env := lisp.NewEnvironment()
	_, err := lisp.Eval(mustRead(t, `(raise "custom failure")`), env)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "custom failure")
}

func TestLoadReadsAndEvaluatesFile(t *testing.T) {
	env := lisp.NewEnvironment()
	adapter := lisp.NewStringIOAdapter()
	adapter.Files["prog.klisp"] = "(def x 1) (def x (+ x 41))"
	env.SetIO(adapter)

	_, err := lisp.Eval(mustRead(t, `(load "prog.klisp")`), env)
	require.NoError(t, err)
	v, ok := env.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, lisp.Int64(42), v)
}

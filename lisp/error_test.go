package lisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "Parse error: bad input", ParseErrorf("bad input").Error())
	assert.Equal(t, "Eval error: unbound symbol", EvalErrorf("unbound symbol").Error())
	assert.Equal(t, "Runtime error: division by zero", RuntimeErrorf("division by zero").Error())
}

func TestEvalErrorWithTrace(t *testing.T) {
	err := &EvalError{Msg: "boom", Trace: "f -> g"}
	assert.Equal(t, "Eval error: boom (in f -> g)", err.Error())
}

func TestWithTraceAnnotatesOnlyBareEvalErrors(t *testing.T) {
	stack := NewCallStack()
	stack.Push("f")
	stack.Push("g")

	annotated := withTrace(EvalErrorf("boom"), stack)
	evalErr, ok := annotated.(*EvalError)
	assert.True(t, ok)
	assert.Equal(t, "f -> g", evalErr.Trace)

	already := &EvalError{Msg: "boom", Trace: "existing"}
	assert.Same(t, already, withTrace(already, stack))

	rtErr := RuntimeErrorf("boom")
	assert.Same(t, rtErr, withTrace(rtErr, stack).(*RuntimeError))
}

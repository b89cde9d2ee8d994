package lisp

import "fmt"

// ParseError is returned by the reader on malformed input.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string { return "Parse error: " + e.Msg }

// ParseErrorf constructs a *ParseError with a formatted message.
func ParseErrorf(format string, args ...interface{}) *ParseError {
	return &ParseError{Msg: fmt.Sprintf(format, args...)}
}

// EvalError is a static-ish error raised during expansion or evaluation:
// arity mismatches, type mismatches, and unbound names.
type EvalError struct {
	Msg   string
	Trace string // optional call-chain annotation, see CallStack
}

func (e *EvalError) Error() string {
	if e.Trace == "" {
		return "Eval error: " + e.Msg
	}
	return fmt.Sprintf("Eval error: %s (in %s)", e.Msg, e.Trace)
}

// EvalErrorf constructs an *EvalError with a formatted message.
func EvalErrorf(format string, args ...interface{}) *EvalError {
	return &EvalError{Msg: fmt.Sprintf(format, args...)}
}

// RuntimeError is an error raised by I/O failure or a user ``raise''.
// Arithmetic failures (division/modulo by zero) raise EvalError instead --
// see the language specification's evaluator section.
type RuntimeError struct {
	Msg string
}

func (e *RuntimeError) Error() string { return "Runtime error: " + e.Msg }

// RuntimeErrorf constructs a *RuntimeError with a formatted message.
func RuntimeErrorf(format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Msg: fmt.Sprintf(format, args...)}
}

// withTrace annotates err with a call-chain trace, if err is an *EvalError
// and doesn't already carry one.  Other error kinds pass through unchanged;
// the language specification only requires diagnostics on evaluation
// errors, not on parse or user-raised runtime errors.
func withTrace(err error, stack *CallStack) error {
	if err == nil || stack == nil {
		return err
	}
	evalErr, ok := err.(*EvalError)
	if !ok || evalErr.Trace != "" {
		return err
	}
	trace := stack.Trace()
	if trace == "" {
		return err
	}
	return &EvalError{Msg: evalErr.Msg, Trace: trace}
}

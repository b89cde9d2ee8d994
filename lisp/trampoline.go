package lisp

// Trampoline is either a computed Value (Done) or a deferred continuation
// (More) that produces another Trampoline when invoked.  It is the sole
// mechanism for tail-call elimination: every tail position in the evaluator
// returns More instead of recursing on the host call stack.
type Trampoline struct {
	value Value
	thunk func() (Trampoline, error)
}

// Done returns a Trampoline holding a concrete, fully evaluated Value.
func Done(v Value) Trampoline {
	return Trampoline{value: v}
}

// More returns a Trampoline holding a deferred continuation.  thunk must
// not be invoked by the caller directly; it is invoked by Run.
func More(thunk func() (Trampoline, error)) Trampoline {
	return Trampoline{thunk: thunk}
}

// Run drives t to completion, repeatedly invoking deferred thunks until a
// concrete Value is produced.  This is the only place tail recursion turns
// into iteration, giving the evaluator O(1) host stack growth for any chain
// of tail calls.
func Run(t Trampoline) (Value, error) {
	for t.thunk != nil {
		next, err := t.thunk()
		if err != nil {
			return Value{}, err
		}
		t = next
	}
	return t.value, nil
}

package lisp

// isEmptyPair reports whether v is the specific Cons cell (nil . nil),
// which the expander and evaluator both treat as a no-op empty form
// distinct from the Nil value itself (see the language specification's
// note on empty-list head treatment).
func isEmptyPair(v Value) bool {
	return v.Kind == KindCons && IsNil(v.Pair.Head) && IsNil(v.Pair.Tail)
}

// Expand performs fixed-point macro expansion on v: recursively, bottom-up
// on the spine, applying any macro found at the head of a Cons and
// re-expanding the result until no further macro applications are found.
func Expand(v Value, env *Environment) (Value, error) {
	if v.Kind != KindCons || isEmptyPair(v) {
		return v, nil
	}

	head := v.Pair.Head
	if head.Kind == KindSymbol {
		if bound, ok := env.Lookup(head.Str); ok && bound.Kind == KindMacro {
			args, ok := ListToSlice(v.Pair.Tail)
			if !ok {
				return Value{}, EvalErrorf("macro call is not a proper list: %s", v)
			}
			expanded, err := expandMacroCall(bound.Macro, args)
			if err != nil {
				return Value{}, err
			}
			return Expand(expanded, env)
		}
	}

	newHead, err := Expand(head, env)
	if err != nil {
		return Value{}, err
	}
	newTail, err := Expand(v.Pair.Tail, env)
	if err != nil {
		return Value{}, err
	}
	return Cons(newHead, newTail), nil
}

// expandMacroCall substitutes args into mac's body per its parameter list
// and returns the (unevaluated) substituted form.
func expandMacroCall(mac *MacroVal, args []Value) (Value, error) {
	bindings := make(map[string]Value, len(mac.Params)+1)
	if mac.HasRest {
		if len(args) < len(mac.Params) {
			return Value{}, EvalErrorf("macro expects at least %d arguments (got %d)", len(mac.Params), len(args))
		}
		for i, p := range mac.Params {
			bindings[p] = args[i]
		}
		bindings[mac.Variadic] = SliceToList(args[len(mac.Params):])
	} else {
		if len(args) != len(mac.Params) {
			return Value{}, EvalErrorf("macro expects %d arguments (got %d)", len(mac.Params), len(args))
		}
		for i, p := range mac.Params {
			bindings[p] = args[i]
		}
	}
	return substitute(mac.Body, bindings), nil
}

// substitute is a pure, non-hygienic tree walk: Symbols named in bindings
// are replaced by the (unevaluated) argument form bound to them; Cons cells
// are rebuilt recursively; every other variant passes through unchanged.
// Arguments are spliced in literally -- no gensyms, no renaming.
func substitute(v Value, bindings map[string]Value) Value {
	switch v.Kind {
	case KindSymbol:
		if repl, ok := bindings[v.Str]; ok {
			return repl
		}
		return v
	case KindCons:
		return Cons(substitute(v.Pair.Head, bindings), substitute(v.Pair.Tail, bindings))
	default:
		return v
	}
}

package lisp

// Eval is the public evaluation entry point: it expands form to a fixed
// point, then drives the trampoline until a concrete Value is produced.
func Eval(form Value, env *Environment) (Value, error) {
	expanded, err := Expand(form, env)
	if err != nil {
		return Value{}, err
	}
	t, err := evalTail(expanded, env)
	if err != nil {
		return Value{}, err
	}
	return Run(t)
}

// evalValue evaluates form in non-tail position: it drives evalTail's
// trampoline to completion before returning, so that the host stack frame
// for this call is retained (as required for any non-tail subexpression --
// arguments, conditions, and every form but the last in a ``do'').
func evalValue(form Value, env *Environment) (Value, error) {
	if form.Kind == KindCons && !isEmptyPair(form) && form.Pair.Head.Kind == KindSymbol {
		env.Stack().Push(form.Pair.Head.Str)
		defer env.Stack().Pop()
	}
	t, err := evalTail(form, env)
	if err != nil {
		return Value{}, err
	}
	return Run(t)
}

// evalTail is the per-form internal evaluator.  It returns Done for
// self-evaluating forms and unbound-free symbol lookups, and More for
// anything in tail position, so that the caller's driver (ultimately Run,
// invoked from Eval or from a non-tail evalValue) unwinds the host stack
// before resuming.
func evalTail(form Value, env *Environment) (Trampoline, error) {
	switch form.Kind {
	case KindSymbol:
		v, ok := env.Lookup(form.Str)
		if !ok {
			return Trampoline{}, withTrace(EvalErrorf("Undefined symbol: %s", form.Str), env.Stack())
		}
		return Done(v), nil
	case KindCons:
		if isEmptyPair(form) {
			return Done(Nil()), nil
		}
		return evalCons(form, env)
	default:
		// Integer, Float, Str, Bool, Nil, Builtin, Lambda, Macro
		return Done(form), nil
	}
}

func evalCons(form Value, env *Environment) (Trampoline, error) {
	callee, err := evalValue(form.Pair.Head, env)
	if err != nil {
		return Trampoline{}, err
	}
	argForms, ok := ListToSlice(form.Pair.Tail)
	if !ok {
		return Trampoline{}, EvalErrorf("call arguments are not a proper list")
	}

	switch callee.Kind {
	case KindBuiltin:
		return evalBuiltin(callee.Builtin, argForms, env)
	case KindLambda:
		return applyLambda(callee.Lambda, argForms, env)
	case KindMacro:
		return applyMacro(callee.Macro, argForms, env)
	default:
		return Trampoline{}, EvalErrorf("cannot call non-function value: %s", callee)
	}
}

// applyMacro expands a macro bound at runtime -- e.g. one defined earlier in
// the same ``do'' -- and evaluates the result in tail position. Eval's
// upfront Expand pass only rewrites calls to macros already bound at expand
// time; a macro that comes into existence during evaluation reaches this
// path instead.
func applyMacro(mac *MacroVal, argForms []Value, env *Environment) (Trampoline, error) {
	expanded, err := expandMacroCall(mac, argForms)
	if err != nil {
		return Trampoline{}, err
	}
	expanded, err = Expand(expanded, env)
	if err != nil {
		return Trampoline{}, err
	}
	return More(func() (Trampoline, error) {
		return evalTail(expanded, env)
	}), nil
}

// evalArgs evaluates every element of forms in non-tail position, in the
// given (caller's) environment.
func evalArgs(forms []Value, env *Environment) ([]Value, error) {
	values := make([]Value, len(forms))
	for i, f := range forms {
		v, err := evalValue(f, env)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// applyLambda implements lambda application, per the language
// specification: validate arity, bind parameters in a child of the
// closure's captured environment (arguments evaluated eagerly in the
// caller's environment), then return a deferred tail call into the body --
// crucially without recursing into the body on the host stack.
func applyLambda(fn *LambdaVal, argForms []Value, callerEnv *Environment) (Trampoline, error) {
	if fn.HasRest {
		if len(argForms) < len(fn.Params) {
			return Trampoline{}, EvalErrorf("function expects at least %d arguments (got %d)", len(fn.Params), len(argForms))
		}
	} else if len(argForms) != len(fn.Params) {
		return Trampoline{}, EvalErrorf("function expects %d arguments (got %d)", len(fn.Params), len(argForms))
	}

	args, err := evalArgs(argForms, callerEnv)
	if err != nil {
		return Trampoline{}, err
	}

	child := fn.Env.Child()
	for i, p := range fn.Params {
		child.Define(p, args[i])
	}
	if fn.HasRest {
		child.Define(fn.Variadic, SliceToList(args[len(fn.Params):]))
	}

	body := fn.Body
	return More(func() (Trampoline, error) {
		return evalTail(body, child)
	}), nil
}

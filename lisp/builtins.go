package lisp

import (
	"math"
	"strings"
)

// evalBuiltin dispatches a reified special-form call.  Argument forms are
// unevaluated; each case decides for itself which of its operands are
// evaluated eagerly (non-tail) and which -- at most one, the tail position
// -- are deferred through the trampoline.
func evalBuiltin(tag Builtin, args []Value, env *Environment) (Trampoline, error) {
	switch tag {
	case BuiltinAdd, BuiltinSub, BuiltinMul, BuiltinDiv, BuiltinMod, BuiltinPow:
		return doneOrErr(evalArith(tag, args, env))
	case BuiltinEq:
		return doneOrErr(evalEq(args, env))
	case BuiltinGt, BuiltinLt:
		return doneOrErr(evalCompare(tag, args, env))
	case BuiltinConcat:
		return doneOrErr(evalConcat(args, env))
	case BuiltinQuote:
		return doneOrErr(evalQuote(args))
	case BuiltinIf:
		return evalIf(args, env)
	case BuiltinDo:
		return evalDo(args, env)
	case BuiltinDef:
		return doneOrErr(evalDef(args, env))
	case BuiltinSetBang:
		return doneOrErr(evalSetBang(args, env))
	case BuiltinLambdaForm:
		return doneOrErr(evalLambdaForm(args, env))
	case BuiltinMacroForm:
		return doneOrErr(evalMacroForm(args))
	case BuiltinExpandMacro:
		return doneOrErr(evalExpandMacro(args, env))
	case BuiltinEval:
		return doneOrErr(evalEvalForm(args, env))
	case BuiltinRaise:
		return doneOrErr(evalRaise(args, env))
	case BuiltinCar:
		return doneOrErr(evalCar(args, env))
	case BuiltinCdr:
		return doneOrErr(evalCdr(args, env))
	case BuiltinCons:
		return doneOrErr(evalConsFn(args, env))
	case BuiltinTypeOf:
		return doneOrErr(evalTypeOf(args, env))
	case BuiltinSymbolFn:
		return doneOrErr(evalSymbolFn(args, env))
	case BuiltinPrint:
		return doneOrErr(evalPrint(args, env))
	case BuiltinRead:
		return doneOrErr(evalRead(args, env))
	case BuiltinLoad:
		return doneOrErr(evalLoad(args, env))
	case BuiltinDot, BuiltinDotField:
		return Trampoline{}, EvalErrorf("no host bridge configured")
	default:
		return Trampoline{}, EvalErrorf("unimplemented builtin: %s", tag)
	}
}

func doneOrErr(v Value, err error) (Trampoline, error) {
	if err != nil {
		return Trampoline{}, err
	}
	return Done(v), nil
}

// --- arithmetic -------------------------------------------------------

func evalArith(tag Builtin, argForms []Value, env *Environment) (Value, error) {
	args, err := evalArgs(argForms, env)
	if err != nil {
		return Value{}, err
	}
	switch tag {
	case BuiltinAdd:
		return reduceArith(args, 0, func(a, b int64) int64 { return a + b }, func(a, b float64) float64 { return a + b })
	case BuiltinMul:
		return reduceArith(args, 1, func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b })
	case BuiltinSub:
		if len(args) == 0 {
			return Value{}, EvalErrorf("- expects at least 1 argument")
		}
		if len(args) == 1 {
			return negate(args[0])
		}
		return reduceArithFrom(args, func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b })
	case BuiltinDiv:
		if len(args) == 0 {
			return Value{}, EvalErrorf("/ expects at least 1 argument")
		}
		if len(args) == 1 {
			return divide(Float64(1), args[0])
		}
		acc := args[0]
		for _, v := range args[1:] {
			var err error
			acc, err = divide(acc, v)
			if err != nil {
				return Value{}, err
			}
		}
		return acc, nil
	case BuiltinMod:
		if len(args) != 2 {
			return Value{}, EvalErrorf("%% expects exactly 2 arguments (got %d)", len(args))
		}
		a, ok1 := asInt(args[0])
		b, ok2 := asInt(args[1])
		if !ok1 || !ok2 {
			return Value{}, EvalErrorf("%% requires integer arguments")
		}
		if b == 0 {
			return Value{}, EvalErrorf("Modulo by zero")
		}
		return Int64(a % b), nil
	case BuiltinPow:
		if len(args) != 2 {
			return Value{}, EvalErrorf("^ expects exactly 2 arguments (got %d)", len(args))
		}
		x, ok1 := asFloat(args[0])
		y, ok2 := asFloat(args[1])
		if !ok1 || !ok2 {
			return Value{}, EvalErrorf("^ requires numeric arguments")
		}
		return Float64(math.Pow(x, y)), nil
	}
	return Value{}, EvalErrorf("unimplemented arithmetic builtin: %s", tag)
}

func asFloat(v Value) (float64, bool) {
	switch v.Kind {
	case KindInteger:
		return float64(v.Int), true
	case KindFloat:
		return v.Flt, true
	default:
		return 0, false
	}
}

func asInt(v Value) (int64, bool) {
	if v.Kind != KindInteger {
		return 0, false
	}
	return v.Int, true
}

func anyFloat(args []Value) bool {
	for _, v := range args {
		if v.Kind == KindFloat {
			return true
		}
	}
	return false
}

func reduceArith(args []Value, identity int64, intOp func(a, b int64) int64, floatOp func(a, b float64) float64) (Value, error) {
	if !anyFloat(args) {
		acc := identity
		for _, v := range args {
			n, ok := asInt(v)
			if !ok {
				return Value{}, EvalErrorf("expected a number, got %s", TypeOf(v))
			}
			acc = intOp(acc, n)
		}
		return Int64(acc), nil
	}
	acc := float64(identity)
	for _, v := range args {
		f, ok := asFloat(v)
		if !ok {
			return Value{}, EvalErrorf("expected a number, got %s", TypeOf(v))
		}
		acc = floatOp(acc, f)
	}
	return Float64(acc), nil
}

func reduceArithFrom(args []Value, intOp func(a, b int64) int64, floatOp func(a, b float64) float64) (Value, error) {
	if !anyFloat(args) {
		acc, ok := asInt(args[0])
		if !ok {
			return Value{}, EvalErrorf("expected a number, got %s", TypeOf(args[0]))
		}
		for _, v := range args[1:] {
			n, ok := asInt(v)
			if !ok {
				return Value{}, EvalErrorf("expected a number, got %s", TypeOf(v))
			}
			acc = intOp(acc, n)
		}
		return Int64(acc), nil
	}
	acc, ok := asFloat(args[0])
	if !ok {
		return Value{}, EvalErrorf("expected a number, got %s", TypeOf(args[0]))
	}
	for _, v := range args[1:] {
		f, ok := asFloat(v)
		if !ok {
			return Value{}, EvalErrorf("expected a number, got %s", TypeOf(v))
		}
		acc = floatOp(acc, f)
	}
	return Float64(acc), nil
}

func negate(v Value) (Value, error) {
	switch v.Kind {
	case KindInteger:
		return Int64(-v.Int), nil
	case KindFloat:
		return Float64(-v.Flt), nil
	default:
		return Value{}, EvalErrorf("expected a number, got %s", TypeOf(v))
	}
}

func divide(a, b Value) (Value, error) {
	x, ok1 := asFloat(a)
	y, ok2 := asFloat(b)
	if !ok1 || !ok2 {
		return Value{}, EvalErrorf("/ requires numeric arguments")
	}
	if y == 0 {
		return Value{}, EvalErrorf("Division by zero")
	}
	return Float64(x / y), nil
}

// --- comparison ---------------------------------------------------------

func evalEq(argForms []Value, env *Environment) (Value, error) {
	if len(argForms) < 2 {
		return Value{}, EvalErrorf("= expects at least 2 arguments (got %d)", len(argForms))
	}
	args, err := evalArgs(argForms, env)
	if err != nil {
		return Value{}, err
	}
	for i := 1; i < len(args); i++ {
		if !equalBuiltin(args[0], args[i]) {
			return Bool(false), nil
		}
	}
	return Bool(true), nil
}

func evalCompare(tag Builtin, argForms []Value, env *Environment) (Value, error) {
	if len(argForms) < 2 {
		return Value{}, EvalErrorf("%s expects at least 2 arguments (got %d)", tag, len(argForms))
	}
	args, err := evalArgs(argForms, env)
	if err != nil {
		return Value{}, err
	}
	for i := 0; i+1 < len(args); i++ {
		a, ok1 := asFloat(args[i])
		b, ok2 := asFloat(args[i+1])
		if !ok1 || !ok2 {
			return Value{}, EvalErrorf("%s requires numeric arguments", tag)
		}
		var ok bool
		if tag == BuiltinGt {
			ok = a > b
		} else {
			ok = a < b
		}
		if !ok {
			return Bool(false), nil
		}
	}
	return Bool(true), nil
}

// --- strings --------------------------------------------------------

func evalConcat(argForms []Value, env *Environment) (Value, error) {
	args, err := evalArgs(argForms, env)
	if err != nil {
		return Value{}, err
	}
	var b strings.Builder
	for _, v := range args {
		if v.Kind == KindStr {
			b.WriteString(v.Str)
		} else {
			b.WriteString(v.String())
		}
	}
	return Str(b.String()), nil
}

// --- core special forms ------------------------------------------------

func evalQuote(argForms []Value) (Value, error) {
	if len(argForms) != 1 {
		return Value{}, EvalErrorf("quote expects exactly 1 argument (got %d)", len(argForms))
	}
	return argForms[0], nil
}

func evalIf(argForms []Value, env *Environment) (Trampoline, error) {
	if len(argForms) != 2 && len(argForms) != 3 {
		return Trampoline{}, EvalErrorf("if expects 2 or 3 arguments (got %d)", len(argForms))
	}
	cond, err := evalValue(argForms[0], env)
	if err != nil {
		return Trampoline{}, err
	}
	if Truthy(cond) {
		branch := argForms[1]
		return More(func() (Trampoline, error) { return evalTail(branch, env) }), nil
	}
	if len(argForms) == 3 {
		branch := argForms[2]
		return More(func() (Trampoline, error) { return evalTail(branch, env) }), nil
	}
	return Done(Nil()), nil
}

func evalDo(argForms []Value, env *Environment) (Trampoline, error) {
	if len(argForms) == 0 {
		return Trampoline{}, EvalErrorf("do expects at least 1 argument")
	}
	for _, f := range argForms[:len(argForms)-1] {
		if _, err := evalValue(f, env); err != nil {
			return Trampoline{}, err
		}
	}
	last := argForms[len(argForms)-1]
	return More(func() (Trampoline, error) { return evalTail(last, env) }), nil
}

func evalDef(argForms []Value, env *Environment) (Value, error) {
	if len(argForms) != 2 {
		return Value{}, EvalErrorf("def expects exactly 2 arguments (got %d)", len(argForms))
	}
	name := argForms[0]
	if name.Kind != KindSymbol {
		return Value{}, EvalErrorf("def expects a symbol name, got %s", TypeOf(name))
	}
	v, err := evalValue(argForms[1], env)
	if err != nil {
		return Value{}, err
	}
	env.Define(name.Str, v)
	return v, nil
}

func evalSetBang(argForms []Value, env *Environment) (Value, error) {
	if len(argForms) != 2 {
		return Value{}, EvalErrorf("set! expects exactly 2 arguments (got %d)", len(argForms))
	}
	name := argForms[0]
	if name.Kind != KindSymbol {
		return Value{}, EvalErrorf("set! expects a symbol name, got %s", TypeOf(name))
	}
	v, err := evalValue(argForms[1], env)
	if err != nil {
		return Value{}, err
	}
	if err := env.Assign(name.Str, v); err != nil {
		return Value{}, err
	}
	return v, nil
}

func evalLambdaForm(argForms []Value, env *Environment) (Value, error) {
	if len(argForms) != 2 {
		return Value{}, EvalErrorf("lambda expects exactly 2 arguments (got %d)", len(argForms))
	}
	params, variadic, hasRest, err := parseParamList(argForms[0])
	if err != nil {
		return Value{}, err
	}
	return Lambda(params, variadic, hasRest, argForms[1], env), nil
}

func evalMacroForm(argForms []Value) (Value, error) {
	if len(argForms) != 2 {
		return Value{}, EvalErrorf("macro expects exactly 2 arguments (got %d)", len(argForms))
	}
	params, variadic, hasRest, err := parseParamList(argForms[0])
	if err != nil {
		return Value{}, err
	}
	return Macro(params, variadic, hasRest, argForms[1]), nil
}

// parseParamList validates and unpacks a lambda/macro parameter list: Nil
// or a proper list of Symbols, optionally terminated by ``. rest'' -- a dot
// Symbol followed by exactly one trailing Symbol.
func parseParamList(v Value) (params []string, variadic string, hasRest bool, err error) {
	items, ok := ListToSlice(v)
	if !ok {
		return nil, "", false, EvalErrorf("parameter list is not a proper list")
	}
	for i, item := range items {
		if item.Kind != KindSymbol {
			return nil, "", false, EvalErrorf("parameter list contains a non-symbol")
		}
		if item.Str == "." {
			if i != len(items)-2 || items[i+1].Kind != KindSymbol {
				return nil, "", false, EvalErrorf("parameter list has malformed variadic marker")
			}
			return params, items[i+1].Str, true, nil
		}
		params = append(params, item.Str)
	}
	return params, "", false, nil
}

func evalExpandMacro(argForms []Value, env *Environment) (Value, error) {
	if len(argForms) != 1 {
		return Value{}, EvalErrorf("expand-macro expects exactly 1 argument (got %d)", len(argForms))
	}
	form, err := evalValue(argForms[0], env)
	if err != nil {
		return Value{}, err
	}
	return Expand(form, env)
}

func evalEvalForm(argForms []Value, env *Environment) (Value, error) {
	if len(argForms) != 1 {
		return Value{}, EvalErrorf("eval expects exactly 1 argument (got %d)", len(argForms))
	}
	form, err := evalValue(argForms[0], env)
	if err != nil {
		return Value{}, err
	}
	return Eval(form, env)
}

func evalRaise(argForms []Value, env *Environment) (Value, error) {
	if len(argForms) != 1 {
		return Value{}, EvalErrorf("raise expects exactly 1 argument (got %d)", len(argForms))
	}
	v, err := evalValue(argForms[0], env)
	if err != nil {
		return Value{}, err
	}
	return Value{}, RuntimeErrorf("%s", v.String())
}

// --- pairs & lists -------------------------------------------------

func evalCar(argForms []Value, env *Environment) (Value, error) {
	if len(argForms) != 1 {
		return Value{}, EvalErrorf("car expects exactly 1 argument (got %d)", len(argForms))
	}
	v, err := evalValue(argForms[0], env)
	if err != nil {
		return Value{}, err
	}
	if v.Kind != KindCons {
		return Value{}, EvalErrorf("car expects a non-empty list, got %s", TypeOf(v))
	}
	return v.Pair.Head, nil
}

func evalCdr(argForms []Value, env *Environment) (Value, error) {
	if len(argForms) != 1 {
		return Value{}, EvalErrorf("cdr expects exactly 1 argument (got %d)", len(argForms))
	}
	v, err := evalValue(argForms[0], env)
	if err != nil {
		return Value{}, err
	}
	if v.Kind != KindCons {
		return Value{}, EvalErrorf("cdr expects a non-empty list, got %s", TypeOf(v))
	}
	return v.Pair.Tail, nil
}

func evalConsFn(argForms []Value, env *Environment) (Value, error) {
	if len(argForms) != 2 {
		return Value{}, EvalErrorf("cons expects exactly 2 arguments (got %d)", len(argForms))
	}
	args, err := evalArgs(argForms, env)
	if err != nil {
		return Value{}, err
	}
	return Cons(args[0], args[1]), nil
}

// --- meta -------------------------------------------------------------

func evalTypeOf(argForms []Value, env *Environment) (Value, error) {
	if len(argForms) != 1 {
		return Value{}, EvalErrorf("type-of expects exactly 1 argument (got %d)", len(argForms))
	}
	v, err := evalValue(argForms[0], env)
	if err != nil {
		return Value{}, err
	}
	return Str(TypeOf(v)), nil
}

func evalSymbolFn(argForms []Value, env *Environment) (Value, error) {
	if len(argForms) != 1 {
		return Value{}, EvalErrorf("symbol expects exactly 1 argument (got %d)", len(argForms))
	}
	v, err := evalValue(argForms[0], env)
	if err != nil {
		return Value{}, err
	}
	if v.Kind != KindStr {
		return Value{}, EvalErrorf("symbol expects a string, got %s", TypeOf(v))
	}
	return Symbol(v.Str), nil
}

// --- I/O ----------------------------------------------------------------

func evalPrint(argForms []Value, env *Environment) (Value, error) {
	if len(argForms) != 1 {
		return Value{}, EvalErrorf("print expects exactly 1 argument (got %d)", len(argForms))
	}
	v, err := evalValue(argForms[0], env)
	if err != nil {
		return Value{}, err
	}
	adapter, ok := env.LookupIO()
	if !ok {
		return Value{}, RuntimeErrorf("print: no IO adapter configured")
	}
	if err := adapter.Println(v.String()); err != nil {
		return Value{}, err
	}
	return v, nil
}

func evalRead(argForms []Value, env *Environment) (Value, error) {
	if len(argForms) != 0 {
		return Value{}, EvalErrorf("read expects no arguments (got %d)", len(argForms))
	}
	adapter, ok := env.LookupIO()
	if !ok {
		return Value{}, RuntimeErrorf("read: no IO adapter configured")
	}
	line, err := adapter.ReadLine()
	if err != nil {
		return Value{}, err
	}
	v, _, err := ReadFunc(line)
	if err != nil {
		return Value{}, err
	}
	return v, nil
}

func evalLoad(argForms []Value, env *Environment) (Value, error) {
	if len(argForms) != 1 {
		return Value{}, EvalErrorf("load expects exactly 1 argument (got %d)", len(argForms))
	}
	pathVal, err := evalValue(argForms[0], env)
	if err != nil {
		return Value{}, err
	}
	if pathVal.Kind != KindStr {
		return Value{}, EvalErrorf("load expects a string path, got %s", TypeOf(pathVal))
	}
	adapter, ok := env.LookupIO()
	if !ok {
		return Value{}, RuntimeErrorf("load: no IO adapter configured")
	}
	source, err := adapter.ReadFile(pathVal.Str)
	if err != nil {
		return Value{}, err
	}
	result := Nil()
	rest := source
	for {
		var form Value
		form, rest, err = ReadFunc(rest)
		if err == ErrEmptyInput {
			break
		}
		if err != nil {
			return Value{}, err
		}
		result, err = Eval(form, env)
		if err != nil {
			return Value{}, err
		}
	}
	return result, nil
}

// ReadFunc is set by the parser package during initialization (via
// RegisterReader) to break the import cycle between lisp (which needs a
// reader for the ``read''/``load'' builtins) and parser (which needs the
// lisp value model).
var ReadFunc func(src string) (Value, string, error)

// ErrEmptyInput is returned by ReadFunc when src contains nothing but
// whitespace and comments.
var ErrEmptyInput = RuntimeErrorf("no expression to read")

// RegisterReader installs fn as the implementation used by the ``read'' and
// ``load'' builtins.
func RegisterReader(fn func(src string) (Value, string, error)) {
	ReadFunc = fn
}

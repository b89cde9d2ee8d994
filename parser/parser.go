// Package parser implements the klisp reader: parsec-combinator grammar
// that turns source text into lisp.Value forms, plus the dotted-method
// sugar rewrite rules applied to freshly read lists.
package parser

import (
	"strconv"
	"strings"

	"github.com/klisp/klisp/lisp"
	parsec "github.com/prataprc/goparsec"
)

func init() {
	lisp.RegisterReader(Read)
}

// Read parses a single form from src and returns the parsed Value along
// with the unconsumed residual string, per the reader's streaming
// contract. If src holds nothing but whitespace and comments, it returns
// lisp.ErrEmptyInput.
func Read(src string) (lisp.Value, string, error) {
	remaining := []byte(src)
	form := newReaderParser()
	for {
		s := parsec.NewScanner(remaining)
		root, s2 := form(s)
		if root == nil {
			if !s2.Endof() {
				return lisp.Value{}, "", lisp.ParseErrorf("unexpected input")
			}
			return lisp.Value{}, "", lisp.ErrEmptyInput
		}
		remaining = remaining[s2.GetCursor():]
		if v, ok := root.(lisp.Value); ok {
			return v, string(remaining), nil
		}
		// root was a comment-only match; keep scanning for a real form.
	}
}

// ReadAll parses every top-level form in src in sequence.
func ReadAll(src string) ([]lisp.Value, error) {
	var forms []lisp.Value
	rest := src
	for {
		v, r, err := Read(rest)
		if err == lisp.ErrEmptyInput {
			return forms, nil
		}
		if err != nil {
			return forms, err
		}
		forms = append(forms, v)
		rest = r
	}
}

func newReaderParser() parsec.Parser {
	openP := parsec.Atom("(", "OPENP")
	closeP := parsec.Atom(")", "CLOSEP")
	quote := parsec.Atom("'", "QUOTE")
	comment := parsec.Token(`;[^\n]*`, "COMMENT")
	str := parsec.String()
	number := parsec.Token(`-?[0-9]+(\.[0-9]+)?([eE][+-]?[0-9]+)?`, "NUMBER")
	symbol := parsec.Token(`[^\s()';]+`, "SYMBOL")

	atom := parsec.OrdChoice(astAtom, str, number, symbol)

	var expr parsec.Parser
	exprs := parsec.Kleene(nil, &expr)
	list := parsec.And(astList, openP, exprs, closeP)
	quoted := parsec.And(astQuote, quote, &expr)
	expr = parsec.OrdChoice(nil, comment, atom, list, quoted)
	return expr
}

func astAtom(nodes []parsec.ParsecNode) parsec.ParsecNode {
	switch term := nodes[0].(type) {
	case string:
		return lisp.Str(unescapeString(unquote(term)))
	case *parsec.Terminal:
		switch term.Name {
		case "NUMBER":
			if strings.ContainsAny(term.Value, ".eE") {
				f, err := strconv.ParseFloat(term.Value, 64)
				if err != nil {
					return nil
				}
				return lisp.Float64(f)
			}
			n, err := strconv.ParseInt(term.Value, 10, 64)
			if err != nil {
				return nil
			}
			return lisp.Int64(n)
		case "SYMBOL":
			return atomFromSymbol(term.Value)
		}
	}
	return nil
}

func atomFromSymbol(text string) lisp.Value {
	if text == "nil" {
		return lisp.Nil()
	}
	switch strings.ToLower(text) {
	case "true":
		return lisp.Bool(true)
	case "false":
		return lisp.Bool(false)
	}
	if tag, ok := lisp.LookupBuiltin(text); ok {
		return lisp.BuiltinValue(tag)
	}
	return lisp.Symbol(text)
}

func astList(nodes []parsec.ParsecNode) parsec.ParsecNode {
	var items []lisp.Value
	for _, n := range flatten(nodes) {
		if v, ok := n.(lisp.Value); ok {
			items = append(items, v)
		}
	}
	return rewriteDottedMethod(lisp.SliceToList(items))
}

func astQuote(nodes []parsec.ParsecNode) parsec.ParsecNode {
	for _, n := range flatten(nodes) {
		if v, ok := n.(lisp.Value); ok {
			return lisp.Cons(lisp.BuiltinValue(lisp.BuiltinQuote), lisp.Cons(v, lisp.Nil()))
		}
	}
	return nil
}

// rewriteDottedMethod applies the reader's dotted-method sugar rewrite to a
// freshly built list, per the language specification's reader rules:
// ``(.method obj args...)'' and ``(.-field obj)'' rewrite their head Symbol
// into the DOT/DOT_FIELD builtin, splicing the method/field name back in as
// the new second element. Lists already headed by a bare Symbol ``.'' of
// length < 3 (the lambda variadic marker) are left untouched.
func rewriteDottedMethod(list lisp.Value) lisp.Value {
	items, ok := lisp.ListToSlice(list)
	if !ok || len(items) == 0 {
		return list
	}
	head := items[0]
	if head.Kind != lisp.KindSymbol {
		return list
	}
	name := head.Str
	switch {
	case name == "." && len(items) >= 3:
		rest := append([]lisp.Value{lisp.BuiltinValue(lisp.BuiltinDot)}, items[1:]...)
		return lisp.SliceToList(rest)
	case name == ".-" && len(items) >= 3:
		rest := append([]lisp.Value{lisp.BuiltinValue(lisp.BuiltinDotField)}, items[1:]...)
		return lisp.SliceToList(rest)
	case strings.HasPrefix(name, ".-") && len(name) > 2:
		field := lisp.Symbol(name[2:])
		rest := append([]lisp.Value{lisp.BuiltinValue(lisp.BuiltinDotField), field}, items[1:]...)
		return lisp.SliceToList(rest)
	case strings.HasPrefix(name, ".") && len(name) > 1 && name != ".":
		method := lisp.Symbol(name[1:])
		rest := append([]lisp.Value{lisp.BuiltinValue(lisp.BuiltinDot), method}, items[1:]...)
		return lisp.SliceToList(rest)
	default:
		return list
	}
}

func flatten(nodes []parsec.ParsecNode) []parsec.ParsecNode {
	var out []parsec.ParsecNode
	for _, n := range nodes {
		switch v := n.(type) {
		case []parsec.ParsecNode:
			out = append(out, flatten(v)...)
		default:
			out = append(out, v)
		}
	}
	return out
}

func unquote(s string) string {
	if len(s) >= 2 {
		return s[1 : len(s)-1]
	}
	return s
}

func unescapeString(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i == len(s)-1 {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

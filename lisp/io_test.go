package lisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringIOAdapterReadLine(t *testing.T) {
	a := NewStringIOAdapter("one", "two")
	line, err := a.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "one", line)

	line, err = a.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "two", line)

	_, err = a.ReadLine()
	assert.Error(t, err)
}

func TestStringIOAdapterPrintln(t *testing.T) {
	a := NewStringIOAdapter()
	require.NoError(t, a.Println("hello"))
	require.NoError(t, a.Print("world"))
	assert.Equal(t, "hello\nworld", a.Output.String())
}

func TestStringIOAdapterReadFile(t *testing.T) {
	a := NewStringIOAdapter()
	a.Files["/tmp/x.klisp"] = "(+ 1 2)"
	content, err := a.ReadFile("/tmp/x.klisp")
	require.NoError(t, err)
	assert.Equal(t, "(+ 1 2)", content)

	_, err = a.ReadFile("/missing")
	assert.Error(t, err)
}

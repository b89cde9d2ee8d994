package lisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvironmentLookupDefine(t *testing.T) {
	env := NewEnvironment()
	_, ok := env.Lookup("x")
	assert.False(t, ok)

	env.Define("x", Int64(1))
	v, ok := env.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, Int64(1), v)
}

func TestEnvironmentChildShadowing(t *testing.T) {
	parent := NewEnvironment()
	parent.Define("x", Int64(1))
	child := parent.Child()

	v, ok := child.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, Int64(1), v, "child sees parent bindings")

	child.Define("x", Int64(2))
	v, _ = child.Lookup("x")
	assert.Equal(t, Int64(2), v)

	v, _ = parent.Lookup("x")
	assert.Equal(t, Int64(1), v, "shadowing in the child must not mutate the parent frame")
}

func TestEnvironmentAssignWalksParents(t *testing.T) {
	parent := NewEnvironment()
	parent.Define("x", Int64(1))
	child := parent.Child()

	require.NoError(t, child.Assign("x", Int64(99)))
	v, _ := parent.Lookup("x")
	assert.Equal(t, Int64(99), v, "assign mutates the frame where the binding actually lives")

	err := child.Assign("undefined", Int64(1))
	assert.Error(t, err)
}

func TestEnvironmentIOLookup(t *testing.T) {
	root := NewEnvironment()
	adapter := NewStringIOAdapter()
	root.SetIO(adapter)
	child := root.Child().Child()

	got, ok := child.LookupIO()
	require.True(t, ok)
	assert.Same(t, adapter, got.(*StringIOAdapter))
}

func TestEnvironmentSharesCallStackWithChildren(t *testing.T) {
	root := NewEnvironment()
	child := root.Child()
	assert.Same(t, root.Stack(), child.Stack())
}

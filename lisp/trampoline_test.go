package lisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrampolineDone(t *testing.T) {
	v, err := Run(Done(Int64(7)))
	require.NoError(t, err)
	assert.Equal(t, Int64(7), v)
}

func TestTrampolineCountdown(t *testing.T) {
	// A manually built tail-recursive countdown, exercising the same
	// iterative-not-recursive discipline the evaluator relies on for
	// tail-call safety, without going through the reader or evaluator.
	var countdown func(n int64) Trampoline
	countdown = func(n int64) Trampoline {
		if n == 0 {
			return Done(Int64(0))
		}
		return More(func() (Trampoline, error) {
			return countdown(n - 1), nil
		})
	}
	v, err := Run(countdown(50000))
	require.NoError(t, err)
	assert.Equal(t, Int64(0), v)
}

func TestTrampolinePropagatesError(t *testing.T) {
	_, err := Run(More(func() (Trampoline, error) {
		return Trampoline{}, EvalErrorf("boom")
	}))
	assert.Error(t, err)
}

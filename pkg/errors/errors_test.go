package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	e1 := New("cause1")
	e2 := New("cause2").Wrap(e1)
	e := New("dummy").Wrap(e2)
	e3 := e.Unwrap()
	assert.True(t, Is(e, e1))
	assert.True(t, Is(e, e2))
	assert.True(t, e3 == e2)
}

func TestWrapKeepsSentinel(t *testing.T) {
	sentinel := New("git reset failed")
	cause := fmt.Errorf("exit status 128")

	wrapped := sentinel.Wrap(cause)
	require.Error(t, wrapped)

	assert.True(t, Is(wrapped, sentinel))
	assert.True(t, Is(wrapped, cause))
	assert.Nil(t, sentinel.Unwrap(), "wrapping must not mutate the sentinel")
	assert.Equal(t, "git reset failed: exit status 128", wrapped.Error())
	assert.Equal(t, "git reset failed", sentinel.Error())

	rewrapped := wrapped.Wrap(fmt.Errorf("other"))
	assert.True(t, Is(rewrapped, sentinel))
	assert.False(t, Is(rewrapped, New("git reset failed")))
}

func TestWrapThroughFmt(t *testing.T) {
	sentinel := New("remote store error")
	err := fmt.Errorf("page 2: %w", sentinel.WrapMessage("access denied"))

	assert.True(t, Is(err, sentinel))

	var target *Error
	require.True(t, As(err, &target))
	assert.Equal(t, "remote store error: access denied", target.Error())
}

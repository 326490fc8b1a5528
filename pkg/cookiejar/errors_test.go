package cookiejar

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIs(t *testing.T) {
	err := newError("Insert", ErrDomainMismatch, nil)

	t.Run("matches the bare ErrorKind sentinel", func(t *testing.T) {
		assert.True(t, errors.Is(err, ErrDomainMismatch))
		assert.False(t, errors.Is(err, ErrPublicSuffix))
	})

	t.Run("matches another *Error with the same kind", func(t *testing.T) {
		assert.True(t, errors.Is(err, &Error{Kind: ErrDomainMismatch}))
		assert.False(t, errors.Is(err, &Error{Kind: ErrEmptyName}))
	})

	t.Run("unwraps to the underlying cause", func(t *testing.T) {
		cause := errors.New("boom")
		wrapped := newError("Insert", ErrParse, cause)
		assert.ErrorIs(t, wrapped, cause)
	})
}

package errors_test

import (
	"testing"

	"github.com/jrsteele09/gym-checkin/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		err := errors.Invalid("phone", "bad phone")
		require.ErrorIs(t, err, errors.ErrValidation)
		require.NotErrorIs(t, err, errors.ErrEmptySelection)
		require.Equal(t, "bad phone", err.Error())
	})

	t.Run("with cause", func(t *testing.T) {
		err := errors.Wrapf(errors.InvalidBecause(errors.ErrEmptySelection, "selection", "pick one"), "check in")
		require.ErrorIs(t, err, errors.ErrValidation)
		require.ErrorIs(t, err, errors.ErrEmptySelection)

		var verr *errors.ValidationError
		require.True(t, errors.As(err, &verr))
		require.Equal(t, "selection", verr.Field)
		require.Equal(t, "pick one", verr.Message)
	})
}

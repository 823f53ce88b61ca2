//go:build unit

package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"ticket-booking/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMark(t *testing.T) {
	t.Parallel()

	sentinel := errs.New("seats no longer available")

	t.Run("sentinel is matchable with errors.Is", func(t *testing.T) {
		t.Parallel()
		cause := errs.New("seat is already claimed")

		err := errs.Mark(cause, sentinel)

		assert.ErrorIs(t, err, sentinel)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("mark survives further wrapping", func(t *testing.T) {
		t.Parallel()
		err := errs.Wrap(errs.Mark(errs.New("row lock timeout"), sentinel), "reserve failed")

		assert.ErrorIs(t, err, sentinel)
	})

	t.Run("stacked marks are all matchable", func(t *testing.T) {
		t.Parallel()
		outer := errs.New("operation failed")
		err := errs.Mark(errs.Mark(errs.New("boom"), sentinel), outer)

		assert.ErrorIs(t, err, sentinel)
		assert.ErrorIs(t, err, outer)
	})

	t.Run("message stays the cause's", func(t *testing.T) {
		t.Parallel()
		err := errs.Mark(errs.New("seat is already claimed"), sentinel)

		assert.Equal(t, "seat is already claimed", err.Error())
	})

	t.Run("nil cause yields the sentinel itself", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, sentinel, errs.Mark(nil, sentinel))
	})

	t.Run("verbose format keeps the cause's stack trace", func(t *testing.T) {
		t.Parallel()
		err := errs.Mark(errs.New("boom"), sentinel)

		verbose := fmt.Sprintf("%+v", err)
		assert.Contains(t, verbose, "boom")
		assert.Greater(t, len(errs.ExtractStackLines(err, 0)), 1)
	})

	t.Run("unrelated sentinel does not match", func(t *testing.T) {
		t.Parallel()
		other := errs.New("amount mismatch")
		err := errs.Mark(errs.New("boom"), sentinel)

		assert.False(t, errors.Is(err, other))
	})
}

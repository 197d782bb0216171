package apperror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithMessagef(t *testing.T) {
	base := New(http.StatusConflict, "time slot is fully booked")

	err := WithMessagef(base, "hour %02d:00 is fully booked (%d of %d slots taken)", 9, 2, 2)

	assert.Equal(t, "hour 09:00 is fully booked (2 of 2 slots taken)", err.Error())
	assert.Equal(t, http.StatusConflict, err.Code)
	assert.ErrorIs(t, err, base, "sentinel must still match through the wrapper")
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("row not found")
	err := Wrap(cause, http.StatusNotFound, "booking not found")

	assert.Equal(t, "booking not found", err.Error())
	assert.ErrorIs(t, err, cause)

	var appErr *AppError
	require.ErrorAs(t, error(err), &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
}

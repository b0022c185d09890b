package errors

import (
	"database/sql"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromErrorKeepsTypedErrors(t *testing.T) {
	err := Clone(ErrAlreadyEnrolled, "already in CS101")
	got := FromError(err)
	require.NotNil(t, got)
	assert.Equal(t, "ALREADY_ENROLLED", got.Code)
	assert.Equal(t, http.StatusConflict, got.Status)
	assert.Equal(t, "already in CS101", got.Message)
	assert.Equal(t, "student already enrolled in course", ErrAlreadyEnrolled.Message)
}

func TestFromErrorWrapsUnknown(t *testing.T) {
	got := FromError(sql.ErrConnDone)
	assert.Equal(t, ErrInternal.Code, got.Code)
	assert.True(t, errors.Is(got, sql.ErrConnDone))
	assert.Nil(t, FromError(nil))
}

func TestInternalAndValidation(t *testing.T) {
	cause := errors.New("boom")
	in := Internal(cause, "failed to load")
	assert.Equal(t, http.StatusInternalServerError, in.Status)
	assert.Equal(t, "failed to load: boom", in.Error())

	v := Validation(cause, "invalid payload")
	assert.Equal(t, ErrValidation.Code, v.Code)
}

func TestIsMatchesByCode(t *testing.T) {
	err := Clone(ErrNotFound, "course not found")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrForbidden))
	assert.Equal(t, "NOT_FOUND", CodeOf(err))
	assert.Equal(t, "INTERNAL_ERROR", CodeOf(errors.New("plain")))
	assert.Empty(t, CodeOf(nil))
}

package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorKeepsTypedErrors(t *testing.T) {
	err := fmt.Errorf("load: %w", Clone(ErrNotFound, "request not found"))
	got := FromError(err)
	assert.Equal(t, "NOT_FOUND", got.Code)
	assert.Equal(t, http.StatusNotFound, got.Status)
	assert.Equal(t, "request not found", got.Message)
}

func TestFromErrorWrapsUnknown(t *testing.T) {
	got := FromError(errors.New("boom"))
	assert.Equal(t, ErrInternal.Code, got.Code)
	assert.Equal(t, http.StatusInternalServerError, got.Status)
	assert.Contains(t, got.Error(), "boom")
	assert.Nil(t, FromError(nil))
}

func TestIsMatchesByCode(t *testing.T) {
	assert.True(t, errors.Is(Clone(ErrForbidden, "admins cannot be deleted"), ErrForbidden))
	assert.True(t, errors.Is(Wrap(errors.New("db down"), ErrInternal, "failed"), ErrInternal))
	assert.False(t, errors.Is(ErrNotFound, ErrConflict))
}

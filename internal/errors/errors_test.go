package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesByCode(t *testing.T) {
	err := NotFound("book 5 not found")

	assert.True(t, Is(err, ErrNotFound))
	assert.False(t, Is(err, ErrForbidden))

	wrapped := fmt.Errorf("view: %w", err)
	assert.True(t, Is(wrapped, ErrNotFound))
}

func TestError_WrapKeepsCause(t *testing.T) {
	cause := fmt.Errorf("disk I/O error")
	err := Wrap(cause, CodeInternal, "failed to save book")

	assert.Equal(t, "failed to save book: disk I/O error", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus())
}

func TestError_Fields(t *testing.T) {
	err := ValidationWithDetails("validation failed", map[string]string{"year": "out of range"})
	assert.Equal(t, "out of range", err.Fields()["year"])

	assert.Nil(t, NotFound("x").Fields())

	rejected := RejectedContent("description", "markup not allowed")
	assert.Equal(t, map[string]string{"description": "markup not allowed"}, rejected.Fields())
	assert.Equal(t, CodeRejectedContent, CodeOf(rejected))
}

func TestCode_FlashCategory(t *testing.T) {
	assert.Equal(t, "warning", CodeForbidden.FlashCategory())
	assert.Equal(t, "warning", CodeRejectedContent.FlashCategory())
	assert.Equal(t, "danger", CodeNotFound.FlashCategory())
	assert.Equal(t, "danger", CodeInternal.FlashCategory())
}

func TestCodeOf_PlainError(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(fmt.Errorf("boom")))
}

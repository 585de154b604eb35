package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"presshealth/domain/core"
)

func TestWrapKeepsCodeAndCause(t *testing.T) {
	base := InvalidInput("bad level")
	wrapped := Wrap(base, "process failed")

	assert.Equal(t, CodeInvalidInput, GetCode(wrapped))
	assert.Equal(t, "process failed: bad level", wrapped.Error())
	assert.True(t, stderrors.Is(wrapped, base))
	assert.Nil(t, Wrap(nil, "nothing"))
}

func TestWrapClassifiesDomainErrors(t *testing.T) {
	assert.Equal(t, CodeNotFound, GetCode(Wrap(core.ErrPressNotFound, "fetch")))
	assert.Equal(t, CodeValidationError, GetCode(Wrap(core.NewMissingColumnError("sn"), "upload")))
	assert.Equal(t, CodeInvalidInput, GetCode(Wrap(core.ErrInvalidLevel, "process")))
	assert.Equal(t, CodeInternalError, GetCode(Wrap(fmt.Errorf("disk on fire"), "save")))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{NotFound("upload"), http.StatusNotFound},
		{Wrap(core.ErrSessionNotFound, "x"), http.StatusNotFound},
		{core.NewMissingColumnError("gapstatus"), http.StatusBadRequest},
		{InvalidInput("no file"), http.StatusBadRequest},
		{PayloadTooLarge("50MB"), http.StatusRequestEntityTooLarge},
		{DatabaseError("insert", fmt.Errorf("boom")), http.StatusInternalServerError},
		{fmt.Errorf("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), tt.err.Error())
	}
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeExternalService, fmt.Errorf("timeout"))
	assert.Equal(t, CodeExternalService, GetCode(err))
	assert.True(t, IsAppError(err))
	assert.False(t, IsAppError(fmt.Errorf("plain")))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeNotFound, CodeOf(fmt.Errorf("lookup: %w", core.ErrUploadNotFound)))
	assert.Equal(t, CodeInvalidInput, CodeOf(core.ErrUnsupportedExt))
	assert.Equal(t, CodePayloadTooLarge, CodeOf(PayloadTooLarge("too big")))
	assert.Equal(t, CodeInternalError, CodeOf(stderrors.New("boom")))
}

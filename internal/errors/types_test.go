package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorHTTPStatus(t *testing.T) {
	tests := []struct {
		code   ErrorCode
		status int
	}{
		{ErrCodeValidationFailed, http.StatusBadRequest},
		{ErrCodeRetrievalFailed, http.StatusBadGateway},
		{ErrCodeSynthesisFailed, http.StatusBadGateway},
		{ErrCodeEmbeddingFailed, http.StatusBadGateway},
		{ErrCodeDatabaseError, http.StatusInternalServerError},
		{ErrCodeCacheError, http.StatusInternalServerError},
		{ErrCodeInternalServer, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		appErr := New(tt.code, ErrorTypeSystem, "msg")
		assert.Equal(t, tt.status, appErr.HTTPStatus(), string(tt.code))
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	appErr := Wrap(ErrCodeCacheError, ErrorTypeSystem, "failed to connect to redis", cause)

	assert.ErrorIs(t, appErr, cause)
	assert.Contains(t, appErr.Error(), "CACHE_ERROR")
	assert.Contains(t, appErr.Error(), "connection refused")
}

func TestAsAppError(t *testing.T) {
	appErr := Wrap(ErrCodeDatabaseError, ErrorTypeSystem, "query failed", errors.New("bad conn"))
	extracted := AsAppError(appErr)
	require.NotNil(t, extracted)
	assert.Equal(t, ErrCodeDatabaseError, extracted.Code)

	// 非AppError归入内部错误
	plain := AsAppError(errors.New("boom"))
	assert.Equal(t, ErrCodeInternalServer, plain.Code)
}

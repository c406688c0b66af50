package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode 错误码类型
type ErrorCode string

// 预定义错误码
const (
	// 通用错误
	ErrCodeInternalServer ErrorCode = "INTERNAL_SERVER_ERROR"

	// 验证错误
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	// 管道错误
	ErrCodeRetrievalFailed ErrorCode = "RETRIEVAL_FAILED"
	ErrCodeSynthesisFailed ErrorCode = "SYNTHESIS_FAILED"
	ErrCodeEmbeddingFailed ErrorCode = "EMBEDDING_FAILED"

	// 存储错误
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
	ErrCodeCacheError    ErrorCode = "CACHE_ERROR"
)

// ErrorType 错误类型
type ErrorType int

const (
	ErrorTypeSystem ErrorType = iota
	ErrorTypeBusiness
	ErrorTypeValidation
	ErrorTypeExternal
)

// AppError 应用错误结构体
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Type    ErrorType `json:"-"`
	Cause   error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// HTTPStatus 映射到HTTP状态码
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case ErrCodeValidationFailed:
		return http.StatusBadRequest
	case ErrCodeRetrievalFailed, ErrCodeSynthesisFailed, ErrCodeEmbeddingFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// New 创建应用错误
func New(code ErrorCode, errType ErrorType, message string) *AppError {
	return &AppError{Code: code, Type: errType, Message: message}
}

// Wrap 包装底层错误
func Wrap(code ErrorCode, errType ErrorType, message string, cause error) *AppError {
	return &AppError{Code: code, Type: errType, Message: message, Cause: cause}
}

// AsAppError 提取AppError，非AppError时返回internal错误
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(ErrCodeInternalServer, ErrorTypeSystem, "internal error", err)
}

package domain

import (
	"errors"
	"fmt"
)

// 预定义of领域错误
var (
	// ErrNotFound 资源不exists（如调度日志文件）
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidInput 无效of输入
	ErrInvalidInput = errors.New("invalid input")
	// ErrUpstream 上游服务（LLM / TTS）failure
	ErrUpstream = errors.New("upstream error")
	// ErrStoreIO 会话存储读写failure
	ErrStoreIO = errors.New("store io error")
	// ErrTimeout 流式会话超出时间预算
	ErrTimeout = errors.New("stream timeout")
	// ErrInternal Internal error
	ErrInternal = errors.New("internal error")
)

// DomainError 领域错误
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implementation error interface（用于日志andInternal error传递）
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// UserMessage 返回user友好of错误消息（不包含Internal error细节）
func (e *DomainError) UserMessage() string {
	return e.Message
}

// Unwrap 返回包装of错误
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewNotFoundError create资源不exists错误
func NewNotFoundError(message string) error {
	return &DomainError{
		Code:    "NOT_FOUND",
		Message: message,
		Err:     ErrNotFound,
	}
}

// NewInvalidInputError create无效输入错误
func NewInvalidInputError(message string) error {
	return &DomainError{
		Code:    "INVALID_INPUT",
		Message: message,
		Err:     ErrInvalidInput,
	}
}

// NewUpstreamError create上游服务错误
func NewUpstreamError(message string, err error) error {
	return &DomainError{
		Code:    "UPSTREAM_ERROR",
		Message: message,
		Err:     fmt.Errorf("%w: %v", ErrUpstream, err),
	}
}

// NewStoreIOError create存储读写错误
func NewStoreIOError(err error) error {
	return &DomainError{
		Code:    "STORE_IO",
		Message: "chat memory io failure",
		Err:     fmt.Errorf("%w: %v", ErrStoreIO, err),
	}
}

// NewTimeoutError create流超时错误
func NewTimeoutError() error {
	return &DomainError{
		Code:    "STREAM_TIMEOUT",
		Message: "请求超时，请重试",
		Err:     ErrTimeout,
	}
}

// NewInternalError createInternal error
func NewInternalError(err error) error {
	return &DomainError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred", // 不暴露Internal error细节
		Err:     fmt.Errorf("%w: %v", ErrInternal, err),
	}
}

// IsNotFound 判断is否为资源不exists错误
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidInput 判断is否为无效输入错误
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsUpstream 判断is否为上游服务错误
func IsUpstream(err error) bool {
	return errors.Is(err, ErrUpstream)
}

// IsStoreIO 判断is否为存储读写错误
func IsStoreIO(err error) bool {
	return errors.Is(err, ErrStoreIO)
}

// IsTimeout 判断is否为流超时错误
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

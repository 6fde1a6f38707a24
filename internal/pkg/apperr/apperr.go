// internal/pkg/apperr/apperr.go
package apperr

import "errors"

// 错误类别。领域错误通过 Unwrap 归属到其中之一，接口层据此决定 HTTP 状态码。
var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidRequest = errors.New("invalid request")
)

// kindError 是带类别的领域错误，Error() 只返回面向调用方的消息。
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// NotFound 创建一个归类为 ErrNotFound 的错误
func NotFound(msg string) error {
	return &kindError{kind: ErrNotFound, msg: msg}
}

// InvalidRequest 创建一个归类为 ErrInvalidRequest 的错误
func InvalidRequest(msg string) error {
	return &kindError{kind: ErrInvalidRequest, msg: msg}
}

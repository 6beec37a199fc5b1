package apperr

import (
	"errors"
	"net/http"
)

// Error 结构化业务错误，Controller 统一映射为 HTTP 响应
type Error struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	cause      error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

// Unwrap 支持 errors.Is/As 透传底层错误
func (e *Error) Unwrap() error {
	return e.cause
}

// WithCause 附加底层错误
func (e *Error) WithCause(err error) *Error {
	clone := *e
	clone.cause = err
	return &clone
}

// Is 按错误码判等，errors.Is(err, apperr.NotFound("")) 可用
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// ==================== 错误码 ====================

const (
	CodeNotFound       = "NOT_FOUND"        // 商品/槽位/买家/图片不存在
	CodeInvalidInput   = "INVALID_INPUT"    // 参数不合法（配对数量、日别数解析等）
	CodeInvalidBuyers  = "INVALID_BUYERS"   // 买家不属于该商品或是临时买家
	CodeNoRowsToSplit  = "NO_ROWS_TO_SPLIT" // 在最后一行日结，没有可移动的槽位
	CodeNotPending     = "NOT_PENDING"      // 对非待审图片执行审核操作
	CodeStorageFailure = "STORAGE_FAILURE"  // 对象存储读写失败
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeForbidden      = "FORBIDDEN"
	CodeInternal       = "INTERNAL_ERROR"
)

// ==================== 构造函数 ====================

func NotFound(message string) *Error {
	if message == "" {
		message = "记录不存在"
	}
	return &Error{StatusCode: http.StatusNotFound, Code: CodeNotFound, Message: message}
}

func InvalidInput(message string) *Error {
	return &Error{StatusCode: http.StatusBadRequest, Code: CodeInvalidInput, Message: message}
}

func InvalidBuyers(message string) *Error {
	return &Error{StatusCode: http.StatusBadRequest, Code: CodeInvalidBuyers, Message: message}
}

// NoRowsToSplit 日结拆分无可移动行，属用户操作问题而非系统错误
func NoRowsToSplit(message string) *Error {
	if message == "" {
		message = "最后一行无法日结，没有可移动的槽位"
	}
	return &Error{StatusCode: http.StatusConflict, Code: CodeNoRowsToSplit, Message: message}
}

func NotPending(message string) *Error {
	if message == "" {
		message = "该图片不在待审状态"
	}
	return &Error{StatusCode: http.StatusConflict, Code: CodeNotPending, Message: message}
}

func StorageFailure(message string) *Error {
	if message == "" {
		message = "文件存储失败"
	}
	return &Error{StatusCode: http.StatusBadGateway, Code: CodeStorageFailure, Message: message}
}

func Unauthorized(message string) *Error {
	if message == "" {
		message = "未登录或登录已过期"
	}
	return &Error{StatusCode: http.StatusUnauthorized, Code: CodeUnauthorized, Message: message}
}

func Forbidden(message string) *Error {
	if message == "" {
		message = "没有操作权限"
	}
	return &Error{StatusCode: http.StatusForbidden, Code: CodeForbidden, Message: message}
}

func Internal(message string) *Error {
	if message == "" {
		message = "服务内部错误"
	}
	return &Error{StatusCode: http.StatusInternalServerError, Code: CodeInternal, Message: message}
}

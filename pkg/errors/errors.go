package errors

import (
	"errors"
	"fmt"
)

// Kind 业务错误分类，由传输层映射为 HTTP 状态码
type Kind string

const (
	KindValidation        Kind = "validation"
	KindForbidden         Kind = "forbidden"
	KindNotFound          Kind = "not_found"
	KindConflict          Kind = "conflict"
	KindInvalidTransition Kind = "invalid_transition"
	KindPersistence       Kind = "persistence"
)

// Error 带分类的业务错误
// Message 面向调用方；Err 保留底层原因，仅用于日志
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New 创建无底层原因的业务错误（通常作为包级哨兵错误）
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap 以指定分类包装底层错误
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf 沿错误链解析分类；未分类错误视为持久化错误
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindPersistence
}

// IsTyped 判断错误链中是否已带有分类
func IsTyped(err error) bool {
	var e *Error
	return errors.As(err, &e)
}

// Message 返回面向调用方的错误描述
// 带底层原因的错误只暴露 Message；哨兵错误被 fmt.Errorf("%w: ...") 追加细节时返回完整文本
func Message(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return "服务器内部错误"
	}
	if e.Err != nil {
		return e.Message
	}
	return err.Error()
}

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = New(KindConflict, "数据已被其他操作修改，请刷新后重试")

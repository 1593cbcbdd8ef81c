package apperr

import (
	"errors"
	"fmt"
)

// Kind طبقه‌بندی خطاهای برنامه؛ لایه HTTP از روی آن status را انتخاب می‌کند
type Kind string

const (
	KindNotFound        Kind = "not_found"
	KindAuthorization   Kind = "forbidden"
	KindValidation      Kind = "validation"
	KindStorage         Kind = "storage"
	KindConflict        Kind = "conflict"
	KindUnauthenticated Kind = "unauthenticated"
	KindTooLarge        Kind = "too_large"
	KindInternal        Kind = "internal"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" && e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, fmt.Sprintf(format, args...), nil)
}

func Forbidden(format string, args ...any) *Error {
	return New(KindAuthorization, fmt.Sprintf(format, args...), nil)
}

func Invalid(format string, args ...any) *Error {
	return New(KindValidation, fmt.Sprintf(format, args...), nil)
}

func Conflict(format string, args ...any) *Error {
	return New(KindConflict, fmt.Sprintf(format, args...), nil)
}

func Unauthenticated(format string, args ...any) *Error {
	return New(KindUnauthenticated, fmt.Sprintf(format, args...), nil)
}

// Storage خطای ورودی/خروجی فایل را همراه علت اصلی نگه می‌دارد
func Storage(msg string, err error) *Error {
	return New(KindStorage, msg, err)
}

// KindOf نوع خطا را برمی‌گرداند؛ خطاهای ناشناخته internal هستند
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// MessageOf پیام قابل نمایش به کاربر بدون علت داخلی
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return err.Error()
}

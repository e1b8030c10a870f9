package perrors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
)

type ErrCode struct {
	Code string `json:"code"`
}

var (
	ErrCodeInvalidRequest     ErrCode = ErrCode{"invalid_request"}
	ErrCodeNotFound                   = ErrCode{"not_found"}
	ErrCodeConflict                   = ErrCode{"conflict"}
	ErrCodeNotConfigured              = ErrCode{"not_configured"}
	ErrCodeTimeout                    = ErrCode{"timeout"}
	ErrCodePersistenceFailure         = ErrCode{"persistence_failure"}
	ErrCodeInternal                   = ErrCode{"internal_error"}
)

type Err struct {
	Message    string                   `json:"-"`
	Err        string                   `json:"error"`
	Code       ErrCode                  `json:"-"`
	Stacktrace []string                 `json:"-"`
	Args       []map[string]interface{} `json:"args"`
}

func (e Err) Error() string {
	return e.Err
}

func (e Err) Print(ctx context.Context) {
	args := append([]any{}, slog.Any("error", e.Error()), slog.String("code", e.Code.Code))
	if len(e.Args) > 0 {
		for k, v := range e.Args[0] {
			args = append(args, slog.Any(k, v))
		}
	}
	args = append(args, slog.Any("stacktrace", e.Stacktrace))
	slog.ErrorContext(ctx, e.Message, args...)
}

// Is reports whether err carries the given taxonomy code.
func Is(err error, code ErrCode) bool {
	var e Err
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

func New(code ErrCode, msg string, err error, args ...map[string]interface{}) error {
	pc := make([]uintptr, 20)
	count := runtime.Callers(1, pc)
	frames := runtime.CallersFrames(pc[:count])

	var stacktrace []string
	for frame, hasMore := frames.Next(); hasMore; frame, hasMore = frames.Next() {
		stacktrace = append(stacktrace, fmt.Sprintf("%s:%d", frame.File, frame.Line))
	}

	errString := msg
	if err != nil {
		errString = err.Error()
	}

	return Err{
		Code:       code,
		Message:    msg,
		Err:        errString,
		Stacktrace: stacktrace,
		Args:       args,
	}
}

func NewErrInvalidRequest(msg string, err error, args ...map[string]interface{}) error {
	return New(ErrCodeInvalidRequest, msg, err, args...)
}

func NewErrNotFound(msg string, err error, args ...map[string]interface{}) error {
	return New(ErrCodeNotFound, msg, err, args...)
}

func NewErrConflict(msg string, err error, args ...map[string]interface{}) error {
	return New(ErrCodeConflict, msg, err, args...)
}

func NewErrNotConfigured(msg string, args ...map[string]interface{}) error {
	return New(ErrCodeNotConfigured, msg, nil, args...)
}

func NewErrTimeout(msg string, err error, args ...map[string]interface{}) error {
	return New(ErrCodeTimeout, msg, err, args...)
}

func NewErrPersistenceFailure(msg string, err error, args ...map[string]interface{}) error {
	return New(ErrCodePersistenceFailure, msg, err, args...)
}

func NewErrInternal(msg string, err error, args ...map[string]interface{}) error {
	return New(ErrCodeInternal, msg, err, args...)
}

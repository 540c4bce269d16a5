package fsm

import (
	"encoding/json"
	"fmt"
)

// ErrorLevel level type
type Level uint32

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "debug"
	case InfoLevel:
		return "info"
	case WarnLevel:
		return "warn"
	case ErrorLevel:
		return "error"
	default:
		return "undefined level"
	}
}

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// FsmError is returned by machine callbacks. It may carry a cause that is
// reachable with errors.Is.
type FsmError struct {
	level   Level
	message string
	cause   error
}

func (e *FsmError) Error() string {
	return e.level.String() + ": " + e.message
}

func (e *FsmError) Unwrap() error {
	return e.cause
}

func (e *FsmError) Level() Level {
	return e.level
}

func (e *FsmError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Level   Level  `json:"level"`
		Message string `json:"message"`
	}{
		Level:   e.level,
		Message: e.message,
	})
}

func NewErr(level Level, message string) *FsmError {
	return &FsmError{
		level:   level,
		message: message,
	}
}

func NewErrf(level Level, format string, values ...interface{}) *FsmError {
	if len(values) == 0 {
		return &FsmError{
			level:   level,
			message: format,
		}
	}
	return &FsmError{
		level:   level,
		message: fmt.Sprintf(format, values...),
	}
}

// WrapErrf is NewErrf with a cause.
func WrapErrf(level Level, cause error, format string, values ...interface{}) *FsmError {
	e := NewErrf(level, format, values...)
	e.cause = cause
	if cause != nil {
		e.message = e.message + ": " + cause.Error()
	}
	return e
}

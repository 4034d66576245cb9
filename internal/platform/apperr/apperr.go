// Package apperr define la taxonomía de errores que devuelven los motores de dominio
// (adopciones, actividades) y su traducción a HTTP.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindConflict          Kind = "conflict"
	KindForbidden         Kind = "forbidden"
	KindInvalidTransition Kind = "invalid_transition"
	KindInvalidState      Kind = "invalid_state"
	KindValidation        Kind = "validation"
	KindPartialFailure    Kind = "partial_failure"
)

// Sentinels por kind, para usar con errors.Is(err, apperr.ErrConflict).
var (
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrConflict          = &Error{Kind: KindConflict}
	ErrForbidden         = &Error{Kind: KindForbidden}
	ErrInvalidTransition = &Error{Kind: KindInvalidTransition}
	ErrInvalidState      = &Error{Kind: KindInvalidState}
	ErrValidation        = &Error{Kind: KindValidation}
	ErrPartialFailure    = &Error{Kind: KindPartialFailure}
)

// Error es un fallo tipado: kind + campo/estado ofensor para que el caller
// pueda armar un mensaje accionable.
type Error struct {
	Kind    Kind
	Field   string
	State   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.Kind))
	if e.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Message)
	}
	if e.Field != "" {
		sb.WriteString(" (field=" + e.Field + ")")
	}
	if e.State != "" {
		sb.WriteString(" (state=" + e.State + ")")
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is compara por kind: cualquier *Error del mismo kind matchea el sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Wrap adjunta la causa (p.ej. un sentinel de storage) sin cambiar el kind.
func (e *Error) Wrap(cause error) *Error {
	e.Err = cause
	return e
}

func NotFound(field, format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Field: field, Message: fmt.Sprintf(format, args...)}
}

func Conflict(field, format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Field: field, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...any) *Error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func InvalidTransition(from, to string) *Error {
	return &Error{
		Kind:    KindInvalidTransition,
		Field:   "status",
		State:   from,
		Message: fmt.Sprintf("cannot move from %s to %s", from, to),
	}
}

func InvalidState(state, format string, args ...any) *Error {
	return &Error{Kind: KindInvalidState, State: state, Message: fmt.Sprintf(format, args...)}
}

func Validation(field, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: fmt.Sprintf(format, args...)}
}

func PartialFailure(cause error, format string, args ...any) *Error {
	return &Error{Kind: KindPartialFailure, Message: fmt.Sprintf(format, args...), Err: cause}
}

// KindOf devuelve el kind del primer *Error en la cadena, o "" si no hay.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// HTTPStatus traduce el kind a status HTTP. Errores sin kind => 500.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict, KindInvalidTransition, KindInvalidState:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	case KindValidation:
		return http.StatusBadRequest
	case KindPartialFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Body es el cuerpo JSON de error que devuelven los handlers.
type Body struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
	State   string `json:"state,omitempty"`
}

// ToBody arma el cuerpo de error. Para errores sin kind no se filtra el detalle interno.
func ToBody(err error) Body {
	var e *Error
	if !errors.As(err, &e) {
		return Body{Error: "internal", Message: "internal error"}
	}
	msg := e.Message
	if e.Kind == KindPartialFailure && e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	return Body{
		Error:   string(e.Kind),
		Message: msg,
		Field:   e.Field,
		State:   e.State,
	}
}

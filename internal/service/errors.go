package service

import (
	"fmt"
	"sort"
	"strings"
)

// Kind classifies a service failure for the API layer.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindPermission
	KindAuthentication
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindPermission:
		return "permission_denied"
	case KindAuthentication:
		return "authentication_failed"
	default:
		return "unknown"
	}
}

// Error is the typed failure returned by every service operation that the
// caller can act on. Anything else returned by a service is unexpected.
type Error struct {
	Kind    Kind
	Message string
	// Fields carries per-field validation messages, keyed by json name.
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteString(": ")
	b.WriteString(e.Message)
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " [%s: %s]", k, e.Fields[k])
		}
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

func ValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// FieldError is a validation error for a single field.
func FieldError(field, message string) *Error {
	return &Error{Kind: KindValidation, Message: "Validation error", Fields: map[string]string{field: message}}
}

func NotFoundError(message string, err error) *Error {
	return &Error{Kind: KindNotFound, Message: message, Err: err}
}

func PermissionError(message string) *Error {
	return &Error{Kind: KindPermission, Message: message}
}

func AuthenticationError(message string, err error) *Error {
	return &Error{Kind: KindAuthentication, Message: message, Err: err}
}

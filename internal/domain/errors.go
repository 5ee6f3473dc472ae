package domain

import "errors"

// ErrorKind is the stable machine-readable code surfaced to API clients.
type ErrorKind string

const (
	KindDuplicateEmail         ErrorKind = "DUPLICATE_EMAIL"
	KindInvalidRequest         ErrorKind = "INVALID_REQUEST"
	KindValidationFailed       ErrorKind = "VALIDATION_FAILED"
	KindUnauthorized           ErrorKind = "UNAUTHORIZED"
	KindForbidden              ErrorKind = "FORBIDDEN"
	KindResourceNotFound       ErrorKind = "RESOURCE_NOT_FOUND"
	KindUserNotFound           ErrorKind = "USER_NOT_FOUND"
	KindMalformedToken         ErrorKind = "MALFORMED_TOKEN"
	KindTokenExpired           ErrorKind = "TOKEN_EXPIRED"
	KindInvalidTempToken       ErrorKind = "INVALID_TEMP_TOKEN"
	KindOAuthAttributesMissing ErrorKind = "OAUTH_ATTRIBUTES_MISSING"
)

// Error is an expected, user-facing failure. Two errors match under
// errors.Is when their kinds are equal, regardless of message.
type Error struct {
	Kind    ErrorKind
	Message string
}

func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrDuplicateEmail         = NewError(KindDuplicateEmail, "email is already in use")
	ErrInvalidRequest         = NewError(KindInvalidRequest, "invalid request")
	ErrUnauthorized           = NewError(KindUnauthorized, "authentication required")
	ErrForbidden              = NewError(KindForbidden, "access denied")
	ErrResourceNotFound       = NewError(KindResourceNotFound, "resource not found")
	ErrUserNotFound           = NewError(KindUserNotFound, "user not found")
	ErrMalformedToken         = NewError(KindMalformedToken, "token is malformed or untrusted")
	ErrTokenExpired           = NewError(KindTokenExpired, "token is expired")
	ErrInvalidTempToken       = NewError(KindInvalidTempToken, "temporary token is invalid")
	ErrOAuthAttributesMissing = NewError(KindOAuthAttributesMissing, "provider did not return the required user attributes")
)

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return "", false
}

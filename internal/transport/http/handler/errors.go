package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/vitaltrip-auth/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	errInternalServer   = "Internal server error"
	errValidationFailed = "Request validation failed"
	errMalformedBody    = "Request body is malformed"
)

const kindInternal domain.ErrorKind = "INTERNAL_SERVER_ERROR"

func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindDuplicateEmail:
		return http.StatusConflict
	case domain.KindInvalidRequest, domain.KindValidationFailed, domain.KindOAuthAttributesMissing:
		return http.StatusBadRequest
	case domain.KindUnauthorized, domain.KindInvalidTempToken, domain.KindMalformedToken, domain.KindTokenExpired:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindResourceNotFound, domain.KindUserNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders a domain error with its mapped status. Anything else is
// logged and hidden behind a generic 500.
func writeError(c *gin.Context, logger *slog.Logger, op string, err error) {
	var de *domain.Error
	if errors.As(err, &de) {
		if status := statusFor(de.Kind); status != http.StatusInternalServerError {
			respondError(c, status, de.Kind, de.Message)
			return
		}
	}
	logger.ErrorContext(c.Request.Context(), op, "error", err)
	respondError(c, http.StatusInternalServerError, kindInternal, errInternalServer)
}

// writeBindError reports a request that failed to decode or validate.
// Validation failures list the offending fields with the rule they broke.
func writeBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		respondError(c, http.StatusBadRequest, domain.KindInvalidRequest, errMalformedBody)
		return
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = ruleMessage(fe)
	}
	c.JSON(http.StatusBadRequest, envelope{
		Message:   errValidationFailed,
		Data:      fields,
		ErrorCode: string(domain.KindValidationFailed),
	})
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "password":
		return "must be 8-72 characters with a lowercase letter, a digit and one of @$!%*?&"
	case "country":
		return "must be a two-letter upper-case country code (e.g. KR, US)"
	case "phone":
		return "must be a valid phone number (e.g. +821012345678)"
	case "pastdate":
		return "must be a YYYY-MM-DD date in the past"
	default:
		return "is invalid"
	}
}

package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hankerbiao/Registration-System/internal/model"
)

// ValidationIssue describes one rejected request field
type ValidationIssue struct {
	Msg  string   `json:"msg"`
	Loc  []string `json:"loc"`
	Type string   `json:"type"`
}

// ErrorResponse is the body of every error response. Detail is either a
// string or a list of ValidationIssue.
type ErrorResponse struct {
	Detail any `json:"detail"`
}

// Error combines an HTTP status code with a response detail
type Error struct {
	Status int
	Detail any
}

// Error implements error interface
func (e *Error) Error() string {
	switch d := e.Detail.(type) {
	case string:
		return d
	case []ValidationIssue:
		if len(d) > 0 {
			return d[0].Msg
		}
	}
	return http.StatusText(e.Status)
}

// New creates an error with a plain string detail
func New(status int, detail string) *Error {
	return &Error{Status: status, Detail: detail}
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.Status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Detail: he.Detail})
}

// Override replaces the default detail for target with status and detail
// when err matches it; otherwise err is returned unchanged
func Override(err, target error, status int, detail string) error {
	if errors.Is(err, target) {
		return New(status, detail)
	}
	return err
}

// toHTTPError converts an error to an Error
func toHTTPError(err error) *Error {
	// Check for specific error types
	var he *Error
	if errors.As(err, &he) {
		return he
	}

	switch {
	// Auth errors
	case errors.Is(err, model.ErrUnauthenticated):
		return New(http.StatusForbidden, "Could not validate credentials")
	case errors.Is(err, model.ErrInvalidCredentials):
		return New(http.StatusBadRequest, "Incorrect email or password")
	case errors.Is(err, model.ErrInvalidToken):
		return New(http.StatusBadRequest, "Invalid token")
	case errors.Is(err, model.ErrInactiveUser):
		return New(http.StatusBadRequest, "Inactive user")
	case errors.Is(err, model.ErrForbidden):
		return New(http.StatusForbidden, "The user doesn't have enough privileges")

	// User errors
	case errors.Is(err, model.ErrUserNotFound):
		return New(http.StatusNotFound, "User not found")
	case errors.Is(err, model.ErrEmailExists):
		return New(http.StatusBadRequest, "The user with this email already exists in the system.")
	case errors.Is(err, model.ErrEmailConflict):
		return New(http.StatusConflict, "User with this email already exists")
	case errors.Is(err, model.ErrIncorrectPassword):
		return New(http.StatusBadRequest, "Incorrect password")
	case errors.Is(err, model.ErrSamePassword):
		return New(http.StatusBadRequest, "New password cannot be the same as the current one")
	case errors.Is(err, model.ErrSuperuserSelfDelete):
		return New(http.StatusForbidden, "Super users are not allowed to delete themselves")

	// Athlete errors
	case errors.Is(err, model.ErrAthleteNotFound):
		return New(http.StatusNotFound, "Athlete not found")
	case errors.Is(err, model.ErrIDNumberExists):
		return New(http.StatusBadRequest, "An athlete with this ID number already exists in the system.")
	case errors.Is(err, model.ErrIDNumberConflict):
		return New(http.StatusConflict, "Athlete with this ID number already exists")
	case errors.Is(err, model.ErrInvalidAthleteData):
		return &Error{http.StatusUnprocessableEntity, []ValidationIssue{{
			Msg:  strings.TrimPrefix(err.Error(), model.ErrInvalidAthleteData.Error()+": "),
			Loc:  []string{"body"},
			Type: "value_error",
		}}}

	case errors.Is(err, model.ErrFormNotFound):
		return New(http.StatusNotFound, "文件不存在")

	default:
		return NewInternalError()
	}
}

// NewInvalidRequestError creates a 422 error for a body that could not be decoded
func NewInvalidRequestError(message string) error {
	return &Error{http.StatusUnprocessableEntity, []ValidationIssue{{
		Msg:  message,
		Loc:  []string{"body"},
		Type: "json_invalid",
	}}}
}

// NewTooManyRequestsError creates a rate limit error
func NewTooManyRequestsError() error {
	return New(http.StatusTooManyRequests, "Too many requests")
}

// NewInternalError creates an internal server error
func NewInternalError() *Error {
	return New(http.StatusInternalServerError, "Internal server error")
}

// FromValidation converts validator failures for a request located at loc
// ("body", "query") into a 422 error listing every rejected field
func FromValidation(loc string, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	issues := make([]ValidationIssue, 0, len(verrs))
	for _, fe := range verrs {
		msg, typ := describe(fe)
		issues = append(issues, ValidationIssue{
			Msg:  msg,
			Loc:  []string{loc, fe.Field()},
			Type: typ,
		})
	}
	return &Error{Status: http.StatusUnprocessableEntity, Detail: issues}
}

func describe(fe validator.FieldError) (string, string) {
	switch fe.Tag() {
	case "required":
		return "Field required", "missing"
	case "email":
		return "value is not a valid email address", "value_error"
	case "min":
		return fmt.Sprintf("String should have at least %s characters", fe.Param()), "string_too_short"
	case "max":
		return fmt.Sprintf("String should have at most %s characters", fe.Param()), "string_too_long"
	case "gte":
		return fmt.Sprintf("Input should be greater than or equal to %s", fe.Param()), "greater_than_equal"
	case "option":
		return fmt.Sprintf("Input should be one of the %s options", fe.Param()), "enum"
	default:
		return fmt.Sprintf("Field failed %q validation", fe.Tag()), "value_error"
	}
}

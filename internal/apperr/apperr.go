// Package apperr defines the business-rule failures returned by the club
// operations core. Infrastructure failures are plain wrapped errors and never
// carry a Code.
package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

type Code string

const (
	CodeUnauthorized      Code = "UNAUTHORIZED"
	CodeLastAdmin         Code = "LAST_ADMIN"
	CodeClubMismatch      Code = "CLUB_MISMATCH"
	CodeTeamFull          Code = "TEAM_FULL"
	CodeDuplicateEvent    Code = "DUPLICATE_EVENT"
	CodeAlreadyAssigned   Code = "ALREADY_ASSIGNED"
	CodeEventCapExceeded  Code = "EVENT_CAP_EXCEEDED"
	CodeNoBudget          Code = "NO_BUDGET"
	CodeBudgetExceeded    Code = "BUDGET_EXCEEDED"
	CodeValidation        Code = "VALIDATION"
	CodeNotFound          Code = "NOT_FOUND"
	CodeInvalidTransition Code = "INVALID_TRANSITION"
	CodeConflict          Code = "CONFLICT"
)

type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

type Error struct {
	Code      Code             `json:"code"`
	Message   string           `json:"error"`
	Fields    []FieldError     `json:"fields,omitempty"`
	Remaining *decimal.Decimal `json:"remaining,omitempty"`
	Requested *decimal.Decimal `json:"requested,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(message string) *Error {
	return New(CodeUnauthorized, message)
}

func NotFound(what string) *Error {
	return Newf(CodeNotFound, "%s not found", what)
}

// BudgetExceeded carries the amounts a client needs to render the rejection.
func BudgetExceeded(remaining, requested decimal.Decimal) *Error {
	return &Error{
		Code:      CodeBudgetExceeded,
		Message:   fmt.Sprintf("requested %s exceeds remaining budget %s", requested.StringFixed(2), remaining.StringFixed(2)),
		Remaining: &remaining,
		Requested: &requested,
	}
}

func Conflict(message string) *Error {
	return New(CodeConflict, message)
}

// As extracts a business error from an error chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	e, ok := As(err)
	return ok && e.Code == code
}

// HTTPStatus maps a code to the status used at the HTTP boundary. Uncoded
// errors are infrastructure failures.
func HTTPStatus(err error) int {
	e, ok := As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch e.Code {
	case CodeUnauthorized, CodeLastAdmin:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

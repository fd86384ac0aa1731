package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"colorcrash/internal/domain"
)

// Response represents a standardized API response
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// SuccessResponse sends a success response
func SuccessResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{Status: "success", Data: data})
}

// CreatedResponse sends a 201 Created response
func CreatedResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, Response{Status: "success", Data: data})
}

// ErrorResponse sends an error response
func ErrorResponse(c echo.Context, statusCode int, message string) error {
	return c.JSON(statusCode, Response{Status: "error", Message: message})
}

// DomainErrorResponse maps ledger/auth errors onto HTTP statuses: validation
// 400, state conflicts 409, missing funds 402, not-found 404, bad
// credentials 401. Anything unrecognized is a 500.
func DomainErrorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrUnknownColor),
		errors.Is(err, domain.ErrInvalidPhone),
		errors.Is(err, domain.ErrWeakPassword),
		errors.Is(err, domain.ErrInvalidReferral),
		errors.Is(err, domain.ErrOTPMismatch),
		errors.Is(err, domain.ErrOTPExpired),
		errors.Is(err, domain.ErrPhoneNotVerified):
		return ErrorResponse(c, http.StatusBadRequest, err.Error())

	case errors.Is(err, domain.ErrBettingClosed),
		errors.Is(err, domain.ErrRoundMismatch),
		errors.Is(err, domain.ErrDuplicateBet),
		errors.Is(err, domain.ErrNotBetOwner),
		errors.Is(err, domain.ErrAlreadySettled),
		errors.Is(err, domain.ErrPhoneTaken):
		return ErrorResponse(c, http.StatusConflict, err.Error())

	case errors.Is(err, domain.ErrInsufficientFunds):
		return ErrorResponse(c, http.StatusPaymentRequired, err.Error())

	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrRoundNotFound),
		errors.Is(err, domain.ErrBetNotFound),
		errors.Is(err, domain.ErrOTPNotFound):
		return ErrorResponse(c, http.StatusNotFound, err.Error())

	case errors.Is(err, domain.ErrInvalidCredentials):
		return ErrorResponse(c, http.StatusUnauthorized, err.Error())
	}

	return c.JSON(http.StatusInternalServerError, Response{
		Status:  "error",
		Message: "internal error",
		Error:   err.Error(),
	})
}

// BadRequestResponse sends a 400 Bad Request response
func BadRequestResponse(c echo.Context, message string) error {
	return ErrorResponse(c, http.StatusBadRequest, message)
}

// UnauthorizedResponse sends a 401 Unauthorized response
func UnauthorizedResponse(c echo.Context, message string) error {
	return ErrorResponse(c, http.StatusUnauthorized, message)
}

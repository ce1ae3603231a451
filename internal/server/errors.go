package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	catalogdomain "github.com/pdv88/quoteDrop-webapp/internal/catalog/domain"
	clientdomain "github.com/pdv88/quoteDrop-webapp/internal/client/domain"
	quotedomain "github.com/pdv88/quoteDrop-webapp/internal/quote/domain"
	userdomain "github.com/pdv88/quoteDrop-webapp/internal/user/domain"
)

type apiError struct {
	status  int
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (e *apiError) Error() string { return e.Code }

var (
	ErrUnauthorized    = &apiError{status: http.StatusUnauthorized, Code: "unauthorized", Message: "authentication required"}
	ErrNotFound        = &apiError{status: http.StatusNotFound, Code: "not_found", Message: "resource not found"}
	ErrTooManyRequests = &apiError{status: http.StatusTooManyRequests, Code: "rate_limited", Message: "too many requests"}
)

func invalidRequestError() *apiError {
	return &apiError{status: http.StatusBadRequest, Code: "invalid_request", Message: "malformed request body"}
}

func newValidationError(field, code, message string) *apiError {
	return &apiError{status: http.StatusBadRequest, Code: code, Message: message, Field: field}
}

// AbortWithError maps service errors onto HTTP responses. Unknown errors
// become opaque 500s so internals never leak to clients.
func AbortWithError(c *gin.Context, err error) {
	var api *apiError
	if errors.As(err, &api) {
		c.AbortWithStatusJSON(api.status, gin.H{"error": api})
		return
	}

	status := statusForError(err)
	body := &apiError{status: status, Code: err.Error()}
	if status == http.StatusInternalServerError {
		body.Code = "internal_error"
		body.Message = "internal server error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": body})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, userdomain.ErrNotFound),
		errors.Is(err, clientdomain.ErrNotFound),
		errors.Is(err, catalogdomain.ErrNotFound),
		errors.Is(err, quotedomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, userdomain.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, userdomain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, userdomain.ErrInvalidEmail),
		errors.Is(err, userdomain.ErrInvalidPassword),
		errors.Is(err, userdomain.ErrInvalidTaxRate),
		errors.Is(err, userdomain.ErrInvalidID),
		errors.Is(err, clientdomain.ErrInvalidUser),
		errors.Is(err, clientdomain.ErrInvalidID),
		errors.Is(err, clientdomain.ErrInvalidName),
		errors.Is(err, clientdomain.ErrInvalidEmail),
		errors.Is(err, catalogdomain.ErrInvalidUser),
		errors.Is(err, catalogdomain.ErrInvalidID),
		errors.Is(err, catalogdomain.ErrInvalidName),
		errors.Is(err, catalogdomain.ErrInvalidUnitCost),
		errors.Is(err, quotedomain.ErrInvalidUser),
		errors.Is(err, quotedomain.ErrInvalidID),
		errors.Is(err, quotedomain.ErrInvalidClient),
		errors.Is(err, quotedomain.ErrInvalidItems),
		errors.Is(err, quotedomain.ErrInvalidQuantity),
		errors.Is(err, quotedomain.ErrInvalidUnitCost),
		errors.Is(err, quotedomain.ErrInvalidTaxRate),
		errors.Is(err, quotedomain.ErrInvalidStatus),
		errors.Is(err, quotedomain.ErrInvalidTemplate):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

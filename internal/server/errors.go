package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	authdomain "github.com/namora-app/namora/internal/auth/domain"
	"github.com/namora-app/namora/internal/namegen"
	paymentdomain "github.com/namora-app/namora/internal/payment/domain"
	profiledomain "github.com/namora-app/namora/internal/profile/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidRequest = errors.New("invalid_request")
	ErrRateLimited    = errors.New("rate_limited")
)

// ErrorHandlingMiddleware converts errors attached to the context into a
// JSON error body once the handler chain is done.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{Field: field, Code: code, Message: message},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	var upstream *namegen.UpstreamError
	if errors.As(err, &upstream) {
		return http.StatusBadGateway, errorPayload{
			Type:    "upstream_error",
			Message: "name generation service failed",
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrInvalidCredentials),
		errors.Is(err, authdomain.ErrInvalidToken):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, profiledomain.ErrInsufficientCredits):
		return http.StatusPaymentRequired, errorPayload{
			Type:    "payment_required",
			Message: "insufficient credits",
		}
	case errors.Is(err, authdomain.ErrInvalidEmail):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{Field: "email", Code: "invalid_email", Message: "email is invalid"},
			},
		}
	case errors.Is(err, authdomain.ErrInvalidPassword):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{Field: "password", Code: "invalid_password", Message: "password must be at least 8 characters"},
			},
		}
	case errors.Is(err, paymentdomain.ErrInvalidPackage):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{Field: "credits", Code: "invalid_package", Message: "unknown credit package"},
			},
		}
	case errors.Is(err, paymentdomain.ErrInvalidPageToken):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{Field: "page_token", Code: "invalid_page_token", Message: "page token is invalid"},
			},
		}
	case errors.Is(err, paymentdomain.ErrInvalidSignature),
		errors.Is(err, paymentdomain.ErrOrderMismatch):
		return http.StatusBadRequest, errorPayload{
			Type:    "invalid_signature",
			Message: "payment verification failed",
		}
	case errors.Is(err, paymentdomain.ErrAlreadyProcessed):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "payment already processed",
		}
	case errors.Is(err, authdomain.ErrUserExists):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "an account with this email already exists",
		}
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "rate_limited",
			Message: "too many requests",
		}
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
		}
	case errors.Is(err, profiledomain.ErrNotFound),
		errors.Is(err, paymentdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, namegen.ErrWebhookNotConfigured):
		return http.StatusBadGateway, errorPayload{
			Type:    "upstream_error",
			Message: "name generation service is not configured",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

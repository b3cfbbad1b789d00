package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
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

var (
	ErrInvoiceNotFound      = errors.New("invoice_not_found")
	ErrCreateInvoiceFailed  = errors.New("create_invoice_failed")
	ErrStatementUnavailable = errors.New("statement_unavailable")
	ErrInvalidRequest       = errors.New("invalid_request")
	ErrRateLimited          = errors.New("rate_limited")
)

// errorClass carries everything derived from a request error: the response
// status and message plus the type/code pair stamped on the access log.
type errorClass struct {
	status  int
	message string
	kind    string
	code    string
}

var errorClasses = []struct {
	sentinel error
	class    errorClass
}{
	{ErrInvalidRequest, errorClass{http.StatusBadRequest, "invalid request", "validation_error", "invalid_request"}},
	{ErrInvoiceNotFound, errorClass{http.StatusNotFound, "invoice not found", "not_found", "invoice_not_found"}},
	{ErrCreateInvoiceFailed, errorClass{http.StatusInternalServerError, "failed to create invoice", "internal_error", "create_invoice_failed"}},
	{ErrStatementUnavailable, errorClass{http.StatusInternalServerError, "failed to render statement", "internal_error", "statement_unavailable"}},
	{ErrRateLimited, errorClass{http.StatusTooManyRequests, "rate limit exceeded", "rate_limited", "write_rate"}},
}

func classify(err error) errorClass {
	if vErr := asValidationErrors(err); vErr != nil {
		return errorClass{
			status:  http.StatusBadRequest,
			message: validationMessage(vErr),
			kind:    "validation_error",
			code:    validationCode(vErr),
		}
	}
	for _, entry := range errorClasses {
		if errors.Is(err, entry.sentinel) {
			return entry.class
		}
	}
	return errorClass{http.StatusInternalServerError, "internal server error", "internal_error", "internal_error"}
}

// ErrorHandlingMiddleware renders the last request error as the response
// envelope once the handler chain finishes.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil || c.Writer.Written() {
			return
		}
		cls := classify(last.Err)
		c.AbortWithStatusJSON(cls.status, apiResponse{Success: false, Error: cls.message})
	}
}

// classifyErrorForLog labels request errors for the access log.
func classifyErrorForLog(err error) (string, string) {
	cls := classify(err)
	return cls.kind, cls.code
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	c.Abort()
	_ = c.Error(err)
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{Errors: []ValidationError{{Field: field, Code: code, Message: message}}}
}

func validationMessage(vErr *ValidationErrors) string {
	if len(vErr.Errors) == 0 {
		return "invalid request"
	}
	parts := make([]string, 0, len(vErr.Errors))
	for _, item := range vErr.Errors {
		parts = append(parts, item.Message)
	}
	return strings.Join(parts, "; ")
}

func validationCode(vErr *ValidationErrors) string {
	if len(vErr.Errors) > 0 && vErr.Errors[0].Code != "" {
		return vErr.Errors[0].Code
	}
	return "invalid_request"
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

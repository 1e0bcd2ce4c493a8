package service

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ErrorKind string

const (
	KindInternal   ErrorKind = "internal"
	KindBadRequest ErrorKind = "bad_request"
)

const internalErrorMessage = "Sorry! There was an unexpected error on the server."

// HTTPError is the payload handlers attach to the gin context when a request
// cannot be answered. ErrorRenderer turns it into the error page.
type HTTPError struct {
	Status  int
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *HTTPError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func InternalError(err error) *HTTPError {
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Kind:    KindInternal,
		Message: internalErrorMessage,
		Err:     err,
	}
}

func BadRequest(err error) *HTTPError {
	return &HTTPError{
		Status:  http.StatusBadRequest,
		Kind:    KindBadRequest,
		Message: "Sorry! The submitted form could not be read.",
		Err:     err,
	}
}

// abortWith hands err to ErrorRenderer. Nothing may be written to the
// response afterwards.
func abortWith(c *gin.Context, err *HTTPError) {
	_ = c.Error(err)
	c.Abort()
}

// ErrorRenderer is the single stage every route's failure flows through: it
// renders the last error attached to the context unless the handler already
// produced a response.
func ErrorRenderer(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		var httpErr *HTTPError
		if last := c.Errors.Last(); !errors.As(last.Err, &httpErr) {
			httpErr = InternalError(last.Err)
		}

		logger.ErrorContext(c.Request.Context(), "request failed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", httpErr.Status),
			slog.String("kind", string(httpErr.Kind)),
			slog.Any("error", httpErr.Err),
		)

		c.HTML(httpErr.Status, "error", gin.H{
			"title":   "Server Error",
			"status":  httpErr.Status,
			"message": httpErr.Message,
		})
	}
}

func PageNotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "page-not-found", gin.H{"title": "Page Not Found"})
}

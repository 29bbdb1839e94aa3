package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/buildco/cms-api/internal/core/domain"
)

// ErrorReporter forwards unexpected errors to an external tracker.
type ErrorReporter interface {
	Capture(ctx context.Context, err error, tags map[string]string)
}

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// kindStatus maps each domain error kind to its HTTP status code.
var kindStatus = []struct {
	kind error
	code int
}{
	{domain.ErrValidation, http.StatusBadRequest},
	{domain.ErrUnauthorized, http.StatusUnauthorized},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrConflict, http.StatusConflict},
	{domain.ErrTooManyRequests, http.StatusTooManyRequests},
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain errors to the status code of their kind.
//   - Logs and reports unexpected errors without leaking details to the client.
//   - Renders a consistent JSON envelope: {"success": false, "error": "<message>"}.
//
// reporter may be nil.
func NewHTTPErrorHandler(log zerolog.Logger, reporter ErrorReporter) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err)
		if code >= http.StatusInternalServerError {
			logUnexpected(log, reporter, c, err)
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error) (int, errorResponse) {
	// Known domain errors → the status of their kind, message verbatim.
	var de *domain.Error
	if errors.As(err, &de) {
		for _, ks := range kindStatus {
			if errors.Is(de.Kind, ks.kind) {
				return ks.code, errorResponse{Error: de.Message, Details: de.Details}
			}
		}
	}
	for _, ks := range kindStatus {
		if errors.Is(err, ks.kind) {
			return ks.code, errorResponse{Error: ks.kind.Error()}
		}
	}

	// Echo's own errors (bind failures, 404/405 from router, body limit, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok && m != "" {
			msg = m
		}
		if he.Code == http.StatusBadRequest && he.Internal != nil {
			msg = "invalid request body"
		}
		if he.Code >= http.StatusInternalServerError {
			msg = "internal server error"
		}
		return he.Code, errorResponse{Error: msg}
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return http.StatusBadRequest, errorResponse{Error: "validation failed", Details: validationDetails(ve)}
	}

	switch {
	case mongo.IsDuplicateKeyError(err):
		return http.StatusConflict, errorResponse{Error: domain.ErrDuplicateKey.Message}
	case errors.Is(err, primitive.ErrInvalidHex):
		return http.StatusBadRequest, errorResponse{Error: domain.ErrInvalidID.Message}
	}

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}

// logUnexpected logs the real cause and reports it; the client only ever
// sees the generic message.
func logUnexpected(log zerolog.Logger, reporter ErrorReporter, c echo.Context, err error) {
	req := c.Request()
	requestID := c.Response().Header().Get(echo.HeaderXRequestID)

	log.Error().
		Err(err).
		Str("method", req.Method).
		Str("path", c.Path()).
		Str("request_id", requestID).
		Msg("unhandled error")

	if reporter != nil {
		reporter.Capture(req.Context(), err, map[string]string{
			"method":     req.Method,
			"route":      c.Path(),
			"request_id": requestID,
			"status":     strconv.Itoa(http.StatusInternalServerError),
		})
	}
}

func validationDetails(ve validator.ValidationErrors) map[string]string {
	details := make(map[string]string, len(ve))
	for _, fe := range ve {
		details[fe.Field()] = fmt.Sprintf("failed on %s", fe.Tag())
	}
	return details
}

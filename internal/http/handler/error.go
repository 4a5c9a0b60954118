package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"legaldesk/internal/backend"
	"legaldesk/internal/http/middleware"
	"legaldesk/internal/service"
	"legaldesk/internal/session"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError writes a standardized JSON error response. message must be safe
// to show to clients.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: middleware.RequestIDFromCtx(c),
		Error:     errorEnvelope{Code: code, Message: message},
	})
}

// writeServiceError maps service and backend errors to the envelope.
func writeServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrAlreadyProcessing):
		return writeError(c, fiber.StatusConflict, "ALREADY_PROCESSING", "a document is already being processed")
	case errors.Is(err, service.ErrAnalysisCancelled):
		return writeError(c, fiber.StatusConflict, "ANALYSIS_CANCELLED", "the session was reset while the document was being analyzed")
	case errors.Is(err, service.ErrQuestionInFlight):
		return writeError(c, fiber.StatusConflict, "QUESTION_IN_FLIGHT", "a question is already being answered")
	case errors.Is(err, service.ErrNoDocument):
		return writeError(c, fiber.StatusConflict, "NO_DOCUMENT", "no document is open")
	case errors.Is(err, service.ErrNoAnalysis):
		return writeError(c, fiber.StatusConflict, "ANALYSIS_PENDING", "document analysis is not available yet")
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
	case errors.Is(err, service.ErrQuestionRequired):
		return writeError(c, fiber.StatusBadRequest, "QUERY_REQUIRED", "query is required")
	case errors.Is(err, service.ErrFilenameRequired), errors.Is(err, service.ErrReaderNil):
		return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
	case errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	case errors.Is(err, service.ErrStorageDisabled):
		return writeError(c, fiber.StatusNotImplemented, "STORAGE_DISABLED", "report storage is not configured")
	}

	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Kind == backend.KindTransport {
			return writeError(c, fiber.StatusBadGateway, "BACKEND_UNREACHABLE", "analysis service is unreachable")
		}
		return writeError(c, fiber.StatusBadGateway, "BACKEND_ERROR", apiErr.Message)
	}
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "FILE_TOO_LARGE", "request body too large")
		case fiber.StatusTooManyRequests:
			return writeError(c, status, "RATE_LIMITED", "too many requests")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}

// withSession runs h with the store attached by middleware.Session.
func withSession(h func(c *fiber.Ctx, st *session.Store) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st, ok := middleware.StoreFromCtx(c)
		if !ok {
			return writeError(c, fiber.StatusInternalServerError, "NO_SESSION", "session unavailable")
		}
		return h(c, st)
	}
}

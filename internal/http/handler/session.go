package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"legaldesk/internal/backend"
	"legaldesk/internal/model"
	"legaldesk/internal/service"
	"legaldesk/internal/session"
	"legaldesk/internal/transform"
)

// StatusResponse is the body of GET /session/status.
type StatusResponse struct {
	Status   *model.ProcessingStatus `json:"status"`
	Progress int                     `json:"progress"`
	Steps    []model.ProcessingStep  `json:"steps"`
}

// GetSession returns the caller's session state.
//
// @Summary Current session
// @Tags session
// @Produce json
// @Param X-Session-ID header string false "session id"
// @Success 200 {object} session.State
// @Router /session [get]
func GetSession() fiber.Handler {
	return withSession(func(c *fiber.Ctx, st *session.Store) error {
		return c.JSON(st.State())
	})
}

// AnalyzeDocument uploads a file for analysis (multipart/form-data, field name: file).
// Backend failures are answered with the error Result and the session's
// lastError message.
//
// @Summary Analyze a document
// @Tags session
// @Accept mpfd
// @Produce json
// @Param file formData file true "document"
// @Success 201 {object} backend.Result[model.Document]
// @Failure 409 {object} errorPayload
// @Failure 502 {object} backend.Result[model.Document]
// @Router /session/documents [post]
func AnalyzeDocument(svc service.AnalysisService) fiber.Handler {
	return withSession(func(c *fiber.Ctx, st *session.Store) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}
		upload := model.Upload{Filename: fh.Filename, Size: fh.Size, ContentType: ct}

		doc, err := svc.Analyze(c.UserContext(), st, upload, f)
		if err != nil {
			var apiErr *backend.APIError
			if errors.As(err, &apiErr) {
				msg := apiErr.Message
				if last := st.State().LastError; last != nil {
					msg = *last
				}
				return c.Status(fiber.StatusBadGateway).JSON(backend.Failure[model.Document](errors.New(msg)))
			}
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(backend.Success(*doc))
	})
}

// ListDocuments lists analyzed documents with limit & offset.
//
// @Summary Analyzed documents
// @Tags documents
// @Produce json
// @Param limit query int false "page size" default(10)
// @Param offset query int false "offset" default(0)
// @Success 200 {object} service.DocumentListResult
// @Router /documents [get]
func ListDocuments(svc service.AnalysisService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// SelectDocument opens a previously analyzed document.
//
// @Summary Open a document
// @Tags session
// @Produce json
// @Param id path string true "document id"
// @Success 200 {object} session.State
// @Failure 404 {object} errorPayload
// @Router /session/documents/{id}/select [post]
func SelectDocument(svc service.AnalysisService) fiber.Handler {
	return withSession(func(c *fiber.Ctx, st *session.Store) error {
		if _, err := svc.Select(c.UserContext(), st, c.Params("id")); err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(st.State())
	})
}

// DocumentView returns the normalized analysis of the open document.
// ?performance=true and ?errors=true add the optional sections.
//
// @Summary Analysis view
// @Tags session
// @Produce json
// @Param performance query bool false "include performance metrics"
// @Param errors query bool false "include processing errors"
// @Success 200 {object} transform.DocumentView
// @Failure 409 {object} errorPayload
// @Router /session/document [get]
func DocumentView(svc service.AnalysisService) fiber.Handler {
	return withSession(func(c *fiber.Ctx, st *session.Store) error {
		view, err := svc.View(st, transform.ViewOptions{
			ShowPerformanceMetrics: c.QueryBool("performance", false),
			ShowProcessingErrors:   c.QueryBool("errors", false),
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(view)
	})
}

// ProcessingStatus reports background processing of the open document.
//
// @Summary Processing status
// @Tags session
// @Produce json
// @Success 200 {object} StatusResponse
// @Failure 409 {object} errorPayload
// @Router /session/status [get]
func ProcessingStatus() fiber.Handler {
	return withSession(func(c *fiber.Ctx, st *session.Store) error {
		s := st.State()
		if s.CurrentDocument == nil {
			return writeServiceError(c, service.ErrNoDocument)
		}
		ps := s.ProcessingStatus
		if ps == nil {
			ps = &model.ProcessingStatus{DocumentID: s.CurrentDocument.ID}
		}
		return c.JSON(StatusResponse{Status: ps, Progress: ps.Progress(), Steps: ps.Steps()})
	})
}

// Back returns to the dashboard.
//
// @Summary Back to dashboard
// @Tags session
// @Produce json
// @Success 200 {object} session.State
// @Router /session/back [post]
func Back(svc service.AnalysisService) fiber.Handler {
	return withSession(func(c *fiber.Ctx, st *session.Store) error {
		return c.JSON(svc.Back(st))
	})
}

// Reset returns the session to its initial state.
//
// @Summary Reset session
// @Tags session
// @Produce json
// @Success 200 {object} session.State
// @Router /session/reset [post]
func Reset(svc service.AnalysisService) fiber.Handler {
	return withSession(func(c *fiber.Ctx, st *session.Store) error {
		return c.JSON(svc.Reset(st))
	})
}

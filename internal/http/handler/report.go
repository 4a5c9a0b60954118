package handler

import (
	"github.com/gofiber/fiber/v2"

	"legaldesk/internal/service"
	"legaldesk/internal/session"
	"legaldesk/internal/storage"
)

// ExportReport downloads the PDF report of the open document. The strategy
// that produced it is reported in X-Report-Strategy.
//
// @Summary Download report
// @Tags reports
// @Produce application/pdf
// @Param format query string false "pdf (default) or html"
// @Success 200 {file} binary
// @Failure 409 {object} errorPayload
// @Router /reports/export [get]
func ExportReport(svc service.ReportService) fiber.Handler {
	return withSession(func(c *fiber.Ctx, st *session.Store) error {
		if c.Query("format") == "html" {
			html, err := svc.HTML(st)
			if err != nil {
				return writeServiceError(c, err)
			}
			return c.Type("html").SendString(html)
		}

		out, err := svc.Export(st)
		if err != nil {
			return writeServiceError(c, err)
		}
		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition, storage.AttachmentDisposition(out.Filename))
		c.Set("X-Report-Strategy", out.Strategy)
		return c.Send(out.Data)
	})
}

// PublishReport exports the report to object storage and returns a
// presigned download URL.
//
// @Summary Publish report
// @Tags reports
// @Produce json
// @Success 201 {object} service.PublishedReport
// @Failure 501 {object} errorPayload
// @Router /reports [post]
func PublishReport(svc service.ReportService) fiber.Handler {
	return withSession(func(c *fiber.Ctx, st *session.Store) error {
		pub, err := svc.Publish(c.UserContext(), st)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(pub)
	})
}

package handler

import (
	"database/sql"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"legaldesk/internal/http/middleware"
	"legaldesk/internal/model"
	"legaldesk/internal/service"
	"legaldesk/internal/session"
)

// Dependencies are the collaborators the routes are wired to.
type Dependencies struct {
	// DB is optional; /health pings it when set.
	DB       *sql.DB
	Sessions *session.Manager
	Analysis service.AnalysisService
	QA       service.QAService
	Reports  service.ReportService
	// BackendHealth returns the last known backend snapshot.
	BackendHealth func() model.HealthSnapshot
	// Gatherer backs /metrics; nil disables the endpoint.
	Gatherer prometheus.Gatherer
	// AskLimiter throttles /qa/ask per session; nil disables throttling.
	AskLimiter *middleware.RateLimiter
	Validate   *validator.Validate
	// PublicHost is the host advertised in the API docs.
	PublicHost string
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Dependencies) {
	if d.Validate == nil {
		d.Validate = validator.New(validator.WithRequiredStructEnabled())
	}

	app.Get("/health", HealthCheck(d.DB, d.BackendHealth))
	app.Get("/healthz", LivenessProbe())
	if d.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}
	app.Get("/swagger/*", Swagger(d.PublicHost))

	app.Get("/documents", ListDocuments(d.Analysis))

	withSession := middleware.Session(d.Sessions)

	sess := app.Group("/session", withSession)
	sess.Get("/", GetSession())
	sess.Post("/documents", AnalyzeDocument(d.Analysis))
	sess.Post("/documents/:id/select", SelectDocument(d.Analysis))
	sess.Get("/document", DocumentView(d.Analysis))
	sess.Get("/status", ProcessingStatus())
	sess.Post("/back", Back(d.Analysis))
	sess.Post("/reset", Reset(d.Analysis))

	qa := app.Group("/qa", withSession)
	ask := []fiber.Handler{}
	if d.AskLimiter != nil {
		ask = append(ask, d.AskLimiter.Handler())
	}
	ask = append(ask, AskQuestion(d.QA, d.Validate))
	qa.Post("/ask", ask...)
	qa.Get("/suggestions", SuggestedQuestions(d.QA))
	qa.Get("/history", ChatHistory(d.QA))
	qa.Delete("/history", ClearChatHistory(d.QA))

	reports := app.Group("/reports", withSession)
	reports.Get("/export", ExportReport(d.Reports))
	reports.Post("/", PublishReport(d.Reports))
}

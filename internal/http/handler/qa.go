package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"legaldesk/internal/backend"
	"legaldesk/internal/model"
	"legaldesk/internal/service"
	"legaldesk/internal/session"
)

// AskRequest is the body of POST /qa/ask.
type AskRequest struct {
	Query string `json:"query" validate:"required,max=2000"`
}

// SuggestionsResponse is the data of GET /qa/suggestions.
type SuggestionsResponse struct {
	Questions []string `json:"questions"`
}

// AskQuestion answers a question about the open document. Backend failures
// still return 200 with an apology message in the conversation.
//
// @Summary Ask a question
// @Tags qa
// @Accept json
// @Produce json
// @Param request body AskRequest true "question"
// @Success 200 {object} backend.Result[model.ChatMessage]
// @Failure 400 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router /qa/ask [post]
func AskQuestion(svc service.QAService, validate *validator.Validate) fiber.Handler {
	return withSession(func(c *fiber.Ctx, st *session.Store) error {
		var req AskRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_FAILED", "query is required and must be at most 2000 characters")
		}

		msg, err := svc.Ask(c.UserContext(), st, req.Query)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(backend.Success(msg))
	})
}

// SuggestedQuestions returns questions to offer for the open document.
//
// @Summary Suggested questions
// @Tags qa
// @Produce json
// @Success 200 {object} backend.Result[SuggestionsResponse]
// @Router /qa/suggestions [get]
func SuggestedQuestions(svc service.QAService) fiber.Handler {
	return withSession(func(c *fiber.Ctx, st *session.Store) error {
		qs := svc.SuggestedQuestions(c.UserContext(), st)
		return c.JSON(backend.Success(SuggestionsResponse{Questions: qs}))
	})
}

// ChatHistory returns the persisted conversation, oldest first.
//
// @Summary Conversation history
// @Tags qa
// @Produce json
// @Success 200 {array} model.ChatMessage
// @Router /qa/history [get]
func ChatHistory(svc service.QAService) fiber.Handler {
	return withSession(func(c *fiber.Ctx, st *session.Store) error {
		msgs, err := svc.History(c.UserContext(), st)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": msgs, "total": len(msgs)})
	})
}

// ClearChatHistory deletes the persisted conversation.
//
// @Summary Clear conversation history
// @Tags qa
// @Success 204
// @Router /qa/history [delete]
func ClearChatHistory(svc service.QAService) fiber.Handler {
	return withSession(func(c *fiber.Ctx, st *session.Store) error {
		if err := svc.ClearHistory(c.UserContext(), st); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

var _ = model.ChatMessage{}

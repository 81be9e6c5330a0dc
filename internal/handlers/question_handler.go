package handlers

import (
	"campusconnect/internal/middleware"
	"campusconnect/internal/models"
	"campusconnect/internal/services"

	"github.com/gofiber/fiber/v2"
)

// QuestionHandler handles HTTP requests for the Q&A board.
type QuestionHandler struct {
	service *services.QuestionService
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(service *services.QuestionService) *QuestionHandler {
	return &QuestionHandler{
		service: service,
	}
}

// RegisterRoutes registers the Q&A routes. session guards posting.
func (h *QuestionHandler) RegisterRoutes(router fiber.Router, session fiber.Handler) {
	router.Post("/askquestion", session, h.HandleAskQuestion)
	router.Get("/question", h.HandleGetQuestions)
}

// HandleAskQuestion posts a question as the session user.
func (h *QuestionHandler) HandleAskQuestion(c *fiber.Ctx) error {
	var req services.AskQuestionInput
	if err := parseBody(c, &req); err != nil {
		return err
	}

	question, err := h.service.Ask(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"message":  "Question posted successfully",
		"question": models.QuestionViewOf(question),
	})
}

// HandleGetQuestions lists the board.
func (h *QuestionHandler) HandleGetQuestions(c *fiber.Ctx) error {
	questions, err := h.service.ListQuestions(c.UserContext())
	if err != nil {
		return err
	}

	views := make([]models.QuestionView, 0, len(questions))
	for i := range questions {
		views = append(views, models.QuestionViewOf(&questions[i]))
	}
	return c.JSON(views)
}

package handlers

import (
	"campusconnect/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AdviceHandler handles career advice requests.
type AdviceHandler struct {
	service *services.AdviceService
}

// NewAdviceHandler creates a new AdviceHandler.
func NewAdviceHandler(service *services.AdviceService) *AdviceHandler {
	return &AdviceHandler{
		service: service,
	}
}

// RegisterRoutes registers the advice route with the Fiber app.
func (h *AdviceHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/career-advice", h.HandleCareerAdvice)
}

type adviceRequest struct {
	Question string `json:"question"`
}

// HandleCareerAdvice answers a career question.
func (h *AdviceHandler) HandleCareerAdvice(c *fiber.Ctx) error {
	var req adviceRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	advice, err := h.service.Advise(c.UserContext(), req.Question)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"advice": advice})
}

package handlers

import (
	"campusconnect/internal/services"

	"github.com/gofiber/fiber/v2"
)

// MentorHandler handles HTTP requests for the mentor directory.
type MentorHandler struct {
	service *services.MentorService
}

// NewMentorHandler creates a new MentorHandler.
func NewMentorHandler(service *services.MentorService) *MentorHandler {
	return &MentorHandler{
		service: service,
	}
}

// RegisterRoutes registers the mentor routes with the Fiber app.
func (h *MentorHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/mentors", h.HandleGetMentors)
}

// HandleGetMentors lists every mentor.
func (h *MentorHandler) HandleGetMentors(c *fiber.Ctx) error {
	mentors, err := h.service.ListMentors(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"mentors": mentors})
}

package repositories

import (
	"context"

	"campusconnect/internal/models"
)

// QuestionRepository defines the interface for Q&A board data access.
type QuestionRepository interface {
	Create(ctx context.Context, question *models.Question) error
	GetAll(ctx context.Context) ([]models.Question, error)
}

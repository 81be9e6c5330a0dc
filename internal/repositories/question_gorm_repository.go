package repositories

import (
	"context"
	"fmt"

	"campusconnect/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMQuestionRepository is a GORM implementation of QuestionRepository.
type GORMQuestionRepository struct {
	db *gorm.DB
}

// NewGORMQuestionRepository creates a new instance of GORMQuestionRepository.
func NewGORMQuestionRepository(db *gorm.DB) *GORMQuestionRepository {
	return &GORMQuestionRepository{
		db: db,
	}
}

// Create creates a new question in the database.
func (r *GORMQuestionRepository) Create(ctx context.Context, question *models.Question) error {
	if question.ID == "" {
		question.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Omit("User", "Replies").Create(question).Error; err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	return nil
}

// GetAll retrieves every question with its author and replies.
func (r *GORMQuestionRepository) GetAll(ctx context.Context) ([]models.Question, error) {
	var questions []models.Question
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at asc")
		}).
		Preload("Replies.User").
		Order("created_at asc").
		Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all questions: %w", err)
	}
	return questions, nil
}

package services

import (
	"context"
	"strings"

	"campusconnect/internal/models"
	"campusconnect/internal/repositories"
)

// AskQuestionInput is the body of a new Q&A board post.
type AskQuestionInput struct {
	Question    string  `json:"question"`
	Description *string `json:"description"`
}

// QuestionService handles the Q&A board.
type QuestionService struct {
	repo repositories.QuestionRepository
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(repo repositories.QuestionRepository) *QuestionService {
	return &QuestionService{
		repo: repo,
	}
}

// Ask posts a question on behalf of userID.
func (s *QuestionService) Ask(ctx context.Context, userID string, in AskQuestionInput) (*models.Question, error) {
	text := strings.TrimSpace(in.Question)
	if text == "" {
		return nil, NewValidationError("Question is required", map[string]string{
			"question": "Field 'question' failed on the 'required' tag",
		})
	}
	if userID == "" {
		return nil, NewNotAuthenticatedError()
	}

	question := &models.Question{
		Question:    text,
		Description: in.Description,
		UserID:      userID,
	}
	if err := s.repo.Create(ctx, question); err != nil {
		return nil, NewInternalError("Could not post question", err)
	}
	return question, nil
}

// ListQuestions returns every question with its author and replies.
func (s *QuestionService) ListQuestions(ctx context.Context) ([]models.Question, error) {
	questions, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, NewInternalError("Could not retrieve questions", err)
	}
	return questions, nil
}

package services

import (
	"context"
	"fmt"
	"strings"
)

// Completer generates text for a prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// AdviceService answers career questions through a text-generation backend.
type AdviceService struct {
	llm Completer
}

// NewAdviceService creates a new AdviceService.
func NewAdviceService(llm Completer) *AdviceService {
	return &AdviceService{
		llm: llm,
	}
}

// Advise returns step-by-step career advice for question.
func (s *AdviceService) Advise(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", NewValidationError("Please provide a question", nil)
	}

	advice, err := s.llm.Complete(ctx, CareerPrompt(question))
	if err != nil {
		return "", NewInternalError("Failed to get advice", err)
	}
	return advice, nil
}

// CareerPrompt wraps a student's question in the career-mentor instructions.
func CareerPrompt(question string) string {
	return fmt.Sprintf(`You are an experienced career mentor for college students.

Give clear, practical and motivating career advice as a numbered list of short steps.
Every step has a short heading followed by one to three sentences. Avoid long paragraphs
and vague statements; name real tools, platforms or methods wherever you can.

Topics you may draw on:
1. Finding and applying for internships, jobs and freelance work.
2. Improving resumes, LinkedIn profiles and portfolios.
3. Building technical and soft skills.
4. Networking with recruiters, alumni and professionals.
5. Preparing for interviews and aptitude tests.
6. Growing after the first job through promotions, upskilling and certifications.
7. Staying motivated during studies and the job search.
8. Balancing academics with skill building.
9. Overcoming common early-career challenges.

Keep the tone supportive and actionable: always include something the student can do today.

The student's question:
%q

Answer strictly in this format:
Step 1: [Heading] - [1-3 sentence explanation]
Step 2: [Heading] - [1-3 sentence explanation]
...and so on.
`, question)
}

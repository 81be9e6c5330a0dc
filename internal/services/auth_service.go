package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"reflect"
	"strings"
	"time"

	"campusconnect/internal/auth"
	"campusconnect/internal/models"
	"campusconnect/internal/repositories"

	"github.com/go-playground/validator/v10"
)

// RoutingKeyUserRegistered is the routing key of the event published after signup.
const RoutingKeyUserRegistered = "user.registered"

// EventPublisher publishes a serialized domain event.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// SocialLinksInput is the optional socialLinks object of a signup request.
type SocialLinksInput struct {
	LinkedIn  *string `json:"linkedin"`
	GitHub    *string `json:"github"`
	Portfolio *string `json:"portfolio"`
}

// CodingProfilesInput is the optional codingProfiles object of a signup request.
type CodingProfilesInput struct {
	LeetcodeUser   *string `json:"leetcodeUser"`
	CodeforcesUser *string `json:"codeforcesUser"`
}

// RegisterInput is the signup request body.
type RegisterInput struct {
	Name             string               `json:"name" validate:"required,max=255"`
	Email            string               `json:"email" validate:"required,email,max=255"`
	Password         string               `json:"password" validate:"required,max=72"`
	Role             models.Role          `json:"role" validate:"required,oneof=student mentor alumni"`
	Department       string               `json:"department" validate:"required,max=255"`
	YearOfGraduation *int                 `json:"yearOfGraduation" validate:"omitempty,gte=1900,lte=2200"`
	Bio              *string              `json:"bio"`
	Skills           []string             `json:"skills"`
	CurrCompany      *string              `json:"currCompany" validate:"omitempty,max=255"`
	SocialLinks      *SocialLinksInput    `json:"socialLinks"`
	CodingProfiles   *CodingProfilesInput `json:"codingProfiles"`
}

// LoginInput is the login request body.
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthService handles registration, login and session verification.
type AuthService struct {
	userRepo repositories.UserRepository
	hasher   *auth.PasswordHasher
	tokens   *auth.TokenCodec
	events   EventPublisher
	validate *validator.Validate
}

// NewAuthService creates a new AuthService. events may be nil, in which case
// no user events are published.
func NewAuthService(userRepo repositories.UserRepository, hasher *auth.PasswordHasher, tokens *auth.TokenCodec, events EventPublisher) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		events:   events,
		validate: newValidator(),
	}
}

// Register creates a user from in and returns it with a freshly issued token.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Department = strings.TrimSpace(in.Department)

	if err := s.validate.Struct(in); err != nil {
		return nil, "", validationError(err, "Missing required fields: name, email, password, role, or department")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, "", NewInternalError("Could not register user", err)
	}

	user := &models.User{
		Name:             in.Name,
		Email:            in.Email,
		PasswordHash:     hash,
		Role:             in.Role,
		Department:       in.Department,
		YearOfGraduation: in.YearOfGraduation,
		Bio:              in.Bio,
		Skills:           cleanSkills(in.Skills),
		CurrCompany:      in.CurrCompany,
	}
	if in.SocialLinks != nil {
		user.SocialLinks = &models.SocialLinks{
			LinkedIn:  in.SocialLinks.LinkedIn,
			GitHub:    in.SocialLinks.GitHub,
			Portfolio: in.SocialLinks.Portfolio,
		}
	}
	if in.CodingProfiles != nil {
		user.CodingProfiles = &models.CodingProfiles{
			LeetcodeUser:   in.CodingProfiles.LeetcodeUser,
			CodeforcesUser: in.CodingProfiles.CodeforcesUser,
		}
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, "", NewConflictError("User already exists with this email", err)
		}
		return nil, "", NewInternalError("Could not register user", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", NewInternalError("Could not register user", err)
	}

	s.publishRegistered(user)
	return user, token, nil
}

// Login checks the credentials in in and returns the user with a freshly issued token.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*models.User, string, error) {
	in.Email = strings.TrimSpace(in.Email)

	if err := s.validate.Struct(in); err != nil {
		return nil, "", validationError(err, "Email and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, "", NewNotFoundError("User not found.", err)
		}
		return nil, "", NewInternalError("Could not log in", err)
	}

	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		return nil, "", NewUnauthorizedError("Invalid credentials.")
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", NewInternalError("Could not log in", err)
	}
	return user, token, nil
}

// Verify loads the user a session token resolved to.
func (s *AuthService) Verify(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, NewNotFoundError("User not found", err)
		}
		return nil, NewInternalError("Could not verify user", err)
	}
	return user, nil
}

func (s *AuthService) publishRegistered(user *models.User) {
	if s.events == nil {
		return
	}
	body, err := json.Marshal(models.UserRegisteredEvent{
		UserID:     user.ID,
		Role:       user.Role,
		Department: user.Department,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		log.Printf("Failed to marshal user registered event for %s: %v", user.ID, err)
		return
	}
	if err := s.events.Publish(RoutingKeyUserRegistered, body); err != nil {
		log.Printf("Warning: Failed to publish user registered event for %s: %v", user.ID, err)
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationError converts validator output into a KindValidation Error.
// requiredMessage is used when at least one required field is missing.
func validationError(err error, requiredMessage string) *Error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return NewValidationError("Validation failed", nil)
	}

	message := "Validation failed"
	fields := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		fields[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		if e.Tag() == "required" {
			message = requiredMessage
		}
	}
	return NewValidationError(message, fields)
}

func cleanSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, skill := range skills {
		if skill = strings.TrimSpace(skill); skill != "" {
			out = append(out, skill)
		}
	}
	return out
}

package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"campusconnect/internal/models"

	"github.com/google/uuid"
)

// MemoryUserRepository is an in-memory implementation of UserRepository.
// Email uniqueness is enforced under the same lock as the insert.
type MemoryUserRepository struct {
	users   map[string]models.User
	byEmail map[string]string
	mu      sync.RWMutex
}

// NewMemoryUserRepository creates a new instance of MemoryUserRepository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users:   make(map[string]models.User),
		byEmail: make(map[string]string),
	}
}

// Create adds a new user.
func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[user.Email]; taken {
		return ErrDuplicateEmail
	}

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Skills == nil {
		user.Skills = []string{}
	}
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	if user.SocialLinks != nil {
		user.SocialLinks.UserID = user.ID
	}
	if user.CodingProfiles != nil {
		user.CodingProfiles.UserID = user.ID
	}

	r.users[user.ID] = cloneUser(user)
	r.byEmail[user.Email] = user.ID
	return nil
}

// GetByEmail returns a user by exact email.
func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	user := r.users[id]
	out := cloneUser(&user)
	return &out, nil
}

// GetByID returns a user by its ID.
func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	out := cloneUser(&user)
	return &out, nil
}

// ListByRole returns every user holding role, oldest first.
func (r *MemoryUserRepository) ListByRole(_ context.Context, role models.Role) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]models.User, 0)
	for _, u := range r.users {
		if u.Role == role {
			users = append(users, cloneUser(&u))
		}
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

func cloneUser(u *models.User) models.User {
	out := *u
	out.Skills = append([]string{}, u.Skills...)
	if u.SocialLinks != nil {
		links := *u.SocialLinks
		out.SocialLinks = &links
	}
	if u.CodingProfiles != nil {
		profiles := *u.CodingProfiles
		out.CodingProfiles = &profiles
	}
	return out
}

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"campusconnect/internal/models"
	"campusconnect/internal/repositories"
)

// MentorCacheKey is the cache key of the full mentor directory.
const MentorCacheKey = "mentors:all"

// JSONCache stores JSON-encodable values with a TTL.
type JSONCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// MentorService serves the mentor directory.
type MentorService struct {
	userRepo repositories.UserRepository
	cache    JSONCache
	ttl      time.Duration
}

// NewMentorService creates a new MentorService. cache may be nil.
func NewMentorService(userRepo repositories.UserRepository, cache JSONCache, ttl time.Duration) *MentorService {
	return &MentorService{
		userRepo: userRepo,
		cache:    cache,
		ttl:      ttl,
	}
}

// ListMentors returns every mentor's directory card.
func (s *MentorService) ListMentors(ctx context.Context) ([]models.MentorCard, error) {
	if s.cache != nil {
		var cached []models.MentorCard
		hit, err := s.cache.GetJSON(ctx, MentorCacheKey, &cached)
		if err != nil {
			log.Printf("Ignoring unreadable mentor cache entry: %v", err)
		} else if hit {
			return cached, nil
		}
	}

	users, err := s.userRepo.ListByRole(ctx, models.RoleMentor)
	if err != nil {
		return nil, NewInternalError("Could not retrieve mentors", err)
	}

	cards := make([]models.MentorCard, 0, len(users))
	for i := range users {
		cards = append(cards, models.MentorCardOf(&users[i]))
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, MentorCacheKey, cards, s.ttl); err != nil {
			log.Printf("Failed to cache mentor directory: %v", err)
		}
	}
	return cards, nil
}

// InvalidateCache drops the cached directory.
func (s *MentorService) InvalidateCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, MentorCacheKey)
}

// HandleUserEvent consumes a user.registered event body and refreshes the
// directory when a mentor joined.
func (s *MentorService) HandleUserEvent(ctx context.Context, body []byte) error {
	var event models.UserRegisteredEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("failed to decode user event: %w", err)
	}
	if event.Role != models.RoleMentor {
		return nil
	}
	if err := s.InvalidateCache(ctx); err != nil {
		return fmt.Errorf("failed to invalidate mentor cache for %s: %w", event.UserID, err)
	}
	log.Printf("Mentor directory cache invalidated after mentor %s registered", event.UserID)
	return nil
}

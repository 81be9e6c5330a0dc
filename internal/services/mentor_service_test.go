package services_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"campusconnect/internal/models"
	"campusconnect/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCache is a mock implementation of services.JSONCache
type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	args := m.Called(ctx, key, out)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	args := m.Called(ctx, key, v, ttl)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func TestMentorService_ListMentors_Miss(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockCache := new(MockCache)
	service := services.NewMentorService(mockRepo, mockCache, time.Minute)
	ctx := context.Background()

	mentors := []models.User{
		{ID: "m-1", Name: "Mentor One", Email: "m1@x.com", PasswordHash: "hash", Role: models.RoleMentor, Department: "cse"},
	}
	mockCache.On("GetJSON", ctx, services.MentorCacheKey, mock.Anything).Return(false, nil).Once()
	mockRepo.On("ListByRole", ctx, models.RoleMentor).Return(mentors, nil).Once()
	mockCache.On("SetJSON", ctx, services.MentorCacheKey, mock.AnythingOfType("[]models.MentorCard"), time.Minute).Return(nil).Once()

	cards, err := service.ListMentors(ctx)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "Mentor One", cards[0].Name)
	assert.Equal(t, []string{}, cards[0].Skills)

	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestMentorService_ListMentors_Hit(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockCache := new(MockCache)
	service := services.NewMentorService(mockRepo, mockCache, time.Minute)
	ctx := context.Background()

	mockCache.On("GetJSON", ctx, services.MentorCacheKey, mock.Anything).
		Run(func(args mock.Arguments) {
			out := args.Get(2).(*[]models.MentorCard)
			*out = []models.MentorCard{{ID: "m-cached", Name: "Cached"}}
		}).
		Return(true, nil).Once()

	cards, err := service.ListMentors(ctx)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "m-cached", cards[0].ID)
	mockRepo.AssertNotCalled(t, "ListByRole", mock.Anything, mock.Anything)
}

func TestMentorService_ListMentors_NoCache(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := services.NewMentorService(mockRepo, nil, time.Minute)
	ctx := context.Background()

	mockRepo.On("ListByRole", ctx, models.RoleMentor).Return(nil, fmt.Errorf("db down")).Once()

	_, err := service.ListMentors(ctx)
	assert.True(t, services.IsKind(err, services.KindInternal))
	assert.NoError(t, service.InvalidateCache(ctx))
}

func TestMentorService_HandleUserEvent(t *testing.T) {
	mockCache := new(MockCache)
	service := services.NewMentorService(new(MockUserRepository), mockCache, time.Minute)
	ctx := context.Background()

	mentorEvent, _ := json.Marshal(models.UserRegisteredEvent{UserID: "m-1", Role: models.RoleMentor})
	studentEvent, _ := json.Marshal(models.UserRegisteredEvent{UserID: "s-1", Role: models.RoleStudent})

	mockCache.On("Delete", ctx, services.MentorCacheKey).Return(nil).Once()

	assert.NoError(t, service.HandleUserEvent(ctx, mentorEvent))
	assert.NoError(t, service.HandleUserEvent(ctx, studentEvent))
	assert.Error(t, service.HandleUserEvent(ctx, []byte("not json")))
	mockCache.AssertExpectations(t)
}

package main

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"os"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusconnect/internal/models"
	"campusconnect/internal/services"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

type recordingCache struct {
	deleted []string
}

func (c *recordingCache) GetJSON(context.Context, string, any) (bool, error) { return false, nil }

func (c *recordingCache) SetJSON(context.Context, string, any, time.Duration) error { return nil }

func (c *recordingCache) Delete(_ context.Context, key string) error {
	c.deleted = append(c.deleted, key)
	return nil
}

func TestRootCommand(t *testing.T) {
	root := newRootCmd()

	names := make([]string, 0, len(root.Commands()))
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "migrate")
	assert.NotNil(t, root.PersistentFlags().Lookup("port"))
	assert.NotNil(t, root.PersistentFlags().Lookup("env"))
}

func TestRunMigrate(t *testing.T) {
	v := viper.New()
	v.Set("DATABASE_DRIVER", "sqlite")
	v.Set("DATABASE_DSN", "file::memory:")

	assert.NoError(t, runMigrate(v))
}

func TestRunMigrate_UnknownDriver(t *testing.T) {
	v := viper.New()
	v.Set("DATABASE_DRIVER", "oracle")

	assert.Error(t, runMigrate(v))
}

func TestRunServe_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	err := runServe(viper.New())
	assert.Error(t, err)
}

func TestUserEventHandler(t *testing.T) {
	c := &recordingCache{}
	mentors := services.NewMentorService(nil, c, time.Minute)
	handler := userEventHandler(mentors)

	body, err := json.Marshal(models.UserRegisteredEvent{UserID: "m-1", Role: models.RoleMentor})
	require.NoError(t, err)

	require.NoError(t, handler(amqp.Delivery{Type: services.RoutingKeyUserRegistered, Body: body}))
	assert.Equal(t, []string{services.MentorCacheKey}, c.deleted)

	// Other event types are acknowledged without touching the cache.
	require.NoError(t, handler(amqp.Delivery{Type: "user.deleted", Body: body}))
	assert.Len(t, c.deleted, 1)

	assert.Error(t, handler(amqp.Delivery{Type: services.RoutingKeyUserRegistered, Body: []byte("{")}))
}

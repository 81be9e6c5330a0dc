package app

import (
	"context"
	"strings"
	"time"

	"campusconnect/internal/auth"
	"campusconnect/internal/config"
	"campusconnect/internal/handlers"
	"campusconnect/internal/metrics"
	"campusconnect/internal/middleware"
	"campusconnect/internal/repositories"
	"campusconnect/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// Dependencies are the external collaborators the HTTP app is built on.
// Cache and Metrics may be nil. A nil Events handles user events in process.
type Dependencies struct {
	DB      *gorm.DB
	Cache   services.JSONCache
	Events  services.EventPublisher
	LLM     services.Completer
	Metrics *metrics.Metrics
}

// App is the assembled HTTP application and the services behind it.
type App struct {
	Fiber         *fiber.App
	Tokens        *auth.TokenCodec
	AuthService   *services.AuthService
	MentorService *services.MentorService
}

// localEvents delivers user events in process when no broker is configured,
// so the mentor directory never waits out its cache TTL.
type localEvents struct {
	mentors *services.MentorService
}

func (l localEvents) Publish(routingKey string, body []byte) error {
	if routingKey != services.RoutingKeyUserRegistered {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return l.mentors.HandleUserEvent(ctx, body)
}

// NewApp wires repositories, services and handlers into a Fiber app.
func NewApp(cfg *config.Config, deps Dependencies) *App {
	userRepo := repositories.NewGORMUserRepository(deps.DB)
	questionRepo := repositories.NewGORMQuestionRepository(deps.DB)

	tokens := auth.NewTokenCodec(cfg.JWTSecret)
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)

	mentorService := services.NewMentorService(userRepo, deps.Cache, cfg.MentorCacheTTL)
	events := deps.Events
	if events == nil {
		events = localEvents{mentors: mentorService}
	}
	authService := services.NewAuthService(userRepo, hasher, tokens, events)
	questionService := services.NewQuestionService(questionRepo)
	adviceService := services.NewAdviceService(deps.LLM)

	authHandler := handlers.NewAuthHandler(authService, handlers.CookiePolicy{CrossSite: cfg.IsProduction()}, deps.Metrics)
	mentorHandler := handlers.NewMentorHandler(mentorService)
	questionHandler := handlers.NewQuestionHandler(questionService)
	adviceHandler := handlers.NewAdviceHandler(adviceService)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.AllowedClients, ","),
		AllowMethods:     "GET,POST,PUT,DELETE",
		AllowCredentials: true,
	}))
	if deps.Metrics != nil {
		app.Use(middleware.Metrics(deps.Metrics))
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	session := middleware.SessionRequired(tokens)
	authHandler.RegisterRoutes(app, session)
	mentorHandler.RegisterRoutes(app)
	questionHandler.RegisterRoutes(app, session)
	adviceHandler.RegisterRoutes(app)

	return &App{
		Fiber:         app,
		Tokens:        tokens,
		AuthService:   authService,
		MentorService: mentorService,
	}
}

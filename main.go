package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"

	"campusconnect/internal/app"
	"campusconnect/internal/cache"
	"campusconnect/internal/config"
	"campusconnect/internal/database"
	"campusconnect/internal/llm"
	"campusconnect/internal/metrics"
	"campusconnect/internal/services"
	"campusconnect/pkg/rabbitmq"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// cobra already printed the error
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:          "campusconnect",
		Short:        "CampusConnect API server",
		Long:         "CampusConnect serves identity, mentor directory, Q&A and career advice endpoints for the campus frontend.",
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(v)
		},
	}

	pf := root.PersistentFlags()
	pf.String("port", "", "Listen address, overrides APP_PORT")
	pf.String("env", "", "Deployment environment, overrides APP_ENV")
	pf.String("db-driver", "", "Database driver (postgres or sqlite), overrides DATABASE_DRIVER")
	pf.String("db-dsn", "", "Database DSN, overrides DATABASE_DSN")
	_ = v.BindPFlag("APP_PORT", pf.Lookup("port"))
	_ = v.BindPFlag("APP_ENV", pf.Lookup("env"))
	_ = v.BindPFlag("DATABASE_DRIVER", pf.Lookup("db-driver"))
	_ = v.BindPFlag("DATABASE_DSN", pf.Lookup("db-dsn"))

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(v)
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(v)
		},
	})

	return root
}

// runMigrate only needs the database keys, so it does not require JWT_SECRET.
func runMigrate(v *viper.Viper) error {
	config.SetDefaults(v)
	v.AutomaticEnv()

	db, err := database.Open(v.GetString("DATABASE_DRIVER"), v.GetString("DATABASE_DSN"))
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}
	log.Println("Database schema is up to date")
	return nil
}

func runServe(v *viper.Viper) error {
	// --- Configuration ---
	cfg, err := config.Load(v)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// --- Database ---
	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	// --- Cache, LLM and metrics ---
	redisCache := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, log.Default())
	defer redisCache.Close()

	deps := app.Dependencies{
		DB:      db,
		Cache:   redisCache,
		LLM:     llm.NewClient(cfg.OpenRouterURL, cfg.OpenRouterAPIKey, cfg.AdviceModel),
		Metrics: metrics.New(),
	}

	// --- RabbitMQ (optional) ---
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Printf("Warning: RabbitMQ unavailable, user events disabled: %v", err)
			mqClient = nil
		} else {
			defer mqClient.Close()
			deps.Events = mqClient
		}
	} else {
		log.Println("RABBITMQ_URL not set, user events disabled")
	}

	application := app.NewApp(cfg, deps)

	if mqClient != nil {
		handler := userEventHandler(application.MentorService)
		if err := mqClient.ConsumeUserEvents(handler); err != nil {
			log.Printf("Failed to start RabbitMQ consumer: %v", err)
		}
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s (%s)", cfg.AppPort, cfg.Environment)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- application.Fiber.Listen(cfg.AppPort)
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("server failed to start: %w", err)
	case <-quit:
	}

	log.Println("Shutting down server...")
	if err := application.Fiber.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
	return nil
}

// userEventHandler dispatches user events from the queue to the mentor directory.
func userEventHandler(mentors *services.MentorService) func(amqp.Delivery) error {
	return func(msg amqp.Delivery) error {
		if msg.Type != "" && msg.Type != services.RoutingKeyUserRegistered {
			log.Printf("Ignoring user event of type %q", msg.Type)
			return nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return mentors.HandleUserEvent(ctx, msg.Body)
	}
}

package main // Entry point package

import (
	"context"
	"log" // Logging library
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"    // Loads .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/gym-class-booking/internal/config" // Internal config loader
	"github.com/iliyamo/gym-class-booking/internal/database"
	"github.com/iliyamo/gym-class-booking/internal/handler"
	"github.com/iliyamo/gym-class-booking/internal/middleware"
	"github.com/iliyamo/gym-class-booking/internal/queue"
	"github.com/iliyamo/gym-class-booking/internal/repository"
	"github.com/iliyamo/gym-class-booking/internal/router" // Internal router setup
	"github.com/iliyamo/gym-class-booking/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories own the SQL, including the row-locked admission and
	// billing critical sections.
	users := repository.NewUserRepo(db)
	types := repository.NewClassTypeRepo(db)
	sessions := repository.NewClassSessionRepo(db)
	bookings := repository.NewBookingRepo(db)
	policies := repository.NewBookingPolicyRepo(db)
	configs := repository.NewBookingConfigRepo(db)
	subs := repository.NewSubscriptionRepo(db)
	invoices := repository.NewPaymentRepo(db)

	// Notifications go through RabbitMQ; the consumer drains the queue
	// in the background and survives broker restarts.
	notifier := queue.EmailPublisher{}
	go func() {
		if err := queue.StartNotificationConsumer(); err != nil {
			log.Printf("notification consumer stopped: %v", err)
		}
	}()

	enforcer := service.NewEnforcer(bookings, cfg.EnforcePastDue, cfg.GraceHours)
	limiter := service.NewMinIntervalLimiter()
	minInterval := time.Duration(cfg.ActionMinIntervalMS) * time.Millisecond

	bookingSvc := service.NewBookingService(
		sessions, bookings, subs, policies, configs, types,
		limiter, minInterval,
	)
	generator := service.NewScheduleGenerator(sessions, types, configs)
	subSvc := service.NewSubscriptionService(
		subs, invoices, users, notifier, enforcer, cfg.CallbackSecret,
	)

	gateway := &service.MockGateway{Accept: cfg.GatewayAccept}
	scheduler := service.NewBillingScheduler(
		subs, invoices, users, notifier, enforcer, gateway,
		service.SchedulerOptions{
			MaxAttempts:   cfg.BillingMaxAttempts,
			Backoff:       time.Duration(cfg.BillingBackoffMin) * time.Minute,
			Interval:      time.Duration(cfg.BillingTickSec) * time.Second,
			ChargeTimeout: time.Duration(cfg.ChargeTimeoutSec) * time.Second,
		},
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go scheduler.Run(ctx)

	e := echo.New() // Create Echo instance

	// Redis-backed token bucket in front of every route. The in-process
	// debounce inside the booking service is a second, per-action layer.
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), config.NewRedisClient()))

	h := router.Handlers{
		Auth:          handler.NewAuthHandler(cfg, users),
		Bookings:      handler.NewBookingHandler(bookingSvc, bookings, types),
		Subscriptions: handler.NewSubscriptionHandler(subSvc),
		Admin:         handler.NewAdminHandler(bookingSvc, generator, policies, configs),
		Callback:      handler.NewCallbackHandler(subSvc),
	}
	router.RegisterRoutes(e, h)          // Register public routes
	router.RegisterAuth(e, h, cfg.JWTSecret) // Register member and admin routes

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pawmatch/pawmatch-backend/api/routes"
	"github.com/pawmatch/pawmatch-backend/internal/auth"
	"github.com/pawmatch/pawmatch-backend/internal/bookings"
	"github.com/pawmatch/pawmatch-backend/internal/chat"
	"github.com/pawmatch/pawmatch-backend/internal/matches"
	"github.com/pawmatch/pawmatch-backend/internal/notifications"
	"github.com/pawmatch/pawmatch-backend/internal/pets"
	"github.com/pawmatch/pawmatch-backend/internal/reviews"
	"github.com/pawmatch/pawmatch-backend/internal/sitters"
	"github.com/pawmatch/pawmatch-backend/internal/swipes"
	"github.com/pawmatch/pawmatch-backend/internal/users"
	"github.com/pawmatch/pawmatch-backend/pkg/auth/session"
	"github.com/pawmatch/pawmatch-backend/pkg/config"
	"github.com/pawmatch/pawmatch-backend/pkg/db"
	"github.com/pawmatch/pawmatch-backend/pkg/logger"
	"github.com/pawmatch/pawmatch-backend/pkg/metrics"
	"github.com/pawmatch/pawmatch-backend/pkg/migrate"
	"github.com/pawmatch/pawmatch-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()
	userRepo := users.NewRepository(gormDB)
	petRepo := pets.NewRepository(gormDB)
	sitterRepo := sitters.NewRepository(gormDB)
	bookingRepo := bookings.NewRepository(gormDB)
	reviewRepo := reviews.NewRepository(gormDB)
	swipeRepo := swipes.NewRepository(gormDB)
	matchRepo := matches.NewRepository(gormDB)
	messageRepo := chat.NewRepository(gormDB)
	notificationRepo := notifications.NewRepository(gormDB)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(notificationRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	petsService, err := pets.NewService(pets.ServiceParams{PetRepo: petRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create pets service", err)
		os.Exit(1)
	}

	sittersService, err := sitters.NewService(sitters.ServiceParams{
		SitterRepo: sitterRepo,
		PassScore:  cfg.Sitters.CertificationPassScore,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create sitters service", err)
		os.Exit(1)
	}

	bookingsService, err := bookings.NewService(bookings.ServiceParams{
		DB:               dbClient,
		BookingRepo:      bookingRepo,
		SitterRepo:       sitterRepo,
		PetRepo:          petRepo,
		Notifier:         notificationsService,
		MinDurationHours: cfg.Bookings.MinDurationHours,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create bookings service", err)
		os.Exit(1)
	}

	reviewsService, err := reviews.NewService(reviews.ServiceParams{
		ReviewRepo:  reviewRepo,
		BookingRepo: bookingRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create reviews service", err)
		os.Exit(1)
	}

	swipesService, err := swipes.NewService(swipes.ServiceParams{
		DB:        dbClient,
		SwipeRepo: swipeRepo,
		MatchRepo: matchRepo,
		PetRepo:   petRepo,
		Notifier:  notificationsService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create swipes service", err)
		os.Exit(1)
	}

	matchesService, err := matches.NewService(matches.ServiceParams{
		MatchRepo: matchRepo,
		PetRepo:   petRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create matches service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	chatBus, err := chat.NewRedisBus(ctx, redisClient, logg)
	if err != nil {
		logg.Error(ctx, "failed to create chat bus", err)
		os.Exit(1)
	}
	defer func() {
		if err := chatBus.Close(); err != nil {
			logg.Error(context.Background(), "error closing chat bus", err)
		}
	}()

	chatHub := chat.NewHub(chatBus, metrics.NewChatMetrics(prometheus.DefaultRegisterer))
	go chatBus.Run(ctx, chatHub)

	chatService, err := chat.NewService(chat.ServiceParams{
		MessageRepo: messageRepo,
		Matches:     matchesService,
		Publisher:   chatBus,
		Logger:      logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create chat service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			redisClient,
			sessionManager,
			authService,
			registerService,
			petsService,
			sittersService,
			bookingsService,
			reviewsService,
			swipesService,
			matchesService,
			chatService,
			chatHub,
			notificationsService,
		),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(shutdownCtx, "api server shutdown failed", err)
			os.Exit(1)
		}
		logg.Info(context.Background(), "api server shut down gracefully")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	}
}

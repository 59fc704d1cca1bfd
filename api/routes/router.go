package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pawmatch/pawmatch-backend/api/controllers"
	"github.com/pawmatch/pawmatch-backend/api/middleware"
	"github.com/pawmatch/pawmatch-backend/internal/auth"
	"github.com/pawmatch/pawmatch-backend/internal/bookings"
	"github.com/pawmatch/pawmatch-backend/internal/chat"
	"github.com/pawmatch/pawmatch-backend/internal/matches"
	"github.com/pawmatch/pawmatch-backend/internal/notifications"
	"github.com/pawmatch/pawmatch-backend/internal/pets"
	"github.com/pawmatch/pawmatch-backend/internal/reviews"
	"github.com/pawmatch/pawmatch-backend/internal/sitters"
	"github.com/pawmatch/pawmatch-backend/internal/swipes"
	"github.com/pawmatch/pawmatch-backend/pkg/auth/session"
	"github.com/pawmatch/pawmatch-backend/pkg/config"
	"github.com/pawmatch/pawmatch-backend/pkg/logger"
	"github.com/pawmatch/pawmatch-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	cacheP controllers.Pinger,
	redisClient *redis.Client,
	sessionManager sessionManager,
	authService auth.Service,
	registerService auth.RegisterService,
	petsService pets.Service,
	sittersService sitters.Service,
	bookingsService bookings.Service,
	reviewsService reviews.Service,
	swipesService swipes.Service,
	matchesService matches.Service,
	chatService chat.Service,
	chatHub *chat.Hub,
	notificationsService notifications.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, cacheP))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(registerService, authService, logg))
		r.Post("/logout", controllers.AuthLogout(sessionManager, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(sessionManager, cfg.JWT, logg))
		r.With(middleware.Auth(cfg.JWT, sessionManager, logg)).Get("/me", controllers.AuthMe(authService, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionManager, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/v1/pets", func(r chi.Router) {
			r.Post("/", controllers.CreatePet(petsService, logg))
			r.Get("/", controllers.ListPets(petsService, logg))
			r.Get("/{petId}", controllers.GetPet(petsService, logg))
			r.Put("/{petId}", controllers.UpdatePet(petsService, logg))
			r.Delete("/{petId}", controllers.DeletePet(petsService, logg))
		})

		r.Route("/v1/sitters", func(r chi.Router) {
			r.Post("/", controllers.ApplySitter(sittersService, logg))
			r.Get("/", controllers.SearchSitters(sittersService, logg))
			r.Get("/me", controllers.MySitterProfile(sittersService, logg))
			r.Get("/{sitterId}", controllers.GetSitter(sittersService, logg))
			r.Get("/{sitterId}/reviews", controllers.ListSitterReviews(reviewsService, logg))
		})

		r.Route("/v1/bookings", func(r chi.Router) {
			r.Post("/", controllers.CreateBooking(bookingsService, logg))
			r.Get("/", controllers.ListOwnerBookings(bookingsService, logg))
			r.Get("/sitter", controllers.ListSitterBookings(bookingsService, logg))
			r.Get("/{bookingId}", controllers.GetBooking(bookingsService, logg))
			r.Patch("/{bookingId}/status", controllers.UpdateBookingStatus(bookingsService, logg))
			r.Post("/{bookingId}/updates", controllers.AddBookingUpdate(bookingsService, logg))
			r.Get("/{bookingId}/updates", controllers.ListBookingUpdates(bookingsService, logg))
		})

		r.Post("/v1/reviews", controllers.CreateReview(reviewsService, logg))

		r.Get("/v1/swipe/profiles", controllers.SwipeDeck(swipesService, logg))
		r.Post("/v1/swipes", controllers.RecordSwipe(swipesService, logg))

		r.Route("/v1/matches", func(r chi.Router) {
			r.Get("/", controllers.ListMatches(matchesService, logg))
			r.Get("/{matchId}/messages", controllers.ChatHistory(chatService, logg))
			r.Post("/{matchId}/messages", controllers.SendChatMessage(chatService, logg))
			r.Get("/{matchId}/chat/ws", controllers.ChatSocket(chatService, chatHub, logg))
		})

		r.Route("/v1/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(notificationsService, logg))
			r.Post("/{notificationId}/read", controllers.MarkNotificationRead(notificationsService, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(notificationsService, logg))
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionManager, logg))
		r.Use(middleware.RequireRole("admin", logg))
		r.Use(middleware.Idempotency(redisClient, logg))
		r.Get("/ping", controllers.AdminPing())
		r.Route("/v1/sitters", func(r chi.Router) {
			r.Post("/{sitterId}/approve", controllers.AdminApproveSitter(sittersService, logg))
			r.Post("/{sitterId}/certify", controllers.AdminCertifySitter(sittersService, logg))
		})
	})

	return r
}

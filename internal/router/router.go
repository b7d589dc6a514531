package router

import (
	"net/http"
	"time"

	"challengehub/internal/config"
	"challengehub/internal/database"
	adminapi "challengehub/internal/handlers/api/v1/admin"
	announcementsapi "challengehub/internal/handlers/api/v1/announcements"
	authapi "challengehub/internal/handlers/api/v1/auth"
	notificationsapi "challengehub/internal/handlers/api/v1/notifications"
	publicapi "challengehub/internal/handlers/api/v1/public"
	"challengehub/internal/middleware"
	"challengehub/internal/models"
	"challengehub/internal/response"
	"challengehub/internal/services"

	"go.uber.org/zap"
)

// New assembles the HTTP handler tree. A nil service collection means
// the database was not configured; API routes then answer 503 while
// the health endpoint keeps working.
func New(
	cfg *config.Config,
	logger *zap.Logger,
	builder *response.Builder,
	svc *services.Collection,
	db *database.Manager,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", healthHandler(builder, db))

	if svc == nil {
		mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
			response.QuickError(w, r,
				services.NewServiceUnavailableError("Storage is not configured"))
		})
	} else {
		registerAPI(mux, cfg, logger, builder, svc)
	}

	chain := middleware.Chain(
		middleware.RequestID(logger),
		middleware.Recovery(),
		middleware.Logging(),
		middleware.CORS(cfg.Server.CORSOrigin),
		response.Middleware(builder),
	)
	return chain(mux)
}

func registerAPI(
	mux *http.ServeMux,
	cfg *config.Config,
	logger *zap.Logger,
	builder *response.Builder,
	svc *services.Collection,
) {
	authController := authapi.NewController(svc, logger, builder)
	publicController := publicapi.NewController(svc, logger, builder)
	adminController := adminapi.NewController(svc, logger, builder)
	announcementsController := announcementsapi.NewController(svc, logger, builder)
	notificationsController := notificationsapi.NewController(svc, logger, builder)

	authed := middleware.Authenticate(cfg.Auth.JWTSecret)
	admin := middleware.Chain(authed, middleware.RequireRole(models.RoleAdmin))
	owner := middleware.Chain(authed, middleware.RequireRole(models.RoleOwner))

	// Public auth flows
	mux.HandleFunc("POST /api/auth/register", authController.Register)
	mux.HandleFunc("POST /api/auth/verify-otp", authController.VerifyOTP)
	mux.HandleFunc("POST /api/auth/resend-otp", authController.ResendOTP)
	mux.HandleFunc("POST /api/auth/login", authController.Login)

	// Public reads
	mux.HandleFunc("GET /api/challenges", publicController.ListChallenges)
	mux.HandleFunc("GET /api/challenges/latest", publicController.LatestChallenge)
	mux.HandleFunc("GET /api/leaderboard", publicController.Leaderboard)
	mux.HandleFunc("GET /api/badges", publicController.ListBadges)
	mux.HandleFunc("GET /api/user/{id}", publicController.GetUser)

	// Authenticated self-service
	mux.Handle("PUT /api/auth/profile", authed(http.HandlerFunc(authController.UpdateProfile)))
	mux.Handle("POST /api/auth/profile/picture", authed(http.HandlerFunc(authController.UploadProfilePicture)))
	mux.Handle("GET /api/announcements", authed(http.HandlerFunc(announcementsController.List)))
	mux.Handle("GET /api/notifications", authed(http.HandlerFunc(notificationsController.List)))
	mux.Handle("PUT /api/notifications/read", authed(http.HandlerFunc(notificationsController.MarkAllRead)))

	// Admin management
	mux.Handle("GET /api/admin/users", admin(http.HandlerFunc(adminController.ListUsers)))
	mux.Handle("PUT /api/admin/user/{id}", admin(http.HandlerFunc(adminController.UpdateUser)))
	mux.Handle("GET /api/admin/challenge", admin(http.HandlerFunc(adminController.ListChallenges)))
	mux.Handle("POST /api/admin/challenge", admin(http.HandlerFunc(adminController.CreateChallenge)))
	mux.Handle("PUT /api/admin/challenge/{id}", admin(http.HandlerFunc(adminController.UpdateChallenge)))
	mux.Handle("DELETE /api/admin/challenge/{id}", admin(http.HandlerFunc(adminController.DeleteChallenge)))
	mux.Handle("GET /api/admin/badges", admin(http.HandlerFunc(adminController.ListBadges)))
	mux.Handle("POST /api/admin/badge", admin(http.HandlerFunc(adminController.CreateBadge)))
	mux.Handle("PUT /api/admin/badge/{id}", admin(http.HandlerFunc(adminController.UpdateBadge)))
	mux.Handle("DELETE /api/admin/badge/{id}", admin(http.HandlerFunc(adminController.DeleteBadge)))

	// Owner-only
	mux.Handle("DELETE /api/admin/user/{id}", owner(http.HandlerFunc(adminController.DeleteUser)))
	mux.Handle("POST /api/announcements", owner(http.HandlerFunc(announcementsController.Create)))
	mux.Handle("DELETE /api/announcements/{id}", owner(http.HandlerFunc(announcementsController.Delete)))
}

// healthHandler reports service liveness and, when storage is
// configured, database reachability.
func healthHandler(builder *response.Builder, db *database.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health := map[string]interface{}{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
		}

		if db == nil {
			health["database"] = "disabled"
		} else if err := db.Health(r.Context()); err != nil {
			health["status"] = "degraded"
			health["database"] = "unreachable"
		} else {
			health["database"] = "ok"
		}

		builder.WriteSuccess(w, r, health)
	}
}

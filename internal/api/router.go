package api

import (
	"database/sql"
	"net/http"
	"time"

	"storygame/internal/api/handler"
	"storygame/internal/api/middleware"
	"storygame/internal/app/service"
	"storygame/internal/common"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRouter mounts the public HTTP surface. All routes live at the root
// paths the frontend consumes; there is no auth middleware because identity
// travels in request bodies.
func NewRouter(
	authService *service.AuthService,
	levelService *service.LevelService,
	progressService *service.ProgressService,
	db *sql.DB,
	redisClient *redis.Client, // nil when the secondary store is not configured
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.TraceID)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	r.Get("/health", healthHandler(db, redisClient))

	authHandler := handler.NewAuthHandler(authService)
	authHandler.RegisterRoutes(r)

	levelHandler := handler.NewLevelHandler(levelService, progressService)
	r.Route("/levels", levelHandler.RegisterRoutes)

	userHandler := handler.NewUserHandler(progressService)
	r.Route("/users", userHandler.RegisterRoutes)

	return r
}

// healthHandler reports primary-store connectivity and, when a Redis client
// is wired, the secondary store's as well.
func healthHandler(db *sql.DB, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{"status": "ok", "database": "up", "cache": "disabled"}
		code := http.StatusOK

		if err := db.PingContext(r.Context()); err != nil {
			status["status"] = "degraded"
			status["database"] = "down"
			code = http.StatusServiceUnavailable
		}

		if redisClient != nil {
			status["cache"] = "up"
			if err := redisClient.Ping(r.Context()).Err(); err != nil {
				status["status"] = "degraded"
				status["cache"] = "down"
				code = http.StatusServiceUnavailable
			}
		}

		common.RespondWithJSON(w, code, status)
	}
}

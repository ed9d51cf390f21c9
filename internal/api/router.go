package api

import (
	"context"
	"fmt"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taskmanager/task-manager-api/internal/api/handler"
	"github.com/taskmanager/task-manager-api/internal/api/middleware"
	"github.com/taskmanager/task-manager-api/internal/core/domain"
	"github.com/taskmanager/task-manager-api/internal/core/service"
	mongorepo "github.com/taskmanager/task-manager-api/internal/infrastructure/db/mongo"
	redisrepo "github.com/taskmanager/task-manager-api/internal/infrastructure/db/redis"
	"github.com/taskmanager/task-manager-api/internal/infrastructure/security"
	"github.com/taskmanager/task-manager-api/internal/pkg/config"
	"github.com/taskmanager/task-manager-api/pkg/logger"
)

const metricsSubsystem = "taskmanager"

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(logger.Named(log, "http"))

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.BodyLimit(bodyLimit(cfg.Security.AvatarMaxBytes)))
	e.Use(echoprometheus.NewMiddleware(metricsSubsystem))

	// --- Dependencies ---
	signer, err := security.NewJWTSigner(cfg.JWT.Secret, cfg.JWT.TTL)
	if err != nil {
		return nil, fmt.Errorf("token signer: %w", err)
	}
	hasher := security.NewBcryptHasher(cfg.Security.BcryptCost)
	userRepo := mongorepo.NewUserRepository(db)
	taskRepo := mongorepo.NewTaskRepository(db)
	limiter := redisrepo.NewLoginLimiter(rdb, cfg.Security.LoginMaxAttempts, cfg.Security.LoginLockout)

	userService := service.NewUserService(userRepo, taskRepo, hasher, signer, limiter, cfg.Security.AvatarMaxBytes, logger.Named(log, "user_service"))
	taskService := service.NewTaskService(taskRepo, logger.Named(log, "task_service"))

	userHandler := handler.NewUserHandler(userService)
	taskHandler := handler.NewTaskHandler(taskService)
	auth := middleware.Auth(userService)

	// --- Account routes ---
	e.POST("/users", userHandler.Create)
	e.POST("/users/login", userHandler.Login)
	e.GET("/users/:id/avatar", userHandler.Avatar)

	users := e.Group("/users", auth)
	users.POST("/logout", userHandler.Logout)
	users.POST("/logoutAll", userHandler.LogoutAll)
	users.GET("/me", userHandler.Me)
	users.PATCH("/me", userHandler.UpdateMe)
	users.DELETE("/me", userHandler.DeleteMe)
	users.PUT("/me/avatar", userHandler.UploadAvatar)
	users.DELETE("/me/avatar", userHandler.DeleteAvatar)
	users.GET("/me/tasks", userHandler.MyTasks)

	// --- Task routes ---
	e.POST("/tasks", taskHandler.Create, auth)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(map[string]handler.DependencyCheck{
		"mongodb": func(ctx context.Context) error {
			return db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
		},
		"redis": func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		},
	})

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e, nil
}

// bodyLimit leaves room for multipart framing around the largest avatar.
// A non-positive limit falls back to the same default the account service uses.
func bodyLimit(avatarMaxBytes int) string {
	if avatarMaxBytes <= 0 {
		avatarMaxBytes = domain.DefaultMaxAvatarBytes
	}
	return fmt.Sprintf("%dK", avatarMaxBytes/1024+64)
}

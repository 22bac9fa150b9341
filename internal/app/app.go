package app

import (
	"context"
	"time"

	"blogtalks/internal/config"
	"blogtalks/internal/db"
	"blogtalks/internal/handlers"
	"blogtalks/internal/logger"
	"blogtalks/internal/repository"
	"blogtalks/internal/routes"
	"blogtalks/internal/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func InitApp(cfg *config.Config) (*mux.Router, error) {
	conn, err := db.NewPostgresConnection(cfg)
	if err != nil {
		return nil, err
	}

	sessionTTL, err := time.ParseDuration(cfg.SessionTTL)
	if err != nil {
		logger.Log.Warn("Невалидный SESSION_TTL, используется 720h", zap.String("value", cfg.SessionTTL))
		sessionTTL = 720 * time.Hour
	}

	// Репозитории
	userRepo := repository.NewUserRepository(conn)
	postRepo := repository.NewPostRepository(conn)
	commentRepo := repository.NewCommentRepository(conn)
	taxonomyRepo := repository.NewTaxonomyRepo(conn)
	sessionRepo := repository.NewSessionRepository(conn)

	// Сервисы
	authService := services.NewAuthService(userRepo, sessionRepo, cfg.BcryptCostInt(), sessionTTL)
	postService := services.NewPostService(postRepo)
	commentService := services.NewCommentService(commentRepo)
	taxonomyService := services.NewTaxonomyService(taxonomyRepo)
	userService := services.NewUserService(userRepo, sessionRepo)

	// Хендлеры
	authHandler := handlers.NewAuthHandler(authService, cfg.SessionCookie, cfg.SessionSecure)
	postHandler := handlers.NewPostHandler(postService)
	commentHandler := handlers.NewCommentHandler(commentService)
	taxonomyHandler := handlers.NewTaxonomyHandler(taxonomyService)
	userHandler := handlers.NewUserHandler(userService)

	// Периодическая чистка просроченных сессий
	_ = sessionRepo.DeleteExpired(context.Background())
	StartSessionCleaner(authService)

	// Маршруты
	router := mux.NewRouter()
	routes.InitRoutes(router, authService, cfg.SessionCookie,
		authHandler, postHandler, commentHandler, taxonomyHandler, userHandler)

	return router, nil
}

func StartSessionCleaner(auth *services.AuthService) {
	t := time.NewTicker(1 * time.Hour)
	go func() {
		for range t.C {
			if err := auth.CleanupExpiredSessions(context.Background()); err != nil {
				logger.Log.Error("Ошибка чистки сессий", zap.Error(err))
			}
		}
	}()
}

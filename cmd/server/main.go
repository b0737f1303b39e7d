package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nvoskresenskiy/tasker-backend/internal/config"
	"github.com/nvoskresenskiy/tasker-backend/internal/db"
	"github.com/nvoskresenskiy/tasker-backend/internal/goroutine"
	httpHandlers "github.com/nvoskresenskiy/tasker-backend/internal/http/handlers"
	httpRouter "github.com/nvoskresenskiy/tasker-backend/internal/http/router"
	"github.com/nvoskresenskiy/tasker-backend/internal/logger"
	"github.com/nvoskresenskiy/tasker-backend/internal/repository"
	"github.com/nvoskresenskiy/tasker-backend/internal/service"
	"github.com/nvoskresenskiy/tasker-backend/internal/storage"
	"github.com/nvoskresenskiy/tasker-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init("info")
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	mediaStorage, err := storage.NewMediaStorage(cfg.MediaStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: не удалось подготовить файловое хранилище: %v", err)
	}

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	taskerRepo := repository.NewTaskerRepository(dbConn)
	taskRepo := repository.NewTaskRepository(dbConn)
	catalogRepo := repository.NewCatalogRepository(dbConn)
	bookingRepo := repository.NewBookingRepository(dbConn)
	reviewRepo := repository.NewReviewRepository(dbConn)
	paymentRepo := repository.NewPaymentRepository(dbConn)
	verificationRepo := repository.NewVerificationRepository(dbConn)
	favoriteRepo := repository.NewFavoriteRepository(dbConn)
	locationRepo := repository.NewLocationRepository(dbConn)
	mediaRepo := repository.NewMediaRepository(dbConn)

	// Вебсокеты.
	hub := ws.NewHub()
	goroutine.SafeGo(hub.Run)

	// Периодическая очистка протухших сессий.
	goroutine.SafeGoWithContext(ctx, func(ctx context.Context) {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := userRepo.DeleteExpiredSessions(ctx); err != nil {
					logger.Log.WithError(err).Error("main: очистка сессий не удалась")
				}
			}
		}
	})

	// Сервисы.
	authService := service.NewAuthService(userRepo, tokenManager)
	taskerService := service.NewTaskerService(taskerRepo, userRepo, catalogRepo)
	taskService := service.NewTaskService(taskRepo, taskerRepo, catalogRepo)
	catalogService := service.NewCatalogService(catalogRepo)
	bookingService := service.NewBookingService(bookingRepo, taskRepo, taskerRepo, hub)
	reviewService := service.NewReviewService(reviewRepo, bookingRepo)
	paymentService := service.NewPaymentService(paymentRepo, bookingRepo, taskerRepo)
	verificationService := service.NewVerificationService(verificationRepo, taskerRepo)
	favoriteService := service.NewFavoriteService(favoriteRepo, taskerRepo, taskRepo)

	// HTTP хэндлеры и роутер.
	engine := httpRouter.SetupRouter(cfg, httpRouter.Handlers{
		Auth:         httpHandlers.NewAuthHandler(authService),
		Tasker:       httpHandlers.NewTaskerHandler(taskerService),
		Task:         httpHandlers.NewTaskHandler(taskService),
		Catalog:      httpHandlers.NewCatalogHandler(catalogService),
		Booking:      httpHandlers.NewBookingHandler(bookingService),
		Review:       httpHandlers.NewReviewHandler(reviewService),
		Payment:      httpHandlers.NewPaymentHandler(paymentService),
		Verification: httpHandlers.NewVerificationHandler(verificationService),
		Favorite:     httpHandlers.NewFavoriteHandler(favoriteService),
		Location:     httpHandlers.NewLocationHandler(locationRepo),
		Media:        httpHandlers.NewMediaHandler(mediaRepo, mediaStorage),
		Health:       httpHandlers.NewHealthHandler(dbConn),
		WS:           httpHandlers.NewWSHandler(hub, tokenManager, cfg.AllowedOrigins),
	}, tokenManager)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}

package app

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"file_integrity_backend/database"
	_ "file_integrity_backend/docs"
	"file_integrity_backend/internal/auth"
	"file_integrity_backend/internal/config"
	"file_integrity_backend/internal/email"
	"file_integrity_backend/internal/handlers"
	"file_integrity_backend/internal/logger"
	"file_integrity_backend/internal/middleware"
	"file_integrity_backend/internal/repositories"
	"file_integrity_backend/internal/routes"
	"file_integrity_backend/internal/services"
	"file_integrity_backend/internal/storage"
	"file_integrity_backend/internal/validator"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Run() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", "error", err)
	}

	var logFile *logger.FileOutput
	if cfg.Log.File != "" {
		logFile = &logger.FileOutput{
			Path:       cfg.Log.File,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
		}
	}
	logger.InitWithOutput(cfg.Server.Env, logFile)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("Connecting to database...", "dsn", database.DescribeDSN(cfg.Database.Driver, cfg.Database.DSN))
	gormDB, err := database.Open(database.Options{
		Driver:       cfg.Database.Driver,
		DSN:          cfg.Database.DSN,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	defer database.Close(gormDB)
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storageInstance, err := storage.NewStorage(ctx, storageConfig(cfg))
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	ginRouter, err := SetupRouter(cfg, gormDB, storageInstance)
	if err != nil {
		logger.Fatal("Failed to set up router", "error", err)
	}

	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      ginRouter,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("Server starting", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server startup error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	logger.Info("Server stopped")
}

func storageConfig(cfg *config.Config) storage.Config {
	return storage.Config{
		Type:      cfg.Storage.Type,
		BasePath:  cfg.Storage.BasePath,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Endpoint:  cfg.Storage.Endpoint,
		MaxSize:   cfg.Upload.MaxSize,
	}
}

// SetupRouter собирает сервисы, хэндлеры и маршруты поверх готовых БД и хранилища.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB, storageInstance storage.Storage) (*gin.Engine, error) {
	jwtManager, err := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Algorithm, cfg.TokenTTL())
	if err != nil {
		return nil, err
	}

	// 1. Сервисы
	serviceContainer := initializeServices(cfg, jwtManager, storageInstance)

	// 2. Хэндлеры
	appHandlers := initializeHandlers(cfg, serviceContainer)

	// 3. Gin
	ginRouter := initializeGinRouter(cfg, gormDB)

	// 4. Маршруты
	routes.RegisterRoutes(
		ginRouter,
		appHandlers,
		middleware.AuthMiddleware(serviceContainer.AuthService),
		routes.Options{Metrics: cfg.Metrics.Enabled, Swagger: cfg.Swagger.Enabled},
	)

	return ginRouter, nil
}

func initializeServices(cfg *config.Config, jwtManager *auth.JWTManager, storageInstance storage.Storage) *services.ServiceContainer {
	emailService := newEmailProvider(cfg)

	// --- Репозитории ---
	userRepo := repositories.NewUserRepository()
	fileRepo := repositories.NewFileRepository()
	logRepo := repositories.NewIntegrityLogRepository()

	// --- Сервисы ---
	authService := services.NewAuthService(userRepo, jwtManager)
	fileService := services.NewFileService(fileRepo, logRepo, userRepo, storageInstance, emailService, cfg.Upload.MaxSize)

	return &services.ServiceContainer{
		AuthService: authService,
		FileService: fileService,
	}
}

func newEmailProvider(cfg *config.Config) email.Provider {
	if !cfg.Email.Enabled {
		logger.Info("Email alerts disabled")
		return email.NoopProvider{}
	}

	provider, err := email.NewSMTPProvider(&email.SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
	})
	if err != nil {
		logger.Warn("Email alerts disabled: invalid SMTP config", "error", err)
		return email.NoopProvider{}
	}
	logger.Info("Email alerts enabled", "smtp_host", cfg.Email.SMTPHost)
	return provider
}

func initializeHandlers(cfg *config.Config, services *services.ServiceContainer) *handlers.AppHandlers {
	baseHandler := handlers.NewBaseHandler(validator.New())

	return &handlers.AppHandlers{
		HealthHandler: handlers.NewHealthHandler(),
		AuthHandler:   handlers.NewAuthHandler(baseHandler, services.AuthService),
		FileHandler:   handlers.NewFileHandler(baseHandler, services.FileService, cfg.Upload.MaxSize),
	}
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	if cfg.Metrics.Enabled {
		router.Use(middleware.MetricsMiddleware())
	}
	router.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	router.Use(middleware.DBMiddleware(db))

	// Multipart держим в памяти не больше лимита загрузки, остальное уходит во временные файлы
	if cfg.Upload.MaxSize > 0 {
		router.MaxMultipartMemory = cfg.Upload.MaxSize
	}
	return router
}

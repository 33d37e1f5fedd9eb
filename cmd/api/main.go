package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskhub/configs"
	v1 "taskhub/internal/api/v1"
	"taskhub/internal/api/v1/handlers"
	"taskhub/internal/auth"
	"taskhub/internal/middleware"
	"taskhub/internal/repository"
	"taskhub/internal/service"
	myws "taskhub/internal/websocket"
	"taskhub/pkg/database"
	"taskhub/pkg/logger"
	"taskhub/pkg/mailer"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"go.uber.org/zap"
)

func main() {
	// Load config
	cfg := configs.LoadConfig()

	// Inisialisasi logger
	logger.InitLoggers(cfg.LogDir)
	defer logger.SyncLoggers()
	logger.SystemLogger.Info("Starting application", zap.String("time", time.Now().Format(time.RFC3339)))

	loc := cfg.Location()

	// Inisialisasi database
	db := database.ConnectDB(cfg)
	defer db.Close()
	logger.SystemLogger.Info("Database Connected")

	// Buat tabel jika belum ada
	if err := repository.CreateTableIfNotExists(db); err != nil {
		logger.ErrorLogger.Fatal("Failed to create tables", zap.Error(err))
	}
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := repository.CreateAdminUser(db, cfg.AdminEmail, cfg.AdminPassword, cfg.BcryptCost); err != nil {
			logger.ErrorLogger.Error("Failed to create admin user", zap.Error(err))
		}
	}

	// Redis dipakai untuk cache kategori dan blacklist refresh token.
	// Tanpa REDIS_HOST keduanya berjalan di memori.
	var rdb *redis.Client
	var blacklist auth.Blacklist = auth.NewMemoryBlacklist()
	if cfg.RedisHost != "" {
		rdb = database.ConnectRedis(cfg)
		defer rdb.Close()
		blacklist = auth.NewRedisBlacklist(rdb)
		logger.SystemLogger.Info("Redis Connected")
	}

	var categories service.CategoryStore = repository.NewCategoryRepository(db)
	if rdb != nil {
		categories = repository.NewCategoryCache(repository.NewCategoryRepository(db), rdb, cfg.CategoryTTL)
	}
	users := repository.NewUserRepository(db, cfg.EncryptionKey)
	tasks := repository.NewTaskRepository(db)
	comments := repository.NewCommentRepository(db)

	hub := myws.NewHub()
	go hub.Run()
	defer hub.Stop()

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, blacklist)
	h := &handlers.Handler{
		Users:      service.NewUserService(users, tokens, cfg.BcryptCost),
		Tasks:      service.NewTaskService(tasks, categories, users, hub, time.Now, loc),
		Categories: service.NewCategoryService(categories),
		Comments:   service.NewCommentService(comments, tasks, hub),
		UploadDir:  cfg.UploadDir,
	}

	// Reminder job
	var m mailer.Mailer = mailer.LogMailer{}
	if cfg.SMTPHost != "" {
		m = mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	}
	reminders := service.NewReminderService(tasks, m, cfg.DefaultFromEmail, time.Now, loc)
	scheduler := service.NewSchedulerService(loc)
	reminderID, err := scheduler.ScheduleReminders(cfg.ReminderSchedule, reminders, 10*time.Minute)
	if err != nil {
		logger.ErrorLogger.Fatal("Failed to schedule reminders", zap.Error(err))
	}
	scheduler.Start()
	logger.SystemLogger.Info("Reminder job scheduled",
		zap.String("schedule", cfg.ReminderSchedule), zap.Time("next_run", scheduler.Next(reminderID)))
	defer scheduler.Stop()

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.FiberErrorHandler,
		BodyLimit:    6 << 20,
	})

	// Middleware
	app.Use(middleware.ErrorHandler())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
	}))

	app.Static("/uploads", cfg.UploadDir)

	// Daftarkan route API v1
	v1.RegisterRoutes(app, h, tokens)

	// WebSocket notifikasi per user
	app.Use("/ws", myws.RequireUpgrade)
	app.Get("/ws", middleware.UseQueryToken(tokens), hub.Handler())

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		logger.SystemLogger.Info("Shutting down")
		if err := app.Shutdown(); err != nil {
			logger.ErrorLogger.Error("Shutdown failed", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%d", cfg.AppPort)
	logger.SystemLogger.Info("Application ready", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		logger.ErrorLogger.Error("Application failed to start", zap.Error(err))
	}
}

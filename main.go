package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/google/uuid"

	"hadirku_backend/internals/configs"
	database "hadirku_backend/internals/databases"
	recordService "hadirku_backend/internals/features/attendance/records/service"
	sessionScheduler "hadirku_backend/internals/features/attendance/sessions/scheduler"
	sessionService "hadirku_backend/internals/features/attendance/sessions/service"
	enrollService "hadirku_backend/internals/features/enrollment/service"
	notifService "hadirku_backend/internals/features/notifications/service"
	middlewares "hadirku_backend/internals/middlewares"
	routes "hadirku_backend/internals/route"
)

func main() {
	configs.LoadEnv()

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
	})

	// ⚙️ middleware dasar + performa
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())

	// 🔎 Request-ID + timing
	app.Use(func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("X-Request-ID", id)
		c.Locals("reqid", id)
		start := time.Now()
		ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()
		c.SetUserContext(ctx)
		err := c.Next()
		log.Printf("[REQ] id=%s %s %s status=%d dur=%s", id, c.Method(), c.OriginalURL(), c.Response().StatusCode(), time.Since(start))
		return err
	})

	middlewares.SetupMiddlewares(app)

	// 🔌 DB connect + pool + migrasi + warm-up
	database.ConnectDB()
	database.TunePool()
	database.Migrate()
	database.WarmUpQueries()

	// 🧩 Rakit engine kehadiran (DI eksplisit — tidak ada singleton tersembunyi)
	sessionStore := sessionService.NewGormSessionStore(database.DB)
	recordStore := recordService.NewGormRecordStore(database.DB)
	ledger := recordService.NewAttendanceLedgerService(recordStore)
	enrollment := enrollService.NewGormEnrollmentProvider(database.DB)
	dispatcher := notifService.NewOutboxDispatcher(database.DB)
	manager := sessionService.NewSessionManagerService(
		sessionStore, ledger, enrollment, dispatcher,
		configs.DefaultRecognitionWindowMinutes,
		configs.DefaultMaxDurationMinutes,
	)

	// ⏱ auto-expiry sweep setelah DB siap
	schedCtx, schedCancel := context.WithCancel(context.Background())
	defer schedCancel()
	sessionScheduler.StartAutoExpiryScheduler(schedCtx, manager,
		time.Duration(configs.AutoExpirySweepSeconds)*time.Second)

	// ✅ Routes
	routes.SetupRoutes(app, manager, ledger)

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	// Start server non-blocking
	go func() {
		log.Printf("✅ Listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown + stop scheduler + tutup pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	schedCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

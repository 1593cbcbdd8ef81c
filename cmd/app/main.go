package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	dbadapter "prolearn/internal/adapters/database"
	"prolearn/internal/adapters/filestore"
	"prolearn/internal/adapters/httpapi"
	"prolearn/internal/adapters/memory"
	natsadapter "prolearn/internal/adapters/nats"
	redisadapter "prolearn/internal/adapters/redis"
	"prolearn/internal/config"
	followerapp "prolearn/internal/core/follower/service"
	notificationapp "prolearn/internal/core/notification/service"
	postapp "prolearn/internal/core/post/service"
	userapp "prolearn/internal/core/user/service"
	eventsPort "prolearn/internal/ports/events"
	notificationPort "prolearn/internal/ports/notification"
	"prolearn/internal/workers"

	"go.uber.org/zap"
)

func main() {
	config.InitLogger(os.Getenv("APP_ENV"))
	defer config.Logger.Sync() // flush buffer

	cfg, err := config.Load() // بارگذاری تنظیمات از .env و متغیرهای محیطی
	if err != nil {
		config.Logger.Fatal("Invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// اتصال به دیتابیس و اجرای مایگریشن‌ها
	if err := config.InitDB(cfg); err != nil {
		config.Logger.Fatal("Error connecting to the database", zap.Error(err))
	}
	defer config.CloseDB()
	if err := dbadapter.Migrate(config.DB); err != nil {
		config.Logger.Fatal("Error during migrations", zap.Error(err))
	}
	config.Logger.Info("✅ Database migrations completed")

	// اتصال به Redis؛ بدون آن صف اعلان درون‌فرایندی است
	if err := config.InitRedis(ctx, cfg); err != nil {
		config.Logger.Fatal("Error connecting to Redis", zap.Error(err))
	}
	defer config.CloseRedis()
	var queue notificationPort.Queue
	if config.RedisClient != nil {
		queue = redisadapter.NewNotificationQueueRedis(config.RedisClient, config.Logger)
	} else {
		queue = memory.NewNotificationQueue(1024)
	}

	var publisher eventsPort.Publisher = eventsPort.Nop{}
	if cfg.NatsURL != "" {
		nc, err := natsadapter.Connect(cfg.NatsURL, config.Logger)
		if err != nil {
			config.Logger.Fatal("Error connecting to NATS", zap.Error(err))
		}
		natsPublisher := natsadapter.NewEventPublisher(nc, config.Logger)
		defer natsPublisher.Close()
		publisher = natsPublisher
		config.Logger.Info("✅ Connected to NATS", zap.String("url", cfg.NatsURL))
	}

	mediaStore, err := filestore.NewMediaStore(cfg.MediaUploadDir, config.Logger)
	if err != nil {
		config.Logger.Fatal("Error preparing media directory", zap.Error(err))
	}

	userRepo := dbadapter.NewUserRepositoryDatabase(config.DB)                 // آداپتر خروجی
	postRepo := dbadapter.NewPostRepositoryDatabase(config.DB)                 // آداپتر خروجی
	followerRepo := dbadapter.NewFollowerRepositoryDatabase(config.DB)         // آداپتر خروجی
	notificationRepo := dbadapter.NewNotificationRepositoryDatabase(config.DB) // آداپتر خروجی
	txRunner := dbadapter.NewTxRunner(config.DB)

	// یوزکیس/سرویس‌ها
	notificationSvc := notificationapp.NewNotificationService(notificationRepo, userRepo, queue, config.Logger)
	userSvc := userapp.NewUserService(userRepo, []byte(cfg.JWTSecret), config.Logger)
	postSvc := postapp.NewPostService(txRunner, postRepo, userRepo, mediaStore, notificationSvc, publisher, config.Logger)
	followerSvc := followerapp.NewFollowerService(followerRepo, userRepo, notificationSvc, config.Logger)

	r := httpapi.SetupRoutes(httpapi.RouterConfig{
		JWTSecret:      []byte(cfg.JWTSecret),
		AllowedOrigins: cfg.CORSAllowedOrigins,
		MaxUploadBytes: cfg.MaxUploadMB << 20,
		Logger:         config.Logger,
		Health: func(ctx context.Context) error {
			sqlDB, err := config.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}, userSvc, postSvc, followerSvc, notificationSvc) // تزریق یوزکیس به آداپتر ورودی

	// اجرای workerها در پس‌زمینه
	var wg sync.WaitGroup
	notificationWorker := workers.NewNotificationWorker(queue, notificationSvc, config.Logger)
	janitor := workers.NewMediaJanitor(mediaStore, postRepo, cfg.MediaJanitorInterval, cfg.MediaJanitorGrace, config.Logger)
	wg.Add(2)
	go func() { defer wg.Done(); notificationWorker.Run(ctx) }()
	go func() { defer wg.Done(); janitor.Run(ctx) }()

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		config.Logger.Info("App is running...", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			config.Logger.Fatal("Server failed to start:", zap.Error(err))
		}
	}()

	<-ctx.Done()
	config.Logger.Info("🛑 Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		config.Logger.Error("Error during server shutdown", zap.Error(err))
	}
	wg.Wait()
}

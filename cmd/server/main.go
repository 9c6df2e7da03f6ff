package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/comptrack/backend/api/handler"
	"github.com/comptrack/backend/internal/config"
	"github.com/comptrack/backend/internal/infrastructure/buffer"
	"github.com/comptrack/backend/internal/infrastructure/monitor"
	pgInfra "github.com/comptrack/backend/internal/infrastructure/postgres"
	redisInfra "github.com/comptrack/backend/internal/infrastructure/redis"
	"github.com/comptrack/backend/internal/middleware"
	"github.com/comptrack/backend/internal/router"
	"github.com/comptrack/backend/internal/services"
	"github.com/comptrack/backend/internal/services/lifecycle"
	"github.com/comptrack/backend/notify"
	"github.com/comptrack/backend/pkg/httpcontext"
	"github.com/comptrack/backend/pkg/logger"
	"github.com/comptrack/backend/repository/postgres"
	redisRepo "github.com/comptrack/backend/repository/redis"
	authUC "github.com/comptrack/backend/usecase/auth"
	milestoneUC "github.com/comptrack/backend/usecase/milestone"
	notificationUC "github.com/comptrack/backend/usecase/notification"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	bufferStore, err := buffer.Open(cfg.Buffer.Path)
	if err != nil {
		zapLogger.Fatal("failed to open buffer store", zap.Error(err))
	}
	manager.Register("buffer", func(ctx context.Context) error {
		return bufferStore.Close()
	})

	mon := monitor.New(pool, redisClient, bufferStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	milestoneRepo := postgres.NewMilestoneRepository(pool)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.Admin.SessionTTL)

	bufferProcessor := services.NewBufferProcessor(
		bufferStore,
		mon,
		milestoneRepo,
		zapLogger,
		services.ProcessorConfig{
			Interval:   cfg.Buffer.SyncInterval,
			BatchSize:  50,
			MaxRetries: cfg.Buffer.MaxRetry,
		},
	)
	bufferProcessor.Start()
	manager.Register("buffer_processor", func(ctx context.Context) error {
		bufferProcessor.Stop(ctx)
		return nil
	})

	bufferBridge := services.NewBufferBridge(bufferProcessor)

	gateway := notify.NewTwilioGateway(notify.TwilioConfig{
		AccountSID: cfg.Twilio.AccountSID,
		AuthToken:  cfg.Twilio.AuthToken,
		FromNumber: cfg.Twilio.FromNumber,
		Timeout:    cfg.Twilio.Timeout,
	}, zapLogger)

	authUseCase := authUC.New(
		sessionRepo,
		authUC.Credentials{Username: cfg.Admin.Username, Password: cfg.Admin.Password},
		cfg.JWT.Secret,
		cfg.JWT.Issuer,
		zapLogger,
	)
	milestoneUseCase := milestoneUC.New(milestoneRepo, bufferBridge, zapLogger)
	notificationUseCase := notificationUC.New(milestoneRepo, gateway, notificationUC.Config{
		DefaultRecipient: cfg.Notify.DefaultRecipient,
		Bulk:             cfg.Notify.Bulk,
		HorizonDays:      cfg.Notify.HorizonDays,
	}, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:         apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger, cfg.Admin.SessionTTL),
		Milestone:    apiHandler.NewMilestoneHandler(milestoneUseCase, notificationUseCase, authUseCase, ctxAdapter, zapLogger),
		Compliance:   apiHandler.NewComplianceHandler(milestoneUseCase, cfg.Notify.HorizonDays, ctxAdapter, zapLogger),
		Notification: apiHandler.NewNotificationHandler(notificationUseCase, authUseCase, ctxAdapter, zapLogger),
		Health:       apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}

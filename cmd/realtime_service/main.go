package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "todo_realtime_service/cmd/realtime_service/docs" // 引入生成的 Swagger 文档
	"todo_realtime_service/internal/realtime/app"
	"todo_realtime_service/internal/realtime/repository"
	"todo_realtime_service/internal/realtime/router"
	"todo_realtime_service/pkg/config"
	"todo_realtime_service/pkg/database"
	"todo_realtime_service/pkg/logger"
	testtool "todo_realtime_service/pkg/test_tool"
	"todo_realtime_service/pkg/token"

	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.RealtimeService, config.EnvConfig.RealtimeLogPath)
	defer logger.Log.Sync()
	cfg := config.LoadConfig[config.Realtime](config.EnvConfig.RealtimeService, config.EnvConfig.RealtimeYAMLPath)
	cfg.ApplyDefaults()

	if cfg.JWTSecret != "" {
		token.SetSecret(cfg.JWTSecret)
	}
	testtool.StartPprof(cfg.Pprof)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. notification store (gorm / postgres)
	pgDSN := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.PostgreSQL.User, cfg.PostgreSQL.Password, cfg.PostgreSQL.Host, cfg.PostgreSQL.Port, cfg.PostgreSQL.Database)
	pgConn := database.Connection{
		ConnectStr:    pgDSN,
		RetryCount:    cfg.PostgreSQL.RetryCount,
		RetryInterval: time.Duration(cfg.PostgreSQL.RetryInterval),
	}
	gormDB, err := database.NewGormConnection(pgConn)
	if err != nil {
		logger.Log.Fatal("Unable to connect to postgres (gorm) after retries", zap.Error(err))
	}
	notificationRepo := repository.NewNotificationRepository(gormDB)
	if err := notificationRepo.AutoMigrate(); err != nil {
		logger.Log.Fatal("notification migrate failed", zap.Error(err))
	}

	// 2. user directory (pgx)
	pool, err := database.NewDatabaseConnection(pgConn)
	if err != nil {
		logger.Log.Fatal("Unable to connect to postgres (pgx) after retries", zap.Error(err))
	}
	defer pool.Close()
	userRepo := repository.NewUserRepository(pool)

	// 3. chat store (mongo)
	uri := fmt.Sprintf("mongodb://%s:%s@%s:%d", cfg.MongoSQL.User, cfg.MongoSQL.Password, cfg.MongoSQL.Host, cfg.MongoSQL.Port)
	mongo, err := database.NewMongoDB(ctx,
		database.Connection{
			ConnectStr:    uri,
			RetryCount:    cfg.MongoSQL.RetryCount,
			RetryInterval: time.Duration(cfg.MongoSQL.RetryInterval),
		},
		cfg.MongoSQL.Database)
	if err != nil {
		logger.Log.Fatal("Unable to connect to mongoDB database after retries", zap.String("address", cfg.MongoSQL.Host), zap.Error(err))
	}
	defer mongo.Close(context.Background())
	if err := repository.EnsureIndexes(ctx, mongo.Database); err != nil {
		logger.Log.Warn("chat index creation failed", zap.Error(err))
	}
	chatRepo := repository.NewMongoChatMessageRepository(mongo.Database)

	// 4. chat attachments (minio)
	minioClient, err := database.NewMinIOConnection(database.MinIOConnection{
		Endpoint:      cfg.MinIO.Endpoint,
		User:          cfg.MinIO.User,
		Password:      cfg.MinIO.Password,
		BucketName:    cfg.MinIO.BucketName,
		UseSSL:        cfg.MinIO.UseSSL,
		RetryCount:    cfg.MinIO.RetryCount,
		RetryInterval: time.Duration(cfg.MinIO.RetryInterval),
	})
	var objectStore app.ObjectStore
	if err != nil {
		logger.Log.Warn("minio unavailable, chat attachments disabled", zap.Error(err))
	} else {
		objectStore = minioClient
	}

	// 5. realtime transport
	var transport repository.Transport
	switch cfg.Transport {
	case "local":
		transport = repository.NewLocalHub(0)
	default:
		masterName, sentinel := config.GetRedisSetting()
		redisClient, err := database.NewRedisClient(masterName, sentinel, cfg.Redis.Addr, cfg.Redis.RedisDB)
		if err != nil {
			logger.Log.Fatal("connect redis failed", zap.Error(err))
		}
		defer redisClient.Close()
		transport = repository.NewRedisPubSub(redisClient)
	}
	logger.Log.Info("realtime transport", zap.String("kind", cfg.Transport))

	// 6. use cases
	presence := app.NewPresenceRegistry()
	msgRouter := app.NewRouter(transport)
	lifecycle := app.NewConnectionLifecycleHandler(presence, msgRouter, userRepo)
	notificationUC := app.NewNotificationUseCase(notificationRepo, msgRouter)
	chatRelay := app.NewChatRelay(chatRepo, msgRouter, objectStore, cfg.MinIO.PresignExpiry)

	// 7. domain events (kafka)
	if cfg.Kafka.Enable {
		reader := database.NewKafkaReader(database.KafkaConnection{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			GroupID: cfg.Kafka.GroupID,
		})
		consumer := app.NewDomainEventConsumer(reader, app.NewDomainEventNotifier(notificationUC, userRepo))
		go func() {
			if err := consumer.Run(ctx); err != nil {
				logger.Log.Error("domain event consumer exited", zap.Error(err))
			}
		}()
	}

	// 8. grpc health
	if cfg.GRPCPort != "" {
		grpcServer, healthServer, err := database.StartHealthServer(cfg.GRPCPort)
		if err != nil {
			logger.Log.Fatal("grpc health server failed", zap.Error(err))
		}
		healthServer.SetServingStatus(config.EnvConfig.RealtimeService, healthpb.HealthCheckResponse_SERVING)
		defer grpcServer.GracefulStop()
	}

	// 9. fiber
	r := fiber.New()
	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.RealtimeLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()
	r.Use(fiber_log.New(fiber_log.Config{
		Output: file,
	}))

	router.RegisterRoutes(r, router.Handlers{
		Presence:     presence,
		Websocket:    app.NewRealtimeWebsocketHandler(lifecycle, chatRelay, transport, cfg.Websocket.PingInterval),
		Notification: app.NewNotificationHandler(notificationUC, userRepo),
		Chat:         app.NewChatHandler(chatRelay),
	})

	go func() {
		<-ctx.Done()
		logger.Log.Info("shutting down")
		if err := r.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Log.Error("fiber shutdown failed", zap.Error(err))
		}
	}()

	port := ":" + cfg.Port
	logger.Log.Info("Realtime Service listening", zap.String("port", port))
	if err := r.Listen(port); err != nil {
		logger.Log.Fatal("Failed to start Fiber", zap.Error(err))
	}
}

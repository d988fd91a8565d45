package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/acsiqueiraGit/FloodFillBackend/internal/domain"
	"github.com/acsiqueiraGit/FloodFillBackend/internal/floodfill"
	httpHandler "github.com/acsiqueiraGit/FloodFillBackend/internal/handler/http"
	wsHandler "github.com/acsiqueiraGit/FloodFillBackend/internal/handler/websocket"
	"github.com/acsiqueiraGit/FloodFillBackend/internal/hub"
	gormpersistence "github.com/acsiqueiraGit/FloodFillBackend/internal/infra/persistence/gorm"
	"github.com/acsiqueiraGit/FloodFillBackend/internal/infra/persistence/memory"
	"github.com/acsiqueiraGit/FloodFillBackend/internal/infra/setup"
	redisstate "github.com/acsiqueiraGit/FloodFillBackend/internal/infra/state/redis"
	"github.com/acsiqueiraGit/FloodFillBackend/internal/middleware"
	"github.com/acsiqueiraGit/FloodFillBackend/internal/repository"
	"github.com/acsiqueiraGit/FloodFillBackend/internal/service"
	"github.com/acsiqueiraGit/FloodFillBackend/internal/tasks"
	"github.com/acsiqueiraGit/FloodFillBackend/internal/worker"
)

// lockMaxWait 是填色请求等待画布锁的最长时间
const lockMaxWait = 2 * time.Second

// App 结构体包含应用的所有组件和配置
type App struct {
	Config      *Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	AsynqClient *asynq.Client
	AsynqServer *worker.WorkerServer
	Hub         *hub.Hub
	HttpServer  *http.Server

	stopHub context.CancelFunc
}

// NewApp 创建并初始化应用的所有组件
func NewApp() (*App, error) {
	// 1. 加载配置
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return nil, err
	}

	// 2. 初始化 Logger
	log := NewLogger(cfg)
	log.WithFields(logrus.Fields{
		"storage": cfg.StorageDriver,
		"redis":   cfg.RedisEnabled(),
		"env":     cfg.AppEnv,
	}).Info("Configuration loaded successfully")

	app := &App{Config: cfg, Log: log}

	// 3. 存储层
	var (
		floodfillRepo repository.FloodFillRepository
		actionRepo    repository.PaintActionRepository
	)
	switch cfg.StorageDriver {
	case StorageMySQL:
		db, err := setup.InitDB(cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			return nil, fmt.Errorf("failed to init DB: %w", err)
		}
		if err := setup.MigrateDB(db); err != nil {
			return nil, fmt.Errorf("failed to migrate DB: %w", err)
		}
		app.DB = db
		floodfillRepo = gormpersistence.NewGormFloodFillRepository(db)
		actionRepo = gormpersistence.NewGormPaintActionRepository(db)
		log.Info("MySQL repositories initialized")
	default:
		var seed []domain.FloodFill
		if cfg.SeedSample {
			seed = append(seed, memory.SampleFloodFill())
		}
		floodfillRepo = memory.NewFloodFillRepository(seed...)
		actionRepo = memory.NewPaintActionRepository()
		log.WithField("seeded", cfg.SeedSample).Info("In-memory repositories initialized")
	}

	// 4. Redis 相关组件：画布锁、填色历史队列、限流
	var (
		locker   repository.GridLocker
		recorder service.PaintRecorder
	)
	if cfg.RedisEnabled() {
		redisClient, err := setup.InitRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("failed to init Redis: %w", err)
		}
		app.RedisClient = redisClient

		redisClientOpt := asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}
		app.AsynqClient = asynq.NewClient(redisClientOpt)
		app.AsynqServer = worker.NewWorkerServer(redisClientOpt, 10, actionRepo, log)

		locker = redisstate.NewRedisGridLocker(redisClient, cfg.KeyPrefix, cfg.PaintLockTTL, lockMaxWait)
		recorder = tasks.NewDispatcher(app.AsynqClient, tasks.QueuePaintRecord)
		log.Info("Redis lock, asynq client and worker server initialized")
	} else {
		locker = memory.NewGridLocker(lockMaxWait)
		recorder = service.NewRepositoryRecorder(actionRepo)
		log.Info("Redis not configured, using in-process lock and synchronous history")
	}

	// 5. Service 和 Handler
	floodfillService := service.NewFloodFillService(
		floodfillRepo,
		actionRepo,
		locker,
		recorder,
		floodfill.NewGridFactory(nil),
		cfg.MaxGridArea,
	)
	app.Hub = hub.NewHub(app.RedisClient, cfg.KeyPrefix)
	floodfillService.SetNotifier(app.Hub)
	floodfillHandler := httpHandler.NewFloodFillHandler(floodfillService)
	watchHandler := wsHandler.NewWatchHandler(app.Hub, floodfillService, cfg.CORSAllowedOrigin)

	// 6. 路由和 HTTP Server
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	var limiter redis.Cmdable
	if app.RedisClient != nil {
		limiter = app.RedisClient
	}
	router := NewRouter(cfg, log, floodfillHandler, watchHandler, limiter)

	app.HttpServer = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Info("Application assembled successfully")

	return app, nil
}

// NewRouter 组装 gin 路由。limiter 为 nil 时不启用限流。
func NewRouter(
	cfg *Config,
	log *logrus.Logger,
	floodfillHandler *httpHandler.FloodFillHandler,
	watchHandler *wsHandler.WatchHandler,
	limiter redis.Cmdable,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(log))
	router.Use(CORS(cfg.CORSAllowedOrigin))

	router.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "pong"}) })

	api := router.Group("")
	api.Use(middleware.UserID())
	if limiter != nil {
		api.Use(middleware.RateLimit(limiter, cfg.KeyPrefix, cfg.RateLimitMax, cfg.RateLimitWindow))
	}
	floodfillHandler.RegisterRoutes(api)
	watchHandler.RegisterRoutes(api)

	return router
}

// NewLogger 按环境选择日志格式
func NewLogger(cfg *Config) *logrus.Logger {
	log := logrus.New()
	if cfg.AppEnv == "production" {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	log.SetOutput(os.Stdout)

	// service 层使用全局 logrus，保持同样的格式和级别
	logrus.SetFormatter(log.Formatter)
	logrus.SetLevel(level)
	return log
}

// Start 启动 hub、worker 和 HTTP 服务器
func (a *App) Start() {
	hubCtx, cancel := context.WithCancel(context.Background())
	a.stopHub = cancel
	go a.Hub.Run(hubCtx)

	if a.AsynqServer != nil {
		go a.AsynqServer.Start()
		a.Log.Info("Asynq worker server routine started")
	}

	go func() {
		a.Log.Infof("HTTP server starting to listen on %s", a.HttpServer.Addr)
		if err := a.HttpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Log.Fatalf("Failed to start HTTP server: %v", err)
		}
		a.Log.Info("HTTP server stopped listening.")
	}()
}

// Shutdown 优雅地关闭应用
func (a *App) Shutdown() {
	a.Log.Info("Shutting down application...")

	// 1. 先停止接收新请求
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.HttpServer.Shutdown(ctx); err != nil {
		a.Log.Errorf("Error shutting down HTTP server: %v", err)
	} else {
		a.Log.Info("HTTP server shut down gracefully.")
	}

	// 2. 停止 Redis 事件订阅
	if a.stopHub != nil {
		a.stopHub()
	}

	// 3. 处理完队列中正在执行的任务
	if a.AsynqServer != nil {
		a.AsynqServer.Shutdown()
	}

	// 4. 关闭客户端连接
	if a.AsynqClient != nil {
		if err := a.AsynqClient.Close(); err != nil {
			a.Log.Errorf("Error closing Asynq client: %v", err)
		}
	}
	if a.RedisClient != nil {
		if err := a.RedisClient.Close(); err != nil {
			a.Log.Errorf("Error closing Redis connection: %v", err)
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				a.Log.Errorf("Error closing database connection: %v", err)
			}
		}
	}

	a.Log.Info("Application shutdown complete.")
}

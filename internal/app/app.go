package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"skillswap/internal/config"
	"skillswap/internal/controller"
	"skillswap/internal/repository"
	"skillswap/internal/service"
	"skillswap/internal/util"
	"skillswap/pkg/configwatcher"
	"skillswap/pkg/database"
	"skillswap/pkg/logger"
	"skillswap/pkg/monitoring"
	"skillswap/pkg/security"
	"skillswap/pkg/tracing"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	origins         *security.OriginSet
	tracer          *sdktrace.TracerProvider
	cancel          context.CancelFunc
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user     *repository.UserRepository
	category *repository.CategoryRepository
	skill    *repository.SkillRepository
	session  *repository.SessionRepository
	chat     *repository.ChatRepository
	review   *repository.ReviewRepository
}

type services struct {
	auth     *service.AuthService
	storage  *service.StorageService
	user     *service.UserService
	category *service.CategoryService
	skill    *service.SkillService
	session  *service.SessionService
	chat     *service.ChatService
	review   *service.ReviewService
	reminder *service.ReminderService
	notifier service.Notifier
	chatHub  *service.ChatHub
}

type controllers struct {
	auth     *controller.AuthController
	user     *controller.UserController
	category *controller.CategoryController
	skill    *controller.SkillController
	session  *controller.SessionController
	review   *controller.ReviewController
	health   *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:     repository.NewUserRepository(db),
		category: repository.NewCategoryRepository(db, rdb),
		skill:    repository.NewSkillRepository(db),
		session:  repository.NewSessionRepository(db),
		chat:     repository.NewChatRepository(db),
		review:   repository.NewReviewRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.notifier = service.NewNotifier(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user, s.storage)
	s.category = service.NewCategoryService(repos.category)
	s.skill = service.NewSkillService(repos.skill, repos.category)
	s.session = service.NewSessionService(repos.session, repos.skill, s.notifier)
	s.review = service.NewReviewService(repos.review, repos.session, repos.user)
	s.reminder = service.NewReminderService(repos.session, s.notifier, cfg.Reminder)

	s.chatHub = service.NewChatHub(rdb)
	s.chat = service.NewChatService(repos.chat, s.session, s.chatHub)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:     controller.NewAuthController(s.auth),
		user:     controller.NewUserController(s.user),
		category: controller.NewCategoryController(s.category),
		skill:    controller.NewSkillController(s.skill),
		session:  controller.NewSessionController(s.session, s.chat, s.chatHub),
		review:   controller.NewReviewController(s.review),
		health:   controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	a.origins = security.NewOriginSet(cfg.CORS.AllowedOrigins)
	router.Use(security.RequestID())
	router.Use(security.CORS(a.origins))
	router.Use(security.Secure())
	if cfg.RateLimit.MaxRequests > 0 {
		router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))
	}

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) startBackgroundTasks(ctx context.Context, s *services) {
	go s.chatHub.Run(ctx)

	if a.Config.Reminder.Enabled && a.Config.Reminder.Interval > 0 {
		go s.reminder.Start(ctx, a.Config.Reminder.Interval)
	}
}

// NewServer wires repositories, services and routes over an open database.
// rdb may be nil.
func NewServer(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *App {
	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db, rdb)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, repos)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	ctx, cancel := context.WithCancel(context.Background())
	app.cancel = cancel
	app.startBackgroundTasks(ctx, services)

	return app
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode == gin.DebugMode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// release 模式默认不自动迁移
	if cfg.ForceMigrate || cfg.Server.Mode != gin.ReleaseMode {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db, Redis: rdb}
	}

	app := NewServer(cfg, db, rdb)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("skillswap", cfg.Tracing.Exporter, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	app.RegisterConfigCallback(func(newCfg *config.Config) {
		logger.SetLevel(newCfg.Log.Level)
	})
	app.RegisterConfigCallback(func(newCfg *config.Config) {
		app.origins.Update(newCfg.CORS.AllowedOrigins)
	})

	return app
}

// WatchConfig applies reloadable settings from configFile until the app closes.
func (a *App) WatchConfig(configFile string) {
	ctx, cancel := context.WithCancel(context.Background())
	prev := a.cancel
	a.cancel = func() {
		cancel()
		if prev != nil {
			prev()
		}
	}
	go func() {
		err := configwatcher.WatchConfig(ctx, configFile, func(newCfg *config.Config) {
			for _, cb := range a.configCallbacks {
				cb(newCfg)
			}
		})
		if err != nil {
			logger.Log.Warn("Config watcher disabled", zap.Error(err))
		}
	}()
}

// Close stops background work and releases connections.
func (a *App) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	// 清理 WebSocket连接
	if a.services != nil && a.services.chatHub != nil {
		a.services.chatHub.Stop()
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(context.Background()); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Println("Server forced to shutdown:", err)
	}
	a.Close()

	log.Println("Server exiting")
}

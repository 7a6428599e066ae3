package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ManvithReddyyy/vinnu-app/internal/config"
	"github.com/ManvithReddyyy/vinnu-app/internal/controller"
	"github.com/ManvithReddyyy/vinnu-app/internal/repository"
	"github.com/ManvithReddyyy/vinnu-app/internal/service"
	"github.com/ManvithReddyyy/vinnu-app/pkg/configwatcher"
	"github.com/ManvithReddyyy/vinnu-app/pkg/database"
	"github.com/ManvithReddyyy/vinnu-app/pkg/logger"
	"github.com/ManvithReddyyy/vinnu-app/pkg/monitoring"
	"github.com/ManvithReddyyy/vinnu-app/pkg/security"
	"github.com/ManvithReddyyy/vinnu-app/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config    *config.Config
	Router    *gin.Engine
	DB        *gorm.DB
	Redis     *redis.Client
	allowlist *security.OriginAllowlist
}

type repositories struct {
	user         *repository.UserRepository
	relationship *repository.RelationshipRepository
	playlist     *repository.PlaylistRepository
}

type services struct {
	mailer       service.Mailer
	storage      service.StorageProvider
	auth         *service.AuthService
	relationship *service.RelationshipService
	playlist     *service.PlaylistService
	user         *service.UserService
	admin        *service.AdminService
}

type controllers struct {
	auth         *controller.AuthController
	user         *controller.UserController
	relationship *controller.RelationshipController
	playlist     *controller.PlaylistController
	admin        *controller.AdminController
	health       *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		relationship: repository.NewRelationshipRepository(db, rdb),
		playlist:     repository.NewPlaylistRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) (*services, error) {
	s := &services{}

	s.mailer = service.NewMailer(&cfg.SMTP)

	storage, err := service.NewStorageProvider(&cfg.Storage)
	if err != nil {
		return nil, err
	}
	s.storage = storage

	s.auth = service.NewAuthService(repos.user, s.mailer, cfg)
	s.relationship = service.NewRelationshipService(repos.relationship, repos.user, s.mailer, cfg)
	s.playlist = service.NewPlaylistService(repos.playlist, repos.user)
	s.user = service.NewUserService(repos.user, repos.playlist, s.relationship)
	s.admin = service.NewAdminService(repos.user, repos.playlist, repos.relationship)

	return s, nil
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth),
		user:         controller.NewUserController(s.user, s.storage),
		relationship: controller.NewRelationshipController(s.relationship),
		playlist:     controller.NewPlaylistController(s.playlist, s.storage),
		admin:        controller.NewAdminController(s.admin),
		health:       controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	a.allowlist = security.NewOriginAllowlist(cfg.CORS.AllowedOrigins)
	router.Use(security.CORS(a.allowlist))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 300
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg.Server.Mode)

	gin.SetMode(ginMode(cfg.Server.Mode))

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to run migrations", zap.Error(err))
		}
	}
	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// The friend cache degrades to plain DB reads without Redis.
		logger.Log.Warn("Redis unavailable, caching disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db, rdb)
	services, err := app.initServices(repos, cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize services", zap.Error(err))
	}
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("vinnu-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type != "minio" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	// CORS origins follow config file edits without a restart.
	go configwatcher.WatchConfig("configs/config.yaml", func(newCfg *config.Config) {
		app.allowlist.Replace(newCfg.CORS.AllowedOrigins)
		logger.Log.Info("CORS allowlist reloaded",
			zap.Strings("origins", newCfg.CORS.AllowedOrigins))
	})

	return app
}

func ginMode(mode string) string {
	switch mode {
	case "release":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"path"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/campus-paws-api/api/swagger"
	"github.com/noah-isme/campus-paws-api/internal/handler"
	internalmiddleware "github.com/noah-isme/campus-paws-api/internal/middleware"
	"github.com/noah-isme/campus-paws-api/internal/models"
	"github.com/noah-isme/campus-paws-api/internal/repository"
	"github.com/noah-isme/campus-paws-api/internal/routes"
	"github.com/noah-isme/campus-paws-api/internal/service"
	"github.com/noah-isme/campus-paws-api/pkg/cache"
	"github.com/noah-isme/campus-paws-api/pkg/config"
	"github.com/noah-isme/campus-paws-api/pkg/database"
	"github.com/noah-isme/campus-paws-api/pkg/jobs"
	"github.com/noah-isme/campus-paws-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/campus-paws-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/campus-paws-api/pkg/middleware/requestid"
	"github.com/noah-isme/campus-paws-api/pkg/storage"
)

// @title Campus Paws API
// @version 1.0.0
// @description Community care for campus dogs: dog registry, care logging, gallery, moderation and leaderboard.
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const cachePrefix = "paws:"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	metrics := service.NewMetricsService()
	checks := map[string]handler.Pinger{"postgres": db}

	var cacheRepo service.CacheRepository
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, read-model cache disabled", zap.Error(err))
		} else {
			repo := repository.NewCacheRepository(client, cachePrefix, logr)
			defer repo.Close() //nolint:errcheck
			cacheRepo = repo
			checks["redis"] = handler.PingFunc(repo.Ping)
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.DogsTTL, logr, cacheRepo != nil)

	store, staticDir, err := newObjectStore(ctx, cfg.Storage)
	if err != nil {
		logr.Fatal("failed to init object storage", zap.Error(err), zap.String("driver", cfg.Storage.Driver))
	}
	signer := storage.NewSignedURLSigner(cfg.Storage.PreviewSecret, cfg.Storage.PreviewTTL)

	userRepo := repository.NewUserRepository(db)
	dogRepo := repository.NewDogRepository(db)
	interactionRepo := repository.NewInteractionRepository(db)
	galleryRepo := repository.NewGalleryRepository(db)
	reportRepo := repository.NewReportRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	invalidator := service.NewCacheInvalidator(cacheSvc, metrics, logr)
	queue := jobs.NewQueue("change-events", invalidator.Handle, jobs.QueueConfig{
		Workers:    cfg.Events.Workers,
		BufferSize: cfg.Events.Buffer,
		MaxRetries: cfg.Events.Retries,
		Logger:     logr,
	})
	queue.Start(ctx)
	defer queue.Stop()

	events := service.NewEventService(queue, logr)
	effects := service.NewSideEffects(auditRepo, events, metrics, logr)
	validate := validator.New()
	uploadPolicy := service.UploadPolicy{MaxFileSize: cfg.Storage.MaxFileSizeBytes, AllowedMIMEs: cfg.Storage.AllowedMIMEs}

	sessions := service.NewSessionService(userRepo, logr)
	authSvc := service.NewAuthService(sessions, service.AuthConfig{
		Secret:   cfg.JWT.Secret,
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
		Leeway:   cfg.JWT.Leeway,
	}, logr)
	dogSvc := service.NewDogService(dogRepo, interactionRepo, userRepo, cacheSvc, cfg.Cache.DogsTTL, effects, validate, logr)
	interactionSvc := service.NewInteractionService(interactionRepo, dogRepo, userRepo, effects, metrics, validate, logr)
	gallerySvc := service.NewGalleryService(galleryRepo, store, signer, uploadPolicy, cfg.APIPrefix+"/media", cacheSvc, cfg.Cache.GalleryTTL, effects, logr)
	reportSvc := service.NewReportService(reportRepo, dogRepo, galleryRepo, userRepo, effects, validate, logr)
	profileSvc := service.NewProfileService(userRepo, interactionRepo, store, uploadPolicy, service.ProfilePolicy{
		UsernameCooldown:  cfg.Policy.UsernameCooldown,
		BirthdateCooldown: cfg.Policy.BirthdateCooldown,
	}, effects, validate, logr)
	moderationSvc := service.NewModerationService(userRepo, statsRepo, dogSvc, gallerySvc, store, cfg.Policy.UsernameCooldown, effects, logr)
	adminSvc := service.NewAdminService(userRepo, auditRepo, effects, validate, logr)
	leaderboardSvc := service.NewLeaderboardService(userRepo, statsRepo, store, cacheSvc, cfg.Policy.LeaderboardLimit, cfg.Cache.LeaderboardTTL, cfg.Cache.StatsTTL, logr)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))

	metricsHandler := handler.NewMetricsHandler(metrics, checks)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if staticDir != "" && strings.HasPrefix(cfg.Storage.PublicBaseURL, "/") {
		// Pending uploads stay private; moderators reach them through signed previews.
		for _, prefix := range []string{models.GalleryApprovedPrefix, "avatars/"} {
			r.Static(path.Join(cfg.Storage.PublicBaseURL, prefix), filepath.Join(staticDir, prefix))
		}
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	routes.Register(r.Group(cfg.APIPrefix), routes.Handlers{
		Dogs:         handler.NewDogHandler(dogSvc),
		Interactions: handler.NewInteractionHandler(interactionSvc),
		Gallery:      handler.NewGalleryHandler(gallerySvc),
		Reports:      handler.NewReportHandler(reportSvc),
		Profile:      handler.NewProfileHandler(profileSvc),
		Moderation:   handler.NewModerationHandler(moderationSvc),
		Admin:        handler.NewAdminHandler(adminSvc),
		Leaderboard:  handler.NewLeaderboardHandler(leaderboardSvc),
	}, authSvc, cfg.Storage.MaxFileSizeBytes)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "storage", cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
}

// newObjectStore picks the storage driver. The returned directory is non-empty
// only for the local driver, whose public objects are served by this process.
func newObjectStore(ctx context.Context, cfg config.StorageConfig) (storage.ObjectStore, string, error) {
	switch cfg.Driver {
	case config.StorageDriverS3:
		store, err := storage.NewS3Storage(ctx, storage.S3Options{
			Bucket:          cfg.Bucket,
			Region:          cfg.Region,
			Endpoint:        cfg.Endpoint,
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
			UsePathStyle:    cfg.UsePathStyle,
			PublicBaseURL:   cfg.PublicBaseURL,
		})
		return store, "", err
	case config.StorageDriverLocal, "":
		store, err := storage.NewLocalStorage(cfg.LocalDir, cfg.PublicBaseURL)
		if err != nil {
			return nil, "", err
		}
		return store, store.Dir(), nil
	default:
		return nil, "", fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

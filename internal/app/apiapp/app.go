package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ivankudzin/profilehub/internal/config"
	s3infra "github.com/ivankudzin/profilehub/internal/infra/s3"
	pgrepo "github.com/ivankudzin/profilehub/internal/repo/postgres"
	redrepo "github.com/ivankudzin/profilehub/internal/repo/redis"
	authsvc "github.com/ivankudzin/profilehub/internal/services/auth"
	mediasvc "github.com/ivankudzin/profilehub/internal/services/media"
	prefsvc "github.com/ivankudzin/profilehub/internal/services/preferences"
	profilesvc "github.com/ivankudzin/profilehub/internal/services/profiles"
	ratesvc "github.com/ivankudzin/profilehub/internal/services/rate"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	s3         *minio.Client
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	rateRepo := redrepo.NewRateRepo(redisClient)

	var s3Client *minio.Client
	if c, err := s3infra.NewClient(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		UseSSL:    cfg.S3.UseSSL,
	}); err != nil {
		log.Warn("s3 init failed, continuing in degraded mode", zap.Error(err))
	} else {
		s3Client = c
	}

	txManager := pgrepo.NewTxManager(pool)
	profileRepo := pgrepo.NewProfileRepo(pool)
	preferenceRepo := pgrepo.NewPreferenceRepo(pool)
	photoRepo := pgrepo.NewPhotoRepo(pool)

	mediaStorage := mediasvc.NewS3Storage(s3Client, cfg.S3.Bucket)
	mediaService := mediasvc.NewService(photoRepo, mediaStorage, txManager)

	authService := authsvc.NewService(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.HMACSecret, cfg.Auth.JWTTTL)
	profileService := profilesvc.NewService(profilesvc.Dependencies{
		Store:   profileRepo,
		Tx:      txManager,
		Cleaner: mediaService,
	})
	preferenceService := prefsvc.NewService(preferenceRepo, txManager)
	rateLimiter := ratesvc.NewLimiter(rateRepo,
		ratesvc.Window{Every: time.Minute, Limit: cfg.Limits.WritesPerMinute},
		ratesvc.Window{Every: 10 * time.Second, Limit: cfg.Limits.WritesPer10Sec},
	)

	RegisterRoutes(r, Dependencies{
		AuthService:       authService,
		ProfileService:    profileService,
		PreferenceService: preferenceService,
		MediaService:      mediaService,
		RateLimiter:       rateLimiter,
		Logger:            log,
		Config:            cfg,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		s3:         s3Client,
		httpRouter: r,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}

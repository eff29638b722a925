// @title           File Panel API
// @version         1.0
// @host            localhost:8080
// @schemes         http https
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"file-panel/internal/api"
	"file-panel/internal/auth"
	"file-panel/internal/config"
	"file-panel/internal/database"
	"file-panel/internal/logger"
	"file-panel/internal/storage"
	"file-panel/internal/websocket"
	"file-panel/web"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"file-panel/docs"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Cannot load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("Cannot initialise logger: %v", err)
	}
	defer zlog.Sync()

	if err := run(cfg, zlog); err != nil {
		zlog.Error("server stopped with error", zap.Error(err))
		zlog.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbpool, err := pgxpool.New(ctx, cfg.DB.Source)
	if err != nil {
		return err
	}
	defer dbpool.Close()

	if err := dbpool.Ping(ctx); err != nil {
		return err
	}
	zlog.Info("connected to database")

	blobs, err := newBlobStorage(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	zlog.Info("blob storage ready", zap.String("driver", cfg.Storage.Driver))

	templates, err := web.Templates()
	if err != nil {
		return err
	}

	wsHub := websocket.NewHub(zlog.Named("ws"))
	go wsHub.Run(ctx)

	store := database.NewStore(dbpool, wsHub)
	if pruned, err := store.DeleteExpiredSessions(ctx); err != nil {
		zlog.Warn("failed to prune expired sessions", zap.Error(err))
	} else if pruned > 0 {
		zlog.Info("pruned expired sessions", zap.Int64("count", pruned))
	}

	docs.SwaggerInfo.Host = cfg.AppHost

	cookieStore := auth.NewCookieStore(cfg.Session.Secret, cfg.Session.MaxAge, cfg.Session.Secure)
	server := api.NewServer(cfg, store, blobs, cookieStore, wsHub, templates, zlog)

	httpServer := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      server.Routes(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		zlog.Info("starting http server", zap.String("addr", cfg.HTTP.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	zlog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func newBlobStorage(ctx context.Context, cfg config.StorageConfig) (storage.Blob, error) {
	if cfg.Driver != "s3" {
		local, err := storage.NewLocalStorage(cfg.Path)
		if err != nil {
			return nil, err
		}
		return local, nil
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.S3Region)}
	if cfg.S3AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = &cfg.S3Endpoint
			o.UsePathStyle = true
		}
	})
	return storage.NewS3Storage(client, cfg.S3Bucket, cfg.S3Prefix), nil
}

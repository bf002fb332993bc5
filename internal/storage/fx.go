package storage

import (
	"context"

	"github.com/agridirect/marketplace/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("storage",
	fx.Provide(New),
)

// New builds the configured backend. The local backend is also served by the HTTP server.
func New(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (Store, error) {
	log = log.Named("storage")
	switch cfg.Storage.Backend {
	case config.StorageGCS:
		store, err := NewGCSStore(context.Background(), cfg.Storage.GCSBucket, cfg.Storage.GCSCredentialsFile)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{OnStop: func(context.Context) error { return store.Close() }})
		log.Info("using gcs storage", zap.String("bucket", cfg.Storage.GCSBucket))
		return store, nil
	case config.StorageCloudinary:
		store, err := NewCloudinaryStore(cfg.Storage.CloudinaryURL, cfg.Storage.CloudinaryFolder)
		if err != nil {
			return nil, err
		}
		log.Info("using cloudinary storage", zap.String("folder", cfg.Storage.CloudinaryFolder))
		return store, nil
	default:
		store, err := NewLocalStore(cfg.Storage.UploadDir, cfg.Storage.PublicPath)
		if err != nil {
			return nil, err
		}
		log.Info("using local storage", zap.String("dir", cfg.Storage.UploadDir))
		return store, nil
	}
}

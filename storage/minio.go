package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"dhun/config"
	"dhun/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var (
	minioClient *minio.Client
	mediaBucket string
)

// InitMinio initializes the MinIO client and ensures the media bucket exists.
func InitMinio() error {
	cfg := config.Load()

	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return fmt.Errorf("failed to check media bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{Region: cfg.MinioRegion}); err != nil {
			return fmt.Errorf("failed to create media bucket: %w", err)
		}
		logger.Info("Created media bucket", logger.String("bucket", cfg.MinioBucket))
	}

	minioClient = client
	mediaBucket = cfg.MinioBucket
	return nil
}

// GetMinioClient returns the initialized client, or nil before InitMinio.
func GetMinioClient() *minio.Client {
	return minioClient
}

// OpenObject opens a media object for reading along with its metadata.
func OpenObject(ctx context.Context, objectPath string) (io.ReadCloser, minio.ObjectInfo, error) {
	if minioClient == nil {
		return nil, minio.ObjectInfo{}, fmt.Errorf("minio client not initialized")
	}

	object, err := minioClient.GetObject(ctx, mediaBucket, objectPath, minio.GetObjectOptions{})
	if err != nil {
		return nil, minio.ObjectInfo{}, fmt.Errorf("failed to get object %s: %w", objectPath, err)
	}

	info, err := object.Stat()
	if err != nil {
		object.Close()
		return nil, minio.ObjectInfo{}, fmt.Errorf("failed to stat object %s: %w", objectPath, err)
	}

	return object, info, nil
}

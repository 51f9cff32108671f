package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"

	"placefacts/internal/config"
	"placefacts/internal/keys"
	"placefacts/internal/models"
)

// S3Service is a client for S3-compatible storage.
type S3Service struct {
	client *minio.Client
}

// NewS3Service connects to the MinIO server described by cfg.
func NewS3Service(cfg config.MinIOConfig) (*S3Service, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("missing one or more required settings: MINIO_ENDPOINT, MINIO_ACCESS_KEY, MINIO_SECRET_KEY")
	}

	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	log.WithField("endpoint", cfg.Endpoint).Info("Connected to MinIO endpoint")
	return &S3Service{client: minioClient}, nil
}

func (s *S3Service) CreateBucket(ctx context.Context, bucketName string, location string) (bool, error) {
	exists, err := s.client.BucketExists(ctx, bucketName)
	if err != nil {
		return false, fmt.Errorf("error checking bucket existence: %w", err)
	}
	if !exists {
		err = s.client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: location})
		if err != nil {
			return false, err
		}
	}
	return true, nil
}

// StoreDataset uploads ds under a timestamped key for selector and
// overwrites keys.Latest with the same document. It returns the timestamped key.
func (s *S3Service) StoreDataset(ctx context.Context, bucketName, selector string, ds models.Dataset, at time.Time) (string, error) {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal dataset to JSON: %w", err)
	}

	objectKey := keys.Dataset(selector, at)
	if err := s.putIfAbsent(ctx, bucketName, objectKey, data); err != nil {
		return "", err
	}
	if err := s.put(ctx, bucketName, keys.Latest, data); err != nil {
		return "", err
	}

	log.WithFields(log.Fields{
		"bucket":    bucketName,
		"key":       objectKey,
		"locations": ds.TotalLocations,
	}).Info("Stored dataset")
	return objectKey, nil
}

// putIfAbsent will not overwrite an object that already exists.
func (s *S3Service) putIfAbsent(ctx context.Context, bucketName, objectKey string, data []byte) error {
	_, err := s.client.StatObject(ctx, bucketName, objectKey, minio.StatObjectOptions{})
	if err == nil {
		log.WithField("key", objectKey).Warn("Object already exists, ignoring write")
		return nil
	}
	if minio.ToErrorResponse(err).Code != "NoSuchKey" {
		return fmt.Errorf("failed to check for existing object: %w", err)
	}
	return s.put(ctx, bucketName, objectKey, data)
}

func (s *S3Service) put(ctx context.Context, bucketName, objectKey string, data []byte) error {
	_, err := s.client.PutObject(
		ctx,
		bucketName,
		objectKey,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"},
	)
	if err != nil {
		return fmt.Errorf("failed to store object %s in S3: %w", objectKey, err)
	}
	return nil
}

// GetObject opens an object for reading. A missing object is reported here
// rather than on the first Read.
func (s *S3Service) GetObject(ctx context.Context, bucketName, objectKey string) (io.ReadCloser, error) {
	object, err := s.client.GetObject(ctx, bucketName, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object from S3: %w", err)
	}
	if _, err := object.Stat(); err != nil {
		object.Close()
		return nil, fmt.Errorf("failed to get object %s/%s: %w", bucketName, objectKey, err)
	}
	return object, nil
}

package landmark

import (
	"context"
	"fmt"
	"io"

	"placefacts/internal/models"
)

// ObjectGetter opens an object in an S3-compatible bucket.
type ObjectGetter interface {
	GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// S3Source reads a dataset document stored as an object.
type S3Source struct {
	Store  ObjectGetter
	Bucket string
	Key    string
}

func (s S3Source) Load(ctx context.Context) ([]models.Landmark, error) {
	obj, err := s.Store.GetObject(ctx, s.Bucket, s.Key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatasetLoad, err)
	}
	defer obj.Close()
	return Decode(obj)
}

func (s S3Source) String() string {
	return fmt.Sprintf("s3://%s/%s", s.Bucket, s.Key)
}

// LandmarkQuerier returns landmark rows from a database.
type LandmarkQuerier interface {
	QueryLandmarks(ctx context.Context) ([]models.Landmark, error)
}

// DatabaseSource reads landmarks from a table populated by the builder.
type DatabaseSource struct {
	DB LandmarkQuerier
}

func (s DatabaseSource) Load(ctx context.Context) ([]models.Landmark, error) {
	landmarks, err := s.DB.QueryLandmarks(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatasetLoad, err)
	}
	return landmarks, nil
}

func (s DatabaseSource) String() string {
	return "postgres:landmarks"
}

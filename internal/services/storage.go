package services

import (
	"context"
	"errors"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/P3chys/studyshare-api/internal/config"
)

var ErrFileNotFound = errors.New("file not found")

type FileInfo struct {
	Size        int64
	ContentType string
}

// StorageService keeps uploaded resource files in a MinIO bucket.
type StorageService struct {
	client *minio.Client
	bucket string
}

func NewStorageService(ctx context.Context, cfg *config.Config) (*StorageService, error) {
	client, err := minio.New(cfg.MinIOEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
		Secure: cfg.MinIOUseSSL,
	})
	if err != nil {
		return nil, err
	}

	// Ensure bucket exists
	exists, err := client.BucketExists(ctx, cfg.MinIOBucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinIOBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}

	return &StorageService{
		client: client,
		bucket: cfg.MinIOBucket,
	}, nil
}

func (s *StorageService) UploadFile(ctx context.Context, r io.Reader, key string, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

// DownloadFile opens a stored object. The caller closes the reader.
func (s *StorageService) DownloadFile(ctx context.Context, key string) (io.ReadCloser, *FileInfo, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, err
	}

	// GetObject is lazy; Stat surfaces a missing key.
	stat, err := obj.Stat()
	if err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, nil, ErrFileNotFound
		}
		return nil, nil, err
	}
	return obj, &FileInfo{Size: stat.Size, ContentType: stat.ContentType}, nil
}

func (s *StorageService) DeleteFile(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

func (s *StorageService) Ping(ctx context.Context) error {
	_, err := s.client.BucketExists(ctx, s.bucket)
	return err
}

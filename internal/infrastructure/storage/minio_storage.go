// Package storage sube las fotos de productos a MinIO (o cualquier S3 compatible).
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/jhoicas/pos-backoffice/internal/application/usecase"
	"github.com/jhoicas/pos-backoffice/pkg/config"
)

const defaultURLExpiry = 15 * time.Minute

// MinioStorage implementa usecase.FileStorage.
type MinioStorage struct {
	client *minio.Client
	cfg    config.StorageConfig
}

var _ usecase.FileStorage = (*MinioStorage)(nil)

// NewMinioStorage crea el cliente con credenciales estáticas.
func NewMinioStorage(cfg config.StorageConfig) (*MinioStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio: %w", err)
	}
	if cfg.URLExpiry <= 0 {
		cfg.URLExpiry = defaultURLExpiry
	}
	return &MinioStorage{client: client, cfg: cfg}, nil
}

// EnsureBucket crea el bucket si no existe.
func (s *MinioStorage) EnsureBucket(ctx context.Context) error {
	ok, err := s.client.BucketExists(ctx, s.cfg.Bucket)
	if err != nil {
		return fmt.Errorf("minio: bucket %s: %w", s.cfg.Bucket, err)
	}
	if ok {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("minio: crear bucket %s: %w", s.cfg.Bucket, err)
	}
	return nil
}

// Upload guarda el objeto y devuelve la URL final y una URL firmada de lectura.
func (s *MinioStorage) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (*usecase.StoredObject, error) {
	_, err := s.client.PutObject(ctx, s.cfg.Bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("minio: subir %s: %w", key, err)
	}
	signed, err := s.client.PresignedGetObject(ctx, s.cfg.Bucket, key, s.cfg.URLExpiry, url.Values{})
	if err != nil {
		return nil, fmt.Errorf("minio: firmar %s: %w", key, err)
	}
	return &usecase.StoredObject{
		Key:          key,
		FinalURL:     FinalURL(s.cfg, key),
		PresignedURL: signed.String(),
	}, nil
}

// FinalURL URL pública del objeto: PublicURL/key o scheme://endpoint/bucket/key.
func FinalURL(cfg config.StorageConfig, key string) string {
	if cfg.PublicURL != "" {
		return strings.TrimRight(cfg.PublicURL, "/") + "/" + key
	}
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, cfg.Endpoint, cfg.Bucket, key)
}

// Package mixstore хранит аудиофайлы миксов в S3-совместимом хранилище.
package mixstore

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/magabrotheeeer/radio-hosting/internal/config"
)

// MixStore описывает операции над файлами миксов.
type MixStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	KeyFromURL(rawURL string) string
}

// MinioStore реализует MixStore поверх MinIO/S3.
type MinioStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// New подключается к хранилищу и создаёт бакет, если его ещё нет.
func New(cfg config.MixStorage) (*MinioStore, error) {
	const op = "mixstore.New"

	client, err := minio.New(cfg.S3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		Secure: cfg.S3UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, cfg.S3Bucket)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.S3Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	scheme := "http"
	if cfg.S3UseSSL {
		scheme = "https"
	}
	publicURL := fmt.Sprintf("%s://%s/%s", scheme, cfg.S3Endpoint, cfg.S3Bucket)

	return &MinioStore{
		client:    client,
		bucket:    cfg.S3Bucket,
		publicURL: publicURL,
	}, nil
}

// BuildKey собирает ключ объекта: владелец, момент загрузки и исходное
// имя файла. Повторная загрузка того же файла даёт другой ключ, поэтому
// старый объект нужно удалять отдельно.
func BuildKey(ownerEmail, filename string, uploadedAt time.Time) string {
	return fmt.Sprintf("%s/%d-%s", ownerEmail, uploadedAt.UnixMilli(), filename)
}

// Put загружает микс и возвращает его публичный URL.
func (m *MinioStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	const op = "mixstore.Put"

	_, err := m.client.PutObject(ctx, m.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return m.publicURL + "/" + key, nil
}

// Delete удаляет объект по ключу.
func (m *MinioStore) Delete(ctx context.Context, key string) error {
	const op = "mixstore.Delete"

	if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// KeyFromURL извлекает ключ объекта из публичного URL микса.
// Для чужого URL возвращает пустую строку.
func (m *MinioStore) KeyFromURL(rawURL string) string {
	prefix := m.publicURL + "/"
	if !strings.HasPrefix(rawURL, prefix) {
		return ""
	}
	return strings.TrimPrefix(rawURL, prefix)
}

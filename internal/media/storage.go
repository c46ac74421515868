package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/agenda-scheduler/internal/config"
)

const ContentTypeWebP = "image/webp"

var ErrStorageDisabled = errors.New("media: object storage not configured")

// ObjectStore guarda um objeto e devolve a URL pública.
type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

// ------------------------------------------------------------
// S3 (ou compatível: R2, MinIO)
// ------------------------------------------------------------

type S3Store struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

func NewS3Store(cfg config.S3Config) (*S3Store, error) {
	if !cfg.Enabled() {
		return nil, ErrStorageDisabled
	}

	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}

	publicURL := cfg.PublicURL
	if publicURL == "" {
		publicURL = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}

	return &S3Store{
		client:    s3.New(opts),
		bucket:    cfg.Bucket,
		publicURL: publicURL,
	}, nil
}

func (s *S3Store) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("media: put %s: %w", key, err)
	}
	return s.publicURL + "/" + key, nil
}

// ObjectKey monta tenants/{id}/{kind}/{uuid}.webp.
func ObjectKey(tenantID uint, kind string) string {
	return fmt.Sprintf("tenants/%d/%s/%s.webp", tenantID, kind, uuid.NewString())
}

// ------------------------------------------------------------
// Uploader
// ------------------------------------------------------------

// Uploader junta processamento e armazenamento. Com store nil
// todo upload falha com ErrStorageDisabled.
type Uploader struct {
	store ObjectStore
}

func NewUploader(store ObjectStore) *Uploader {
	return &Uploader{store: store}
}

func (u *Uploader) Enabled() bool {
	return u != nil && u.store != nil
}

func (u *Uploader) Upload(ctx context.Context, tenantID uint, kind string, r io.Reader) (string, error) {
	if !u.Enabled() {
		return "", ErrStorageDisabled
	}

	out, err := Process(r)
	if err != nil {
		return "", err
	}
	return u.store.Put(ctx, ObjectKey(tenantID, kind), out, ContentTypeWebP)
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const (
	photoFolder    = "stores"
	presignExpires = 15 * time.Minute
)

var ErrUnsupportedContentType = errors.New("unsupported content type")

// photoExtensions lists the image types accepted for store photos.
var photoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type PresignedURLResponse struct {
	UploadURL string    `json:"upload_url"`
	FileURL   string    `json:"file_url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PhotoStorage issues upload URLs for store photos.
type PhotoStorage interface {
	PresignStorePhoto(ctx context.Context, storeID uint, contentType string) (*PresignedURLResponse, error)
}

type S3Storage struct {
	client  *s3.Client
	bucket  string
	baseURL string
	region  string
}

func NewS3Storage(region, bucket, accessKeyID, secretAccessKey, baseURL string) *S3Storage {
	var cfg aws.Config
	var err error

	// static keys when configured, otherwise the default chain (env, shared config, IAM role)
	if accessKeyID != "" && secretAccessKey != "" {
		cfg = aws.Config{
			Region:      region,
			Credentials: credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, ""),
		}
	} else {
		cfg, err = config.LoadDefaultConfig(context.Background(), config.WithRegion(region))
		if err != nil {
			cfg = aws.Config{Region: region}
		}
	}

	return &S3Storage{
		client:  s3.NewFromConfig(cfg),
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
		region:  region,
	}
}

// ValidateContentType accepts jpeg, png and webp.
func ValidateContentType(contentType string) (string, error) {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	ext, ok := photoExtensions[ct]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedContentType, contentType)
	}
	return ext, nil
}

// PhotoKey is the object key for a new photo of storeID.
func PhotoKey(storeID uint, ext string) string {
	return fmt.Sprintf("%s/%d/%s%s", photoFolder, storeID, uuid.New().String(), ext)
}

func (s *S3Storage) FileURL(key string) string {
	if s.baseURL != "" {
		return fmt.Sprintf("%s/%s", s.baseURL, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

// PresignStorePhoto returns a 15 minute PUT URL. The client uploads with the same Content-Type.
func (s *S3Storage) PresignStorePhoto(ctx context.Context, storeID uint, contentType string) (*PresignedURLResponse, error) {
	ext, err := ValidateContentType(contentType)
	if err != nil {
		return nil, err
	}
	key := PhotoKey(storeID, ext)

	presignClient := s3.NewPresignClient(s.client)
	req, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(strings.ToLower(strings.TrimSpace(contentType))),
	}, s3.WithPresignExpires(presignExpires))
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return &PresignedURLResponse{
		UploadURL: req.URL,
		FileURL:   s.FileURL(key),
		Key:       key,
		ExpiresAt: time.Now().Add(presignExpires),
	}, nil
}

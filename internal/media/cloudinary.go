package media

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

// CloudinaryConfig configures a CloudinaryStore.
type CloudinaryConfig struct {
	CloudName     string
	APIKey        string
	APISecret     string
	Folder        string
	MaxRetries    int
	UploadTimeout time.Duration
	Limits        Limits
}

// CloudinaryStore uploads badge images to Cloudinary.
type CloudinaryStore struct {
	client *cloudinary.Cloudinary
	config CloudinaryConfig
	logger *zap.Logger
}

// NewCloudinaryStore creates a store from credentials.
func NewCloudinaryStore(config CloudinaryConfig, logger *zap.Logger) (*CloudinaryStore, error) {
	if config.CloudName == "" || config.APIKey == "" || config.APISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials are missing")
	}
	cld, err := cloudinary.NewFromParams(config.CloudName, config.APIKey, config.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.UploadTimeout <= 0 {
		config.UploadTimeout = 30 * time.Second
	}

	logger.Info("Cloudinary image store initialized", zap.String("folder", config.Folder))
	return &CloudinaryStore{client: cld, config: config, logger: logger}, nil
}

func (s *CloudinaryStore) Name() string { return "cloudinary" }

// Placeholder falls back to the stock artwork; Cloudinary only holds uploads.
func (s *CloudinaryStore) Placeholder() string {
	return PlaceholderImages[0]
}

func (s *CloudinaryStore) Upload(ctx context.Context, file *multipart.FileHeader) (*UploadResult, error) {
	contentType, err := validateImage(file, s.config.Limits)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, s.config.UploadTimeout)
	defer cancel()

	params := uploader.UploadParams{
		Folder:         s.config.Folder,
		UseFilename:    ptrBool(true),
		UniqueFilename: ptrBool(true),
		ResourceType:   "image",
	}

	var result *uploader.UploadResult
	operation := func() error {
		src, err := file.Open()
		if err != nil {
			return backoff.Permanent(fmt.Errorf("%w: %v", ErrUnreadableFile, err))
		}
		defer src.Close()

		res, err := s.client.Upload.Upload(ctx, src, params)
		if err != nil {
			return err
		}
		if res.Error.Message != "" {
			return fmt.Errorf("cloudinary: %s", res.Error.Message)
		}
		result = res
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = s.config.UploadTimeout / 2
	err = backoff.RetryNotify(
		operation,
		backoff.WithContext(backoff.WithMaxRetries(b, uint64(s.config.MaxRetries)), ctx),
		func(err error, d time.Duration) {
			s.logger.Warn("Upload attempt failed",
				zap.String("filename", file.Filename),
				zap.Error(err),
				zap.Duration("backoff", d),
			)
		},
	)
	if err != nil {
		s.logger.Error("All upload attempts failed",
			zap.String("filename", file.Filename),
			zap.Int("max_retries", s.config.MaxRetries),
			zap.Error(err),
		)
		return nil, fmt.Errorf("upload %s: %w", file.Filename, err)
	}

	s.logger.Info("Image uploaded",
		zap.String("filename", file.Filename),
		zap.String("public_id", result.PublicID),
		zap.Duration("duration", time.Since(start)),
	)

	return &UploadResult{
		URL:         result.SecureURL,
		PublicID:    result.PublicID,
		Format:      result.Format,
		Size:        int64(result.Bytes),
		ContentType: contentType,
	}, nil
}

func ptrBool(b bool) *bool {
	return &b
}

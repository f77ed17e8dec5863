package services

import (
	"context"
	"mime/multipart"

	"badgehub/internal/media"

	"go.uber.org/zap"
)

type mediaService struct {
	store  media.ImageStore
	logger *zap.Logger
}

// NewMediaService wraps an ImageStore, translating its failures into
// ServiceErrors.
func NewMediaService(store media.ImageStore, logger *zap.Logger) MediaService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &mediaService{store: store, logger: logger}
}

func (s *mediaService) UploadBadgeImage(ctx context.Context, file *multipart.FileHeader) (*media.UploadResult, error) {
	if file == nil {
		return nil, NewValidationError("image file is required", nil)
	}

	result, err := s.store.Upload(ctx, file)
	if err != nil {
		if media.IsValidationError(err) {
			return nil, NewValidationError(err.Error(), err)
		}
		s.logger.Error("Badge image upload failed",
			zap.String("store", s.store.Name()),
			zap.String("filename", file.Filename),
			zap.Error(err),
		)
		return nil, NewUploadError("failed to upload image", err)
	}
	return result, nil
}

func (s *mediaService) PlaceholderImage() string {
	return s.store.Placeholder()
}

func (s *mediaService) StoreName() string {
	return s.store.Name()
}

package media

import (
	"context"
	"math/rand/v2"
	"mime/multipart"

	"go.uber.org/zap"
)

// PlaceholderImages is the stock artwork used when no real storage is configured.
var PlaceholderImages = []string{
	"https://images.pexels.com/photos/6804595/pexels-photo-6804595.jpeg?auto=compress&cs=tinysrgb&w=400",
	"https://images.pexels.com/photos/3184306/pexels-photo-3184306.jpeg?auto=compress&cs=tinysrgb&w=400",
	"https://images.pexels.com/photos/8369648/pexels-photo-8369648.jpeg?auto=compress&cs=tinysrgb&w=400",
	"https://images.pexels.com/photos/5439381/pexels-photo-5439381.jpeg?auto=compress&cs=tinysrgb&w=400",
}

// PlaceholderStore validates uploads but discards their content, answering
// with one of PlaceholderImages.
type PlaceholderStore struct {
	limits Limits
	logger *zap.Logger
	pick   func(n int) int
}

// NewPlaceholderStore creates a PlaceholderStore.
func NewPlaceholderStore(limits Limits, logger *zap.Logger) *PlaceholderStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlaceholderStore{limits: limits, logger: logger, pick: rand.IntN}
}

func (s *PlaceholderStore) Name() string { return "placeholder" }

func (s *PlaceholderStore) Placeholder() string {
	return PlaceholderImages[s.pick(len(PlaceholderImages))]
}

func (s *PlaceholderStore) Upload(ctx context.Context, file *multipart.FileHeader) (*UploadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	contentType, err := validateImage(file, s.limits)
	if err != nil {
		return nil, err
	}

	url := s.Placeholder()
	s.logger.Debug("Upload replaced by placeholder",
		zap.String("filename", file.Filename),
		zap.String("url", url),
	)
	return &UploadResult{
		URL:         url,
		Size:        file.Size,
		ContentType: contentType,
		Placeholder: true,
	}, nil
}

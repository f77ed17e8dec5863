package services

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"badgehub/internal/media"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	result *media.UploadResult
	err    error
}

func (s *stubStore) Upload(ctx context.Context, file *multipart.FileHeader) (*media.UploadResult, error) {
	return s.result, s.err
}

func (s *stubStore) Placeholder() string { return "https://example.com/placeholder.png" }
func (s *stubStore) Name() string        { return "stub" }

func TestMediaServiceUpload(t *testing.T) {
	file := &multipart.FileHeader{Filename: "badge.png", Size: 10}
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		want := &media.UploadResult{URL: "https://example.com/badge.png"}
		svc := NewMediaService(&stubStore{result: want}, nil)

		got, err := svc.UploadBadgeImage(ctx, file)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, "stub", svc.StoreName())
		assert.Equal(t, "https://example.com/placeholder.png", svc.PlaceholderImage())
	})

	t.Run("rejected file", func(t *testing.T) {
		svc := NewMediaService(&stubStore{err: media.ErrFileTooLarge}, nil)
		_, err := svc.UploadBadgeImage(ctx, file)
		assert.True(t, IsValidationError(err))
	})

	t.Run("storage failure", func(t *testing.T) {
		svc := NewMediaService(&stubStore{err: errors.New("timeout")}, nil)
		_, err := svc.UploadBadgeImage(ctx, file)
		assert.True(t, IsErrorType(err, ErrTypeUpload))
	})

	t.Run("missing file", func(t *testing.T) {
		svc := NewMediaService(&stubStore{}, nil)
		_, err := svc.UploadBadgeImage(ctx, nil)
		assert.True(t, IsValidationError(err))
	})
}

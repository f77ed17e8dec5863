// Package media stores badge artwork.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"golang.org/x/exp/slices"
)

// ImageStore accepts uploaded badge images and returns a public URL.
type ImageStore interface {
	Upload(ctx context.Context, file *multipart.FileHeader) (*UploadResult, error)
	// Placeholder returns an image URL for badges created without artwork.
	Placeholder() string
	Name() string
}

// UploadResult describes a stored image.
type UploadResult struct {
	URL         string `json:"url"`
	PublicID    string `json:"public_id,omitempty"`
	Format      string `json:"format,omitempty"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
	Placeholder bool   `json:"placeholder"`
}

// Validation failures. Callers map these to client errors.
var (
	ErrFileTooLarge       = errors.New("file size exceeds limit")
	ErrInvalidContentType = errors.New("invalid content type")
	ErrInvalidExtension   = errors.New("invalid file extension")
	ErrUnreadableFile     = errors.New("unable to read file")
)

// IsValidationError reports whether err is a rejected upload rather than a
// storage failure.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrFileTooLarge) ||
		errors.Is(err, ErrInvalidContentType) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrUnreadableFile)
}

// Limits bounds what an upload may look like.
type Limits struct {
	MaxFileSize int64
	// Extensions without the leading dot, lower case.
	AllowedExtensions []string
}

// DefaultLimits returns a 5MB cap on common raster formats.
func DefaultLimits() Limits {
	return Limits{
		MaxFileSize:       5 << 20,
		AllowedExtensions: []string{"jpg", "jpeg", "png", "gif", "webp"},
	}
}

// validateImage checks size, sniffed content type and extension, returning
// the detected content type.
func validateImage(file *multipart.FileHeader, limits Limits) (string, error) {
	if file == nil {
		return "", fmt.Errorf("%w: no file", ErrUnreadableFile)
	}
	if limits.MaxFileSize > 0 && file.Size > limits.MaxFileSize {
		return "", fmt.Errorf("%w: %d bytes exceeds %d bytes", ErrFileTooLarge, file.Size, limits.MaxFileSize)
	}

	contentType, err := sniff(file)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%w: %s", ErrInvalidContentType, contentType)
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(file.Filename)), ".")
	if !slices.Contains(limits.AllowedExtensions, ext) {
		return "", fmt.Errorf("%w: %q", ErrInvalidExtension, ext)
	}
	return contentType, nil
}

func sniff(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	defer src.Close()

	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	return http.DetectContentType(buffer[:n]), nil
}

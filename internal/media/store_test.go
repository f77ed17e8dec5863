package media

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slices"
)

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	_, fh, err := req.FormFile("image")
	require.NoError(t, err)
	return fh
}

func TestPlaceholderStore_Upload(t *testing.T) {
	store := NewPlaceholderStore(DefaultLimits(), nil)
	store.pick = func(n int) int { return n - 1 }

	result, err := store.Upload(context.Background(), fileHeader(t, "badge.png", pngHeader))
	require.NoError(t, err)

	assert.Equal(t, PlaceholderImages[len(PlaceholderImages)-1], result.URL)
	assert.Equal(t, "image/png", result.ContentType)
	assert.True(t, result.Placeholder)
	assert.Equal(t, int64(len(pngHeader)), result.Size)
}

func TestPlaceholderStore_Placeholder(t *testing.T) {
	store := NewPlaceholderStore(DefaultLimits(), nil)
	for i := 0; i < 20; i++ {
		assert.True(t, slices.Contains(PlaceholderImages, store.Placeholder()))
	}
}

func TestPlaceholderStore_Rejects(t *testing.T) {
	store := NewPlaceholderStore(Limits{MaxFileSize: 8, AllowedExtensions: []string{"png"}}, nil)
	ctx := context.Background()

	tests := []struct {
		name     string
		filename string
		content  []byte
		want     error
	}{
		{"too large", "badge.png", bytes.Repeat([]byte("a"), 64), ErrFileTooLarge},
		{"not an image", "notes.png", []byte("hello"), ErrInvalidContentType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Upload(ctx, fileHeader(t, tt.filename, tt.content))
			require.ErrorIs(t, err, tt.want)
			assert.True(t, IsValidationError(err))
		})
	}

	t.Run("wrong extension", func(t *testing.T) {
		lenient := NewPlaceholderStore(Limits{MaxFileSize: 1 << 20, AllowedExtensions: []string{"jpg"}}, nil)
		_, err := lenient.Upload(ctx, fileHeader(t, "badge.png", pngHeader))
		require.ErrorIs(t, err, ErrInvalidExtension)
	})

	t.Run("nil file", func(t *testing.T) {
		_, err := store.Upload(ctx, nil)
		require.ErrorIs(t, err, ErrUnreadableFile)
	})
}

func TestPlaceholderStore_CanceledContext(t *testing.T) {
	store := NewPlaceholderStore(DefaultLimits(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Upload(ctx, fileHeader(t, "badge.png", pngHeader))
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, IsValidationError(err))
}

func TestNewCloudinaryStore_MissingCredentials(t *testing.T) {
	_, err := NewCloudinaryStore(CloudinaryConfig{CloudName: "demo"}, nil)
	require.Error(t, err)
}

func TestNewCloudinaryStore(t *testing.T) {
	store, err := NewCloudinaryStore(CloudinaryConfig{
		CloudName: "demo",
		APIKey:    "key",
		APISecret: "secret",
		Limits:    DefaultLimits(),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "cloudinary", store.Name())
	assert.Equal(t, PlaceholderImages[0], store.Placeholder())

	// Validation happens before any network call.
	_, err = store.Upload(context.Background(), fileHeader(t, "notes.txt", []byte("plain text")))
	require.ErrorIs(t, err, ErrInvalidContentType)
}

package media

import (
	"errors"
	"net/http"

	"badgehub/internal/response"
	"badgehub/internal/services"

	"go.uber.org/zap"
)

const (
	// maxUploadBytes bounds the whole multipart body, not just the image.
	maxUploadBytes = 6 << 20
	maxMemoryBytes = 1 << 20
	imageFormField = "image"
)

// MediaController handles badge artwork uploads.
type MediaController struct {
	media           services.MediaService
	logger          *zap.Logger
	responseBuilder *response.Builder
}

func NewMediaController(media services.MediaService, logger *zap.Logger, responseBuilder *response.Builder) *MediaController {
	return &MediaController{
		media:           media,
		logger:          logger,
		responseBuilder: responseBuilder,
	}
}

// UploadImage handles POST /api/v1/media/images
//
// @Summary Upload badge artwork
// @Description Stores an image and returns its public URL
// @Tags Media
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Badge image (jpg, png, gif, webp)"
// @Success 201 {object} response.APIResponse{data=media.UploadResult}
// @Failure 400 {object} response.APIResponse
// @Failure 502 {object} response.APIResponse
// @Router /media/images [post]
func (c *MediaController) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxMemoryBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.responseBuilder.WriteError(w, r, services.NewValidationError("request body too large", err))
			return
		}
		c.responseBuilder.WriteError(w, r, services.NewValidationError("invalid multipart form", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	_, header, err := r.FormFile(imageFormField)
	if err != nil {
		c.responseBuilder.WriteError(w, r, services.NewValidationError("image file is required", err))
		return
	}

	result, err := c.media.UploadBadgeImage(r.Context(), header)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.logger.Info("Badge image uploaded",
		zap.String("store", c.media.StoreName()),
		zap.String("url", result.URL),
		zap.Bool("placeholder", result.Placeholder),
	)
	c.responseBuilder.WriteCreated(w, r, result)
}

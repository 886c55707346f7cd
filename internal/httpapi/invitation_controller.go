package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"wedding-invitation/internal/content"
)

const maxPhotoSize = 10 << 20

type invitationController struct {
	content  *content.Service
	uploader PhotoUploader
	log      zerolog.Logger
}

// Get handles GET /api/invitation.
func (ic *invitationController) Get(c *gin.Context) {
	page, err := ic.content.Load(c.Request.Context())
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to load invitation")
		return
	}
	jsonSuccess(c, http.StatusOK, page)
}

// UploadPhoto handles POST /api/photos with a multipart "photo" file.
func (ic *invitationController) UploadPhoto(c *gin.Context) {
	if ic.uploader == nil {
		jsonError(c, http.StatusServiceUnavailable, "photo uploads are not enabled")
		return
	}

	fh, err := c.FormFile("photo")
	if err != nil {
		jsonError(c, http.StatusBadRequest, "photo file is required")
		return
	}
	if fh.Size > maxPhotoSize {
		jsonError(c, http.StatusRequestEntityTooLarge, "photo must be 10MB or smaller")
		return
	}
	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		jsonError(c, http.StatusBadRequest, "only image uploads are allowed")
		return
	}

	f, err := fh.Open()
	if err != nil {
		jsonError(c, http.StatusBadRequest, "failed to read photo")
		return
	}
	defer f.Close()

	ctx := c.Request.Context()
	url, err := ic.uploader.Upload(ctx, fh.Filename, f, contentType)
	if err != nil {
		jsonError(c, http.StatusBadGateway, "failed to upload photo")
		return
	}

	photo, err := ic.content.AddPhoto(ctx, url)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "failed to save photo")
		return
	}
	ic.log.Info().Str("photo_id", photo.ID).Msg("Gallery photo added")
	jsonSuccess(c, http.StatusCreated, photo)
}

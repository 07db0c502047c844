package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"socialnet/internal/service"
	"socialnet/internal/storage"
)

const uploadField = "image"

// formUpload opens the multipart "image" part. The returned func closes it.
func formUpload(c *gin.Context) (service.Upload, func(), error) {
	header, err := c.FormFile(uploadField)
	if err != nil {
		return service.Upload{}, func() {}, service.ErrNoFile
	}

	file, err := header.Open()
	if err != nil {
		return service.Upload{}, func() {}, service.ErrNoFile
	}

	return service.Upload{
		Filename: header.Filename,
		Size:     header.Size,
		Content:  file,
	}, func() { file.Close() }, nil
}

func (h HandlerSet) UserImage(c *gin.Context) {
	h.serveImage(c, storage.KindUsers)
}

func (h HandlerSet) PublicationImage(c *gin.Context) {
	h.serveImage(c, storage.KindPublications)
}

func (h HandlerSet) serveImage(c *gin.Context, kind storage.Kind) {
	rc, info, err := h.svc.Media.Open(c.Request.Context(), kind, c.Param("imageFile"))
	if err != nil {
		h.fail(c, err)
		return
	}
	defer rc.Close()

	contentType := info.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.DataFromReader(http.StatusOK, info.Size, contentType, rc, nil)
}

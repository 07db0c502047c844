package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"socialnet/internal/pagination"
	"socialnet/internal/service"
)

type publicationRequest struct {
	Text string `json:"text" form:"text"`
}

func (h HandlerSet) CreatePublication(c *gin.Context) {
	var req publicationRequest
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, service.ErrEmptyText)
		return
	}

	pub, err := h.svc.Publications.Create(c.Request.Context(), currentIdentity(c).ID, req.Text)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"publication": newPublicationResponse(pub)})
}

func (h HandlerSet) GetPublication(c *gin.Context) {
	view, err := h.svc.Publications.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"publication": newPublicationView(view)})
}

func (h HandlerSet) DeletePublication(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.Publications.Delete(c.Request.Context(), currentIdentity(c).ID, id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Publicación eliminada", "publication": id})
}

func (h HandlerSet) Timeline(c *gin.Context) {
	page := pagination.Parse(c.Param("page"), c.Param("itemsPerPage"), pagination.DefaultTimeline)

	result, err := h.svc.Publications.Timeline(c.Request.Context(), currentIdentity(c).ID, page)
	if err != nil {
		h.fail(c, err)
		return
	}
	writePage(c, result, "publications", "No hay publicaciones", newPublicationView, nil)
}

func (h HandlerSet) PublicationsByUser(c *gin.Context) {
	page := pagination.Parse(c.Param("page"), c.Param("itemsPerPage"), pagination.DefaultPublications)

	result, err := h.svc.Publications.ByUser(c.Request.Context(), c.Param("user"), page)
	if err != nil {
		h.fail(c, err)
		return
	}
	writePage(c, result, "publications", "No hay publicaciones", newPublicationView, nil)
}

func (h HandlerSet) UploadPublicationImage(c *gin.Context) {
	upload, closeFn, err := formUpload(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	defer closeFn()

	pub, err := h.svc.Publications.AttachImage(c.Request.Context(), currentIdentity(c).ID, c.Param("id"), upload)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"publication": newPublicationResponse(pub)})
}

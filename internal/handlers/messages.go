package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"socialnet/internal/pagination"
	"socialnet/internal/service"
)

type messageRequest struct {
	Text     string `json:"text" form:"text"`
	Receiver string `json:"receiver" form:"receiver"`
}

func (h HandlerSet) SendMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, service.ErrMissingFields)
		return
	}

	msg, err := h.svc.Messages.Send(c.Request.Context(), currentIdentity(c).ID, req.Receiver, req.Text)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Mensaje guardado correctamente",
		"sent":    newMessageResponse(msg),
	})
}

func (h HandlerSet) ReceivedMessages(c *gin.Context) {
	page := pagination.Parse(c.Param("page"), c.Param("itemsPerPage"), pagination.DefaultMessages)

	result, err := h.svc.Messages.Received(c.Request.Context(), currentIdentity(c).ID, page)
	if err != nil {
		h.fail(c, err)
		return
	}
	writePage(c, result, "messages", "No hay mensajes", newMessageView, nil)
}

func (h HandlerSet) SentMessages(c *gin.Context) {
	page := pagination.Parse(c.Param("page"), c.Param("itemsPerPage"), pagination.DefaultMessages)

	result, err := h.svc.Messages.Sent(c.Request.Context(), currentIdentity(c).ID, page)
	if err != nil {
		h.fail(c, err)
		return
	}
	writePage(c, result, "messages", "No hay mensajes", newMessageView, nil)
}

func (h HandlerSet) UnviewedMessages(c *gin.Context) {
	unviewed, err := h.svc.Messages.Unviewed(c.Request.Context(), currentIdentity(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if unviewed.Count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "No hay mensajes sin leer", "unviewed": 0})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"unviewed": unviewed.Count,
		"messages": mapSlice(unviewed.Messages, newMessageView),
	})
}

func (h HandlerSet) SetViewedMessages(c *gin.Context) {
	n, err := h.svc.Messages.MarkViewed(c.Request.Context(), currentIdentity(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": n})
}

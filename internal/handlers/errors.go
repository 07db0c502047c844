package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"socialnet/internal/middleware"
	"socialnet/internal/service"
)

type errorMapping struct {
	err     error
	status  int
	message string
}

// errorTable maps service errors to responses. The first match wins.
var errorTable = []errorMapping{
	{service.ErrMissingFields, http.StatusBadRequest, "Faltan datos por enviar"},
	{service.ErrEmptyText, http.StatusBadRequest, "La publicación no tiene texto"},
	{service.ErrSelfFollow, http.StatusBadRequest, "No puedes seguirte a ti mismo"},
	{service.ErrNoFile, http.StatusBadRequest, "No se han subido archivos"},
	{service.ErrUnsupportedFile, http.StatusBadRequest, "La extensión del archivo no es válida"},
	{service.ErrFileTooLarge, http.StatusBadRequest, "El archivo supera el tamaño máximo permitido"},
	{service.ErrProfileTaken, http.StatusBadRequest, "El nick o el email ya están en uso"},
	{service.ErrAlreadyFollowing, http.StatusBadRequest, "Ya estás siguiendo a este usuario"},
	{service.ErrUserExists, http.StatusOK, "El usuario ya existe"},
	{service.ErrUserNotFound, http.StatusNotFound, "El usuario no existe"},
	{service.ErrPublicationNotFound, http.StatusNotFound, "No se ha encontrado la publicación"},
	{service.ErrNotFollowing, http.StatusNotFound, "No sigues a este usuario"},
	{service.ErrFileNotFound, http.StatusNotFound, "No existe la imagen"},
	{service.ErrInvalidCredentials, http.StatusNotFound, "El usuario no se ha podido identificar"},
	{service.ErrNotOwner, http.StatusForbidden, "No tienes permiso para modificar este recurso"},
}

// fail writes the response for err. Unknown errors become 500 and carry the
// underlying text.
func (h HandlerSet) fail(c *gin.Context, err error) {
	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			c.JSON(m.status, gin.H{"message": m.message})
			return
		}
	}

	h.log.Error().Err(err).
		Str("path", c.Request.URL.Path).
		Str("request_id", middleware.RequestIDFrom(c)).
		Msg("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{
		"message": "Error en la petición",
		"error":   err.Error(),
	})
}

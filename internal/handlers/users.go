package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"socialnet/internal/models"
	"socialnet/internal/pagination"
	"socialnet/internal/service"
)

type updateUserRequest struct {
	Name    string `json:"name" form:"name"`
	Surname string `json:"surname" form:"surname"`
	Nick    string `json:"nick" form:"nick"`
	Email   string `json:"email" form:"email"`
}

func (h HandlerSet) GetUser(c *gin.Context) {
	profile, err := h.svc.Users.Get(c.Request.Context(), currentIdentity(c).ID, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":      newUserResponse(profile.User),
		"following": profile.Following,
		"followed":  profile.Followed,
	})
}

func (h HandlerSet) ListUsers(c *gin.Context) {
	page := pagination.Parse(c.Param("page"), c.Param("itemsPerPage"), pagination.DefaultUsers)

	list, err := h.svc.Users.List(c.Request.Context(), currentIdentity(c).ID, page)
	if err != nil {
		h.fail(c, err)
		return
	}

	writePage(c, list.Result, "users", "No hay usuarios disponibles", newUserResponse, gin.H{
		"users_following": list.Relations.Following,
		"users_follow_me": list.Relations.Followers,
	})
}

func (h HandlerSet) Counters(c *gin.Context) {
	userID := c.Param("id")
	if userID == "" {
		userID = currentIdentity(c).ID
	}

	counters, err := h.svc.Users.Counters(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"following":    counters.Following,
		"followed":     counters.Followed,
		"publications": counters.Publications,
	})
}

func (h HandlerSet) UpdateUser(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, service.ErrMissingFields)
		return
	}

	user, err := h.svc.Users.Update(c.Request.Context(), currentIdentity(c).ID, c.Param("id"), models.ProfileUpdate{
		Name:    req.Name,
		Surname: req.Surname,
		Nick:    req.Nick,
		Email:   req.Email,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(user)})
}

func (h HandlerSet) UploadUserImage(c *gin.Context) {
	upload, closeFn, err := formUpload(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	defer closeFn()

	user, err := h.svc.Users.ReplaceImage(c.Request.Context(), currentIdentity(c).ID, c.Param("id"), upload)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(user)})
}

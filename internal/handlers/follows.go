package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"socialnet/internal/pagination"
	"socialnet/internal/service"
)

type followRequest struct {
	Followed string `json:"followed" form:"followed"`
}

func (h HandlerSet) Follow(c *gin.Context) {
	var req followRequest
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, service.ErrMissingFields)
		return
	}

	follow, err := h.svc.Follows.Follow(c.Request.Context(), currentIdentity(c).ID, req.Followed)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"follow": gin.H{
		"id":         follow.ID,
		"user":       follow.UserID,
		"followed":   follow.FollowedID,
		"created_at": follow.CreatedAt,
	}})
}

func (h HandlerSet) Unfollow(c *gin.Context) {
	if err := h.svc.Follows.Unfollow(c.Request.Context(), currentIdentity(c).ID, c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "El follow se ha eliminado"})
}

func (h HandlerSet) Following(c *gin.Context) {
	h.followPage(c, h.svc.Follows.Following, "No sigue a ningún usuario")
}

func (h HandlerSet) Followers(c *gin.Context) {
	h.followPage(c, h.svc.Follows.Followers, "No le sigue ningún usuario")
}

type followLister func(ctx context.Context, viewerID, userID string, page pagination.Page) (service.FollowList, error)

func (h HandlerSet) followPage(c *gin.Context, list followLister, emptyMessage string) {
	viewerID := currentIdentity(c).ID
	userID := c.Param("id")
	if userID == "" {
		userID = viewerID
	}
	page := pagination.Parse(c.Param("page"), c.Param("itemsPerPage"), pagination.DefaultFollows)

	result, err := list(c.Request.Context(), viewerID, userID, page)
	if err != nil {
		h.fail(c, err)
		return
	}

	writePage(c, result.Result, "follows", emptyMessage, newFollowResponse, gin.H{
		"users_following": result.Relations.Following,
		"users_follow_me": result.Relations.Followers,
	})
}

func (h HandlerSet) MyFollows(c *gin.Context) {
	followers := isTruthy(c.Param("followed"))

	views, err := h.svc.Follows.MyFollows(c.Request.Context(), currentIdentity(c).ID, followers)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"follows": mapSlice(views, newFollowResponse)})
}

func isTruthy(raw string) bool {
	if raw == "" {
		return false
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return true
}

package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"socialnet/internal/middleware"
	"socialnet/internal/security"
	"socialnet/internal/service"
)

type registerRequest struct {
	Name     string `json:"name" form:"name"`
	Surname  string `json:"surname" form:"surname"`
	Nick     string `json:"nick" form:"nick"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// truthy accepts true, "true", 1 or "1" and any other non-empty string.
type truthy bool

func (t *truthy) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch val := v.(type) {
	case bool:
		*t = truthy(val)
	case float64:
		*t = val != 0
	case string:
		b, err := strconv.ParseBool(val)
		*t = truthy(b || (err != nil && strings.TrimSpace(val) != ""))
	default:
		*t = false
	}
	return nil
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	GetToken truthy `json:"gettoken" form:"gettoken"`
}

type identityResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Nick    string `json:"nick"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Image   string `json:"image,omitempty"`
	Iat     int64  `json:"iat"`
	Exp     int64  `json:"exp"`
}

func (h HandlerSet) Home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "HOME Bienvenido al API REST de la Red Social"})
}

func (h HandlerSet) Pruebas(c *gin.Context) {
	identity := currentIdentity(c)
	c.JSON(http.StatusOK, gin.H{
		"message": "TEST Bienvenido al API REST de la Red Social",
		"user": identityResponse{
			ID:      identity.ID,
			Name:    identity.Name,
			Surname: identity.Surname,
			Nick:    identity.Nick,
			Email:   identity.Email,
			Role:    identity.Role,
			Image:   identity.Image,
			Iat:     identity.IssuedAt.Unix(),
			Exp:     identity.ExpiresAt.Unix(),
		},
	})
}

func (h HandlerSet) RegisterUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, service.ErrMissingFields)
		return
	}

	user, err := h.svc.Auth.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Surname:  req.Surname,
		Nick:     req.Nick,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(user)})
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, service.ErrMissingFields)
		return
	}

	result, err := h.svc.Auth.Login(c.Request.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		GetToken: bool(req.GetToken),
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	if result.Token != "" {
		c.JSON(http.StatusOK, gin.H{"token": result.Token})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Usuario identificado correctamente",
		"user":    newUserResponse(result.User),
	})
}

func currentIdentity(c *gin.Context) security.Identity {
	identity, _ := middleware.IdentityFrom(c)
	return identity
}

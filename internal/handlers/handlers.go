package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"socialnet/internal/config"
	"socialnet/internal/middleware"
	"socialnet/internal/security"
	"socialnet/internal/service"
)

// Services bundles the application services the HTTP layer calls into.
type Services struct {
	Auth         *service.AuthService
	Users        *service.UserService
	Follows      *service.FollowService
	Publications *service.PublicationService
	Messages     *service.MessageService
	Media        *service.MediaService
}

type HandlerSet struct {
	log     zerolog.Logger
	cfg     *config.AppConfig
	tokens  *security.TokenService
	limiter *middleware.RateLimiter
	svc     Services
	checks  HealthChecks
}

func NewHandlerSet(log zerolog.Logger, cfg *config.AppConfig, tokens *security.TokenService, svc Services, checks HealthChecks) HandlerSet {
	var limiter *middleware.RateLimiter
	if cfg.Security.AuthRateLimit > 0 {
		limiter = middleware.NewRateLimiter(cfg.Security.AuthRateLimit, cfg.Security.AuthRateBurst)
	}

	return HandlerSet{
		log:     log,
		cfg:     cfg,
		tokens:  tokens,
		limiter: limiter,
		svc:     svc,
		checks:  checks,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)
	router.GET("/home", h.Home)

	throttled := router.Group("")
	throttled.Use(h.limiter.Handler())
	throttled.POST("/register", h.RegisterUser)
	throttled.POST("/login", h.Login)

	router.GET("/get-image-user/:imageFile", h.UserImage)
	router.GET("/get-image-pub/:imageFile", h.PublicationImage)

	p := router.Group("")
	p.Use(middleware.Auth(h.tokens))
	{
		p.GET("/pruebas", h.Pruebas)
		p.GET("/prueba", h.Pruebas)

		p.GET("/user/:id", h.GetUser)
		p.GET("/users", h.ListUsers)
		p.GET("/users/:page", h.ListUsers)
		p.GET("/users/:page/:itemsPerPage", h.ListUsers)
		p.GET("/counters", h.Counters)
		p.GET("/counters/:id", h.Counters)
		p.PUT("/update-user/:id", h.UpdateUser)
		p.POST("/upload-image-user/:id", h.UploadUserImage)

		p.POST("/follow", h.Follow)
		p.DELETE("/follow/:id", h.Unfollow)
		p.GET("/following", h.Following)
		p.GET("/following/:id", h.Following)
		p.GET("/following/:id/:page", h.Following)
		p.GET("/following/:id/:page/:itemsPerPage", h.Following)
		p.GET("/followed", h.Followers)
		p.GET("/followed/:id", h.Followers)
		p.GET("/followed/:id/:page", h.Followers)
		p.GET("/followed/:id/:page/:itemsPerPage", h.Followers)
		p.GET("/get-my-follows", h.MyFollows)
		p.GET("/get-my-follows/:followed", h.MyFollows)

		p.POST("/publication", h.CreatePublication)
		p.GET("/publication/:id", h.GetPublication)
		p.DELETE("/publication/:id", h.DeletePublication)
		p.GET("/publications", h.Timeline)
		p.GET("/publications/:page", h.Timeline)
		p.GET("/publications/:page/:itemsPerPage", h.Timeline)
		p.GET("/publications-user/:user", h.PublicationsByUser)
		p.GET("/publications-user/:user/:page", h.PublicationsByUser)
		p.GET("/publications-user/:user/:page/:itemsPerPage", h.PublicationsByUser)
		p.POST("/upload-image-pub/:id", h.UploadPublicationImage)

		p.POST("/message", h.SendMessage)
		p.POST("/save-message", h.SendMessage)
		p.GET("/my-messages", h.ReceivedMessages)
		p.GET("/my-messages/:page", h.ReceivedMessages)
		p.GET("/my-messages/:page/:itemsPerPage", h.ReceivedMessages)
		p.GET("/messages", h.SentMessages)
		p.GET("/messages/:page", h.SentMessages)
		p.GET("/messages/:page/:itemsPerPage", h.SentMessages)
		p.GET("/unviewed-messages", h.UnviewedMessages)
		p.PUT("/set-viewed-messages", h.SetViewedMessages)
	}
}

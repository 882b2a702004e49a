package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"wishlist/api/internal/auth"
	"wishlist/api/internal/config"
	"wishlist/api/internal/middleware"
	"wishlist/api/internal/models"
	"wishlist/api/internal/service"
)

type UserAPI interface {
	Register(ctx context.Context, input service.RegisterInput) (service.AuthResult, error)
	Login(ctx context.Context, email, password string) (service.AuthResult, error)
	List(ctx context.Context, limit, offset int) (service.UserPage, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	UpdateByID(ctx context.Context, session auth.Session, id string, input service.ProfileUpdate) (models.User, error)
	DeleteByID(ctx context.Context, session auth.Session, id string) error
	SetRoles(ctx context.Context, session auth.Session, id string, roles []models.Role) (models.User, error)
	SetImage(ctx context.Context, session auth.Session, id string, upload service.ImageUpload) (models.User, error)
	ImageURL(ctx context.Context, id string) (string, error)
}

type GiftAPI interface {
	ListByUser(ctx context.Context, userID string, limit, offset int) (service.GiftPage, error)
	Create(ctx context.Context, session auth.Session, input service.CreateGiftInput) (models.Gift, error)
	GetByID(ctx context.Context, id string) (models.Gift, error)
	UpdateByID(ctx context.Context, id string, input service.GiftUpdate) (models.Gift, error)
	DeleteByID(ctx context.Context, session auth.Session, id string) error
}

// HealthCheck reports whether a backing service answers.
type HealthCheck func(ctx context.Context) error

type Deps struct {
	Users         UserAPI
	Gifts         GiftAPI
	Authenticator *auth.Authenticator
	AuthLimiter   *middleware.IPRateLimiter
	Checks        map[string]HealthCheck
}

type HandlerSet struct {
	log           zerolog.Logger
	cfg           *config.AppConfig
	users         UserAPI
	gifts         GiftAPI
	authenticator *auth.Authenticator
	authLimiter   *middleware.IPRateLimiter
	checks        map[string]HealthCheck
}

func NewHandlerSet(log zerolog.Logger, cfg *config.AppConfig, deps Deps) HandlerSet {
	return HandlerSet{
		log:           log,
		cfg:           cfg,
		users:         deps.Users,
		gifts:         deps.Gifts,
		authenticator: deps.Authenticator,
		authLimiter:   deps.AuthLimiter,
		checks:        deps.Checks,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	public := router.Group("/users")
	if h.authLimiter != nil {
		public.Use(middleware.RateLimit(h.authLimiter))
	}
	public.POST("/register", h.RegisterUser)
	public.POST("/login", h.Login)

	authenticated := middleware.Authenticate(h.authenticator)

	users := router.Group("/users", authenticated)
	users.GET("", h.ListUsers)
	users.GET("/:id", h.GetUser)
	users.PUT("/:id", h.UpdateUser)
	users.DELETE("/:id", h.DeleteUser)
	users.PUT("/:id/roles", middleware.RequireRoles(models.RoleAdmin), h.SetUserRoles)
	users.PUT("/:id/image", h.UploadUserImage)
	users.GET("/:id/image", h.GetUserImage)

	gifts := router.Group("/gifts", authenticated)
	gifts.POST("", h.CreateGift)
	gifts.GET("/:user_id", h.ListGifts)
	gifts.GET("/gift/:id", h.GetGift)
	gifts.PUT("/gift/:id", h.UpdateGift)
	gifts.DELETE("/gift/:id", h.DeleteGift)
}

// session is only called behind middleware.Authenticate.
func session(c *gin.Context) auth.Session {
	s, _ := middleware.CurrentSession(c)
	return s
}

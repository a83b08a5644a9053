package routes

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/LovationAdmin/birthday-api/handlers"
	"github.com/LovationAdmin/birthday-api/middleware"
	"github.com/LovationAdmin/birthday-api/repositories"
	"github.com/LovationAdmin/birthday-api/services"
	"github.com/LovationAdmin/birthday-api/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Deps is everything the HTTP layer needs from the outside.
type Deps struct {
	Store  repositories.Store
	Tokens *utils.TokenManager
	Cipher *utils.Cipher
	Email  *services.EmailService

	AllowRegister        bool
	RedactPublicContacts bool

	AllowedOrigins           []string
	TrustedProxies           []string
	RateLimitPerMinute       int
	PublicRateLimitPerMinute int
}

// App is the assembled router plus the long-lived pieces that need shutdown
// or background upkeep.
type App struct {
	Engine   *gin.Engine
	WS       *handlers.WSHandler
	limiters []*middleware.RateLimiter
}

// RunCleanup evicts idle rate limit entries until ctx is done.
func (a *App) RunCleanup(ctx context.Context) {
	for _, l := range a.limiters {
		go l.RunCleanup(ctx)
	}
}

func (a *App) Close() error {
	return a.WS.Close()
}

func NewRouter(deps Deps) *App {
	utils.ConfigureBinding()

	invitationService := services.NewInvitationService(deps.Store)
	visibilityService := services.NewVisibilityService(deps.Store, deps.RedactPublicContacts)
	wsHandler := handlers.NewWSHandler(invitationService)

	var notifier services.RSVPNotifier
	if deps.Email.Enabled() {
		notifier = deps.Email
	}
	rsvpService := services.NewRSVPService(deps.Store, notifier, wsHandler)

	globalLimiter := middleware.NewRateLimiter(deps.RateLimitPerMinute)
	publicLimiter := middleware.NewRateLimiter(deps.PublicRateLimitPerMinute)

	router := gin.New()
	if err := router.SetTrustedProxies(deps.TrustedProxies); err != nil {
		slog.Error("invalid trusted proxies, trusting none", "err", err)
		_ = router.SetTrustedProxies(nil)
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())
	if len(deps.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     deps.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	router.Use(globalLimiter.Middleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	v1 := router.Group("/api/v1")
	{
		SetupAuthRoutes(v1, deps)

		public := v1.Group("/public")
		public.Use(publicLimiter.Middleware())
		SetupPublicRoutes(public, rsvpService, visibilityService)

		protected := v1.Group("/")
		protected.Use(middleware.AuthMiddleware(deps.Tokens))
		{
			SetupUserRoutes(protected, deps)
			SetupInvitationRoutes(protected, invitationService, visibilityService)
			SetupAdminRoutes(protected, deps)
			protected.GET("/ws/invitations/:id", wsHandler.HandleWS)
		}
	}

	return &App{
		Engine:   router,
		WS:       wsHandler,
		limiters: []*middleware.RateLimiter{globalLimiter, publicLimiter},
	}
}

// SetupAuthRoutes mounts login and registration plus the authenticated
// profile endpoints under /auth.
func SetupAuthRoutes(rg *gin.RouterGroup, deps Deps) {
	authService := services.NewAuthService(deps.Store, deps.Tokens, deps.Cipher, deps.AllowRegister)
	userService := services.NewUserService(deps.Store, deps.Cipher)
	h := handlers.NewAuthHandler(authService, userService)

	rg.POST("/auth/register", h.Register)
	rg.POST("/auth/login", h.Login)

	authed := rg.Group("/auth")
	authed.Use(middleware.AuthMiddleware(deps.Tokens))
	authed.GET("/me", h.Me)
	authed.POST("/change-password", h.ChangePassword)
	authed.PUT("/update-profile", h.UpdateProfile)
}

// SetupPublicRoutes mounts the unauthenticated sharing endpoints.
func SetupPublicRoutes(rg *gin.RouterGroup, rsvp *services.RSVPService, visibility *services.VisibilityService) {
	h := handlers.NewPublicHandler(rsvp, visibility)

	rg.GET("/invitations/:code", h.GetInvitation)
	rg.POST("/invitations/:code/rsvp", h.SubmitRSVP)
	rg.GET("/invitations/:code/guests", h.GetGuests)
}

// SetupUserRoutes sets up protected user routes.
func SetupUserRoutes(rg *gin.RouterGroup, deps Deps) {
	h := handlers.NewUserHandler(services.NewUserService(deps.Store, deps.Cipher))

	rg.POST("/user/2fa/setup", h.SetupTOTP)
	rg.POST("/user/2fa/verify", h.VerifyTOTP)
	rg.POST("/user/2fa/disable", h.DisableTOTP)
	rg.DELETE("/user/account", h.DeleteAccount)
	rg.GET("/user/export", h.ExportUserData)
}

// SetupInvitationRoutes sets up the owner's invitation management routes.
func SetupInvitationRoutes(rg *gin.RouterGroup, invitations *services.InvitationService, visibility *services.VisibilityService) {
	h := handlers.NewInvitationHandler(invitations, visibility)

	rg.POST("/invitations", h.CreateInvitation)
	rg.GET("/invitations", h.ListInvitations)
	rg.GET("/invitations/:id", h.GetInvitation)
	rg.PUT("/invitations/:id", h.UpdateInvitation)
	rg.DELETE("/invitations/:id", h.DeleteInvitation)
	rg.POST("/invitations/:id/publish", h.PublishInvitation)
	rg.GET("/invitations/:id/guests", h.GetGuests)
}

// SetupAdminRoutes sets up template management and owner statistics.
func SetupAdminRoutes(rg *gin.RouterGroup, deps Deps) {
	h := handlers.NewTemplateHandler(
		services.NewTemplateService(deps.Store),
		services.NewStatsService(deps.Store),
	)

	rg.POST("/admin/templates", h.CreateTemplate)
	rg.GET("/admin/templates", h.ListTemplates)
	rg.GET("/admin/templates/:id", h.GetTemplate)
	rg.PUT("/admin/templates/:id", h.UpdateTemplate)
	rg.DELETE("/admin/templates/:id", h.DeleteTemplate)
	rg.GET("/admin/stats", h.GetStats)
}
